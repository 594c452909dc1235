package sede

import "errors"

var (
	ErrSedeNotFound   = errors.New("sede not found")
	ErrSedeNameExists = errors.New("sede with this name already exists")
)
