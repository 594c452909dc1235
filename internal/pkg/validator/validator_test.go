package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("1234"))
	assert.False(t, IsNumeric("12a4"))
	assert.False(t, IsNumeric(""))
}

func TestIsValidDate(t *testing.T) {
	_, ok := IsValidDate("2026-02-28")
	assert.True(t, ok)
	_, ok = IsValidDate("2026-02-30")
	assert.False(t, ok)
	_, ok = IsValidDate("28/02/2026")
	assert.False(t, ok)
}

func TestIsValidDateTime(t *testing.T) {
	_, ok := IsValidDateTime("2026-01-15T10:30:00-05:00")
	assert.True(t, ok)
	_, ok = IsValidDateTime("2026-01-15 10:30")
	assert.False(t, ok)
}

func TestIsInSlice(t *testing.T) {
	assert.True(t, IsInSlice("in", []string{"in", "out"}))
	assert.False(t, IsInSlice("break", []string{"in", "out"}))
}

type sampleRequest struct {
	Name     string  `json:"name" validate:"required,max=10"`
	Role     string  `json:"role" validate:"required,oneof=admin employee"`
	Latitude float64 `json:"latitude" validate:"latitude"`
	Date     string  `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func TestStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		err := Struct(&sampleRequest{Name: "Juan", Role: "admin", Latitude: 4.6})
		assert.NoError(t, err)
	})

	t.Run("reports json field names", func(t *testing.T) {
		err := Struct(&sampleRequest{Role: "boss", Latitude: 120, Date: "01/02/2026"})
		require.Error(t, err)

		var ve ValidationErrors
		require.True(t, errors.As(err, &ve))
		m := ve.ToMap()
		assert.Equal(t, "name is required", m["name"])
		assert.Equal(t, "role must be one of: admin, employee", m["role"])
		assert.Equal(t, "latitude must be between -90 and 90", m["latitude"])
		assert.Equal(t, "date must match format 2006-01-02", m["date"])
	})
}

func TestMerge(t *testing.T) {
	assert.NoError(t, Merge(nil, nil))

	extra := ValidationErrors{{Field: "photo", Message: "photo is required"}}
	err := Merge(ValidationErrors{{Field: "type", Message: "type is required"}}, extra)
	var ve ValidationErrors
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve, 2)

	plain := errors.New("boom")
	assert.Equal(t, plain, Merge(plain, extra))
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "name", Message: "required"},
		{Field: "pin", Message: "too short"},
	}
	assert.Equal(t, "name: required; pin: too short", errs.Error())
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{{Field: "name", Message: "required"}}
	assert.Equal(t, map[string]string{"name": "required"}, errs.ToMap())
}
