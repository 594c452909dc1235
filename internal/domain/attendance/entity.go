package attendance

import (
	"time"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/geo"
)

type RecordType string

const (
	TypeIn  RecordType = "in"
	TypeOut RecordType = "out"
)

func (t RecordType) IsValid() bool {
	return t == TypeIn || t == TypeOut
}

type Location struct {
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	Accuracy *float64 `json:"accuracy,omitempty"`
}

func (l Location) Point() geo.Point {
	return geo.Point{Lat: l.Lat, Lng: l.Lng}
}

// Record is one immutable clock event. Date is the civil date of Timestamp
// at the time it was recorded.
type Record struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	UserName  string     `json:"user_name"`
	Type      RecordType `json:"type"`
	Timestamp time.Time  `json:"timestamp"`
	Date      string     `json:"date"`
	Location  Location   `json:"location"`
	PhotoURL  *string    `json:"photo_url,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
