package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters(t *testing.T) {
	principal := Point{Lat: 7.31182, Lng: -72.48478}
	norte := Point{Lat: 4.6597, Lng: -74.0517}

	t.Run("same point is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, DistanceMeters(principal, principal))
	})

	t.Run("symmetric", func(t *testing.T) {
		assert.InDelta(t, DistanceMeters(principal, norte), DistanceMeters(norte, principal), 1e-9)
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		d := DistanceMeters(Point{Lat: 0, Lng: 0}, Point{Lat: 1, Lng: 0})
		assert.InEpsilon(t, 111320.0, d, 0.01)
	})

	t.Run("antipodal points stay finite", func(t *testing.T) {
		for lat := -90.0; lat <= 90.0; lat += 7.5 {
			for lng := -180.0; lng <= 0.0; lng += 15 {
				d := DistanceMeters(Point{Lat: lat, Lng: lng}, Point{Lat: -lat, Lng: lng + 180})
				assert.False(t, math.IsNaN(d), "lat=%v lng=%v", lat, lng)
				assert.InEpsilon(t, math.Pi*earthRadius, d, 1e-6, "lat=%v lng=%v", lat, lng)
			}
		}
	})

	t.Run("non finite input propagates NaN", func(t *testing.T) {
		d := DistanceMeters(Point{Lat: math.NaN(), Lng: 0}, principal)
		assert.True(t, math.IsNaN(d))
	})
}

func TestIsWithinRadius(t *testing.T) {
	center := Point{Lat: 4.6597, Lng: -74.0517}
	// roughly 55 m north of center
	near := Point{Lat: 4.6602, Lng: -74.0517}
	// roughly 1.1 km north of center
	far := Point{Lat: 4.6697, Lng: -74.0517}

	cases := []struct {
		name    string
		subject Point
		radius  float64
		want    bool
	}{
		{"center itself", center, 0, true},
		{"near inside default radius", near, DefaultRadiusMeters, true},
		{"far outside default radius", far, DefaultRadiusMeters, false},
		{"far inside wide radius", far, 2000, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, IsWithinRadius(c.subject, center, c.radius))
		})
	}

	t.Run("boundary is inside", func(t *testing.T) {
		d := DistanceMeters(near, center)
		assert.True(t, IsWithinRadius(near, center, d))
		assert.False(t, IsWithinRadius(near, center, d-0.001))
	})
}

func TestEffectiveRadius(t *testing.T) {
	assert.Equal(t, DefaultRadiusMeters, EffectiveRadius(0))
	assert.Equal(t, DefaultRadiusMeters, EffectiveRadius(-5))
	assert.Equal(t, 250.0, EffectiveRadius(250))
}

func TestPointValidate(t *testing.T) {
	assert.NoError(t, Point{Lat: 4.6, Lng: -74}.Validate())
	assert.ErrorIs(t, Point{Lat: math.Inf(1), Lng: 0}.Validate(), ErrNonFiniteCoordinate)
	assert.ErrorIs(t, Point{Lat: 91, Lng: 0}.Validate(), ErrLatitudeOutOfRange)
	assert.ErrorIs(t, Point{Lat: 0, Lng: -181}.Validate(), ErrLongitudeOutOfRange)
}
