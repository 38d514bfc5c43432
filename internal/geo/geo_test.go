package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadcall/internal/models"
)

func TestHaversineKm(t *testing.T) {
	manila := Coord(models.Location{Latitude: 14.5995, Longitude: 120.9842})
	quezon := Coord(models.Location{Latitude: 14.6760, Longitude: 121.0437})

	// Manila to Quezon City is roughly 10.5 km.
	assert.InDelta(t, 10.5, HaversineKm(manila, quezon), 1.0)
	assert.Zero(t, HaversineKm(manila, manila))
}

func TestNearestSortsByDistance(t *testing.T) {
	from := models.Location{Latitude: 14.6, Longitude: 121.0}
	mechanics := []models.Mechanic{
		{ID: "far", Location: &models.Location{Latitude: 15.5, Longitude: 121.0}},
		{ID: "near", Location: &models.Location{Latitude: 14.61, Longitude: 121.0}},
		{ID: "no-location"},
		{ID: "mid", Location: &models.Location{Latitude: 14.9, Longitude: 121.0}},
	}

	out := Nearest(from, mechanics)
	require.Len(t, out, 3, "mechanics without a location are skipped")
	assert.Equal(t, "near", out[0].Mechanic.ID)
	assert.Equal(t, "mid", out[1].Mechanic.ID)
	assert.Equal(t, "far", out[2].Mechanic.ID)
	assert.Less(t, out[0].Km, out[1].Km)
}

func TestNearestEmpty(t *testing.T) {
	out := Nearest(models.Location{}, nil)
	assert.Empty(t, out)
}
