// Package geo computes distances between breakdown sites and mechanics.
package geo

import (
	"math"
	"sort"

	"github.com/twpayne/go-geom"

	"roadcall/internal/models"
)

const earthRadiusKm = 6371.0

// Coord converts a model location into a geom coordinate (x=lng, y=lat).
func Coord(loc models.Location) geom.Coord {
	return geom.Coord{loc.Longitude, loc.Latitude}
}

// HaversineKm returns the great-circle distance between two WGS84
// coordinates in kilometres.
func HaversineKm(a, b geom.Coord) float64 {
	lat1 := a.Y() * math.Pi / 180
	lat2 := b.Y() * math.Pi / 180
	dLat := (b.Y() - a.Y()) * math.Pi / 180
	dLng := (b.X() - a.X()) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// MechanicDistance pairs a mechanic with their distance from a breakdown.
type MechanicDistance struct {
	Mechanic models.Mechanic `json:"mechanic"`
	Km       float64         `json:"distance_km"`
}

// Nearest returns the mechanics that advertise a location, sorted by
// distance from the given point, closest first. Mechanics without a
// location are skipped rather than sorted arbitrarily.
func Nearest(from models.Location, mechanics []models.Mechanic) []MechanicDistance {
	origin := Coord(from)
	out := make([]MechanicDistance, 0, len(mechanics))
	for _, mech := range mechanics {
		if mech.Location == nil {
			continue
		}
		out = append(out, MechanicDistance{
			Mechanic: mech,
			Km:       HaversineKm(origin, Coord(*mech.Location)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Km < out[j].Km })
	return out
}
