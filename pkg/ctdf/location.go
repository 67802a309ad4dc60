package ctdf

import "math"

const earthRadiusMetres = 6371000.0

type Location struct {
	Type        string    `json:"-" groups:"basic"`
	Coordinates []float64 `json:"coordinates" groups:"basic"`
}

func NewPointLocation(latitude float64, longitude float64) *Location {
	return &Location{
		Type:        "Point",
		Coordinates: []float64{longitude, latitude},
	}
}

func (l *Location) Latitude() float64 {
	return l.Coordinates[1]
}

func (l *Location) Longitude() float64 {
	return l.Coordinates[0]
}

func (l *Location) Valid() bool {
	return l != nil && len(l.Coordinates) == 2
}

// DistanceTo is the great circle distance in metres
func (l *Location) DistanceTo(other *Location) float64 {
	dLat := toRadians(other.Latitude() - l.Latitude())
	dLon := toRadians(other.Longitude() - l.Longitude())

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(l.Latitude()))*math.Cos(toRadians(other.Latitude()))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusMetres * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

type BoundingBox struct {
	MinLatitude  float64 `yaml:"min_latitude"`
	MinLongitude float64 `yaml:"min_longitude"`
	MaxLatitude  float64 `yaml:"max_latitude"`
	MaxLongitude float64 `yaml:"max_longitude"`
}

func (b BoundingBox) Contains(l *Location) bool {
	if !l.Valid() {
		return false
	}

	return l.Latitude() >= b.MinLatitude && l.Latitude() <= b.MaxLatitude &&
		l.Longitude() >= b.MinLongitude && l.Longitude() <= b.MaxLongitude
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
