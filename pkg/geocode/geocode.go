package geocode

import "math"

type Client interface {
	Geocode(query string) (*Location, error)
	ReverseGeocode(lat, long float64) (*Location, error)
}

type Location struct {
	Provider    string  `json:"provider"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lng"`
	Name        string  `json:"name"`
	Country     string  `json:"country,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
}

const earthRadiusKm = 6371.0

// DistanceKm is the haversine distance between two locations.
func DistanceKm(a, b *Location) float64 {
	dLat := (b.Latitude - a.Latitude) * (math.Pi / 180.0)
	dLon := (b.Longitude - a.Longitude) * (math.Pi / 180.0)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Latitude*(math.Pi/180.0))*math.Cos(b.Latitude*(math.Pi/180.0))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
