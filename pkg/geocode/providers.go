package geocode

import (
	"errors"
	"fmt"

	"github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/google"
	"github.com/codingsince1985/geo-golang/openstreetmap"
)

const (
	ProviderGoogle        = "google"
	ProviderOpenstreetmap = "openstreetmap"
)

var ErrNotFound = errors.New("geocode: no results")

func NewOpenstreetmapClient() *gc {
	return &gc{geocoder: openstreetmap.Geocoder(), provider: ProviderOpenstreetmap}
}

// NewGoogleClient geocodes through the Google Geocoding API. geo-golang maps
// ZERO_RESULTS to ErrNotFound and any other non-OK status to an opaque
// "geocoding error: STATUS", so use gmaps when the status matters.
func NewGoogleClient(apiKey string) *gc {
	return &gc{geocoder: google.Geocoder(apiKey), provider: ProviderGoogle}
}

type gc struct {
	geocoder geo.Geocoder
	provider string
}

var _ Client = (*gc)(nil)

func (c *gc) Geocode(query string) (*Location, error) {
	location, err := c.geocoder.Geocode(query)
	if err != nil {
		return nil, fmt.Errorf("%s geocode: %w", c.provider, err)
	}

	if location == nil {
		return nil, fmt.Errorf("%s: %w for %q", c.provider, ErrNotFound, query)
	}

	loc := &Location{
		Provider:  c.provider,
		Latitude:  location.Lat,
		Longitude: location.Lng,
		Name:      query,
	}

	address, err := c.geocoder.ReverseGeocode(location.Lat, location.Lng)
	if err == nil && address != nil {
		loc.Country = address.Country
		loc.CountryCode = address.CountryCode
	}

	return loc, nil
}

func (c *gc) ReverseGeocode(lat, lon float64) (*Location, error) {
	address, err := c.geocoder.ReverseGeocode(lat, lon)
	if err != nil {
		return nil, fmt.Errorf("%s reverse geocode: %w", c.provider, err)
	}

	if address == nil {
		return nil, fmt.Errorf("%s: %w at %f,%f", c.provider, ErrNotFound, lat, lon)
	}

	return &Location{
		Provider:    c.provider,
		Latitude:    lat,
		Longitude:   lon,
		Name:        address.FormattedAddress,
		Country:     address.Country,
		CountryCode: address.CountryCode,
	}, nil
}
