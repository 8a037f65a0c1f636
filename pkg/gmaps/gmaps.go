// Package gmaps is the small slice of the Google Maps web services that the
// smoke runs exercise.
//
// Non-OK API statuses such as ZERO_RESULTS or REQUEST_DENIED are not errors:
// they are returned in Response.Status for the caller to inspect. Errors are
// reserved for transport and decoding failures.
package gmaps

import (
	"context"
	"strconv"
	"time"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com"

	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)

type Geocoder interface {
	Geocode(ctx context.Context, address string) (*GeocodeResponse, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodeResponse, error)

	// StaticMapURL composes a Static Maps URL locally. The URL embeds the API
	// key and must be redacted before it is shown.
	StaticMapURL(r StaticMapRequest) (string, error)
}

type Client interface {
	Geocoder
	Directions(ctx context.Context, r *DirectionsRequest) (*DirectionsResponse, error)
	DistanceMatrix(ctx context.Context, r *DistanceMatrixRequest) (*DistanceMatrixResponse, error)
	TextSearch(ctx context.Context, r *TextSearchRequest) (*PlacesResponse, error)
	PlaceDetails(ctx context.Context, r *PlaceDetailsRequest) (*PlaceDetailsResponse, error)
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String formats the pair the way the Maps APIs expect it, "lat,lng".
func (l LatLng) String() string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lng, 'f', -1, 64)
}

// Response is the envelope shared by every Maps JSON response.
type Response struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func (r Response) OK() bool {
	return r.Status == StatusOK
}

type Place struct {
	PlaceID          string  `json:"place_id"`
	Name             string  `json:"name,omitempty"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
	Location         *LatLng `json:"location,omitempty"`
	Rating           float32 `json:"rating,omitempty"`
	OpenNow          *bool   `json:"open_now,omitempty"`
}

type GeocodeResponse struct {
	Response
	Results []Place
}

// FirstLocation returns the location of the first result, or nil.
func (r *GeocodeResponse) FirstLocation() *LatLng {
	if r == nil || len(r.Results) == 0 {
		return nil
	}

	return r.Results[0].Location
}

type DirectionsRequest struct {
	Origin      string
	Destination string
	Mode        string
}

type Route struct {
	Summary        string
	DistanceMeters int
	Duration       time.Duration
}

type DirectionsResponse struct {
	Response
	Routes []Route
}

type DistanceMatrixRequest struct {
	Origins      []string
	Destinations []string
	Mode         string
	Units        string
}

type Element struct {
	Status         string
	DistanceMeters int
	Duration       time.Duration
}

type DistanceMatrixResponse struct {
	Response
	OriginAddresses      []string
	DestinationAddresses []string
	Rows                 [][]Element
}

type TextSearchRequest struct {
	Query    string
	Location *LatLng
	Radius   uint
	OpenNow  bool
	Type     string
}

type PlacesResponse struct {
	Response
	Results []Place
}

// FirstPlaceID returns the place id of the first result or "" when there is
// none.
func FirstPlaceID(r *PlacesResponse) string {
	if r == nil || len(r.Results) == 0 {
		return ""
	}

	return r.Results[0].PlaceID
}

type PlaceDetailsRequest struct {
	PlaceID string
	Fields  []string
}

type PlaceDetailsResponse struct {
	Response
	Place *Place
}
