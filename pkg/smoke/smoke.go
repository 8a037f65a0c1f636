// Package smoke runs fixed sequences of Maps operations and summarises the
// response statuses. Calls are issued one after the other; a run is
// independent of any other.
package smoke

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/segmentio/ksuid"

	"github.com/manzanit0/mapsmoke/pkg/gmaps"
	"github.com/manzanit0/mapsmoke/pkg/redact"
)

const (
	KindSamples  = "samples"
	KindGeocode  = "geocode"
	KindKeyCheck = "keycheck"

	DefaultAddress = "1600 Amphitheatre Parkway, Mountain View, CA"
)

var Googleplex = gmaps.LatLng{Lat: 37.4225123, Lng: -122.0855885}

// Report is what every run produces. Rows feed the table output.
type Report interface {
	ID() string
	Kind() string
	Rows() [][]string
}

type SamplesReport struct {
	RunID string `json:"-"`

	DirectionsStatus     string  `json:"directions_status"`
	DistanceMatrixStatus string  `json:"distance_matrix_status"`
	PlacesStatus         string  `json:"places_status"`
	PlaceDetailsStatus   *string `json:"place_details_status"`
	ReverseGeocodeStatus string  `json:"reverse_geocode_status"`
	StaticMapURL         *string `json:"static_map_url"`
}

func (r *SamplesReport) ID() string   { return r.RunID }
func (r *SamplesReport) Kind() string { return KindSamples }

func (r *SamplesReport) Rows() [][]string {
	return [][]string{
		{"directions_status", r.DirectionsStatus},
		{"distance_matrix_status", r.DistanceMatrixStatus},
		{"places_status", r.PlacesStatus},
		{"place_details_status", deref(r.PlaceDetailsStatus)},
		{"reverse_geocode_status", r.ReverseGeocodeStatus},
		{"static_map_url", deref(r.StaticMapURL)},
	}
}

// RunSamples exercises directions, distance matrix, places search, place
// details, reverse geocoding and static map composition.
func RunSamples(ctx context.Context, c gmaps.Client) (*SamplesReport, error) {
	r := &SamplesReport{RunID: ksuid.New().String()}
	l := slog.Default().With("run_id", r.RunID, "kind", KindSamples)

	directions, err := c.Directions(ctx, &gmaps.DirectionsRequest{
		Origin:      "San Francisco, CA",
		Destination: "San Jose, CA",
		Mode:        "driving",
	})
	if err != nil {
		return nil, err
	}
	r.DirectionsStatus = directions.Status

	matrix, err := c.DistanceMatrix(ctx, &gmaps.DistanceMatrixRequest{
		Origins:      []string{"San Francisco, CA", "Oakland, CA"},
		Destinations: []string{"San Jose, CA", "Palo Alto, CA"},
		Mode:         "driving",
		Units:        "imperial",
	})
	if err != nil {
		return nil, err
	}
	r.DistanceMatrixStatus = matrix.Status

	places, err := c.TextSearch(ctx, &gmaps.TextSearchRequest{
		Query:    "coffee near Mountain View CA",
		Location: &gmaps.LatLng{Lat: 37.3861, Lng: -122.0839},
		Radius:   2000,
		OpenNow:  true,
		Type:     "cafe",
	})
	if err != nil {
		return nil, err
	}
	r.PlacesStatus = places.Status

	// Details are optional: no place id or a failed call leaves them null.
	if id := gmaps.FirstPlaceID(places); id != "" {
		details, err := c.PlaceDetails(ctx, &gmaps.PlaceDetailsRequest{
			PlaceID: id,
			Fields:  []string{"name", "formatted_address", "geometry", "rating", "opening_hours"},
		})
		if err != nil {
			l.WarnContext(ctx, "place details failed", "error", err.Error())
		} else {
			r.PlaceDetailsStatus = &details.Status
		}
	}

	reverse, err := c.ReverseGeocode(ctx, Googleplex.Lat, Googleplex.Lng)
	if err != nil {
		return nil, err
	}
	r.ReverseGeocodeStatus = reverse.Status

	raw, err := c.StaticMapURL(gmaps.StaticMapRequest{
		Center:  Googleplex.String(),
		Zoom:    15,
		Size:    "640x400",
		Markers: []string{gmaps.Marker("red", Googleplex)},
	})
	if err != nil {
		l.WarnContext(ctx, "static map url failed", "error", err.Error())
	} else {
		r.StaticMapURL = safeURL(ctx, l, raw)
	}

	l.InfoContext(ctx, "samples run finished")
	return r, nil
}

type GeocodeReport struct {
	RunID string `json:"-"`
	kind  string

	GeocodeStatus   string        `json:"geocode_status"`
	ErrorMessage    *string       `json:"error_message"`
	GeocodeLocation *gmaps.LatLng `json:"geocode_location"`
	StaticMapURL    *string       `json:"static_map_url"`
}

func (r *GeocodeReport) ID() string { return r.RunID }

func (r *GeocodeReport) Kind() string {
	if r.kind == "" {
		return KindGeocode
	}

	return r.kind
}

func (r *GeocodeReport) Rows() [][]string {
	loc := ""
	if r.GeocodeLocation != nil {
		loc = r.GeocodeLocation.String()
	}

	return [][]string{
		{"geocode_status", r.GeocodeStatus},
		{"error_message", deref(r.ErrorMessage)},
		{"geocode_location", loc},
		{"static_map_url", deref(r.StaticMapURL)},
	}
}

// RunGeocode geocodes address and, when a location comes back, composes a
// static map centered on it.
func RunGeocode(ctx context.Context, g gmaps.Geocoder, address string) (*GeocodeReport, error) {
	return runGeocode(ctx, g, address, KindGeocode)
}

// RunKeyCheck is RunGeocode for a Geocoder that talks to the HTTP endpoint
// directly. Only the recorded kind differs.
func RunKeyCheck(ctx context.Context, g gmaps.Geocoder, address string) (*GeocodeReport, error) {
	return runGeocode(ctx, g, address, KindKeyCheck)
}

func runGeocode(ctx context.Context, g gmaps.Geocoder, address, kind string) (*GeocodeReport, error) {
	if address == "" {
		address = DefaultAddress
	}

	r := &GeocodeReport{RunID: ksuid.New().String(), kind: kind}
	l := slog.Default().With("run_id", r.RunID, "kind", kind)

	res, err := g.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}

	r.GeocodeStatus = res.Status
	if res.ErrorMessage != "" {
		r.ErrorMessage = &res.ErrorMessage
	}

	r.GeocodeLocation = res.FirstLocation()
	if r.GeocodeLocation == nil {
		l.InfoContext(ctx, "geocode returned no location", "status", res.Status)
		return r, nil
	}

	raw, err := g.StaticMapURL(gmaps.StaticMapRequest{
		Center:  r.GeocodeLocation.String(),
		Zoom:    15,
		Size:    "640x400",
		Markers: []string{gmaps.Marker("red", *r.GeocodeLocation)},
	})
	if err != nil {
		l.WarnContext(ctx, "static map url failed", "error", err.Error())
		return r, nil
	}

	r.StaticMapURL = safeURL(ctx, l, raw)

	l.InfoContext(ctx, "geocode run finished", "status", r.GeocodeStatus)
	return r, nil
}

// safeURL never returns the unredacted URL: when redaction fails the URL is
// dropped.
func safeURL(ctx context.Context, l *slog.Logger, raw string) *string {
	s, err := redact.URL(raw)
	if err != nil {
		l.WarnContext(ctx, "dropping static map url", "error", err.Error())
		return nil
	}

	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// Errorf wraps a failed run, redacting any URL in err.
func Errorf(kind string, err error) error {
	return fmt.Errorf("%s run: %w", kind, redact.Error(err))
}
