package gmaps

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"googlemaps.github.io/maps"

	"github.com/manzanit0/mapsmoke/pkg/redact"
)

// The library reports non-OK statuses as errors shaped "maps: STATUS - msg".
var statusErrorRe = regexp.MustCompile(`^maps: ([A-Z_]+) - (.*)$`)

type Option func(*options)

type options struct {
	baseURL    string
	httpClient *http.Client
}

// WithBaseURL points the client at another host, e.g. an httptest server.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

func WithHTTPClient(h *http.Client) Option {
	return func(o *options) { o.httpClient = h }
}

func newOptions(opts []Option) *options {
	o := &options{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// NewLibraryClient returns a Client backed by googlemaps.github.io/maps.
func NewLibraryClient(apiKey string, opts ...Option) (*lc, error) {
	o := newOptions(opts)

	mopts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if o.baseURL != DefaultBaseURL {
		mopts = append(mopts, maps.WithBaseURL(o.baseURL))
	}
	if o.httpClient != nil {
		mopts = append(mopts, maps.WithHTTPClient(o.httpClient))
	}

	c, err := maps.NewClient(mopts...)
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}

	return &lc{maps: c, apiKey: apiKey, baseURL: o.baseURL}, nil
}

type lc struct {
	maps    *maps.Client
	apiKey  string
	baseURL string
}

var _ Client = (*lc)(nil)

func (c *lc) Geocode(ctx context.Context, address string) (*GeocodeResponse, error) {
	results, err := c.maps.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	return toGeocodeResponse(results, err)
}

func (c *lc) ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodeResponse, error) {
	results, err := c.maps.ReverseGeocode(ctx, &maps.GeocodingRequest{LatLng: &maps.LatLng{Lat: lat, Lng: lng}})
	return toGeocodeResponse(results, err)
}

func toGeocodeResponse(results []maps.GeocodingResult, err error) (*GeocodeResponse, error) {
	res, err := status(len(results), err)
	if err != nil {
		return nil, fmt.Errorf("geocode: %w", err)
	}

	out := &GeocodeResponse{Response: res}
	for _, r := range results {
		out.Results = append(out.Results, Place{
			PlaceID:          r.PlaceID,
			FormattedAddress: r.FormattedAddress,
			Location:         &LatLng{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
		})
	}

	return out, nil
}

func (c *lc) Directions(ctx context.Context, r *DirectionsRequest) (*DirectionsResponse, error) {
	routes, _, err := c.maps.Directions(ctx, &maps.DirectionsRequest{
		Origin:      r.Origin,
		Destination: r.Destination,
		Mode:        maps.Mode(r.Mode),
	})

	res, err := status(len(routes), err)
	if err != nil {
		return nil, fmt.Errorf("directions: %w", err)
	}

	out := &DirectionsResponse{Response: res}
	for _, route := range routes {
		rt := Route{Summary: route.Summary}
		for _, leg := range route.Legs {
			rt.DistanceMeters += leg.Distance.Meters
			rt.Duration += leg.Duration
		}
		out.Routes = append(out.Routes, rt)
	}

	return out, nil
}

func (c *lc) DistanceMatrix(ctx context.Context, r *DistanceMatrixRequest) (*DistanceMatrixResponse, error) {
	resp, err := c.maps.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      r.Origins,
		Destinations: r.Destinations,
		Mode:         maps.Mode(r.Mode),
		Units:        maps.Units(r.Units),
	})

	rows := 0
	if resp != nil {
		rows = len(resp.Rows)
	}

	res, err := status(rows, err)
	if err != nil {
		return nil, fmt.Errorf("distance matrix: %w", err)
	}

	out := &DistanceMatrixResponse{Response: res}
	if resp == nil {
		return out, nil
	}

	out.OriginAddresses = resp.OriginAddresses
	out.DestinationAddresses = resp.DestinationAddresses
	for _, row := range resp.Rows {
		elements := make([]Element, 0, len(row.Elements))
		for _, e := range row.Elements {
			elements = append(elements, Element{
				Status:         e.Status,
				DistanceMeters: e.Distance.Meters,
				Duration:       e.Duration,
			})
		}
		out.Rows = append(out.Rows, elements)
	}

	return out, nil
}

func (c *lc) TextSearch(ctx context.Context, r *TextSearchRequest) (*PlacesResponse, error) {
	req := &maps.TextSearchRequest{
		Query:   r.Query,
		Radius:  r.Radius,
		OpenNow: r.OpenNow,
		Type:    maps.PlaceType(r.Type),
	}
	if r.Location != nil {
		req.Location = &maps.LatLng{Lat: r.Location.Lat, Lng: r.Location.Lng}
	}

	resp, err := c.maps.TextSearch(ctx, req)

	res, err := status(len(resp.Results), err)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}

	out := &PlacesResponse{Response: res}
	for _, p := range resp.Results {
		place := Place{
			PlaceID:          p.PlaceID,
			Name:             p.Name,
			FormattedAddress: p.FormattedAddress,
			Location:         &LatLng{Lat: p.Geometry.Location.Lat, Lng: p.Geometry.Location.Lng},
			Rating:           p.Rating,
		}
		if p.OpeningHours != nil {
			place.OpenNow = p.OpeningHours.OpenNow
		}
		out.Results = append(out.Results, place)
	}

	return out, nil
}

func (c *lc) PlaceDetails(ctx context.Context, r *PlaceDetailsRequest) (*PlaceDetailsResponse, error) {
	fields := make([]maps.PlaceDetailsFieldMask, 0, len(r.Fields))
	for _, f := range r.Fields {
		mask, err := maps.ParsePlaceDetailsFieldMask(f)
		if err != nil {
			return nil, fmt.Errorf("place details: %w", err)
		}
		fields = append(fields, mask)
	}

	p, err := c.maps.PlaceDetails(ctx, &maps.PlaceDetailsRequest{PlaceID: r.PlaceID, Fields: fields})

	// ZERO_RESULTS comes back as an empty result with a nil error.
	found := 0
	if p.PlaceID != "" {
		found = 1
	}

	res, err := status(found, err)
	if err != nil {
		return nil, fmt.Errorf("place details: %w", err)
	}

	out := &PlaceDetailsResponse{Response: res}
	if res.OK() {
		out.Place = &Place{
			PlaceID:          p.PlaceID,
			Name:             p.Name,
			FormattedAddress: p.FormattedAddress,
			Location:         &LatLng{Lat: p.Geometry.Location.Lat, Lng: p.Geometry.Location.Lng},
			Rating:           p.Rating,
		}
		if p.OpeningHours != nil {
			out.Place.OpenNow = p.OpeningHours.OpenNow
		}
	}

	return out, nil
}

func (c *lc) StaticMapURL(r StaticMapRequest) (string, error) {
	return buildStaticMapURL(c.baseURL, c.apiKey, r)
}

// status turns the library's (results, error) pair back into the Maps status
// envelope. Errors that are not API statuses are returned redacted.
// The library hides the raw status on success, so OK with no results reads as ZERO_RESULTS.
func status(results int, err error) (Response, error) {
	if err == nil {
		if results == 0 {
			return Response{Status: StatusZeroResults}, nil
		}

		return Response{Status: StatusOK}, nil
	}

	if m := statusErrorRe.FindStringSubmatch(err.Error()); m != nil {
		return Response{Status: m[1], ErrorMessage: m[2]}, nil
	}

	return Response{}, redact.Error(err)
}
