package gmaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/manzanit0/mapsmoke/pkg/redact"
)

const geocodePath = "/maps/api/geocode/json"

// NewRESTGeocoder returns a Geocoder that calls the Geocoding endpoint with
// plain query-string GETs, without going through the client library.
func NewRESTGeocoder(h *http.Client, apiKey string, opts ...Option) *rg {
	o := newOptions(opts)
	return &rg{h: h, apiKey: apiKey, baseURL: strings.TrimSuffix(o.baseURL, "/")}
}

type rg struct {
	h       *http.Client
	apiKey  string
	baseURL string
}

var _ Geocoder = (*rg)(nil)

func (c *rg) Geocode(ctx context.Context, address string) (*GeocodeResponse, error) {
	params := url.Values{}
	params.Set("address", address)

	return c.geocode(ctx, params)
}

func (c *rg) ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodeResponse, error) {
	params := url.Values{}
	params.Set("latlng", LatLng{Lat: lat, Lng: lng}.String())

	return c.geocode(ctx, params)
}

func (c *rg) StaticMapURL(r StaticMapRequest) (string, error) {
	return buildStaticMapURL(c.baseURL, c.apiKey, r)
}

func (c *rg) geocode(ctx context.Context, params url.Values) (*GeocodeResponse, error) {
	var d GeocodingRequestResponse
	if err := c.getJSON(ctx, geocodePath, params, &d); err != nil {
		return nil, fmt.Errorf("geocode: %w", err)
	}

	out := &GeocodeResponse{Response: Response{Status: d.Status, ErrorMessage: d.ErrorMessage}}
	for _, r := range d.Results {
		loc := r.Geometry.Location
		out.Results = append(out.Results, Place{
			PlaceID:          r.PlaceID,
			FormattedAddress: r.FormattedAddress,
			Location:         &loc,
		})
	}

	return out, nil
}

func (c *rg) getJSON(ctx context.Context, path string, params url.Values, v any) error {
	params.Set("key", c.apiKey)
	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return redact.Error(err)
	}

	res, err := c.h.Do(req)
	if err != nil {
		return redact.Error(err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	// The API reports most failures with a 200 and a status field; anything
	// else that is not JSON is a transport problem.
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unexpected %s response: %w", res.Status, err)
	}

	return nil
}

type GeocodingRequestResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		PlaceID          string `json:"place_id"`
		Geometry         struct {
			Location     LatLng `json:"location"`
			LocationType string `json:"location_type"`
		} `json:"geometry"`
		Types []string `json:"types"`
	} `json:"results"`
}
