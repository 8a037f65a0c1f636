package smoke_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manzanit0/mapsmoke/pkg/gmaps"
	"github.com/manzanit0/mapsmoke/pkg/smoke"
)

func geocodeServer(t *testing.T, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/geocode/json" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestGeocodeOverMockedTransport(t *testing.T) {
	testCases := []struct {
		desc       string
		body       string
		wantStatus string
		wantCenter string
	}{
		{
			desc:       "an OK response builds the static map around the location",
			body:       `{"status": "OK", "results": [{"geometry": {"location": {"lat": 37.4, "lng": -122.1}}}]}`,
			wantStatus: "OK",
			wantCenter: "37.4,-122.1",
		},
		{
			desc:       "a ZERO_RESULTS response leaves the static map null",
			body:       `{"status": "ZERO_RESULTS"}`,
			wantStatus: "ZERO_RESULTS",
		},
	}
	for _, tC := range testCases {
		srv := geocodeServer(t, tC.body)

		lib, err := gmaps.NewLibraryClient("AIzaNotReallyAnAPIKey", gmaps.WithBaseURL(srv.URL))
		require.NoError(t, err)

		geocoders := map[string]gmaps.Geocoder{
			"library": lib,
			"rest":    gmaps.NewRESTGeocoder(srv.Client(), "AIzaNotReallyAnAPIKey", gmaps.WithBaseURL(srv.URL)),
		}

		for name, g := range geocoders {
			t.Run(name+": "+tC.desc, func(t *testing.T) {
				got, err := smoke.RunGeocode(context.Background(), g, smoke.DefaultAddress)
				require.NoError(t, err)
				assert.Equal(t, tC.wantStatus, got.GeocodeStatus)

				if tC.wantCenter == "" {
					assert.Nil(t, got.StaticMapURL)
					return
				}

				require.NotNil(t, got.StaticMapURL)
				u, err := url.Parse(*got.StaticMapURL)
				require.NoError(t, err)
				assert.Equal(t, tC.wantCenter, u.Query().Get("center"))
				assert.Equal(t, "REDACTED", u.Query().Get("key"))
			})
		}
	}
}

func TestRunSamplesSendsFixedFixtures(t *testing.T) {
	bodies := map[string]string{
		"/maps/api/directions/json": `{"status": "OK", "geocoded_waypoints": [], "routes": [{"summary": "US-101 S", "legs": []}]}`,
		"/maps/api/distancematrix/json": `{"status": "OK", "origin_addresses": [], "destination_addresses": [], "rows": [
			{"elements": [{"status": "OK", "distance": {"text": "1 mi", "value": 1609}, "duration": {"text": "1 min", "value": 60}}]}
		]}`,
		"/maps/api/place/textsearch/json": `{"status": "OK", "html_attributions": [], "results": [{"place_id": "ChIJ-coffee", "name": "Coffee"}]}`,
		"/maps/api/place/details/json":    `{"status": "OK", "html_attributions": [], "result": {"place_id": "ChIJ-coffee", "name": "Coffee"}}`,
		"/maps/api/geocode/json":          `{"status": "OK", "results": [{"place_id": "gplex", "geometry": {"location": {"lat": 37.42, "lng": -122.08}}}]}`,
	}

	var mu sync.Mutex
	queries := map[string]url.Values{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}

		mu.Lock()
		queries[r.URL.Path] = r.URL.Query()
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	c, err := gmaps.NewLibraryClient("AIzaNotReallyAnAPIKey", gmaps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	got, err := smoke.RunSamples(context.Background(), c)
	require.NoError(t, err)
	require.NotNil(t, got.PlaceDetailsStatus)
	assert.Equal(t, "OK", *got.PlaceDetailsStatus)

	mu.Lock()
	defer mu.Unlock()

	directions := queries["/maps/api/directions/json"]
	require.NotNil(t, directions)
	assert.Equal(t, "San Francisco, CA", directions.Get("origin"))
	assert.Equal(t, "San Jose, CA", directions.Get("destination"))
	assert.Equal(t, "driving", directions.Get("mode"))

	matrix := queries["/maps/api/distancematrix/json"]
	require.NotNil(t, matrix)
	assert.Equal(t, "San Francisco, CA|Oakland, CA", matrix.Get("origins"))
	assert.Equal(t, "San Jose, CA|Palo Alto, CA", matrix.Get("destinations"))
	assert.Equal(t, "driving", matrix.Get("mode"))
	assert.Equal(t, "imperial", matrix.Get("units"))

	search := queries["/maps/api/place/textsearch/json"]
	require.NotNil(t, search)
	assert.Equal(t, "coffee near Mountain View CA", search.Get("query"))
	assert.Equal(t, "2000", search.Get("radius"))
	assert.Equal(t, "37.3861,-122.0839", search.Get("location"))
	assert.Equal(t, "true", search.Get("opennow"))
	assert.Equal(t, "cafe", search.Get("type"))

	details := queries["/maps/api/place/details/json"]
	require.NotNil(t, details)
	assert.Equal(t, "ChIJ-coffee", details.Get("placeid"))
	assert.ElementsMatch(t,
		[]string{"name", "formatted_address", "geometry", "rating", "opening_hours"},
		strings.Split(details.Get("fields"), ","))

	reverse := queries["/maps/api/geocode/json"]
	require.NotNil(t, reverse)
	assert.Equal(t, "37.4225123,-122.0855885", reverse.Get("latlng"))
}
