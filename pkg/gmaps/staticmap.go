package gmaps

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const staticMapPath = "/maps/api/staticmap"

type StaticMapRequest struct {
	Center  string
	Zoom    int
	Size    string
	Markers []string
}

// Marker formats a single-location marker spec, e.g. "color:red|1,2".
func Marker(color string, at LatLng) string {
	return fmt.Sprintf("color:%s|%s", color, at)
}

func buildStaticMapURL(baseURL, apiKey string, r StaticMapRequest) (string, error) {
	if strings.TrimSpace(r.Center) == "" {
		return "", errors.New("static map: missing center")
	}

	if r.Size == "" {
		return "", errors.New("static map: missing size")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("static map: parse base url: %w", err)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + staticMapPath

	params := url.Values{}
	params.Set("key", apiKey)
	params.Set("center", r.Center)
	params.Set("zoom", strconv.Itoa(r.Zoom))
	params.Set("size", r.Size)
	for _, m := range r.Markers {
		params.Add("markers", m)
	}

	u.RawQuery = params.Encode()
	return u.String(), nil
}
