package geocode

import (
	"fmt"
	"strconv"
)

// CrossCheck is the same address geocoded by two providers.
type CrossCheck struct {
	RunID      string    `json:"-"`
	Address    string    `json:"address"`
	Primary    *Location `json:"primary"`
	Reference  *Location `json:"reference"`
	DistanceKm float64   `json:"distance_km"`
}

func (c *CrossCheck) ID() string   { return c.RunID }
func (c *CrossCheck) Kind() string { return "crosscheck" }

func (c *CrossCheck) Rows() [][]string {
	return [][]string{
		{"address", c.Address},
		{c.Primary.Provider, fmt.Sprintf("%f,%f", c.Primary.Latitude, c.Primary.Longitude)},
		{c.Reference.Provider, fmt.Sprintf("%f,%f", c.Reference.Latitude, c.Reference.Longitude)},
		{"distance_km", strconv.FormatFloat(c.DistanceKm, 'f', 3, 64)},
	}
}

// Compare geocodes address with both clients, one after the other.
func Compare(primary, reference Client, address string) (*CrossCheck, error) {
	p, err := primary.Geocode(address)
	if err != nil {
		return nil, err
	}

	r, err := reference.Geocode(address)
	if err != nil {
		return nil, err
	}

	return &CrossCheck{
		Address:    address,
		Primary:    p,
		Reference:  r,
		DistanceKm: DistanceKm(p, r),
	}, nil
}
