// Package geocode resolves addresses to coordinates with the Google Geocoding API.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"googlemaps.github.io/maps"

	"github.com/dtroode/places-server/internal/model"
)

// ErrNoResults is returned when the API knows no location for the address.
var ErrNoResults = errors.New("no location found for address")

const statusZeroResults = "ZERO_RESULTS"

var _ model.Geocoder = (*Google)(nil)

type geocodingClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

type Google struct {
	client geocodingClient
}

// NewGoogle creates a geocoder. An empty baseURL uses the public Google endpoint.
func NewGoogle(baseURL, apiKey string, timeout time.Duration) (*Google, error) {
	opts := []maps.ClientOption{
		maps.WithAPIKey(apiKey),
		maps.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if baseURL != "" {
		opts = append(opts, maps.WithBaseURL(baseURL))
	}

	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create geocoding client: %w", err)
	}

	return &Google{client: client}, nil
}

// Geocode returns the location of the first result for address.
func (g *Google) Geocode(ctx context.Context, address string) (model.Location, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		if strings.Contains(err.Error(), statusZeroResults) {
			return model.Location{}, ErrNoResults
		}
		return model.Location{}, fmt.Errorf("failed to geocode address: %w", err)
	}
	if len(results) == 0 {
		return model.Location{}, ErrNoResults
	}

	loc := results[0].Geometry.Location
	return model.Location{Lat: loc.Lat, Lng: loc.Lng}, nil
}
