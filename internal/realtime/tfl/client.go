package tfl

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mini-rodalies-3d/stopboard/internal/arrivals"
	"github.com/mini-rodalies-3d/stopboard/internal/errors"
	"github.com/mini-rodalies-3d/stopboard/internal/fetch"
)

// Source fetches arrival predictions for one TfL stop point
type Source struct {
	client    fetch.Client
	baseURL   string
	stopID    string
	appKey    string
	userAgent string
}

// NewSource creates a source for the stop point with the given NaPTAN id
func NewSource(client fetch.Client, baseURL, stopID, appKey, userAgent string) *Source {
	return &Source{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		stopID:    stopID,
		appKey:    appKey,
		userAgent: userAgent,
	}
}

// Name identifies the source in logs and error output
func (s *Source) Name() string {
	return "tfl:" + s.stopID
}

// URL is the Arrivals endpoint for the stop, with the app key if one is set
func (s *Source) URL() string {
	u := fmt.Sprintf("%s/StopPoint/%s/Arrivals", s.baseURL, url.PathEscape(s.stopID))
	if s.appKey != "" {
		u += "?app_key=" + url.QueryEscape(s.appKey)
	}
	return u
}

// Fetch requests the stop's arrivals and normalises them
func (s *Source) Fetch(ctx context.Context) (arrivals.Batch, error) {
	headers := http.Header{}
	if s.userAgent != "" {
		headers.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Get(ctx, s.URL(), headers)
	if err != nil {
		return nil, err
	}
	if err := resp.Check(); err != nil {
		return nil, err
	}

	// API returns an array directly
	var data []Prediction
	if err := resp.JSON(&data); err != nil {
		return nil, errors.Wrap(err, "failed to decode arrivals")
	}

	batch := make(arrivals.Batch, 0, len(data))
	for _, p := range data {
		batch = append(batch, p.toArrival())
	}
	return batch, nil
}

func (p Prediction) toArrival() arrivals.Arrival {
	destination := p.DestinationName
	if destination == "" {
		destination = p.Towards
	}

	// Predictions for a vehicle already at the stop can come back slightly negative
	seconds := p.TimeToStation
	if seconds < 0 {
		seconds = 0
	}

	return arrivals.Arrival{
		Category:         p.LineName,
		Destination:      destination,
		SecondsToArrival: seconds,
	}
}
