package gtfsrt

import (
	"context"
	"net/http"
	"time"

	gtfs "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/mini-rodalies-3d/stopboard/internal/arrivals"
	"github.com/mini-rodalies-3d/stopboard/internal/errors"
	"github.com/mini-rodalies-3d/stopboard/internal/fetch"
)

// Lookup resolves static GTFS names for realtime ids
type Lookup interface {
	RouteName(routeID string) string
	Headsign(tripID string) string
	TripRoute(tripID string) string
}

// Source reads a GTFS-RT TripUpdates feed and keeps predictions for one stop
type Source struct {
	client    fetch.Client
	feedURL   string
	stopID    string
	userAgent string
	static    Lookup
	now       func() time.Time
}

// NewSource creates a source for stopID. static may be nil, in which case
// route ids are shown as-is and destinations are left blank.
func NewSource(client fetch.Client, feedURL, stopID, userAgent string, static Lookup) *Source {
	return &Source{
		client:    client,
		feedURL:   feedURL,
		stopID:    stopID,
		userAgent: userAgent,
		static:    static,
		now:       time.Now,
	}
}

// Name identifies the source in logs and error output
func (s *Source) Name() string {
	return "gtfsrt:" + s.stopID
}

// Fetch downloads the feed and converts matching stop time updates
func (s *Source) Fetch(ctx context.Context) (arrivals.Batch, error) {
	feed, err := s.fetchFeed(ctx)
	if err != nil {
		return nil, err
	}
	return s.arrivalsFromFeed(feed), nil
}

func (s *Source) arrivalsFromFeed(feed *gtfs.FeedMessage) arrivals.Batch {
	now := s.now().Unix()
	batch := arrivals.Batch{}

	for _, entity := range feed.Entity {
		tripUpdate := entity.GetTripUpdate()
		if tripUpdate == nil {
			continue
		}
		trip := tripUpdate.GetTrip()
		if trip.GetScheduleRelationship() == gtfs.TripDescriptor_CANCELED {
			continue
		}

		for _, stu := range tripUpdate.StopTimeUpdate {
			if stu.GetStopId() != s.stopID {
				continue
			}
			switch stu.GetScheduleRelationship() {
			case gtfs.TripUpdate_StopTimeUpdate_SKIPPED, gtfs.TripUpdate_StopTimeUpdate_NO_DATA:
				continue
			}

			at := predictedTime(stu)
			if at == 0 || at < now {
				continue
			}

			batch = append(batch, arrivals.Arrival{
				Category:         s.category(trip),
				Destination:      s.destination(trip.GetTripId()),
				SecondsToArrival: int(at - now),
			})
		}
	}

	return batch
}

// predictedTime prefers the arrival time and falls back to departure
func predictedTime(stu *gtfs.TripUpdate_StopTimeUpdate) int64 {
	if t := stu.GetArrival().GetTime(); t != 0 {
		return t
	}
	return stu.GetDeparture().GetTime()
}

func (s *Source) category(trip *gtfs.TripDescriptor) string {
	routeID := trip.GetRouteId()
	if s.static == nil {
		return routeID
	}
	if routeID == "" {
		routeID = s.static.TripRoute(trip.GetTripId())
	}
	if name := s.static.RouteName(routeID); name != "" {
		return name
	}
	return routeID
}

func (s *Source) destination(tripID string) string {
	if s.static == nil {
		return ""
	}
	return s.static.Headsign(tripID)
}

// fetchFeed fetches and decodes the TripUpdates feed
func (s *Source) fetchFeed(ctx context.Context) (*gtfs.FeedMessage, error) {
	headers := http.Header{}
	if s.userAgent != "" {
		headers.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Get(ctx, s.feedURL, headers)
	if err != nil {
		return nil, err
	}
	if err := resp.Check(); err != nil {
		return nil, err
	}

	feed := &gtfs.FeedMessage{}
	if err := proto.Unmarshal(resp.Body, feed); err != nil {
		return nil, errors.WithDetail(
			errors.Mark(errors.Wrap(err, "failed to parse protobuf"), errors.ErrProtocol),
			resp.Text())
	}
	return feed, nil
}
