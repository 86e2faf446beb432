package gtfs

import (
	"archive/zip"
	"encoding/csv"
	"io"
	"strings"

	"github.com/mini-rodalies-3d/stopboard/internal/errors"
	"github.com/mini-rodalies-3d/stopboard/internal/logger"
)

// Parse reads routes.txt and trips.txt from a GTFS zip file
func Parse(zipPath string) (*Data, error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open zip")
	}
	defer r.Close()

	return parseFiles(&r.Reader)
}

func parseFiles(r *zip.Reader) (*Data, error) {
	log := logger.ComponentLogger("gtfs")
	data := &Data{}

	// Build file map for easy lookup
	files := make(map[string]*zip.File)
	for _, f := range r.File {
		files[f.Name] = f
	}

	f, ok := files["routes.txt"]
	if !ok {
		return nil, errors.New("routes.txt missing from feed")
	}
	routes, err := parseRoutes(f)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse routes.txt")
	}
	data.Routes = routes

	if f, ok := files["trips.txt"]; ok {
		trips, err := parseTrips(f)
		if err != nil {
			log.Warnw("Failed to parse trips.txt, headsigns unavailable", "error", err)
		} else {
			data.Trips = trips
		}
	}

	log.Infow("GTFS parsed", "routes", len(data.Routes), "trips", len(data.Trips))
	return data, nil
}

func parseRoutes(f *zip.File) ([]Route, error) {
	var routes []Route
	err := eachRecord(f, func(record []string, idx map[string]int) {
		routes = append(routes, Route{
			RouteID:        getField(record, idx, "route_id"),
			RouteShortName: getField(record, idx, "route_short_name"),
			RouteLongName:  getField(record, idx, "route_long_name"),
		})
	})
	return routes, err
}

func parseTrips(f *zip.File) ([]Trip, error) {
	var trips []Trip
	err := eachRecord(f, func(record []string, idx map[string]int) {
		trips = append(trips, Trip{
			RouteID:      getField(record, idx, "route_id"),
			TripID:       getField(record, idx, "trip_id"),
			TripHeadsign: getField(record, idx, "trip_headsign"),
		})
	})
	return trips, err
}

// eachRecord calls fn for every well-formed row after the header
func eachRecord(f *zip.File, fn func(record []string, idx map[string]int)) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	reader := csv.NewReader(rc)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return err
	}

	idx := makeIndex(header)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			continue
		}
		fn(record, idx)
	}
}

func makeIndex(header []string) map[string]int {
	idx := make(map[string]int)
	for i, h := range header {
		// Some feeds start with a UTF-8 BOM
		idx[strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")] = i
	}
	return idx
}

func getField(record []string, idx map[string]int, field string) string {
	if i, ok := idx[field]; ok && i < len(record) {
		return strings.TrimSpace(record[i])
	}
	return ""
}
