package gtfs

// Index answers the lookups the realtime feed cannot: what riders call a
// route, and where a trip is headed.
type Index struct {
	routeNames map[string]string
	trips      map[string]Trip
}

// NewIndex builds lookup maps from parsed data
func NewIndex(data *Data) *Index {
	idx := &Index{
		routeNames: make(map[string]string, len(data.Routes)),
		trips:      make(map[string]Trip, len(data.Trips)),
	}
	for _, r := range data.Routes {
		name := r.RouteShortName
		if name == "" {
			name = r.RouteLongName
		}
		idx.routeNames[r.RouteID] = name
	}
	for _, t := range data.Trips {
		idx.trips[t.TripID] = t
	}
	return idx
}

// Load parses the zip at path and indexes it
func Load(path string) (*Index, error) {
	data, err := Parse(path)
	if err != nil {
		return nil, err
	}
	return NewIndex(data), nil
}

// RouteName returns the route's short name, or "" when unknown
func (i *Index) RouteName(routeID string) string {
	return i.routeNames[routeID]
}

// Headsign returns the trip's headsign, or "" when unknown
func (i *Index) Headsign(tripID string) string {
	return i.trips[tripID].TripHeadsign
}

// TripRoute returns the route a trip belongs to, or "" when unknown
func (i *Index) TripRoute(tripID string) string {
	return i.trips[tripID].RouteID
}
