package gtfs

// Data represents the parsed parts of a GTFS feed the board needs
type Data struct {
	Routes []Route
	Trips  []Trip
}

// Route represents a route from routes.txt
type Route struct {
	RouteID        string
	RouteShortName string
	RouteLongName  string
}

// Trip represents a trip from trips.txt
type Trip struct {
	RouteID      string
	TripID       string
	TripHeadsign string
}
