package arrivals

// Arrival is one predicted arrival at a monitored stop.
// SecondsToArrival is never negative; sources clamp or drop past predictions.
type Arrival struct {
	Category         string // transit line, e.g. "73"
	Destination      string
	SecondsToArrival int
}

// Batch is the ordered set of arrivals produced by one poll cycle.
type Batch []Arrival

// Group is a category and its arrivals, in batch order.
type Group struct {
	Category string
	Arrivals []Arrival
}
