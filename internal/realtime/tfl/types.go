package tfl

// Prediction is one entry of the StopPoint Arrivals response.
// Only the fields the board uses are decoded.
type Prediction struct {
	NaptanID        string `json:"naptanId"`
	LineName        string `json:"lineName"`
	DestinationName string `json:"destinationName"`
	Towards         string `json:"towards"`
	TimeToStation   int    `json:"timeToStation"`
}
