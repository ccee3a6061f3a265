// Package booking holds the structured records the pipeline produces.
package booking

// DateLayout is the ISO-8601 date format used throughout the output
const DateLayout = "2006-01-02"

// Child is one child guest. Age is nil when the email stated a count but
// no age. Classification is filled in by business enrichment.
type Child struct {
	Age            *int   `json:"age"`
	Classification string `json:"classification,omitempty"`
}

// Room is one requested room with its own guest composition
type Room struct {
	RoomType    *string `json:"room_type"`
	Quantity    int     `json:"quantity"`
	Adults      *int    `json:"adults"`
	Children    []Child `json:"children"`
	TotalGuests *int    `json:"total_guests"`
}

// Segment is the final per-request record
type Segment struct {
	SegmentID      int      `json:"segment_id"`
	ArrivalDate    *string  `json:"arrival_date"`
	DepartureDate  *string  `json:"departure_date"`
	Nights         *int     `json:"nights"`
	Rooms          []Room   `json:"rooms"`
	IsGroupBooking bool     `json:"is_group_booking"`
	Validation     []string `json:"validation,omitempty"`
}

// Result is the per-email output record
type Result struct {
	Intent   string    `json:"intent"`
	Segments []Segment `json:"segments"`
	EmailID  string    `json:"email_id,omitempty"`
}
