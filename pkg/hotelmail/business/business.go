// Package business applies hotel-specific policy: group-booking
// classification and child/adult age classes. All thresholds come from
// configuration; changing them requires no code changes.
package business

import (
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/booking"
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/config"
)

// Guest age classes
const (
	ClassChild = "child"
	ClassAdult = "adult"
)

// Logic evaluates configured business rules over booking segments
type Logic struct {
	childAdultAge  int
	roomThreshold  int
	guestThreshold int
}

// New creates Logic from validated hotel configuration
func New(cfg *config.Hotel) *Logic {
	return &Logic{
		childAdultAge:  cfg.ChildAdultAge,
		roomThreshold:  cfg.GroupBooking.RoomThreshold,
		guestThreshold: cfg.GroupBooking.GuestThreshold,
	}
}

// ClassifyGuestAge classifies a guest as child or adult by the configured
// age threshold.
func (l *Logic) ClassifyGuestAge(age int) string {
	if age < l.childAdultAge {
		return ClassChild
	}
	return ClassAdult
}

// IsGroupBooking reports whether a segment meets either inclusive group
// threshold: total room count (quantities summed) or total guest count.
func (l *Logic) IsGroupBooking(seg booking.Segment) bool {
	totalRooms := 0
	totalGuests := 0
	for _, room := range seg.Rooms {
		qty := room.Quantity
		if qty < 1 {
			qty = 1
		}
		totalRooms += qty
		if room.Adults != nil {
			totalGuests += *room.Adults
		}
		totalGuests += len(room.Children)
	}
	return totalRooms >= l.roomThreshold || totalGuests >= l.guestThreshold
}

// EnrichSegment returns a copy of the segment with the group flag set and
// every aged child annotated with its classification. The input is never
// mutated.
func (l *Logic) EnrichSegment(seg booking.Segment) booking.Segment {
	enriched := seg
	enriched.Rooms = make([]booking.Room, len(seg.Rooms))
	for i, room := range seg.Rooms {
		enriched.Rooms[i] = room
		enriched.Rooms[i].Children = make([]booking.Child, len(room.Children))
		for j, child := range room.Children {
			enriched.Rooms[i].Children[j] = child
			if child.Age != nil {
				enriched.Rooms[i].Children[j].Classification = l.ClassifyGuestAge(*child.Age)
			}
		}
	}
	enriched.IsGroupBooking = l.IsGroupBooking(seg)
	return enriched
}
