// Package rules applies deterministic resolution logic: date triangulation,
// room-type alias mapping, default occupancy, and booking validation.
// ResolveDates is the single source of truth for triangulation so that
// extraction and downstream validation always agree.
package rules

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/booking"
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/config"
)

// Resolution methods reported for auditability
const (
	MethodArrivalPlusNights    = "arrival_plus_nights"
	MethodDepartureMinusNights = "departure_minus_nights"
	MethodDateDiff             = "date_diff"
	MethodAllPresent           = "all_present_validated"
	MethodInsufficient         = "insufficient_data"
)

// Resolution is the outcome of date triangulation
type Resolution struct {
	Arrival   *time.Time
	Departure *time.Time
	Nights    *int
	Method    string
}

// ResolveDates triangulates the missing field when exactly two of
// arrival, departure and nights are known. When all three are present a
// duration mismatch is corrected by trusting the dates, never the reverse.
// At most one method fires.
func ResolveDates(arrival, departure *time.Time, nights *int) Resolution {
	switch {
	case arrival != nil && nights != nil && departure == nil:
		dep := arrival.AddDate(0, 0, *nights)
		return Resolution{Arrival: arrival, Departure: &dep, Nights: nights, Method: MethodArrivalPlusNights}

	case departure != nil && nights != nil && arrival == nil:
		arr := departure.AddDate(0, 0, -*nights)
		return Resolution{Arrival: &arr, Departure: departure, Nights: nights, Method: MethodDepartureMinusNights}

	case arrival != nil && departure != nil && nights == nil:
		n := daysBetween(*arrival, *departure)
		return Resolution{Arrival: arrival, Departure: departure, Nights: &n, Method: MethodDateDiff}

	case arrival != nil && departure != nil && nights != nil:
		n := daysBetween(*arrival, *departure)
		return Resolution{Arrival: arrival, Departure: departure, Nights: &n, Method: MethodAllPresent}

	default:
		return Resolution{Arrival: arrival, Departure: departure, Nights: nights, Method: MethodInsufficient}
	}
}

func daysBetween(a, b time.Time) int {
	return int(b.Truncate(24*time.Hour).Sub(a.Truncate(24*time.Hour)).Hours() / 24)
}

// Engine holds compiled configuration-driven lookup tables
type Engine struct {
	aliases   map[string][]string
	canonical []string
	occupancy map[string]int
}

// NewEngine compiles the hotel configuration into typed lookup tables.
// Alias matching is case-insensitive; canonical types are checked in
// sorted order so mapping stays deterministic.
func NewEngine(cfg *config.Hotel) *Engine {
	aliases := make(map[string][]string, len(cfg.RoomTypeAliases))
	canonical := make([]string, 0, len(cfg.RoomTypeAliases))
	for canon, list := range cfg.RoomTypeAliases {
		lowered := make([]string, len(list))
		for i, a := range list {
			lowered[i] = strings.ToLower(a)
		}
		aliases[canon] = lowered
		canonical = append(canonical, canon)
	}
	sort.Strings(canonical)

	occupancy := make(map[string]int, len(cfg.DefaultRoomOccupancy))
	for k, v := range cfg.DefaultRoomOccupancy {
		occupancy[k] = v
	}

	return &Engine{aliases: aliases, canonical: canonical, occupancy: occupancy}
}

// CanonicalTypes returns the configured room types in deterministic order
func (e *Engine) CanonicalTypes() []string {
	return e.canonical
}

// Aliases returns the lowercased alias list for a canonical type
func (e *Engine) Aliases(canonical string) []string {
	return e.aliases[canonical]
}

// MapRoomType maps raw room text onto a canonical type via substring
// alias lookup. The second return is false when nothing matches.
func (e *Engine) MapRoomType(raw string) (string, bool) {
	lower := strings.ToLower(raw)
	for _, canon := range e.canonical {
		for _, alias := range e.aliases[canon] {
			if strings.Contains(lower, alias) {
				return canon, true
			}
		}
	}
	return "", false
}

// DefaultOccupancy returns the configured occupancy for a room type,
// defaulting to 1 for unknown types.
func (e *Engine) DefaultOccupancy(roomType string) int {
	if occ, ok := e.occupancy[roomType]; ok {
		return occ
	}
	return 1
}

// ValidateBooking flags segment-level consistency problems. Findings are
// reported, never raised: extraction is the job here, not enforcement.
func (e *Engine) ValidateBooking(seg booking.Segment) []string {
	var findings []string

	if seg.ArrivalDate != nil && seg.DepartureDate != nil {
		arr, errA := time.Parse(booking.DateLayout, *seg.ArrivalDate)
		dep, errD := time.Parse(booking.DateLayout, *seg.DepartureDate)
		if errA == nil && errD == nil && !dep.After(arr) {
			findings = append(findings, "departure date must be after arrival date")
		}
	}

	for i, room := range seg.Rooms {
		adults := 0
		if room.Adults != nil {
			adults = *room.Adults
		}
		if adults+len(room.Children) == 0 {
			findings = append(findings, fmt.Sprintf("room %d: no guests specified", i))
		}
	}

	return findings
}
