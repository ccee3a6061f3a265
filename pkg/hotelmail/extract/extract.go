// Package extract recovers dates, guest composition and room requests
// from one booking segment using layered deterministic heuristics.
package extract

import (
	"time"

	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/rules"
)

// Entities is everything extracted from one segment
type Entities struct {
	Dates  DateResult
	Guests GuestResult
	Rooms  []RoomCandidate
}

// Extractor extracts booking entities per segment. Room alias patterns
// come from the rules engine and are compiled once at construction.
type Extractor struct {
	rooms []roomMatcher
}

// New creates an Extractor backed by the engine's canonical room types
func New(engine *rules.Engine) *Extractor {
	return &Extractor{
		rooms: buildRoomMatchers(engine.CanonicalTypes(), engine.Aliases),
	}
}

// Extract runs all entity detectors over one segment's text. Relative
// date phrases are anchored to ref. Missing facts stay absent; nothing
// here fails.
func (x *Extractor) Extract(text string, ref time.Time) Entities {
	return Entities{
		Dates:  extractDates(text, ref),
		Guests: extractGuests(text),
		Rooms:  extractRooms(text, x.rooms),
	}
}
