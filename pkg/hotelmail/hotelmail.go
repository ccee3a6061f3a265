// Package hotelmail turns unstructured hotel-booking email text into
// structured booking records: intent, date range, guest composition,
// room requests and a group-booking flag.
package hotelmail

import (
	"context"
	"time"

	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/booking"
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/business"
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/config"
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/extract"
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/intent"
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/normalize"
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/rules"
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/segment"
)

// maxInputBytes caps input length so adversarial bodies cannot blow up
// pattern matching.
const maxInputBytes = 1 << 20

// Options configures a Pipeline instance
type Options struct {
	// Config holds compiled configuration; nil uses the built-in defaults.
	Config *config.Components

	// Classifier is an optional learned intent model. The keyword
	// fallback is always available regardless.
	Classifier intent.Classifier

	// ModelThreshold is the minimum model confidence before falling back
	// to rules. Zero means 0.6.
	ModelThreshold float64

	// ReferenceDate anchors relative date phrases. Zero means the wall
	// clock at each Process call.
	ReferenceDate time.Time
}

// Pipeline is the end-to-end email processing facade. A Pipeline is
// immutable after construction and safe for concurrent use; every
// Process call is independent.
type Pipeline struct {
	normalizer *normalize.Normalizer
	classifier intent.Classifier
	segmenter  *segment.Segmenter
	extractor  *extract.Extractor
	engine     *rules.Engine
	logic      *business.Logic
	refDate    time.Time
}

// New creates a Pipeline with the given dependencies. Configuration
// problems surface here, never mid-batch.
func New(opts Options) (*Pipeline, error) {
	comp := opts.Config
	if comp == nil {
		var err error
		comp, err = (&config.Loader{}).Load()
		if err != nil {
			return nil, err
		}
	}
	if err := comp.Hotel.Validate(); err != nil {
		return nil, err
	}

	threshold := opts.ModelThreshold
	if threshold == 0 {
		threshold = 0.6
	}

	engine := rules.NewEngine(comp.Hotel)
	return &Pipeline{
		normalizer: normalize.New(comp),
		classifier: intent.NewHybrid(opts.Classifier, threshold),
		segmenter:  segment.New(),
		extractor:  extract.New(engine),
		engine:     engine,
		logic:      business.New(comp.Hotel),
		refDate:    opts.ReferenceDate,
	}, nil
}

// Process runs one raw email body through the full pipeline: normalize,
// classify intent, segment, extract entities, assemble rooms, enrich.
// Extraction failures degrade to absent fields; a segment never aborts
// its siblings.
func (p *Pipeline) Process(ctx context.Context, rawEmail, emailID string) (booking.Result, error) {
	if len(rawEmail) > maxInputBytes {
		rawEmail = rawEmail[:maxInputBytes]
	}

	normalized := p.normalizer.Normalize(rawEmail)

	cls, err := p.classifier.Classify(ctx, normalized.Text)
	if err != nil {
		// The hybrid classifier degrades rather than failing; an error
		// here means a bare model was injected without the fallback.
		return booking.Result{}, err
	}

	ref := p.refDate
	if ref.IsZero() {
		ref = time.Now()
	}

	segments := []booking.Segment{}
	for _, seg := range p.segmenter.Segment(normalized.Text, cls.Intent) {
		entities := p.extractor.Extract(seg.Text, ref)

		built := booking.Segment{
			SegmentID:     seg.ID,
			ArrivalDate:   isoDate(entities.Dates.Arrival),
			DepartureDate: isoDate(entities.Dates.Departure),
			Nights:        entities.Dates.Nights,
			Rooms:         assembleRooms(entities),
		}
		built.Validation = p.engine.ValidateBooking(built)

		segments = append(segments, p.logic.EnrichSegment(built))
	}

	return booking.Result{
		Intent:   cls.Intent,
		Segments: segments,
		EmailID:  emailID,
	}, nil
}

// assembleRooms combines room-type candidates with guest data. Every
// room always carries adults, children and total_guests, even when no
// room type was detected: guest data without a typed room synthesizes
// one room with a null type.
func assembleRooms(entities extract.Entities) []booking.Room {
	guests := entities.Guests
	children := guests.Children
	if children == nil {
		children = []booking.Child{}
	}

	if len(entities.Rooms) == 0 {
		if guests.Adults == nil && len(children) == 0 {
			return []booking.Room{}
		}
		return []booking.Room{{
			RoomType:    nil,
			Quantity:    1,
			Adults:      copyInt(guests.Adults),
			Children:    copyChildren(children),
			TotalGuests: copyInt(guests.TotalGuests),
		}}
	}

	rooms := make([]booking.Room, 0, len(entities.Rooms))
	for _, cand := range entities.Rooms {
		roomType := cand.RoomType
		rooms = append(rooms, booking.Room{
			RoomType:    &roomType,
			Quantity:    cand.Quantity,
			Adults:      copyInt(guests.Adults),
			Children:    copyChildren(children),
			TotalGuests: copyInt(guests.TotalGuests),
		})
	}
	return rooms
}

func copyChildren(children []booking.Child) []booking.Child {
	out := make([]booking.Child, len(children))
	copy(out, children)
	return out
}

func copyInt(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}

func isoDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(booking.DateLayout)
	return &s
}
