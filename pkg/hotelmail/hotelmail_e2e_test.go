package hotelmail

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/booking"
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/intent"
)

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(Options{
		ReferenceDate: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func process(t *testing.T, p *Pipeline, email string) booking.Result {
	t.Helper()
	res, err := p.Process(context.Background(), email, "test-email")
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func strValue(t *testing.T, s *string) string {
	t.Helper()
	if s == nil {
		t.Fatal("expected a value, got nil")
	}
	return *s
}

func TestProcessSimpleBooking(t *testing.T) {
	p := newTestPipeline(t)

	res := process(t, p, "Hi, I need a double room from May 12 to May 15, 2026. We are 2 adults.")

	if res.Intent != intent.BookingRequest {
		t.Fatalf("intent = %s", res.Intent)
	}
	if len(res.Segments) != 1 {
		t.Fatalf("segments = %d, want 1", len(res.Segments))
	}

	seg := res.Segments[0]
	if got := strValue(t, seg.ArrivalDate); got != "2026-05-12" {
		t.Errorf("arrival = %s", got)
	}
	if got := strValue(t, seg.DepartureDate); got != "2026-05-15" {
		t.Errorf("departure = %s", got)
	}
	if seg.Nights == nil || *seg.Nights != 3 {
		t.Errorf("nights = %v, want 3", seg.Nights)
	}

	if len(seg.Rooms) != 1 {
		t.Fatalf("rooms = %d, want 1", len(seg.Rooms))
	}
	room := seg.Rooms[0]
	if got := strValue(t, room.RoomType); got != "double" {
		t.Errorf("room type = %s", got)
	}
	if room.Quantity != 1 {
		t.Errorf("quantity = %d, want 1", room.Quantity)
	}
	if room.Adults == nil || *room.Adults != 2 {
		t.Errorf("adults = %v, want 2", room.Adults)
	}
	if len(room.Children) != 0 {
		t.Errorf("children = %v, want none", room.Children)
	}
	if room.TotalGuests == nil || *room.TotalGuests != 2 {
		t.Errorf("total guests = %v, want 2", room.TotalGuests)
	}

	if seg.IsGroupBooking {
		t.Error("two adults in one room flagged as a group")
	}
	if len(seg.Validation) != 0 {
		t.Errorf("validation findings = %v, want none", seg.Validation)
	}
}

func TestProcessGroupByGuestCount(t *testing.T) {
	p := newTestPipeline(t)

	res := process(t, p, "Hello, I want to book 3 rooms for our team retreat. 14 adults total. May 10-12, 2026.")

	if res.Intent != intent.BookingRequest {
		t.Fatalf("intent = %s", res.Intent)
	}
	if len(res.Segments) != 1 {
		t.Fatalf("segments = %d, want 1", len(res.Segments))
	}

	seg := res.Segments[0]
	if got := strValue(t, seg.ArrivalDate); got != "2026-05-10" {
		t.Errorf("arrival = %s", got)
	}
	if got := strValue(t, seg.DepartureDate); got != "2026-05-12" {
		t.Errorf("departure = %s", got)
	}

	// "3 rooms" names no type, so guest data synthesizes one untyped room
	if len(seg.Rooms) != 1 {
		t.Fatalf("rooms = %d, want 1 synthesized", len(seg.Rooms))
	}
	room := seg.Rooms[0]
	if room.RoomType != nil {
		t.Errorf("room type = %q, want null", *room.RoomType)
	}
	if room.Adults == nil || *room.Adults != 14 {
		t.Errorf("adults = %v, want 14", room.Adults)
	}

	if !seg.IsGroupBooking {
		t.Error("14 guests must be a group booking")
	}
}

func TestProcessMultiSegment(t *testing.T) {
	p := newTestPipeline(t)

	res := process(t, p, "I'd like to book two stays:\n"+
		"1. A double room May 10-12, 2026 for 2 adults.\n"+
		"2. A twin room June 1-3, 2026 for 2 adults.")

	if len(res.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(res.Segments))
	}

	first, second := res.Segments[0], res.Segments[1]
	if got := strValue(t, first.Rooms[0].RoomType); got != "double" {
		t.Errorf("first room type = %s", got)
	}
	if got := strValue(t, second.Rooms[0].RoomType); got != "twin" {
		t.Errorf("second room type = %s", got)
	}
	if got := strValue(t, first.ArrivalDate); got != "2026-05-10" {
		t.Errorf("first arrival = %s", got)
	}
	if got := strValue(t, second.ArrivalDate); got != "2026-06-01" {
		t.Errorf("second arrival = %s", got)
	}
	if first.SegmentID == second.SegmentID {
		t.Error("segment IDs must differ")
	}
}

func TestProcessStripsSignatureBeforeExtraction(t *testing.T) {
	p := newTestPipeline(t)

	res := process(t, p, "Need a room for 2 adults on 2026-07-01 for 2 nights.\n\nSent from my iPhone")

	if res.Intent != intent.BookingRequest {
		t.Fatalf("intent = %s", res.Intent)
	}
	if len(res.Segments) != 1 {
		t.Fatalf("segments = %d, want 1", len(res.Segments))
	}
	seg := res.Segments[0]
	if got := strValue(t, seg.ArrivalDate); got != "2026-07-01" {
		t.Errorf("arrival = %s", got)
	}
	if got := strValue(t, seg.DepartureDate); got != "2026-07-03" {
		t.Errorf("departure = %s, want derived from nights", got)
	}
	if seg.Rooms[0].Adults == nil || *seg.Rooms[0].Adults != 2 {
		t.Errorf("adults = %v, want 2", seg.Rooms[0].Adults)
	}
}

func TestProcessNonBookingIntentYieldsNoSegments(t *testing.T) {
	p := newTestPipeline(t)

	res := process(t, p, "I have to cancel my stay, reference 99812.")

	if res.Intent != intent.Cancellation {
		t.Fatalf("intent = %s, want %s", res.Intent, intent.Cancellation)
	}
	if len(res.Segments) != 0 {
		t.Errorf("segments = %d, want none for a cancellation", len(res.Segments))
	}
}

func TestProcessEmptyEmail(t *testing.T) {
	p := newTestPipeline(t)

	res := process(t, p, "")
	if res.Intent != intent.Other {
		t.Errorf("intent = %s, want %s", res.Intent, intent.Other)
	}
	if res.Segments == nil {
		t.Error("segments must be an empty slice, not nil")
	}
}

func TestProcessValidationFindings(t *testing.T) {
	p := newTestPipeline(t)

	// Departure before arrival: reported, never fatal
	res := process(t, p, "I need a double room. Check-in 2026-05-15, check-out 2026-05-12. 2 adults.")

	seg := res.Segments[0]
	if len(seg.Validation) == 0 {
		t.Error("expected a validation finding for an inverted date range")
	}
}

func TestProcessConcurrent(t *testing.T) {
	p := newTestPipeline(t)
	email := "Hi, I need a double room from May 12 to May 15, 2026. We are 2 adults."

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := p.Process(context.Background(), email, "concurrent")
			if err != nil {
				t.Error(err)
				return
			}
			if res.Intent != intent.BookingRequest {
				t.Errorf("intent = %s", res.Intent)
			}
		}()
	}
	wg.Wait()
}

func TestProcessOversizeInputTruncated(t *testing.T) {
	p := newTestPipeline(t)

	email := "I need a double room for 2 adults. " + strings.Repeat("x", maxInputBytes)
	res, err := p.Process(context.Background(), email, "huge")
	if err != nil {
		t.Fatal(err)
	}
	if res.Intent != intent.BookingRequest {
		t.Errorf("intent = %s", res.Intent)
	}
}
