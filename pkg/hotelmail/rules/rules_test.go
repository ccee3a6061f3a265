package rules

import (
	"testing"
	"time"

	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/booking"
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/config"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func intPtr(n int) *int { return &n }

func TestResolveArrivalPlusNights(t *testing.T) {
	res := ResolveDates(date(2026, time.May, 12), nil, intPtr(3))

	if res.Method != MethodArrivalPlusNights {
		t.Fatalf("method = %s", res.Method)
	}
	if res.Departure == nil || !res.Departure.Equal(*date(2026, time.May, 15)) {
		t.Errorf("departure = %v, want 2026-05-15", res.Departure)
	}
}

func TestResolveDepartureMinusNights(t *testing.T) {
	res := ResolveDates(nil, date(2026, time.May, 15), intPtr(3))

	if res.Method != MethodDepartureMinusNights {
		t.Fatalf("method = %s", res.Method)
	}
	if res.Arrival == nil || !res.Arrival.Equal(*date(2026, time.May, 12)) {
		t.Errorf("arrival = %v, want 2026-05-12", res.Arrival)
	}
}

func TestResolveDateDiff(t *testing.T) {
	res := ResolveDates(date(2026, time.May, 12), date(2026, time.May, 15), nil)

	if res.Method != MethodDateDiff {
		t.Fatalf("method = %s", res.Method)
	}
	if res.Nights == nil || *res.Nights != 3 {
		t.Errorf("nights = %v, want 3", res.Nights)
	}
}

func TestResolveAllPresentCorrectsNights(t *testing.T) {
	res := ResolveDates(date(2026, time.May, 12), date(2026, time.May, 15), intPtr(5))

	if res.Method != MethodAllPresent {
		t.Fatalf("method = %s", res.Method)
	}
	if res.Nights == nil || *res.Nights != 3 {
		t.Errorf("nights = %v, dates must win over the stated duration", res.Nights)
	}
}

func TestResolveInsufficientData(t *testing.T) {
	for _, tc := range []struct {
		name      string
		arrival   *time.Time
		departure *time.Time
		nights    *int
	}{
		{"nothing", nil, nil, nil},
		{"arrival only", date(2026, time.May, 12), nil, nil},
		{"nights only", nil, nil, intPtr(2)},
	} {
		res := ResolveDates(tc.arrival, tc.departure, tc.nights)
		if res.Method != MethodInsufficient {
			t.Errorf("%s: method = %s, want %s", tc.name, res.Method, MethodInsufficient)
		}
	}
}

// Deriving departure from arrival+nights and then re-deriving nights from
// the two dates must round-trip exactly.
func TestTriangulationRoundTrip(t *testing.T) {
	arrivals := []*time.Time{
		date(2026, time.January, 30),  // crosses a month boundary
		date(2026, time.February, 27), // crosses February's end
		date(2026, time.December, 30), // crosses a year boundary
		date(2026, time.March, 28),    // spans a DST weekend in many zones
	}
	for _, arr := range arrivals {
		for nights := 1; nights <= 14; nights++ {
			n := nights
			forward := ResolveDates(arr, nil, &n)
			back := ResolveDates(arr, forward.Departure, nil)
			if back.Nights == nil || *back.Nights != nights {
				t.Errorf("arrival %s + %d nights: re-derived %v",
					arr.Format(booking.DateLayout), nights, back.Nights)
			}
		}
	}
}

func TestMapRoomType(t *testing.T) {
	eng := NewEngine(config.DefaultHotel())

	for _, tc := range []struct {
		raw  string
		want string
	}{
		{"Double Room", "double"},
		{"a room with two beds", "twin"},
		{"junior suite", "suite"},
		{"superior room", "deluxe"},
	} {
		got, ok := eng.MapRoomType(tc.raw)
		if !ok {
			t.Errorf("%q: no mapping", tc.raw)
			continue
		}
		if got != tc.want {
			t.Errorf("%q: mapped to %s, want %s", tc.raw, got, tc.want)
		}
	}

	if _, ok := eng.MapRoomType("presidential palace"); ok {
		t.Error("unknown text must not map")
	}
}

func TestMapRoomTypeDeterministic(t *testing.T) {
	eng := NewEngine(config.DefaultHotel())

	first, ok := eng.MapRoomType("queen")
	if !ok {
		t.Fatal("no mapping for queen")
	}
	for i := 0; i < 50; i++ {
		got, _ := eng.MapRoomType("queen")
		if got != first {
			t.Fatalf("mapping changed between calls: %s then %s", first, got)
		}
	}
}

func TestDefaultOccupancy(t *testing.T) {
	eng := NewEngine(config.DefaultHotel())

	if occ := eng.DefaultOccupancy("double"); occ != 2 {
		t.Errorf("double occupancy = %d, want 2", occ)
	}
	if occ := eng.DefaultOccupancy("igloo"); occ != 1 {
		t.Errorf("unknown type occupancy = %d, want 1", occ)
	}
}

func TestValidateBookingDepartureBeforeArrival(t *testing.T) {
	eng := NewEngine(config.DefaultHotel())
	arr, dep := "2026-05-15", "2026-05-12"
	adults := 2

	findings := eng.ValidateBooking(booking.Segment{
		ArrivalDate:   &arr,
		DepartureDate: &dep,
		Rooms:         []booking.Room{{Adults: &adults}},
	})

	if len(findings) != 1 {
		t.Fatalf("findings = %v, want exactly one", findings)
	}
}

func TestValidateBookingZeroGuestRoom(t *testing.T) {
	eng := NewEngine(config.DefaultHotel())

	findings := eng.ValidateBooking(booking.Segment{
		Rooms: []booking.Room{{}},
	})

	if len(findings) != 1 {
		t.Fatalf("findings = %v, want exactly one", findings)
	}
}

func TestValidateBookingClean(t *testing.T) {
	eng := NewEngine(config.DefaultHotel())
	arr, dep := "2026-05-12", "2026-05-15"
	adults := 2

	findings := eng.ValidateBooking(booking.Segment{
		ArrivalDate:   &arr,
		DepartureDate: &dep,
		Rooms:         []booking.Room{{Adults: &adults}},
	})

	if len(findings) != 0 {
		t.Errorf("findings = %v, want none", findings)
	}
}
