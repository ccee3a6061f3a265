package extract

import (
	"regexp"

	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/booking"
)

// GuestResult carries extracted guest composition. TotalGuests is only
// computed when the adult count is known; there are no partial totals.
type GuestResult struct {
	Adults      *int
	Children    []booking.Child
	TotalGuests *int
}

var (
	explicitAdults  = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(?:adults?|people|persons?|guests?)\b`)
	soloIndicator   = regexp.MustCompile(`(?i)\b(?:just me|solo|alone|one person|1 person|single occupancy)\b`)
	weAre           = regexp.MustCompile(`(?i)\bwe(?:'re| are)\s+(\d{1,2})\b`)
	singularBooking = regexp.MustCompile(`(?i)\b(?:book|reserve|need|want)(?:ing)?\s+(?:a|one)\s+(?:\w+\s+){0,2}room\b`)
	childWord       = regexp.MustCompile(`(?i)\b(?:child|children|kid|kids)\b`)

	childrenWithAges = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(?:children|kids?)\s*[,(]?\s*age[sd]?\s*:?\s*((?:\d{1,2}\s*(?:,|and|&)?\s*)+)\)?`)
	childrenBare     = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(?:children|kids)\b`)
	childWithAge     = regexp.MustCompile(`(?i)\b(?:child|kid)\s*\(?\s*aged?\s*:?\s*(\d{1,2})\)?`)
	bareYearOld      = regexp.MustCompile(`(?i)\b(\d{1,2})[-\s]years?[-\s]old\b`)
	number           = regexp.MustCompile(`\d{1,2}`)
)

// adultRule is one entry of the ordered decision table for the adult
// count; first matching rule wins.
type adultRule struct {
	name  string
	apply func(text string) *int
}

var adultRules = []adultRule{
	{"explicit_count", func(text string) *int {
		if m := explicitAdults.FindStringSubmatch(text); m != nil {
			return intPtr(atoi(m[1]))
		}
		return nil
	}},
	{"solo_indicator", func(text string) *int {
		if soloIndicator.MatchString(text) {
			return intPtr(1)
		}
		return nil
	}},
	// "we are N" only counts adults when nothing in the text suggests
	// children are in the party
	{"we_are_count", func(text string) *int {
		if childWord.MatchString(text) {
			return nil
		}
		if m := weAre.FindStringSubmatch(text); m != nil {
			return intPtr(atoi(m[1]))
		}
		return nil
	}},
	{"singular_booking_default", func(text string) *int {
		if childWord.MatchString(text) {
			return nil
		}
		if singularBooking.MatchString(text) {
			return intPtr(1)
		}
		return nil
	}},
}

// extractGuests resolves the adult count through the decision table and
// children through patterns ordered by specificity.
func extractGuests(text string) GuestResult {
	result := GuestResult{Children: []booking.Child{}}

	for _, rule := range adultRules {
		if n := rule.apply(text); n != nil {
			result.Adults = n
			break
		}
	}

	result.Children = extractChildren(text)

	if result.Adults != nil {
		result.TotalGuests = intPtr(*result.Adults + len(result.Children))
	}
	return result
}

func extractChildren(text string) []booking.Child {
	children := []booking.Child{}

	if m := childrenWithAges.FindStringSubmatch(text); m != nil {
		count := atoi(m[1])
		for _, ageText := range number.FindAllString(m[2], -1) {
			age := atoi(ageText)
			children = append(children, booking.Child{Age: &age})
		}
		for len(children) < count {
			children = append(children, booking.Child{})
		}
		return children
	}

	if m := childrenBare.FindStringSubmatch(text); m != nil {
		for i := 0; i < atoi(m[1]); i++ {
			children = append(children, booking.Child{})
		}
		return children
	}

	for _, m := range childWithAge.FindAllStringSubmatch(text, -1) {
		age := atoi(m[1])
		children = append(children, booking.Child{Age: &age})
	}
	if len(children) > 0 {
		return children
	}

	for _, m := range bareYearOld.FindAllStringSubmatch(text, -1) {
		age := atoi(m[1])
		if age >= 18 || hasAge(children, age) {
			continue
		}
		children = append(children, booking.Child{Age: &age})
	}
	return children
}

func hasAge(children []booking.Child, age int) bool {
	for _, c := range children {
		if c.Age != nil && *c.Age == age {
			return true
		}
	}
	return false
}

func intPtr(n int) *int {
	return &n
}
