package extract

import (
	"regexp"
	"sort"
)

// RoomCandidate is one detected room request, already mapped to a
// canonical type.
type RoomCandidate struct {
	RoomType   string
	Quantity   int
	Confidence float64
}

// roomMatcher holds the compiled alias patterns for one canonical type.
// Patterns are built once at extractor construction, never per call.
type roomMatcher struct {
	canonical string
	qty       []*regexp.Regexp
	bare      []*regexp.Regexp
}

func buildRoomMatchers(canonical []string, aliasesOf func(string) []string) []roomMatcher {
	matchers := make([]roomMatcher, 0, len(canonical))
	for _, canon := range canonical {
		aliases := append([]string(nil), aliasesOf(canon)...)
		// Longest alias first so "double room" wins over "double" on the
		// same span
		sort.Slice(aliases, func(i, j int) bool { return len(aliases[i]) > len(aliases[j]) })

		m := roomMatcher{canonical: canon}
		for _, alias := range aliases {
			quoted := regexp.QuoteMeta(alias)
			m.qty = append(m.qty, regexp.MustCompile(`(?i)\b(\d{1,2})\s+`+quoted+`s?(?:\s+rooms?)?\b`))
			m.bare = append(m.bare, regexp.MustCompile(`(?i)\b`+quoted+`s?\b`))
		}
		matchers = append(matchers, m)
	}
	return matchers
}

// extractRooms tests each canonical type's alias patterns against the
// text. Quantity-prefixed matches emit one candidate per match at 0.9;
// a bare keyword emits a single quantity-1 candidate at 0.7. A generic
// "a room" with no type never emits anything.
func extractRooms(text string, matchers []roomMatcher) []RoomCandidate {
	var candidates []RoomCandidate

	for _, m := range matchers {
		var taken [][2]int
		found := false

		for _, re := range m.qty {
			for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
				if overlaps(taken, loc[0], loc[1]) {
					continue
				}
				taken = append(taken, [2]int{loc[0], loc[1]})
				qty := atoi(text[loc[2]:loc[3]])
				if qty < 1 {
					qty = 1
				}
				candidates = append(candidates, RoomCandidate{
					RoomType:   m.canonical,
					Quantity:   qty,
					Confidence: 0.9,
				})
				found = true
			}
		}
		if found {
			continue
		}

		for _, re := range m.bare {
			if re.MatchString(text) {
				candidates = append(candidates, RoomCandidate{
					RoomType:   m.canonical,
					Quantity:   1,
					Confidence: 0.7,
				})
				break
			}
		}
	}

	return candidates
}

func overlaps(taken [][2]int, start, end int) bool {
	for _, t := range taken {
		if start < t[1] && end > t[0] {
			return true
		}
	}
	return false
}
