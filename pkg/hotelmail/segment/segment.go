// Package segment splits one email into independent booking requests.
// Rule families run in strict priority order; the first family producing
// more than one candidate wins, otherwise the whole text is one segment.
package segment

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/intent"
)

// Method records which rule family produced a segment
type Method string

const (
	MethodNumberedList Method = "numbered_list"
	MethodSeparator    Method = "separator"
	MethodTripLabels   Method = "trip_labels"
	MethodDefault      Method = "default"
)

// Segment is one independent booking request. StartChar and EndChar are
// offsets into the normalized text; text[StartChar:EndChar] == Text.
type Segment struct {
	ID        int
	Text      string
	StartChar int
	EndChar   int
	Method    Method
}

var (
	numberedMarker = regexp.MustCompile(`^\s*\d+[.)]\s`)
	separatorLead  = regexp.MustCompile(`(?i)(?:^|\n|[.!?]\s+)(also|additionally|furthermore)\b`)
	tripLabel      = regexp.MustCompile(`(?i)\b(?:first|second|third|1st|2nd|3rd)\s+(?:trip|stay|booking|visit)\b`)
)

// Segmenter is stateless; all rule patterns are fixed
type Segmenter struct{}

// New creates a Segmenter
func New() *Segmenter {
	return &Segmenter{}
}

// Segment splits text into booking requests. Segmentation is only
// attempted for booking requests; any other intent yields no segments.
func (s *Segmenter) Segment(text, intentLabel string) []Segment {
	if intentLabel != intent.BookingRequest {
		return nil
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if segs := byNumberedList(text); len(segs) > 1 {
		return segs
	}
	if segs := bySeparators(text); len(segs) > 1 {
		return segs
	}
	if segs := byTripLabels(text); len(segs) > 1 {
		return segs
	}

	return []Segment{{
		ID:        0,
		Text:      text,
		StartChar: 0,
		EndChar:   len(text),
		Method:    MethodDefault,
	}}
}

// byNumberedList treats each "1." / "2)" line as the start of a segment.
// Text before the first marker belongs to no segment.
func byNumberedList(text string) []Segment {
	var starts []int
	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		if numberedMarker.MatchString(line) {
			starts = append(starts, offset)
		}
		offset += len(line)
	}
	if len(starts) < 2 {
		return nil
	}
	return build(text, starts, MethodNumberedList)
}

// bySeparators splits at sentence-leading "also"/"additionally"/
// "furthermore" markers.
func bySeparators(text string) []Segment {
	var starts []int
	for _, m := range separatorLead.FindAllStringSubmatchIndex(text, -1) {
		if m[2] > 0 {
			starts = append(starts, m[2])
		}
	}
	if len(starts) == 0 {
		return nil
	}
	return build(text, append([]int{0}, starts...), MethodSeparator)
}

// byTripLabels partitions at "first trip" / "second stay" style labels
// when two or more occur. Any preamble joins the first segment.
func byTripLabels(text string) []Segment {
	locs := tripLabel.FindAllStringIndex(text, -1)
	if len(locs) < 2 {
		return nil
	}
	// The first label's segment absorbs any preamble before it
	starts := []int{0}
	for _, loc := range locs[1:] {
		starts = append(starts, loc[0])
	}
	return build(text, starts, MethodTripLabels)
}

func build(text string, starts []int, method Method) []Segment {
	segs := make([]Segment, 0, len(starts))
	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		chunk := text[start:end]
		left := strings.TrimLeftFunc(chunk, unicode.IsSpace)
		trimmed := strings.TrimRightFunc(left, unicode.IsSpace)
		if trimmed == "" {
			continue
		}
		// Offsets move with the trim so text[StartChar:EndChar] == Text
		segStart := start + len(chunk) - len(left)
		segs = append(segs, Segment{
			ID:        len(segs),
			Text:      trimmed,
			StartChar: segStart,
			EndChar:   segStart + len(trimmed),
			Method:    method,
		})
	}
	return segs
}
