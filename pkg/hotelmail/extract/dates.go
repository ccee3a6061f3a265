package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/booking"
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/rules"
)

// DateResult carries resolved travel dates with per-field confidence.
// Confidence keys are arrival_date, departure_date and nights.
type DateResult struct {
	Arrival    *time.Time
	Departure  *time.Time
	Nights     *int
	Confidence map[string]float64
}

// DateCandidate is an un-classified date occurrence in segment text
type DateCandidate struct {
	Date     time.Time
	RawText  string
	Position int
}

// classification context window, in bytes around the occurrence
const contextWindow = 50

var (
	nightsPattern = regexp.MustCompile(`(?i)\b(\d{1,3})\s+nights?\b`)
	isoPattern    = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	slashPattern  = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{2,4}))?\b`)

	monthExpr = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

	// "May 10, 2026" and in-month ranges like "May 10-12, 2026"
	monthDayYear = regexp.MustCompile(`(?i)\b(` + monthExpr + `)\.?\s+(\d{1,2})(?:\s*[-–]\s*(\d{1,2}))?,?\s+(\d{4})\b`)

	// "May 12 to May 15[, 2026]"; year defaults to the reference year
	monthToMonth = regexp.MustCompile(`(?i)\b(` + monthExpr + `)\.?\s+(\d{1,2})\s+(?:to|until|through)\s+(` + monthExpr + `)\.?\s+(\d{1,2})(?:,?\s+(\d{4}))?\b`)

	relativePattern = regexp.MustCompile(`(?i)\b(tonight|tomorrow|next\s+(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday))\b`)

	arrivalKeywords   = compileKeywords("arrival", "arrive", "arriving", "check-in", "check in", "checkin", "checking in", "from", "starting", "start", "begin", "beginning")
	departureKeywords = compileKeywords("departure", "depart", "departing", "check-out", "check out", "checkout", "checking out", "leave", "leaving", "until", "till", "to", "through", "ending")
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

func compileKeywords(words ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(words))
	for i, w := range words {
		res[i] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`)
	}
	return res
}

func monthOf(name string) time.Month {
	return months[strings.ToLower(name)[:3]]
}

// extractDates recovers arrival, departure and nights from segment text.
// Explicit night counts score 1.0; classified dates score by keyword
// context; triangulated fields score 0.8 (dates) or 0.9 (nights).
func extractDates(text string, ref time.Time) DateResult {
	result := DateResult{Confidence: map[string]float64{}}

	if m := nightsPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			result.Nights = &n
			result.Confidence["nights"] = 1.0
		}
	}

	candidates := collectCandidates(text, ref)

	arrival, departure, arrConf, depConf := classifyCandidates(text, candidates)
	if arrival != nil {
		result.Arrival = &arrival.Date
		result.Confidence["arrival_date"] = arrConf
	}
	if departure != nil {
		result.Departure = &departure.Date
		result.Confidence["departure_date"] = depConf
	}

	return triangulate(result)
}

// collectCandidates runs every detector, deduplicates by resulting ISO
// date and sorts by text position.
func collectCandidates(text string, ref time.Time) []DateCandidate {
	var cands []DateCandidate
	add := func(d time.Time, raw string, pos int) {
		cands = append(cands, DateCandidate{Date: d, RawText: raw, Position: pos})
	}

	for _, m := range isoPattern.FindAllStringSubmatchIndex(text, -1) {
		raw := text[m[0]:m[1]]
		if d, err := time.Parse(booking.DateLayout, raw); err == nil {
			add(d, raw, m[0])
		}
	}

	for _, m := range monthDayYear.FindAllStringSubmatchIndex(text, -1) {
		// Inside a "May 12 to May 15, 2026" range this pattern would
		// re-match the second half; the range detector below owns it and
		// dedup keeps one candidate per date anyway.
		month := monthOf(text[m[2]:m[3]])
		year := atoi(text[m[8]:m[9]])
		day1 := atoi(text[m[4]:m[5]])
		raw := text[m[0]:m[1]]
		if d, ok := makeDate(year, month, day1); ok {
			add(d, raw, m[0])
		}
		if m[6] >= 0 {
			if d, ok := makeDate(year, month, atoi(text[m[6]:m[7]])); ok {
				add(d, raw, m[0])
			}
		}
	}

	for _, m := range monthToMonth.FindAllStringSubmatchIndex(text, -1) {
		year := ref.Year()
		if m[10] >= 0 {
			year = atoi(text[m[10]:m[11]])
		}
		if d, ok := makeDate(year, monthOf(text[m[2]:m[3]]), atoi(text[m[4]:m[5]])); ok {
			add(d, text[m[0]:m[1]], m[0])
		}
		if d, ok := makeDate(year, monthOf(text[m[6]:m[7]]), atoi(text[m[8]:m[9]])); ok {
			add(d, text[m[6]:m[9]], m[6])
		}
	}

	for _, m := range slashPattern.FindAllStringSubmatchIndex(text, -1) {
		if d, ok := parseSlashDate(text, m, ref); ok {
			add(d, text[m[0]:m[1]], m[0])
		}
	}

	for _, m := range relativePattern.FindAllStringSubmatchIndex(text, -1) {
		raw := strings.ToLower(text[m[0]:m[1]])
		var d time.Time
		switch {
		case raw == "tonight":
			d = dateOnly(ref)
		case raw == "tomorrow":
			d = dateOnly(ref).AddDate(0, 0, 1)
		default:
			// "next <weekday>" approximated as one week out
			d = dateOnly(ref).AddDate(0, 0, 7)
		}
		add(d, text[m[0]:m[1]], m[0])
	}

	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Position < cands[j].Position })

	seen := make(map[string]struct{}, len(cands))
	deduped := cands[:0]
	for _, c := range cands {
		key := c.Date.Format(booking.DateLayout)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, c)
	}
	return deduped
}

// parseSlashDate handles numeric m/d[/y] dates, month-first with a swap
// when the first field cannot be a month. Missing years resolve to the
// next occurrence at or after the reference date.
func parseSlashDate(text string, m []int, ref time.Time) (time.Time, bool) {
	first := atoi(text[m[2]:m[3]])
	second := atoi(text[m[4]:m[5]])

	month, day := first, second
	if month > 12 && day <= 12 {
		month, day = day, month
	}

	if m[6] >= 0 {
		year := atoi(text[m[6]:m[7]])
		if year < 100 {
			year += 2000
		}
		return makeDateChecked(year, month, day)
	}

	d, ok := makeDateChecked(ref.Year(), month, day)
	if !ok {
		return time.Time{}, false
	}
	if d.Before(dateOnly(ref)) {
		d = d.AddDate(1, 0, 0)
	}
	return d, true
}

func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	if month == 0 || day < 1 || day > 31 || year < 1900 || year > 2200 {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// Reject normalized overflow such as February 30
	if d.Day() != day || d.Month() != month {
		return time.Time{}, false
	}
	return d, true
}

func makeDateChecked(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 {
		return time.Time{}, false
	}
	return makeDate(year, time.Month(month), day)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// classifyCandidates assigns each candidate to arrival or departure by
// scoring the keyword context around its occurrence. Ties fill the first
// unresolved slot (arrival, then departure) at confidence 0.5; within a
// class the highest-confidence candidate wins.
func classifyCandidates(text string, cands []DateCandidate) (arr, dep *DateCandidate, arrConf, depConf float64) {
	type classified struct {
		cand DateCandidate
		conf float64
	}
	var arrivals, departures []classified
	hasArrival, hasDeparture := false, false

	for _, c := range cands {
		window := contextOf(text, c)
		aScore := keywordScore(window, arrivalKeywords)
		dScore := keywordScore(window, departureKeywords)

		switch {
		case aScore > dScore:
			arrivals = append(arrivals, classified{c, confFromScore(aScore)})
			hasArrival = true
		case dScore > aScore:
			departures = append(departures, classified{c, confFromScore(dScore)})
			hasDeparture = true
		case !hasArrival:
			arrivals = append(arrivals, classified{c, 0.5})
			hasArrival = true
		case !hasDeparture:
			departures = append(departures, classified{c, 0.5})
			hasDeparture = true
		default:
			arrivals = append(arrivals, classified{c, 0.5})
		}
	}

	pick := func(list []classified) (*DateCandidate, float64) {
		if len(list) == 0 {
			return nil, 0
		}
		best := list[0]
		for _, c := range list[1:] {
			if c.conf > best.conf {
				best = c
			}
		}
		cand := best.cand
		return &cand, best.conf
	}

	arr, arrConf = pick(arrivals)
	dep, depConf = pick(departures)
	return arr, dep, arrConf, depConf
}

func contextOf(text string, c DateCandidate) string {
	start := c.Position - contextWindow
	if start < 0 {
		start = 0
	}
	end := c.Position + len(c.RawText) + contextWindow
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}

func keywordScore(window string, keywords []*regexp.Regexp) int {
	score := 0
	for _, re := range keywords {
		if re.MatchString(window) {
			score++
		}
	}
	return score
}

func confFromScore(score int) float64 {
	conf := 0.5 + 0.1*float64(score)
	if conf > 0.9 {
		conf = 0.9
	}
	return conf
}

// triangulate fills the missing date field from the other two, delegating
// the arithmetic to the rules engine so extraction and validation agree.
func triangulate(r DateResult) DateResult {
	known := 0
	if r.Arrival != nil {
		known++
	}
	if r.Departure != nil {
		known++
	}
	if r.Nights != nil {
		known++
	}
	if known < 2 {
		return r
	}

	res := rules.ResolveDates(r.Arrival, r.Departure, r.Nights)
	switch res.Method {
	case rules.MethodArrivalPlusNights:
		r.Departure = res.Departure
		r.Confidence["departure_date"] = 0.8
	case rules.MethodDepartureMinusNights:
		r.Arrival = res.Arrival
		r.Confidence["arrival_date"] = 0.8
	case rules.MethodDateDiff:
		if res.Nights != nil && *res.Nights > 0 {
			r.Nights = res.Nights
			r.Confidence["nights"] = 0.9
		}
	case rules.MethodAllPresent:
		// Duration mismatch is corrected silently by trusting the dates
		if res.Nights != nil && *res.Nights != *r.Nights {
			r.Nights = res.Nights
			r.Confidence["nights"] = 0.9
		}
	}
	return r
}
