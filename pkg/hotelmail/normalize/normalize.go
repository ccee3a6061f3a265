// Package normalize cleans raw email bodies for downstream extraction.
// Removal passes keep provenance spans so every removed region of text
// stays auditable.
package normalize

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/config"
)

// Reason tags why a span of text was removed
type Reason string

const (
	ReasonSignature  Reason = "signature"
	ReasonDisclaimer Reason = "disclaimer"
	ReasonGreeting   Reason = "greeting"
)

// Span is a removed region. Start and End index the text as it stood when
// the owning pass ran, ordered by removal application rather than position.
type Span struct {
	Start  int
	End    int
	Reason Reason
}

// Metadata reports normalization statistics
type Metadata struct {
	CharsRemoved     int
	OriginalLength   int
	NormalizedLength int
	Applied          []string
}

// Email is the normalization result
type Email struct {
	Text         string
	Original     string
	SpansRemoved []Span
	Metadata     Metadata
}

// Normalizer applies signature, disclaimer and greeting removal followed by
// whitespace normalization, in that fixed order.
type Normalizer struct {
	signature  []*regexp.Regexp
	disclaimer []*regexp.Regexp
	greeting   []*regexp.Regexp
	opts       config.NormalizationOptions

	spaceRun   *regexp.Regexp
	newlineRun *regexp.Regexp
	tabRepl    string
	maxNL      int
}

// New creates a Normalizer from compiled configuration
func New(comp *config.Components) *Normalizer {
	ws := comp.Normalization.Whitespace
	return &Normalizer{
		signature:  comp.SignaturePatterns,
		disclaimer: comp.DisclaimerPatterns,
		greeting:   comp.GreetingPatterns,
		opts:       comp.Normalization.Options,
		spaceRun:   regexp.MustCompile(`[^\S\n]+`),
		newlineRun: regexp.MustCompile(fmt.Sprintf(`\n{%d,}`, ws.MaxConsecutiveNewlines+1)),
		tabRepl:    strings.Repeat(" ", ws.TabToSpaces),
		maxNL:      ws.MaxConsecutiveNewlines,
	}
}

// Normalize cleans a raw email body. Absence of matches is the normal
// case, not an error; empty input yields an empty result.
func (n *Normalizer) Normalize(raw string) Email {
	if raw == "" {
		return Email{Metadata: Metadata{Applied: []string{}}}
	}

	text := raw
	var spans []Span
	var applied []string

	if n.opts.RemoveSignatures {
		var removed []Span
		text, removed = removeAll(text, n.signature, ReasonSignature)
		if len(removed) > 0 {
			spans = append(spans, removed...)
			applied = append(applied, "signature_removal")
		}
	}

	if n.opts.RemoveDisclaimers {
		var removed []Span
		text, removed = removeAll(text, n.disclaimer, ReasonDisclaimer)
		if len(removed) > 0 {
			spans = append(spans, removed...)
			applied = append(applied, "disclaimer_removal")
		}
	}

	if n.opts.RemoveGreetings {
		var removed []Span
		text, removed = removeFirst(text, n.greeting, ReasonGreeting)
		if len(removed) > 0 {
			spans = append(spans, removed...)
			applied = append(applied, "greeting_removal")
		}
	}

	if n.opts.NormalizeWhitespace {
		text = n.normalizeWhitespace(text)
		applied = append(applied, "whitespace_normalization")
	}

	text = strings.TrimSpace(text)

	if spans == nil {
		spans = []Span{}
	}
	if applied == nil {
		applied = []string{}
	}

	return Email{
		Text:         text,
		Original:     raw,
		SpansRemoved: spans,
		Metadata: Metadata{
			CharsRemoved:     len(raw) - len(text),
			OriginalLength:   len(raw),
			NormalizedLength: len(text),
			Applied:          applied,
		},
	}
}

// removeAll collects every match of every pattern against the pass input,
// merges overlaps, and rebuilds the string once. Span offsets stay valid
// because nothing mutates between matching and rebuilding.
func removeAll(text string, patterns []*regexp.Regexp, reason Reason) (string, []Span) {
	var spans []Span
	for _, re := range patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			spans = append(spans, Span{Start: loc[0], End: loc[1], Reason: reason})
		}
	}
	if len(spans) == 0 {
		return text, nil
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	merged := spans[:1]
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}

	var b strings.Builder
	prev := 0
	for _, s := range merged {
		b.WriteString(text[prev:s.Start])
		prev = s.End
	}
	b.WriteString(text[prev:])

	return b.String(), merged
}

// removeFirst removes only the first matching span of the first matching
// pattern. Greetings are removed conservatively.
func removeFirst(text string, patterns []*regexp.Regexp, reason Reason) (string, []Span) {
	for _, re := range patterns {
		if loc := re.FindStringIndex(text); loc != nil {
			span := Span{Start: loc[0], End: loc[1], Reason: reason}
			return text[:loc[0]] + text[loc[1]:], []Span{span}
		}
	}
	return text, nil
}

func (n *Normalizer) normalizeWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\t", n.tabRepl)
	text = n.spaceRun.ReplaceAllString(text, " ")
	text = n.newlineRun.ReplaceAllString(text, strings.Repeat("\n", n.maxNL))

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")

	// Trimming whitespace-only lines can merge separate newline runs into
	// one longer run; cap it again so the pass is idempotent.
	return n.newlineRun.ReplaceAllString(text, strings.Repeat("\n", n.maxNL))
}
