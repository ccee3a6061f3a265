// Package intent defines the email intent classification capability.
// The pipeline only depends on the Classifier interface; a learned model
// is injected at construction and the keyword fallback is always available.
package intent

import (
	"context"
	"regexp"
)

// Supported intent labels
const (
	BookingRequest      = "booking_request"
	BookingModification = "booking_modification"
	Cancellation        = "cancellation"
	PriceInquiry        = "price_inquiry"
	AvailabilityCheck   = "availability_check"
	Other               = "other"
)

// Classification methods
const (
	MethodML      = "ml"
	MethodRule    = "rule"
	MethodDefault = "default"
)

// Result is a classification outcome
type Result struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"`
}

// Classifier classifies the coarse purpose of an email
type Classifier interface {
	Classify(ctx context.Context, text string) (Result, error)
}

// keywordRule maps a keyword pattern set to an intent. Rules are
// evaluated in order, first match wins.
type keywordRule struct {
	intent     string
	confidence float64
	patterns   []*regexp.Regexp
}

// RuleClassifier is the keyword-based fallback. It never fails and needs
// no model, so it is always available.
type RuleClassifier struct {
	rules []keywordRule
}

func patterns(exprs ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		res[i] = regexp.MustCompile(`(?i)` + e)
	}
	return res
}

// NewRuleClassifier creates the keyword fallback classifier
func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{
		rules: []keywordRule{
			{BookingRequest, 0.75, patterns(
				`\bbook(?:ing)?\b`,
				`\breserv(?:e|ation)\b`,
				`\b(?:need|want)\s+(?:a|an|one|\d+)\s+(?:\w+\s+){0,2}rooms?\b`,
				`\blooking for\b`,
			)},
			{BookingModification, 0.75, patterns(
				`\bchange\b`, `\bmodify\b`, `\bupdate my booking\b`,
			)},
			{Cancellation, 0.80, patterns(`\bcancel(?:lation)?\b`)},
			{PriceInquiry, 0.70, patterns(
				`\bhow much\b`, `\bprice\b`, `\bcost\b`, `\brates?\b`,
			)},
			{AvailabilityCheck, 0.70, patterns(`\bavailab(?:le|ility)\b`)},
		},
	}
}

// Classify matches keyword pattern sets per intent in priority order
func (c *RuleClassifier) Classify(_ context.Context, text string) (Result, error) {
	for _, rule := range c.rules {
		for _, re := range rule.patterns {
			if re.MatchString(text) {
				return Result{Intent: rule.intent, Confidence: rule.confidence, Method: MethodRule}, nil
			}
		}
	}
	return Result{Intent: Other, Confidence: 0.5, Method: MethodRule}, nil
}

// Hybrid tries a learned model first and falls back to keyword rules when
// the model is absent, errors, or is under-confident.
type Hybrid struct {
	model     Classifier
	threshold float64
	rules     *RuleClassifier
}

// NewHybrid wraps an optional model with the rule fallback. A nil model
// degrades to rules only.
func NewHybrid(model Classifier, threshold float64) *Hybrid {
	return &Hybrid{model: model, threshold: threshold, rules: NewRuleClassifier()}
}

// Classify never returns an error: classification degrades, it does not fail
func (h *Hybrid) Classify(ctx context.Context, text string) (Result, error) {
	if h.model != nil {
		res, err := h.model.Classify(ctx, text)
		if err == nil && res.Confidence >= h.threshold {
			res.Method = MethodML
			return res, nil
		}
	}
	return h.rules.Classify(ctx, text)
}
