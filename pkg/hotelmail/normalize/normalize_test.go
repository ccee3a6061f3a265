package normalize

import (
	"strings"
	"testing"

	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/config"
)

func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	comp, err := (&config.Loader{}).Load()
	if err != nil {
		t.Fatalf("load default config: %v", err)
	}
	return New(comp)
}

func TestSignatureRemoval(t *testing.T) {
	n := newTestNormalizer(t)

	result := n.Normalize("Need a room.\n\nSent from my iPhone")

	if strings.Contains(result.Text, "Sent from my iPhone") {
		t.Errorf("signature should be removed, got %q", result.Text)
	}
	if !strings.Contains(result.Text, "Need a room.") {
		t.Errorf("body should survive, got %q", result.Text)
	}

	found := false
	for _, span := range result.SpansRemoved {
		if span.Reason == ReasonSignature {
			found = true
			if span.End <= span.Start {
				t.Errorf("span is empty: %+v", span)
			}
		}
	}
	if !found {
		t.Error("expected at least one span tagged signature")
	}
}

func TestDisclaimerRemoval(t *testing.T) {
	n := newTestNormalizer(t)

	raw := "I want to book a suite.\n\nThis email is confidential and intended only for the addressee."
	result := n.Normalize(raw)

	if strings.Contains(strings.ToLower(result.Text), "confidential") {
		t.Errorf("disclaimer should be removed, got %q", result.Text)
	}

	found := false
	for _, span := range result.SpansRemoved {
		if span.Reason == ReasonDisclaimer {
			found = true
		}
	}
	if !found {
		t.Error("expected a disclaimer span")
	}
}

func TestGreetingsKeptByDefault(t *testing.T) {
	n := newTestNormalizer(t)

	result := n.Normalize("Hello, I need a room for tomorrow.")
	if !strings.HasPrefix(result.Text, "Hello,") {
		t.Errorf("greetings are off by default, got %q", result.Text)
	}
}

func TestGreetingRemovalWhenEnabled(t *testing.T) {
	comp, err := (&config.Loader{}).Load()
	if err != nil {
		t.Fatalf("load default config: %v", err)
	}
	comp.Normalization.Options.RemoveGreetings = true
	n := New(comp)

	result := n.Normalize("Dear Sir, I need a room for tomorrow.")
	if strings.Contains(result.Text, "Dear") {
		t.Errorf("greeting should be removed, got %q", result.Text)
	}
	if len(result.SpansRemoved) != 1 || result.SpansRemoved[0].Reason != ReasonGreeting {
		t.Errorf("expected one greeting span, got %+v", result.SpansRemoved)
	}
}

func TestWhitespaceNormalization(t *testing.T) {
	n := newTestNormalizer(t)

	raw := "one\ttwo   three\n\n\n\n\nfour  \n  five"
	result := n.Normalize(raw)

	want := "one two three\n\nfour\nfive"
	if result.Text != want {
		t.Errorf("got %q, want %q", result.Text, want)
	}
}

func TestWhitespaceIdempotent(t *testing.T) {
	n := newTestNormalizer(t)

	inputs := []string{
		"a \t b\n\n\n\nc",
		"  leading and trailing  ",
		"x\n \n \n \ny",
		"plain single line",
		"",
	}
	for _, raw := range inputs {
		once := n.Normalize(raw)
		twice := n.Normalize(once.Text)
		if twice.Text != once.Text {
			t.Errorf("normalize not idempotent for %q: %q != %q", raw, twice.Text, once.Text)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	n := newTestNormalizer(t)

	result := n.Normalize("")
	if result.Text != "" {
		t.Errorf("expected empty text, got %q", result.Text)
	}
	if len(result.SpansRemoved) != 0 {
		t.Errorf("expected no spans, got %+v", result.SpansRemoved)
	}
	if result.Metadata.CharsRemoved != 0 {
		t.Errorf("expected zero chars removed, got %d", result.Metadata.CharsRemoved)
	}
}

func TestMetadata(t *testing.T) {
	n := newTestNormalizer(t)

	raw := "Need a room.\n\nSent from my iPhone"
	result := n.Normalize(raw)

	if result.Metadata.OriginalLength != len(raw) {
		t.Errorf("original length %d, want %d", result.Metadata.OriginalLength, len(raw))
	}
	if result.Metadata.NormalizedLength != len(result.Text) {
		t.Errorf("normalized length %d, want %d", result.Metadata.NormalizedLength, len(result.Text))
	}
	if result.Metadata.CharsRemoved != len(raw)-len(result.Text) {
		t.Errorf("chars removed %d inconsistent", result.Metadata.CharsRemoved)
	}

	hasSig := false
	for _, pass := range result.Metadata.Applied {
		if pass == "signature_removal" {
			hasSig = true
		}
	}
	if !hasSig {
		t.Errorf("applied passes %v should include signature_removal", result.Metadata.Applied)
	}
}

func TestNoMatchesIsNormal(t *testing.T) {
	n := newTestNormalizer(t)

	result := n.Normalize("Just a clean booking request for two nights.")
	if len(result.SpansRemoved) != 0 {
		t.Errorf("clean text should remove nothing, got %+v", result.SpansRemoved)
	}
}

func TestHTMLText(t *testing.T) {
	html := `<html><head><style>p{color:red}</style></head>` +
		`<body><p>I need a double room.</p><p>We are 2 adults.</p>` +
		`<script>alert(1)</script></body></html>`

	text := HTMLText(html)

	if !strings.Contains(text, "I need a double room.") {
		t.Errorf("visible text missing: %q", text)
	}
	if strings.Contains(text, "alert") || strings.Contains(text, "color") {
		t.Errorf("script/style content leaked: %q", text)
	}
	if !strings.Contains(text, "\n") {
		t.Errorf("block elements should produce line breaks: %q", text)
	}
}
