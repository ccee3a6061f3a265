package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/internalerr"
)

// Hotel represents the hotel business configuration
type Hotel struct {
	HotelID              string              `yaml:"hotel_id"`
	ChildAdultAge        int                 `yaml:"child_adult_age"`
	GroupBooking         GroupBooking        `yaml:"group_booking"`
	DefaultRoomOccupancy map[string]int      `yaml:"default_room_occupancy"`
	RoomTypeAliases      map[string][]string `yaml:"room_type_aliases"`
}

// GroupBooking holds the inclusive thresholds for group classification
type GroupBooking struct {
	RoomThreshold  int `yaml:"room_threshold"`
	GuestThreshold int `yaml:"guest_threshold"`
}

// LoadHotel loads and validates hotel configuration from a YAML file
func LoadHotel(path string) (*Hotel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hotel config: %w", err)
	}

	var h Hotel
	if err := yaml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parse hotel config: %w", err)
	}

	if err := h.Validate(); err != nil {
		return nil, err
	}
	return &h, nil
}

// Validate checks that all required fields are present.
// A missing field is a fatal construction error, never deferred to
// processing time.
func (h *Hotel) Validate() error {
	if h.ChildAdultAge <= 0 {
		return fmt.Errorf("%w: child_adult_age required", internalerr.ErrInvalidConfig)
	}
	if h.GroupBooking.RoomThreshold <= 0 || h.GroupBooking.GuestThreshold <= 0 {
		return fmt.Errorf("%w: group_booking thresholds required", internalerr.ErrInvalidConfig)
	}
	if len(h.DefaultRoomOccupancy) == 0 {
		return fmt.Errorf("%w: default_room_occupancy required", internalerr.ErrInvalidConfig)
	}
	if len(h.RoomTypeAliases) == 0 {
		return fmt.Errorf("%w: room_type_aliases required", internalerr.ErrInvalidConfig)
	}
	return nil
}

// Normalization represents the text normalization configuration
type Normalization struct {
	SignaturePatterns  []string             `yaml:"signature_patterns"`
	DisclaimerPatterns []string             `yaml:"disclaimer_patterns"`
	GreetingPatterns   []string             `yaml:"greeting_patterns"`
	Options            NormalizationOptions `yaml:"options"`
	Whitespace         Whitespace           `yaml:"whitespace"`
}

// NormalizationOptions toggles individual normalization passes
type NormalizationOptions struct {
	RemoveSignatures    bool `yaml:"remove_signatures"`
	RemoveDisclaimers   bool `yaml:"remove_disclaimers"`
	RemoveGreetings     bool `yaml:"remove_greetings"`
	NormalizeWhitespace bool `yaml:"normalize_whitespace"`
}

// Whitespace holds limits for the whitespace pass
type Whitespace struct {
	MaxConsecutiveNewlines int `yaml:"max_consecutive_newlines"`
	TabToSpaces            int `yaml:"tab_to_spaces"`
}

// LoadNormalization loads normalization configuration from a YAML file.
// Absent keys keep their default values.
func LoadNormalization(path string) (*Normalization, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read normalization config: %w", err)
	}

	n := DefaultNormalization()
	if err := yaml.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("parse normalization config: %w", err)
	}

	if n.Whitespace.MaxConsecutiveNewlines <= 0 {
		return nil, fmt.Errorf("%w: max_consecutive_newlines must be positive", internalerr.ErrInvalidConfig)
	}
	if n.Whitespace.TabToSpaces < 0 {
		return nil, fmt.Errorf("%w: tab_to_spaces must not be negative", internalerr.ErrInvalidConfig)
	}
	return n, nil
}

// DefaultHotel returns the built-in hotel configuration so the library
// works with no files on disk.
func DefaultHotel() *Hotel {
	return &Hotel{
		HotelID:       "default",
		ChildAdultAge: 12,
		GroupBooking: GroupBooking{
			RoomThreshold:  4,
			GuestThreshold: 12,
		},
		DefaultRoomOccupancy: map[string]int{
			"single": 1,
			"double": 2,
			"twin":   2,
			"queen":  2,
			"king":   2,
			"suite":  2,
			"deluxe": 2,
			"family": 4,
		},
		RoomTypeAliases: map[string][]string{
			"single": {"single", "single room", "one person room"},
			"double": {"double", "double room", "queen bed", "room for two"},
			"twin":   {"twin", "twin room", "two beds", "twin beds"},
			"queen":  {"queen", "queen room"},
			"king":   {"king", "king room", "king bed"},
			"suite":  {"suite", "junior suite", "executive suite"},
			"deluxe": {"deluxe", "deluxe room", "superior room"},
			"family": {"family", "family room", "connecting rooms"},
		},
	}
}

// DefaultNormalization returns the built-in normalization pattern tables.
func DefaultNormalization() *Normalization {
	return &Normalization{
		SignaturePatterns: []string{
			`(?i)sent from my [a-z]+(?: [a-z0-9]+)?`,
			`(?is)\n-- ?\n.*$`,
			`(?is)\n(?:best regards|kind regards|warm regards|regards|sincerely|cheers|many thanks|thank you),\s*\n.*$`,
		},
		DisclaimerPatterns: []string{
			`(?is)this (?:e-?mail|message)[^\n]{0,60}(?:confidential|privileged).*$`,
			`(?is)\nconfidentiality notice:.*$`,
			`(?is)\ndisclaimer:.*$`,
		},
		GreetingPatterns: []string{
			`(?i)^\s*(?:hi|hello|hey|dear|good morning|good afternoon|good evening)(?: [a-z]+){0,3}[,!.]\s*`,
		},
		Options: NormalizationOptions{
			RemoveSignatures:    true,
			RemoveDisclaimers:   true,
			RemoveGreetings:     false,
			NormalizeWhitespace: true,
		},
		Whitespace: Whitespace{
			MaxConsecutiveNewlines: 2,
			TabToSpaces:            4,
		},
	}
}
