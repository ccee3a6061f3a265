package config

import (
	"fmt"
	"regexp"
)

// Loader loads configuration files and compiles lookup tables
type Loader struct {
	HotelPath         string
	NormalizationPath string
}

// Components holds configuration compiled into ready-to-use form:
// regex pattern tables for the normalizer and the validated hotel config.
// Components are immutable after Load and shared across processing calls.
type Components struct {
	Hotel         *Hotel
	Normalization *Normalization

	SignaturePatterns  []*regexp.Regexp
	DisclaimerPatterns []*regexp.Regexp
	GreetingPatterns   []*regexp.Regexp
}

// Load reads configuration files and compiles all pattern tables.
// Empty paths fall back to the built-in defaults.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	if l.HotelPath != "" {
		hotel, err := LoadHotel(l.HotelPath)
		if err != nil {
			return nil, fmt.Errorf("load hotel config: %w", err)
		}
		comp.Hotel = hotel
	} else {
		comp.Hotel = DefaultHotel()
	}

	if l.NormalizationPath != "" {
		norm, err := LoadNormalization(l.NormalizationPath)
		if err != nil {
			return nil, fmt.Errorf("load normalization config: %w", err)
		}
		comp.Normalization = norm
	} else {
		comp.Normalization = DefaultNormalization()
	}

	var err error
	comp.SignaturePatterns, err = compilePatterns(comp.Normalization.SignaturePatterns)
	if err != nil {
		return nil, fmt.Errorf("compile signature patterns: %w", err)
	}
	comp.DisclaimerPatterns, err = compilePatterns(comp.Normalization.DisclaimerPatterns)
	if err != nil {
		return nil, fmt.Errorf("compile disclaimer patterns: %w", err)
	}
	comp.GreetingPatterns, err = compilePatterns(comp.Normalization.GreetingPatterns)
	if err != nil {
		return nil, fmt.Errorf("compile greeting patterns: %w", err)
	}

	return comp, nil
}

func compilePatterns(exprs []string) ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", expr, err)
		}
		patterns = append(patterns, re)
	}
	return patterns, nil
}
