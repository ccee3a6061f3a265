// evaluate-pipeline scores the extraction pipeline against a ground-truth
// JSONL file. Each line holds one labelled email:
//
//	{"raw_email": "...", "intent": "booking_request", "segments": [...]}
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail"
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/booking"
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/config"
)

type groundTruth struct {
	RawEmail string            `json:"raw_email"`
	Intent   string            `json:"intent"`
	Segments []booking.Segment `json:"segments"`
}

func main() {
	var (
		testFile = flag.String("test", "", "Ground-truth JSONL file (required)")
		hotelCfg = flag.String("hotel-config", "", "Hotel config YAML (optional)")
		normCfg  = flag.String("norm-config", "", "Normalization config YAML (optional)")
		refDate  = flag.String("ref-date", "", "Reference date YYYY-MM-DD")
	)
	flag.Parse()

	if *testFile == "" {
		log.Fatal("--test required")
	}

	comp, err := (&config.Loader{HotelPath: *hotelCfg, NormalizationPath: *normCfg}).Load()
	if err != nil {
		log.Fatal(err)
	}

	opts := hotelmail.Options{Config: comp}
	if *refDate != "" {
		ref, err := time.Parse(booking.DateLayout, *refDate)
		if err != nil {
			log.Fatal("parse --ref-date:", err)
		}
		opts.ReferenceDate = ref
	}

	pipeline, err := hotelmail.New(opts)
	if err != nil {
		log.Fatal(err)
	}

	cases, err := loadGroundTruth(*testFile)
	if err != nil {
		log.Fatal(err)
	}
	if len(cases) == 0 {
		log.Fatal("no test cases in", *testFile)
	}

	ctx := context.Background()
	intentCorrect := 0
	segmentCountCorrect := 0

	for _, tc := range cases {
		result, err := pipeline.Process(ctx, tc.RawEmail, "")
		if err != nil {
			log.Fatal("process:", err)
		}
		if result.Intent == tc.Intent {
			intentCorrect++
		}
		if len(result.Segments) == len(tc.Segments) {
			segmentCountCorrect++
		}
	}

	total := len(cases)
	fmt.Println("===========================================")
	fmt.Println("  Pipeline Evaluation")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Printf("Test set size:         %d emails\n", total)
	fmt.Printf("Intent classification: %d/%d (%.1f%%)\n", intentCorrect, total, pct(intentCorrect, total))
	fmt.Printf("Segment count:         %d/%d (%.1f%%)\n", segmentCountCorrect, total, pct(segmentCountCorrect, total))
}

func loadGroundTruth(path string) ([]groundTruth, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open test file: %w", err)
	}
	defer f.Close()

	var cases []groundTruth
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var tc groundTruth
		if err := json.Unmarshal(line, &tc); err != nil {
			return nil, fmt.Errorf("parse test case %d: %w", len(cases)+1, err)
		}
		cases = append(cases, tc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read test file: %w", err)
	}
	return cases, nil
}

func pct(n, total int) float64 {
	return float64(n) / float64(total) * 100
}
