// batch-parse processes a directory of email text files in parallel,
// writing one JSON result per email. Emails are independent, so the
// worker pool needs no coordination beyond the work channel; a failed
// email never aborts its siblings.
package main

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/oklog/ulid/v2"

	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/internal/llm"
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail"
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/booking"
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/config"
)

func main() {
	var (
		inDir      = flag.String("in", "", "Input directory of email files (required)")
		outDir     = flag.String("out", "output", "Output directory for JSON results")
		pattern    = flag.String("pattern", "*.txt", "File glob to match")
		workers    = flag.Int("workers", 4, "Number of parallel workers")
		hotelCfg   = flag.String("hotel-config", "", "Hotel config YAML (optional)")
		normCfg    = flag.String("norm-config", "", "Normalization config YAML (optional)")
		refDate    = flag.String("ref-date", "", "Reference date YYYY-MM-DD for relative phrases")
		useOpenAI  = flag.Bool("openai", false, "Use the OpenAI intent classifier (needs OPENAI_API_KEY)")
		openAIModl = flag.String("openai-model", "", "OpenAI model name")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *inDir == "" {
		slog.Error("--in required")
		os.Exit(1)
	}

	_ = godotenv.Load()

	pipeline, err := buildPipeline(*hotelCfg, *normCfg, *refDate, *useOpenAI, *openAIModl)
	if err != nil {
		slog.Error("pipeline construction failed", "error", err)
		os.Exit(1)
	}

	files, err := filepath.Glob(filepath.Join(*inDir, *pattern))
	if err != nil {
		slog.Error("bad pattern", "pattern", *pattern, "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		slog.Error("no matching files", "dir", *inDir, "pattern", *pattern)
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		slog.Error("create output dir", "dir", *outDir, "error", err)
		os.Exit(1)
	}

	runID := ulid.MustNew(ulid.Now(), ulid.Monotonic(rand.Reader, 0)).String()
	slog.Info("batch start", "run_id", runID, "files", len(files), "workers", *workers)

	var processed, failed atomic.Int64
	work := make(chan string)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range work {
				if err := processFile(pipeline, path, *outDir, runID); err != nil {
					// Never log email content, only identifiers
					slog.Error("processing failed", "run_id", runID, "file", filepath.Base(path), "error", err)
					failed.Add(1)
					continue
				}
				processed.Add(1)
			}
		}()
	}

	start := time.Now()
	for _, path := range files {
		work <- path
	}
	close(work)
	wg.Wait()

	slog.Info("batch complete",
		"run_id", runID,
		"processed", processed.Load(),
		"failed", failed.Load(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if failed.Load() > 0 {
		os.Exit(1)
	}
}

func processFile(pipeline *hotelmail.Pipeline, path, outDir, runID string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	emailID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	started := time.Now()

	result, err := pipeline.Process(context.Background(), string(data), emailID)
	if err != nil {
		return fmt.Errorf("process: %w", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	outPath := filepath.Join(outDir, emailID+".json")
	if err := os.WriteFile(outPath, out, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	slog.Info("processing complete",
		"run_id", runID,
		"email_id", emailID,
		"intent", result.Intent,
		"segments", len(result.Segments),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return nil
}

func buildPipeline(hotelCfg, normCfg, refDate string, useOpenAI bool, model string) (*hotelmail.Pipeline, error) {
	loader := &config.Loader{HotelPath: hotelCfg, NormalizationPath: normCfg}
	comp, err := loader.Load()
	if err != nil {
		return nil, err
	}

	opts := hotelmail.Options{Config: comp}

	if refDate != "" {
		ref, err := time.Parse(booking.DateLayout, refDate)
		if err != nil {
			return nil, fmt.Errorf("parse --ref-date: %w", err)
		}
		opts.ReferenceDate = ref
	}

	if useOpenAI {
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, fmt.Errorf("--openai requires OPENAI_API_KEY")
		}
		opts.Classifier = llm.NewClassifier(key, model)
	}

	return hotelmail.New(opts)
}
