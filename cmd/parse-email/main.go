package main

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/oklog/ulid/v2"

	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/internal/llm"
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail"
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/booking"
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/config"
	"github.com/Th3CtrLKeY/hotel-booking-nlp-pipeline/pkg/hotelmail/normalize"
)

func main() {
	var (
		email      = flag.String("email", "", "Email body to process")
		file       = flag.String("file", "", "File containing the email body")
		htmlInput  = flag.Bool("html", false, "Treat input as an HTML body")
		hotelCfg   = flag.String("hotel-config", "", "Hotel config YAML (optional)")
		normCfg    = flag.String("norm-config", "", "Normalization config YAML (optional)")
		out        = flag.String("out", "", "Output JSON file (default stdout)")
		pretty     = flag.Bool("pretty", false, "Pretty-print JSON output")
		refDate    = flag.String("ref-date", "", "Reference date YYYY-MM-DD for relative phrases (default today)")
		useOpenAI  = flag.Bool("openai", false, "Use the OpenAI intent classifier (needs OPENAI_API_KEY)")
		openAIModl = flag.String("openai-model", "", "OpenAI model name")
	)
	flag.Parse()

	if *email == "" && *file == "" {
		log.Fatal("--email or --file required")
	}

	_ = godotenv.Load()

	pipeline, err := buildPipeline(*hotelCfg, *normCfg, *refDate, *useOpenAI, *openAIModl)
	if err != nil {
		log.Fatal(err)
	}

	body := *email
	emailID := ulid.MustNew(ulid.Now(), ulid.Monotonic(rand.Reader, 0)).String()
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatal("read input:", err)
		}
		body = string(data)
		emailID = strings.TrimSuffix(filepath.Base(*file), filepath.Ext(*file))
	}
	if *htmlInput {
		body = normalize.HTMLText(body)
	}

	result, err := pipeline.Process(context.Background(), body, emailID)
	if err != nil {
		log.Fatal("process:", err)
	}

	if err := writeResult(result, *out, *pretty); err != nil {
		log.Fatal(err)
	}
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

func writeResult(result booking.Result, out string, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	data = append(data, '\n')

	if out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintln(os.Stderr, "Result saved to:", out)
	return nil
}
