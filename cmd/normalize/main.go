package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"tendertrail/internal/app"
	"tendertrail/pipeline"
)

func main() {
	dbPath := flag.String("db", "tendertrail.db", "Path to the service database")
	source := flag.String("source", "", "Source to process (adb, wb, ungm, ...)")
	all := flag.Bool("all", false, "Process every configured source")
	limit := flag.Int("limit", 0, "Max raw records per source (0 = no limit)")
	dryRun := flag.Bool("dry-run", false, "Normalize and print records without persisting them")
	flag.Parse()

	if *source == "" && !*all {
		log.Fatal("either -source or -all is required")
	}

	application, err := app.Build(*dbPath)
	if err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}
	defer application.Close()

	ctx := context.Background()

	if *dryRun {
		if *source == "" {
			log.Fatal("-dry-run requires -source")
		}
		if err := dryRunSource(ctx, application, *source, *limit); err != nil {
			log.Fatalf("dry run failed: %v", err)
		}
		return
	}

	var results []pipeline.Result
	if *all {
		results, err = application.Runner.RunAll(ctx, *limit)
	} else {
		var result pipeline.Result
		result, err = application.Runner.RunStored(ctx, *source, *limit)
		results = []pipeline.Result{result}
	}
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}

	fmt.Println("\n--- Tender Normalization ---")
	totalProcessed, totalErrors := 0, 0
	for _, r := range results {
		fmt.Printf("Source: %s\n", r.Source)
		fmt.Printf("  Processed: %d\n", r.Processed)
		fmt.Printf("  Errors: %d\n", r.Errors)
		fmt.Printf("  Duration: %s\n", r.Duration.Round(time.Millisecond))
		totalProcessed += r.Processed
		totalErrors += r.Errors
	}
	fmt.Printf("Total Processed: %d\n", totalProcessed)
	fmt.Printf("Total Errors: %d\n", totalErrors)
	if totalErrors > 0 {
		os.Exit(1)
	}
}

// dryRunSource normalizes stored raw records and prints the outcome per
// record instead of loading it.
func dryRunSource(ctx context.Context, application *app.App, source string, limit int) error {
	src, err := application.Registry.SourceSchema(source)
	if err != nil {
		return err
	}
	raws, err := application.DB.FetchRawRecords(src.Name, limit)
	if err != nil {
		return err
	}

	succeeded, failed := 0, 0
	for _, raw := range raws {
		tender, failure := application.Normalizer.Normalize(ctx, raw, src)
		if failure != nil {
			failed++
			fmt.Printf("FAIL %s\n", failure.Error())
			continue
		}
		succeeded++
		encoded, err := json.MarshalIndent(tender.Fields, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("OK %s/%s\n%s\n", tender.Source, tender.RawID, encoded)
	}
	fmt.Printf("\nDry run: %d ok, %d failed (nothing persisted)\n", succeeded, failed)
	return nil
}
