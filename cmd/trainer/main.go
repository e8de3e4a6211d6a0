package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/jengzang/wifi-positioning-go/internal/config"
	"github.com/jengzang/wifi-positioning-go/internal/dataset"
	"github.com/jengzang/wifi-positioning-go/internal/service"
)

func main() {
	cfg := config.Load()

	input := flag.String("input", cfg.TrainingDataPath, "long-format training CSV")
	wideOut := flag.String("wide", "", "optional path to also save the pivoted wide CSV")
	topK := flag.Int("top-k", 0, "limit the schema to the K most frequent APs (0 = all)")
	neighbors := flag.Int("k", 0, "neighbor count for the classifier (0 = default)")
	testFraction := flag.Float64("test-fraction", 0.2, "hold-out share for evaluation")
	seed := flag.Int64("seed", 42, "split shuffle seed")
	flag.Parse()

	log.Printf("Loading %s...", *input)
	rows, err := dataset.ReadLongFile(*input)
	if err != nil {
		log.Fatal("Failed to load training data: ", err)
	}
	log.Printf("Loaded %d AP readings", len(rows))

	table, err := dataset.Pivot(rows, *topK)
	if err != nil {
		log.Fatal("Failed to pivot training data: ", err)
	}
	log.Printf("Pivoted to %d scans x %d APs", len(table.Matrix), table.Schema.Len())

	if *wideOut != "" {
		if err := dataset.SaveWideFile(*wideOut, table); err != nil {
			log.Fatal("Failed to save wide CSV: ", err)
		}
		log.Printf("Saved wide CSV: %s", *wideOut)
	}

	trainer := service.NewTrainingService()
	bundle, result, err := trainer.Train(table, service.TrainOptions{
		Neighbors:    *neighbors,
		TestFraction: *testFraction,
		Seed:         *seed,
	})
	if err != nil {
		log.Fatal("Training failed: ", err)
	}

	for _, name := range sortedNames(result.ClassCounts) {
		log.Printf("  %s: %d samples", name, result.ClassCounts[name])
	}
	log.Printf("Hold-out accuracy: %.2f%% (%d train / %d test)",
		result.Accuracy*100, result.TrainSamples, result.TestSamples)

	paths := service.ArtifactPaths{
		Model:  cfg.ModelPath,
		Labels: cfg.LabelsPath,
		Schema: cfg.SchemaPath,
	}
	if err := os.MkdirAll(filepath.Dir(paths.Model), 0755); err != nil {
		log.Fatal("Failed to create artifact directory: ", err)
	}
	if err := service.SaveArtifacts(paths, bundle); err != nil {
		log.Fatal("Failed to save artifacts: ", err)
	}

	log.Printf("Saved model: %s", paths.Model)
	log.Printf("Saved label space: %s", paths.Labels)
	log.Printf("Saved feature schema: %s", paths.Schema)
}

func sortedNames(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	// Alphabetical, matching label space code order.
	sort.Strings(names)
	return names
}
