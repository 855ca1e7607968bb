package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/artifact"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/dataset"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/evaluation"
	"github.com/Meesho/BharatMLStack/rental-pricer/pkg/schema"
)

// trainer fits the pricing pipeline offline and writes the artifact the
// serving process loads at startup. The preprocessing it fits and the
// serving-side frame assembly share pkg/schema, so the column contract
// cannot drift silently.
func main() {
	dataPath := flag.String("data", "data/get_around_pricing_project.csv", "path to the historical pricing CSV")
	outPath := flag.String("out", "model/model.json", "path to write the model artifact")
	testRatio := flag.Float64("test-ratio", 0.2, "fraction of rows held out for evaluation")
	seed := flag.Int64("seed", 42, "random seed for the split and the forest")
	nEstimators := flag.Int("n-estimators", 100, "number of trees in the forest")
	maxDepth := flag.Int("max-depth", 0, "maximum tree depth, 0 for unlimited")
	minSamplesLeaf := flag.Int("min-samples-leaf", 1, "minimum samples per leaf")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	fullFrame, targets, skipped, err := dataset.LoadPricingCSV(*dataPath)
	if err != nil {
		log.Fatal().Err(err).Msgf("Failed to load dataset %s", *dataPath)
	}
	log.Info().Msgf("Loaded %d rows from %s (%d malformed rows skipped)", fullFrame.RowCount(), *dataPath, skipped)

	trainIdx, testIdx := dataset.SplitIndices(fullFrame.RowCount(), *testRatio, *seed)
	trainFrame := dataset.Subset(fullFrame, trainIdx)
	testFrame := dataset.Subset(fullFrame, testIdx)
	trainY := dataset.SelectTargets(targets, trainIdx)
	testY := dataset.SelectTargets(targets, testIdx)

	encoder := &artifact.Encoder{
		NumericColumns:     schema.NumericColumns(),
		CategoricalColumns: schema.CategoricalColumns(),
		BooleanColumns:     schema.BooleanColumns(),
	}
	if err := encoder.Fit(trainFrame); err != nil {
		log.Fatal().Err(err).Msg("Failed to fit encoder")
	}

	trainX, err := encoder.Transform(trainFrame)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode training frame")
	}
	testX, err := encoder.Transform(testFrame)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode evaluation frame")
	}

	forest := artifact.NewRandomForestRegressor(
		artifact.WithNEstimators(*nEstimators),
		artifact.WithMaxDepth(*maxDepth),
		artifact.WithMinSamplesLeaf(*minSamplesLeaf),
		artifact.WithRandomState(*seed),
	)
	log.Info().Msgf("Training forest: %d trees over %d rows x %d encoded columns",
		*nEstimators, len(trainX), encoder.Width())
	start := time.Now()
	if err := forest.Fit(trainX, trainY); err != nil {
		log.Fatal().Err(err).Msg("Failed to fit forest")
	}
	log.Info().Msgf("Training finished in %s", time.Since(start))

	predictions, err := forest.Predict(testX)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to score evaluation set")
	}
	mae := evaluation.MAE(testY, predictions)
	rmse := evaluation.RMSE(testY, predictions)
	r2 := evaluation.R2(testY, predictions)

	art := &artifact.Artifact{
		Version:   "1.0",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Encoder:   encoder,
		Forest:    forest,
	}
	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatal().Err(err).Msgf("Failed to create output directory for %s", *outPath)
	}
	if err := art.Save(*outPath); err != nil {
		log.Fatal().Err(err).Msgf("Failed to write artifact %s", *outPath)
	}

	log.Info().Msgf("Model trained and saved to %s", *outPath)
	fmt.Printf("MAE: %.2f | RMSE: %.2f | R²: %.3f\n", mae, rmse, r2)
}
