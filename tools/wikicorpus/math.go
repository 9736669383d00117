package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dustin/go-wikicorpus/fasttext"
)

var mathCmd = &cobra.Command{
	Use:   "math",
	Short: "Prepare data for the math text classifier",
}

var mathSampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Build FastText training and validation files",
	Long: `Read math and general web text (JSON lines with a "text" field),
label, shuffle and split them into training and validation files.

Example:
  wikicorpus math sample --math open-web-math.jsonl --general fineweb.jsonl \
      -n 100000 --train train.txt --valid valid.txt`,
	RunE: runMathSample,
}

var mathPredictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Label web text with a trained FastText model",
	Long: `Send each text through "fasttext predict" and write
label<TAB>text lines.

Example:
  wikicorpus math predict --model model.bin --input fineweb.jsonl \
      -n 5000 --labeled labeled_fineweb.txt`,
	RunE: runMathPredict,
}

func init() {
	f := mathSampleCmd.Flags()
	f.String("math", "", "JSONL file of math text (required)")
	f.String("general", "", "JSONL file of general web text (required)")
	f.String("math-label", "math", "label for math text")
	f.String("general-label", "non_math", "label for general text")
	f.IntP("count", "n", 100000, "records to read from each file")
	f.Float64("train-ratio", fasttext.DefaultTrainRatio, "share of samples used for training")
	f.String("train", "train.txt", "training file to write")
	f.String("valid", "valid.txt", "validation file to write")
	f.Int64("seed", 0, "random seed (0 uses the clock)")
	_ = mathSampleCmd.MarkFlagRequired("math")
	_ = mathSampleCmd.MarkFlagRequired("general")

	f = mathPredictCmd.Flags()
	f.String("model", "model.bin", "trained FastText model")
	f.String("fasttext", "fasttext", "fasttext executable")
	f.String("input", "", "JSONL file of text to label (required)")
	f.IntP("count", "n", 5000, "records to label")
	f.Int("max-length", fasttext.DefaultMaxTextLength, "characters of each text sent to the model")
	f.String("labeled", "labeled_fineweb.txt", "file to write labels to")
	_ = mathPredictCmd.MarkFlagRequired("input")

	mathCmd.AddCommand(mathSampleCmd, mathPredictCmd)
	rootCmd.AddCommand(mathCmd)
}

func loadSamples(fn, label string, n int) ([]string, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	samples, err := fasttext.LoadSamples(f, label, n)
	if err != nil {
		return nil, fmt.Errorf("loading %v: %w", fn, err)
	}
	log.Info().Str("file", fn).Str("label", label).
		Str("samples", humanize.Comma(int64(len(samples)))).Msg("loaded samples")
	return samples, nil
}

func runMathSample(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	mathFile, _ := f.GetString("math")
	generalFile, _ := f.GetString("general")
	mathLabel, _ := f.GetString("math-label")
	generalLabel, _ := f.GetString("general-label")
	n, _ := f.GetInt("count")
	ratio, _ := f.GetFloat64("train-ratio")
	trainPath, _ := f.GetString("train")
	validPath, _ := f.GetString("valid")
	seed, _ := f.GetInt64("seed")

	if ratio <= 0 || ratio >= 1 {
		return fmt.Errorf("train-ratio %v must be between 0 and 1", ratio)
	}

	pos, err := loadSamples(mathFile, mathLabel, n)
	if err != nil {
		return err
	}
	neg, err := loadSamples(generalFile, generalLabel, n)
	if err != nil {
		return err
	}

	train, valid := fasttext.Split(append(pos, neg...), ratio, newRand(seed))
	if err := fasttext.WriteSamples(trainPath, train); err != nil {
		return err
	}
	if err := fasttext.WriteSamples(validPath, valid); err != nil {
		return err
	}
	log.Info().Str("train", trainPath).Int("trainSize", len(train)).
		Str("valid", validPath).Int("validSize", len(valid)).Msg("wrote samples")
	return nil
}

func runMathPredict(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	f := cmd.Flags()
	model, _ := f.GetString("model")
	bin, _ := f.GetString("fasttext")
	input, _ := f.GetString("input")
	n, _ := f.GetInt("count")
	maxLen, _ := f.GetInt("max-length")
	labeled, _ := f.GetString("labeled")

	in, err := os.Open(input)
	if err != nil {
		return err
	}
	defer in.Close()
	texts, err := fasttext.LoadTexts(in, n, maxLen)
	if err != nil {
		return fmt.Errorf("loading %v: %w", input, err)
	}
	log.Info().Str("texts", humanize.Comma(int64(len(texts)))).Msg("predicting labels")

	var c fasttext.Classifier = fasttext.CLIClassifier{Binary: bin, Model: model}
	labels, err := c.PredictAll(ctx, texts)
	if err != nil {
		return err
	}

	out, err := os.Create(labeled)
	if err != nil {
		return err
	}
	if err := fasttext.WriteLabeled(out, labels, texts); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	counts := map[string]int{}
	for _, l := range labels {
		counts[l]++
	}
	for l, cnt := range counts {
		log.Info().Str("label", l).Int("count", cnt).Msg("labelled")
	}
	log.Info().Str("out", labeled).Msg("prediction done")
	return nil
}
