package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dustin/go-wikicorpus"
)

var sampleCmd = &cobra.Command{
	Use:   "sample <corpus.jsonl>",
	Short: "Write a random sample of a cleaned corpus",
	Args:  cobra.ExactArgs(1),
	RunE:  runSample,
}

func init() {
	sampleCmd.Flags().IntP("count", "n", 1000, "number of lines to sample")
	sampleCmd.Flags().Int64("seed", 0, "random seed (0 uses the clock)")
	rootCmd.AddCommand(sampleCmd)
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func runSample(cmd *cobra.Command, args []string) error {
	n, _ := cmd.Flags().GetInt("count")
	seed, _ := cmd.Flags().GetInt64("seed")
	out := viper.GetString("sink.path")

	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	w := os.Stdout
	if out != "" && out != "-" {
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return err
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	written, err := wikicorpus.SampleLines(in, w, n, newRand(seed))
	if err != nil {
		return fmt.Errorf("sampling %v: %w", args[0], err)
	}
	log.Info().Str("lines", humanize.Comma(int64(written))).Str("out", out).Msg("sampled")
	return nil
}
