package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dustin/go-wikicorpus"
	"github.com/dustin/go-wikicorpus/sink"
)

var rootCmd = &cobra.Command{
	Use:   "wikicorpus",
	Short: "Clean wikipedia dumps into a JSONL text corpus",
	Long: `wikicorpus filters wikipedia articles down to plain, mostly non-Latin
text and writes them as JSON lines.

Examples:
  # Clean the output of an extraction tool
  wikicorpus clean ./data/extracted -o ./data/clean/zhwiki_clean.jsonl

  # Clean a multistream dump directly
  wikicorpus dump zhwiki-index.txt.bz2 zhwiki-pages-articles-multistream.xml.bz2

  # Take a random sample of the result
  wikicorpus sample ./data/clean/zhwiki_clean.jsonl -n 1000 -o sample.jsonl`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default ./.wikicorpus.yaml)")
	pf.BoolP("verbose", "v", false, "enable debug logging")
	pf.Int("workers", runtime.NumCPU(), "number of filtering and dump decoding goroutines")
	pf.Int64("report", 10000, "log progress every this many documents (0 disables)")
	pf.Int("min-length", wikicorpus.DefaultMinLength, "minimum document length in characters")
	pf.Float64("ascii-ratio", wikicorpus.DefaultASCIIRatioThreshold,
		"reject documents whose ASCII letter share is at least this")
	pf.String("stats", "", "write run statistics as YAML to this file")
	pf.Bool("strip-markup", true, "strip leftover wikitext from extracted JSON records before cleaning")

	def := sink.DefaultConfig()
	pf.String("sink", def.Kind, "where cleaned documents go: jsonl, couchbase, couchdb, elasticsearch, mongodb")
	pf.StringP("output", "o", def.Path, "JSONL output file (- for stdout)")
	pf.String("sink-url", "", "server URL for database sinks")
	pf.String("bucket", def.Bucket, "couchbase bucket")
	pf.String("index", def.Index, "elasticsearch index")
	pf.String("doc-type", def.Type, "elasticsearch document type")
	pf.String("database", def.Database, "mongodb database")
	pf.String("collection", def.Collection, "mongodb collection")

	for key, flag := range map[string]string{
		"config":                       "config",
		"verbose":                      "verbose",
		"workers":                      "workers",
		"report_every":                 "report",
		"filter.min_length":            "min-length",
		"filter.ascii_ratio_threshold": "ascii-ratio",
		"stats":                        "stats",
		"strip_markup":                 "strip-markup",
		"sink.kind":                    "sink",
		"sink.path":                    "output",
		"sink.url":                     "sink-url",
		"sink.bucket":                  "bucket",
		"sink.index":                   "index",
		"sink.type":                    "doc-type",
		"sink.database":                "database",
		"sink.collection":              "collection",
	} {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(".wikicorpus")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("WIKICORPUS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine.
	_ = viper.ReadInConfig()
}

func setupLogging(cmd *cobra.Command, args []string) error {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if viper.GetBool("verbose") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if f := viper.ConfigFileUsed(); f != "" {
		log.Debug().Str("file", f).Msg("loaded config")
	}
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
