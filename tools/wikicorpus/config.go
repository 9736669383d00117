package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/viper"

	"github.com/dustin/go-wikicorpus"
	"github.com/dustin/go-wikicorpus/sink"
)

func runOptions() (wikicorpus.Options, error) {
	cfg := wikicorpus.FilterConfig{
		MinLength:           viper.GetInt("filter.min_length"),
		ASCIIRatioThreshold: viper.GetFloat64("filter.ascii_ratio_threshold"),
	}
	if err := cfg.Validate(); err != nil {
		return wikicorpus.Options{}, err
	}
	return wikicorpus.Options{
		Filter:      cfg,
		Workers:     viper.GetInt("workers"),
		ReportEvery: viper.GetInt64("report_every"),
		StripMarkup: viper.GetBool("strip_markup"),
	}, nil
}

// decodeWorkers is the number of goroutines decoding multistream
// dump streams.
func decodeWorkers() int {
	if n := viper.GetInt("workers"); n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

func sinkConfig() sink.Config {
	return sink.Config{
		Kind:       viper.GetString("sink.kind"),
		Path:       viper.GetString("sink.path"),
		URL:        viper.GetString("sink.url"),
		Bucket:     viper.GetString("sink.bucket"),
		Index:      viper.GetString("sink.index"),
		Type:       viper.GetString("sink.type"),
		Database:   viper.GetString("sink.database"),
		Collection: viper.GetString("sink.collection"),
	}
}

// writeStats saves st to the --stats file, if one was given.
func writeStats(st wikicorpus.Stats) error {
	path := viper.GetString("stats")
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := st.WriteYAML(f); err != nil {
		f.Close()
		return fmt.Errorf("writing stats: %w", err)
	}
	return f.Close()
}
