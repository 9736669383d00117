package main

import (
	"runtime"
	"testing"

	"github.com/spf13/viper"
)

func TestDecodeWorkers(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("workers", 3)
	if n := decodeWorkers(); n != 3 {
		t.Errorf("Expected 3 decode workers, got %v", n)
	}
	viper.Set("workers", 0)
	if n := decodeWorkers(); n != runtime.GOMAXPROCS(0) {
		t.Errorf("Expected GOMAXPROCS decode workers, got %v", n)
	}
}

func TestRunOptions(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("filter.min_length", 50)
	viper.Set("filter.ascii_ratio_threshold", 0.3)
	viper.Set("workers", 2)
	viper.Set("strip_markup", true)
	opts, err := runOptions()
	if err != nil {
		t.Fatalf("Error building options: %v", err)
	}
	if opts.Filter.MinLength != 50 || opts.Filter.ASCIIRatioThreshold != 0.3 ||
		opts.Workers != 2 || !opts.StripMarkup {
		t.Errorf("Unexpected options %+v", opts)
	}

	viper.Set("filter.ascii_ratio_threshold", 0)
	if _, err := runOptions(); err == nil {
		t.Errorf("Expected an invalid threshold to be refused")
	}
}
