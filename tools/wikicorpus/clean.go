package main

import (
	"compress/bzip2"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dustin/go-wikicorpus"
	"github.com/dustin/go-wikicorpus/sink"
)

var cleanCmd = &cobra.Command{
	Use:   "clean <extracted-dir>",
	Short: "Filter the JSON output of an extraction tool",
	Long: `Read every wiki_* file under the directory, as written by an
extraction tool in JSON mode, and write the documents that pass the
filter to the sink.`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

var dumpCmd = &cobra.Command{
	Use:   "dump [index.txt.bz2] <dump.xml[.bz2]>",
	Short: "Filter articles straight from an XML dump",
	Long: `With one argument, read a single stream dump. With two, read a
multistream dump using its index so streams decode in parallel.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDump,
}

func init() {
	rootCmd.AddCommand(cleanCmd, dumpCmd)
}

// withSink opens the configured sink, runs fn against it and reports
// the result.
func withSink(fn func(wikicorpus.Sink, wikicorpus.Options) (wikicorpus.Stats, error)) error {
	opts, err := runOptions()
	if err != nil {
		return err
	}
	s, err := sink.Open(sinkConfig())
	if err != nil {
		return err
	}

	st, err := fn(s, opts)
	if cerr := s.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	log.Info().
		Str("files", humanize.Comma(st.Files)).
		Str("accepted", humanize.Comma(st.Accepted)).
		Str("short", humanize.Comma(st.Short)).
		Str("ratio", humanize.Comma(st.Ratio)).
		Str("malformed", humanize.Comma(st.Malformed)).
		Msg("cleaned corpus")
	return writeStats(st)
}

func runClean(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	files, err := wikicorpus.FindExtracted(args[0])
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no wiki_* files under %v", args[0])
	}
	log.Info().Int("files", len(files)).Str("dir", args[0]).Msg("cleaning extracted files")

	return withSink(func(s wikicorpus.Sink, opts wikicorpus.Options) (wikicorpus.Stats, error) {
		return wikicorpus.CleanFiles(ctx, files, opts, s)
	})
}

func openDump(fn string) (io.ReadCloser, io.Reader, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, nil, err
	}
	if strings.HasSuffix(fn, ".bz2") {
		return f, bzip2.NewReader(f), nil
	}
	return f, f, nil
}

func runDump(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	var p wikicorpus.Parser
	switch len(args) {
	case 1:
		f, r, err := openDump(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		if p, err = wikicorpus.NewParser(r); err != nil {
			return fmt.Errorf("setting up page parser: %w", err)
		}
	case 2:
		var err error
		p, err = wikicorpus.NewIndexedParser(ctx, args[0], args[1], decodeWorkers())
		if err != nil {
			return fmt.Errorf("initializing multistream parser: %w", err)
		}
	}

	si := p.SiteInfo()
	log.Info().Str("site", si.SiteName).Str("base", si.Base).Msg("got site info")

	return withSink(func(s wikicorpus.Sink, opts wikicorpus.Options) (wikicorpus.Stats, error) {
		return wikicorpus.CleanDump(ctx, p, opts, s)
	})
}
