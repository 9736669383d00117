package wikicorpus

import (
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Stats tallies what a run did with its input.
type Stats struct {
	Files     int64         `yaml:"files"`
	Read      int64         `yaml:"read"`
	Accepted  int64         `yaml:"accepted"`
	Malformed int64         `yaml:"malformed"`
	Short     int64         `yaml:"short"`
	Ratio     int64         `yaml:"ratio"`
	Skipped   int64         `yaml:"skipped"`
	Elapsed   time.Duration `yaml:"elapsed"`
}

func (s *Stats) count(v Verdict) {
	s.Read++
	switch v {
	case Accepted:
		s.Accepted++
	case RejectedMalformed:
		s.Malformed++
	case RejectedShort:
		s.Short++
	case RejectedRatio:
		s.Ratio++
	}
}

// Rejected is the number of documents the filter turned away.
func (s Stats) Rejected() int64 {
	return s.Malformed + s.Short + s.Ratio
}

// WriteYAML writes the stats as a YAML document.
func (s Stats) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// progress logs a rate line every freq documents.
type progress struct {
	freq  int64
	start time.Time
	prev  time.Time
}

func newProgress(freq int64) *progress {
	now := time.Now()
	return &progress{freq: freq, start: now, prev: now}
}

func (p *progress) tick(st *Stats) {
	if p.freq <= 0 || st.Read%p.freq != 0 {
		return
	}
	now := time.Now()
	d := now.Sub(p.prev)
	log.Info().
		Str("read", humanize.Comma(st.Read)).
		Str("accepted", humanize.Comma(st.Accepted)).
		Float64("rate", float64(p.freq)/d.Seconds()).
		Msg("processed documents")
	p.prev = now
}

func (p *progress) done(st *Stats, err error) {
	st.Elapsed = time.Since(p.start)
	ev := log.Info()
	if err != nil {
		ev = log.Error().Err(err)
	}
	ev.Str("read", humanize.Comma(st.Read)).
		Str("accepted", humanize.Comma(st.Accepted)).
		Str("rejected", humanize.Comma(st.Rejected())).
		Dur("elapsed", st.Elapsed).
		Msg("finished")
}
