package wikicorpus

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Defaults for the retention predicate.
const (
	DefaultMinLength           = 100
	DefaultASCIIRatioThreshold = 0.4
)

// ErrInvalidConfig is returned by FilterConfig.Validate.
var ErrInvalidConfig = errors.New("invalid filter config")

var templateRE, refRE, parenRE *regexp.Regexp

func init() {
	templateRE = regexp.MustCompile(`(?s)\{\{.*?\}\}`)
	refRE = regexp.MustCompile(`(?s)<ref.*?</ref>`)
	parenRE = regexp.MustCompile(`(?s)[（(].*?[）)]`)
}

// A Verdict is the outcome of running a document through the filter.
type Verdict int

const (
	Accepted Verdict = iota
	// RejectedMalformed means the record had no usable text.
	RejectedMalformed
	// RejectedShort means the text was below the minimum length,
	// either before or after cleaning.
	RejectedShort
	// RejectedRatio means too much of the text was ASCII letters.
	RejectedRatio
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case RejectedMalformed:
		return "malformed"
	case RejectedShort:
		return "short"
	case RejectedRatio:
		return "ratio"
	}
	return fmt.Sprintf("Verdict(%d)", int(v))
}

// FilterConfig holds the retention thresholds.
type FilterConfig struct {
	MinLength           int     `yaml:"min_length" mapstructure:"min_length"`
	ASCIIRatioThreshold float64 `yaml:"ascii_ratio_threshold" mapstructure:"ascii_ratio_threshold"`
}

// DefaultFilterConfig returns the stock thresholds.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinLength:           DefaultMinLength,
		ASCIIRatioThreshold: DefaultASCIIRatioThreshold,
	}
}

// Validate checks the thresholds are usable.
func (c FilterConfig) Validate() error {
	if c.MinLength < 0 {
		return fmt.Errorf("%w: min_length %d is negative", ErrInvalidConfig, c.MinLength)
	}
	if c.ASCIIRatioThreshold <= 0 || c.ASCIIRatioThreshold > 1 {
		return fmt.Errorf("%w: ascii_ratio_threshold %v not in (0,1]",
			ErrInvalidConfig, c.ASCIIRatioThreshold)
	}
	return nil
}

// Clean strips templates, references and parenthetical notes from
// text and normalizes its whitespace.
//
// Template removal runs before parenthesis removal, so a template
// containing parentheses is removed whole. Removing one span can join
// the halves of another, so the passes repeat until nothing changes.
func Clean(text string) string {
	for {
		prev := text
		text = templateRE.ReplaceAllString(text, "")
		text = refRE.ReplaceAllString(text, "")
		text = parenRE.ReplaceAllString(text, "")
		if text == prev {
			break
		}
	}
	return strings.Join(strings.Fields(text), " ")
}

// ASCIILetterRatio is the fraction of characters in text that are
// ASCII letters. Digits, punctuation and every non-ASCII character
// count toward the denominator only.
func ASCIILetterRatio(text string) float64 {
	n, letters := 0, 0
	for _, r := range text {
		n++
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
			letters++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(letters) / float64(n)
}

// Keep reports whether already cleaned text passes retention.
func (c FilterConfig) Keep(text string) Verdict {
	n := utf8.RuneCountInString(text)
	if n == 0 || n < c.MinLength {
		return RejectedShort
	}
	if ASCIILetterRatio(text) >= c.ASCIIRatioThreshold {
		return RejectedRatio
	}
	return Accepted
}

// Filter cleans a raw document and decides whether to keep it. The
// returned document is only meaningful when the verdict is Accepted.
//
// Filter holds no state and may be called from any number of
// goroutines.
func (c FilterConfig) Filter(raw RawDocument) (CleanedDocument, Verdict) {
	return c.FilterWith(raw, nil)
}

// FilterWith is Filter with an extra step, such as StripMarkup, run on
// the text after the raw length check and before Clean. A nil pre is
// skipped.
func (c FilterConfig) FilterWith(raw RawDocument, pre func(string) string) (CleanedDocument, Verdict) {
	if raw.Malformed {
		return CleanedDocument{}, RejectedMalformed
	}
	if utf8.RuneCountInString(raw.Text) < c.MinLength {
		return CleanedDocument{}, RejectedShort
	}
	text := raw.Text
	if pre != nil {
		text = pre(text)
	}
	text = Clean(text)
	if v := c.Keep(text); v != Accepted {
		return CleanedDocument{}, v
	}
	return CleanedDocument{
		Text: text,
		Meta: Meta{ID: raw.ID, Title: raw.Title, URL: raw.URL},
	}, Accepted
}

// Filter runs raw through the default thresholds.
func Filter(raw RawDocument) (CleanedDocument, Verdict) {
	return DefaultFilterConfig().Filter(raw)
}
