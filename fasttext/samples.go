// Package fasttext prepares labelled text for a FastText classifier
// and labels new text with a trained model.
//
// Input is JSON lines with a "text" field, as exported from a web text
// dataset. Training files hold one example per line in FastText's
// supervised format:
//
//	__label__math some lowercased text ...
package fasttext

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dustin/go-wikicorpus"
)

// LabelPrefix marks a label in FastText input.
const LabelPrefix = "__label__"

// DefaultTrainRatio is the share of samples that go to training.
const DefaultTrainRatio = 0.8

var tagRE = regexp.MustCompile(`<[^>]+>`)

// CleanHTML reduces an HTML or plain text document to one lowercased
// line of text.
func CleanHTML(text string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err == nil {
		text = doc.Text()
	} else {
		text = tagRE.ReplaceAllString(text, "")
	}
	text = strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	return cases.Lower(language.Und).String(text)
}

// Label formats text as a FastText training example.
func Label(label, text string) string {
	return LabelPrefix + label + " " + text
}

// LoadSamples reads up to limit records from r, cleans their text and
// labels them. A limit of zero or less reads everything. Records
// without usable text are skipped.
func LoadSamples(r io.Reader, label string, limit int) ([]string, error) {
	var rv []string
	rr := wikicorpus.NewRecordReader(r)
	skipped := 0
	for limit <= 0 || len(rv)+skipped < limit {
		raw, err := rr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rv, err
		}
		text := CleanHTML(raw.Text)
		if raw.Malformed || text == "" {
			skipped++
			continue
		}
		rv = append(rv, Label(label, text))
	}
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Str("label", label).Msg("records without text")
	}
	return rv, nil
}

// Split shuffles samples and cuts them into training and validation
// sets, with ratio of them in the first. samples is not modified.
func Split(samples []string, ratio float64, rng *rand.Rand) (train, valid []string) {
	all := make([]string, len(samples))
	copy(all, samples)
	rng.Shuffle(len(all), func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})
	idx := int(ratio * float64(len(all)))
	if idx < 0 {
		idx = 0
	}
	if idx > len(all) {
		idx = len(all)
	}
	return all[:idx], all[idx:]
}

// WriteSamples writes lines to path, separated by newlines.
func WriteSamples(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f, strings.Join(lines, "\n")); err != nil {
		f.Close()
		return fmt.Errorf("writing %v: %w", path, err)
	}
	return f.Close()
}
