package fasttext

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-wikicorpus"
)

// DefaultMaxTextLength bounds the text sent to the model per document.
const DefaultMaxTextLength = 1000

// ErrPredictionCount is returned when a model answers with a different
// number of labels than it was given texts.
var ErrPredictionCount = errors.New("prediction count mismatch")

// A Classifier assigns one label to each text.
type Classifier interface {
	PredictAll(ctx context.Context, texts []string) ([]string, error)
}

// CLIClassifier labels text by running the fasttext command line tool
// against a trained model. All texts go through a single process.
type CLIClassifier struct {
	// Binary is the fasttext executable; "fasttext" when empty.
	Binary string
	// Model is the path to a .bin model.
	Model string
}

func (c CLIClassifier) binary() string {
	if c.Binary == "" {
		return "fasttext"
	}
	return c.Binary
}

// PredictAll sends texts, one per line, to `fasttext predict` and
// returns the top label for each. Texts must not contain newlines;
// see PrepareText.
func (c CLIClassifier) PredictAll(ctx context.Context, texts []string) ([]string, error) {
	cmd := exec.CommandContext(ctx, c.binary(), "predict", c.Model, "-")
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %v: %w", c.binary(), err)
	}

	werr := make(chan error, 1)
	go func() {
		bw := bufio.NewWriter(stdin)
		for _, t := range texts {
			if _, err := bw.WriteString(t + "\n"); err != nil {
				stdin.Close()
				werr <- err
				return
			}
		}
		err := bw.Flush()
		if cerr := stdin.Close(); err == nil {
			err = cerr
		}
		werr <- err
	}()

	labels := make([]string, 0, len(texts))
	s := bufio.NewScanner(stdout)
	for s.Scan() {
		// One label per line, in input order.
		labels = append(labels, strings.TrimSpace(s.Text()))
	}
	serr := s.Err()
	if serr != nil {
		// Unblock the process so Wait can return.
		io.Copy(io.Discard, stdout)
	}

	err = <-werr
	if waitErr := cmd.Wait(); waitErr != nil {
		return nil, fmt.Errorf("%v predict: %w: %s", c.binary(), waitErr,
			strings.TrimSpace(stderr.String()))
	}
	if serr != nil {
		return nil, serr
	}
	if err != nil {
		return nil, err
	}
	if len(labels) != len(texts) {
		return nil, fmt.Errorf("%w: %d texts, %d labels",
			ErrPredictionCount, len(texts), len(labels))
	}
	return labels, nil
}

// PrepareText puts text on one line with single spaces and cuts it to
// at most maxLen characters.
func PrepareText(text string, maxLen int) string {
	text = strings.Join(strings.Fields(text), " ")
	if maxLen > 0 && utf8.RuneCountInString(text) > maxLen {
		runes := []rune(text)
		text = string(runes[:maxLen])
	}
	return text
}

// LoadTexts reads up to limit records from r and prepares their text
// for prediction. A limit of zero or less reads everything.
func LoadTexts(r io.Reader, limit, maxLen int) ([]string, error) {
	var rv []string
	rr := wikicorpus.NewRecordReader(r)
	for limit <= 0 || len(rv) < limit {
		raw, err := rr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rv, err
		}
		rv = append(rv, PrepareText(raw.Text, maxLen))
	}
	return rv, nil
}

// WriteLabeled writes label<TAB>text lines.
func WriteLabeled(w io.Writer, labels, texts []string) error {
	if len(labels) != len(texts) {
		return fmt.Errorf("%w: %d texts, %d labels",
			ErrPredictionCount, len(texts), len(labels))
	}
	bw := bufio.NewWriter(w)
	for i := range texts {
		if _, err := fmt.Fprintf(bw, "%s\t%s\n", labels[i], texts[i]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
