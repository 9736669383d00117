package wikicorpus

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
)

// A RawDocument is one article as produced by an extraction step.
//
// ID, Title and URL are passed through untouched, so they keep
// whatever JSON type the input used (numbers decode as json.Number).
type RawDocument struct {
	ID    any
	Title any
	URL   any
	Text  string

	// Malformed is set when the record's text could not be read.
	Malformed bool
}

// Meta is the identifying information carried into a cleaned document.
type Meta struct {
	ID    any `json:"id" bson:"id"`
	Title any `json:"title" bson:"title"`
	URL   any `json:"url" bson:"url"`
}

// TitleString returns the title if it is a string, else "".
func (m Meta) TitleString() string {
	s, _ := m.Title.(string)
	return s
}

// IDString formats the ID for use as a storage key.
func (m Meta) IDString() string {
	switch id := m.ID.(type) {
	case nil:
		return ""
	case string:
		return id
	case json.Number:
		return id.String()
	}
	return fmt.Sprint(m.ID)
}

// A CleanedDocument is a document that passed the filter.
type CleanedDocument struct {
	Text string `json:"text" bson:"text"`
	Meta Meta   `json:"meta" bson:"meta"`
}

type rawRecord struct {
	ID    any             `json:"id"`
	Title any             `json:"title"`
	URL   any             `json:"url"`
	Text  json.RawMessage `json:"text"`
}

// ParseRawDocument decodes one JSON line. It never fails; a line that
// cannot be decoded comes back with Malformed set.
func ParseRawDocument(line []byte) RawDocument {
	var rec rawRecord
	d := json.NewDecoder(bytes.NewReader(line))
	d.UseNumber()
	if err := d.Decode(&rec); err != nil {
		return RawDocument{Malformed: true}
	}
	var extra json.RawMessage
	if err := d.Decode(&extra); err != io.EOF {
		return RawDocument{Malformed: true}
	}
	rv := RawDocument{ID: rec.ID, Title: rec.Title, URL: rec.URL}
	if len(rec.Text) == 0 || string(rec.Text) == "null" {
		return rv
	}
	if err := json.Unmarshal(rec.Text, &rv.Text); err != nil {
		rv.Malformed = true
	}
	return rv
}

// maxLine bounds a single JSONL record; articles can be large.
var maxLine = 64 << 20

// A RecordReader reads raw documents from a JSONL stream.
type RecordReader struct {
	r    *bufio.Reader
	buf  []byte
	line int
}

// NewRecordReader gets a RecordReader over r.
func NewRecordReader(r io.Reader) *RecordReader {
	return &RecordReader{r: bufio.NewReaderSize(r, 64*1024)}
}

// readLine reads through the next newline. Lines longer than maxLine
// are consumed but not kept.
func (rr *RecordReader) readLine() (line []byte, tooLong bool, err error) {
	rr.buf = rr.buf[:0]
	n := 0
	for {
		chunk, err := rr.r.ReadSlice('\n')
		n += len(chunk)
		if n > maxLine {
			tooLong = true
		} else {
			rr.buf = append(rr.buf, chunk...)
		}
		switch {
		case err == bufio.ErrBufferFull:
			continue
		case err == io.EOF && n > 0:
			return rr.buf, tooLong, nil
		default:
			return rr.buf, tooLong, err
		}
	}
}

// Next gets the next record, skipping blank lines. A line longer than
// the record limit comes back Malformed. It returns io.EOF at the end
// of the stream.
func (rr *RecordReader) Next() (RawDocument, error) {
	for {
		b, tooLong, err := rr.readLine()
		if err == io.EOF {
			return RawDocument{}, io.EOF
		}
		if err != nil {
			return RawDocument{}, fmt.Errorf("line %d: %w", rr.line+1, err)
		}
		rr.line++
		if tooLong {
			log.Warn().Int("line", rr.line).Int("limit", maxLine).Msg("skipping oversized record")
			return RawDocument{Malformed: true}, nil
		}
		b = bytes.TrimSpace(b)
		if len(b) == 0 {
			continue
		}
		return ParseRawDocument(b), nil
	}
}

// A RecordWriter writes cleaned documents as JSONL.
type RecordWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewRecordWriter gets a RecordWriter over w. Call Flush when done.
func NewRecordWriter(w io.Writer) *RecordWriter {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	return &RecordWriter{w: bw, enc: enc}
}

// Write writes one document followed by a newline.
func (rw *RecordWriter) Write(doc CleanedDocument) error {
	return rw.enc.Encode(doc)
}

// Flush flushes buffered output.
func (rw *RecordWriter) Flush() error {
	return rw.w.Flush()
}
