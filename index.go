package wikicorpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrBadIndexRecord is returned for index lines that are not
// offset:pageid:title.
var ErrBadIndexRecord = errors.New("bad index record")

// An IndexEntry locates one article in a multistream dump.
type IndexEntry struct {
	StreamOffset int64
	PageID       uint64
	ArticleName  string
}

func (i IndexEntry) String() string {
	return fmt.Sprintf("%v:%v:%v",
		i.StreamOffset, i.PageID, i.ArticleName)
}

// An IndexReader reads a multistream index.
//
// Older dumps wrote offsets as signed 32-bit values. Offsets are
// assumed to never decrease, so a drop means the counter wrapped and
// 2^32 is added from then on.
type IndexReader struct {
	s          *bufio.Scanner
	line       int
	base       int64
	prevOffset int64
}

// NewIndexReader gets an index reader over decompressed index lines.
func NewIndexReader(r io.Reader) *IndexReader {
	return &IndexReader{s: bufio.NewScanner(r)}
}

// Next gets the next entry, or io.EOF.
func (ir *IndexReader) Next() (IndexEntry, error) {
	if !ir.s.Scan() {
		if err := ir.s.Err(); err != nil {
			return IndexEntry{}, err
		}
		return IndexEntry{}, io.EOF
	}
	ir.line++

	parts := strings.SplitN(ir.s.Text(), ":", 3)
	if len(parts) != 3 {
		return IndexEntry{}, fmt.Errorf("%w at line %d", ErrBadIndexRecord, ir.line)
	}
	offset, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return IndexEntry{}, fmt.Errorf("%w at line %d: %v", ErrBadIndexRecord, ir.line, err)
	}
	id, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return IndexEntry{}, fmt.Errorf("%w at line %d: %v", ErrBadIndexRecord, ir.line, err)
	}

	if offset < ir.prevOffset {
		ir.base += 1 << 32
	}
	ir.prevOffset = offset

	return IndexEntry{
		StreamOffset: offset + ir.base,
		PageID:       id,
		ArticleName:  parts[2],
	}, nil
}

// IndexSummaryReader collapses an index into one (offset, count) pair
// per compressed stream.
type IndexSummaryReader struct {
	index  *IndexReader
	offset int64
	count  int
}

// NewIndexSummaryReader gets a summary reader over index lines.
func NewIndexSummaryReader(r io.Reader) (*IndexSummaryReader, error) {
	ir := NewIndexReader(r)
	first, err := ir.Next()
	if err != nil {
		return nil, err
	}
	return &IndexSummaryReader{index: ir, offset: first.StreamOffset, count: 1}, nil
}

// Next gets the offset of the next stream and how many pages it holds.
//
// The final stream is returned together with io.EOF; calls after that
// return a zero count and io.EOF.
func (isr *IndexSummaryReader) Next() (offset int64, count int, err error) {
	for {
		e, err := isr.index.Next()
		if err != nil {
			offset, count = isr.offset, isr.count
			isr.offset, isr.count = 0, 0
			return offset, count, err
		}
		if e.StreamOffset != isr.offset {
			offset, count = isr.offset, isr.count
			isr.offset, isr.count = e.StreamOffset, 1
			return offset, count, nil
		}
		isr.count++
	}
}
