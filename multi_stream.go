package wikicorpus

import (
	"compress/bzip2"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sync"
)

type indexChunk struct {
	offset int64
	count  int
}

type multiStreamParser struct {
	siteInfo SiteInfo

	workerch chan indexChunk
	entries  chan *Page
	errs     chan error
}

func (p *multiStreamParser) fail(ctx context.Context, err error) {
	select {
	case p.errs <- err:
	case <-ctx.Done():
	default:
		// An error is already pending.
	}
}

// drain keeps the index worker from blocking once a worker has given up.
func (p *multiStreamParser) drain() {
	for range p.workerch {
	}
}

func multiStreamIndexWorker(ctx context.Context, indexfn string, p *multiStreamParser) {
	defer close(p.workerch)

	r, err := os.Open(indexfn)
	if err != nil {
		p.fail(ctx, err)
		return
	}
	defer r.Close()

	isr, err := NewIndexSummaryReader(bzip2.NewReader(r))
	if err != nil {
		p.fail(ctx, fmt.Errorf("creating index summary: %w", err))
		return
	}
	for {
		offset, count, err := isr.Next()
		if count > 0 {
			select {
			case p.workerch <- indexChunk{offset, count}:
			case <-ctx.Done():
				return
			}
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			p.fail(ctx, fmt.Errorf("reading index: %w", err))
			return
		}
	}
}

func multiStreamWorker(ctx context.Context, datafn string, wg *sync.WaitGroup,
	p *multiStreamParser) {
	defer wg.Done()

	r, err := os.Open(datafn)
	if err != nil {
		p.fail(ctx, err)
		p.drain()
		return
	}
	defer r.Close()

	for idxChunk := range p.workerch {
		if _, err := r.Seek(idxChunk.offset, io.SeekStart); err != nil {
			p.fail(ctx, fmt.Errorf("seeking to %d: %w", idxChunk.offset, err))
			p.drain()
			return
		}
		d := xml.NewDecoder(bzip2.NewReader(r))

		for i := 0; i < idxChunk.count; i++ {
			newpage := new(Page)
			err := d.Decode(newpage)
			if err == io.EOF {
				break
			}
			if err != nil {
				p.fail(ctx, fmt.Errorf("decoding stream at %d: %w", idxChunk.offset, err))
				p.drain()
				return
			}
			select {
			case p.entries <- newpage:
			case <-ctx.Done():
				return
			}
		}
	}
}

// NewIndexedParser gets a parser over a multistream dump and its
// bzip2 index. Streams are decoded by numWorkers goroutines, so pages
// do not arrive in dump order. Cancelling ctx stops the workers.
func NewIndexedParser(ctx context.Context, indexfn, datafn string, numWorkers int) (Parser, error) {
	r, err := os.Open(datafn)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	si, err := readSiteInfo(xml.NewDecoder(bzip2.NewReader(r)))
	if err != nil {
		return nil, err
	}

	if numWorkers < 1 {
		numWorkers = 1
	}

	rv := &multiStreamParser{
		siteInfo: si,
		workerch: make(chan indexChunk, 1000),
		entries:  make(chan *Page, 1000),
		errs:     make(chan error, 1),
	}

	wg := sync.WaitGroup{}
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go multiStreamWorker(ctx, datafn, &wg, rv)
	}

	go multiStreamIndexWorker(ctx, indexfn, rv)

	go func() {
		wg.Wait()
		close(rv.entries)
	}()

	return rv, nil
}

func (p *multiStreamParser) Next() (*Page, error) {
	rv, ok := <-p.entries
	if !ok {
		select {
		case err := <-p.errs:
			return nil, err
		default:
			return nil, io.EOF
		}
	}
	return rv, nil
}

func (p *multiStreamParser) SiteInfo() SiteInfo {
	return p.siteInfo
}
