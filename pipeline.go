package wikicorpus

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
)

// A Sink receives accepted documents. Write is only ever called from
// one goroutine at a time.
type Sink interface {
	Write(CleanedDocument) error
	Close() error
}

// Options controls a cleaning run.
type Options struct {
	Filter FilterConfig
	// Workers is the number of filtering goroutines; zero means one
	// per CPU.
	Workers int
	// ReportEvery logs progress after this many documents; zero
	// disables progress logging.
	ReportEvery int64
	// StripMarkup runs StripMarkup over JSONL records before cleaning,
	// for extractor output that still carries wikitext. Dump pages are
	// always stripped.
	StripMarkup bool
}

func (o Options) filter(raw RawDocument) (CleanedDocument, Verdict) {
	if o.StripMarkup {
		return o.Filter.FilterWith(raw, StripMarkup)
	}
	return o.Filter.Filter(raw)
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

type result struct {
	doc      CleanedDocument
	verdict  Verdict
	skipped  bool
	fileDone bool
	err      error
}

// FindExtracted lists the wiki_* files an extraction tool wrote under
// dir, in lexical order.
func FindExtracted(dir string) ([]string, error) {
	var rv []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasPrefix(d.Name(), "wiki_") {
			rv = append(rv, path)
		}
		return nil
	})
	sort.Strings(rv)
	return rv, err
}

func cleanFile(ctx context.Context, opts Options, fn string, out chan<- result) {
	send := func(r result) bool {
		select {
		case out <- r:
			return true
		case <-ctx.Done():
			return false
		}
	}

	f, err := os.Open(fn)
	if err != nil {
		send(result{err: err})
		return
	}
	defer f.Close()

	rr := NewRecordReader(f)
	for {
		raw, err := rr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			send(result{err: fmt.Errorf("reading %v: %w", fn, err)})
			return
		}
		doc, v := opts.filter(raw)
		if !send(result{doc: doc, verdict: v}) {
			return
		}
	}
	send(result{fileDone: true})
}

// CleanFiles filters every record in the given JSONL files and writes
// the accepted ones to sink. Files are spread over the workers, so
// documents from different files interleave in the output.
//
// The run stops at the first I/O error, sink error, or when ctx is
// cancelled. The sink is not closed.
func CleanFiles(ctx context.Context, files []string, opts Options, sink Sink) (Stats, error) {
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	filech := make(chan string)
	results := make(chan result, 1000)

	wg := sync.WaitGroup{}
	for i := 0; i < opts.workers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for fn := range filech {
				cleanFile(wctx, opts, fn, results)
			}
		}()
	}

	go func() {
		defer close(filech)
		for _, fn := range files {
			select {
			case filech <- fn:
			case <-wctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return collect(ctx, cancel, results, opts, sink)
}

// CleanDump filters the article pages of a dump and writes the
// accepted ones to sink. Pages outside the main namespace and
// redirects are counted as skipped.
func CleanDump(ctx context.Context, p Parser, opts Options, sink Sink) (Stats, error) {
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	si := p.SiteInfo()
	ch := make(chan *Page, 1000)
	results := make(chan result, 1000)

	wg := sync.WaitGroup{}
	for i := 0; i < opts.workers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range ch {
				r := result{skipped: !page.IsArticle()}
				if !r.skipped {
					r.doc, r.verdict = opts.Filter.Filter(page.Document(si))
				}
				select {
				case results <- r:
				case <-wctx.Done():
					return
				}
			}
		}()
	}

	// The feeder can still report an error after the workers exit, so
	// results closes only once both are done.
	feederDone := make(chan struct{})
	go func() {
		defer close(feederDone)
		defer close(ch)
		for {
			page, err := p.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				select {
				case results <- result{err: fmt.Errorf("parsing dump: %w", err)}:
				case <-wctx.Done():
				}
				return
			}
			select {
			case ch <- page:
			case <-wctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		<-feederDone
		close(results)
	}()

	return collect(ctx, cancel, results, opts, sink)
}

func collect(ctx context.Context, cancel context.CancelFunc, results <-chan result,
	opts Options, sink Sink) (Stats, error) {
	st := Stats{}
	var err error
	prog := newProgress(opts.ReportEvery)

	for r := range results {
		switch {
		case r.err != nil:
			if err == nil {
				err = r.err
				cancel()
			}
			continue
		case r.fileDone:
			st.Files++
			continue
		case r.skipped:
			st.Read++
			st.Skipped++
		default:
			st.count(r.verdict)
			if r.verdict == Accepted && err == nil {
				if werr := sink.Write(r.doc); werr != nil {
					err = fmt.Errorf("writing %q: %w", r.doc.Meta.TitleString(), werr)
					cancel()
				}
			}
		}
		prog.tick(&st)
	}

	if err == nil {
		err = ctx.Err()
	}
	prog.done(&st, err)
	return st, err
}
