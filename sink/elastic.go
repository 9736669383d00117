package sink

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dustin/go-elasticsearch"
	"github.com/dustin/httputil"
	"github.com/rs/zerolog/log"

	"github.com/dustin/go-wikicorpus"
)

const elasticBatch = 1000

// Elastic indexes documents through the bulk API, keyed by title.
//
// The bulk loader does not report failures, so Close refreshes the
// index and compares its document count with what was sent.
type Elastic struct {
	index, typ string
	pending    int
	written    int

	update func(*elasticsearch.UpdateInstruction)
	send   func()
	quit   func()
	count  func() (int, error)
}

// NewElastic gets a bulk loader for index on the server at u.
func NewElastic(u, index, typ string) *Elastic {
	es := elasticsearch.ElasticSearch{URL: u}
	bulkLoader := es.Bulk()
	return &Elastic{
		index:  index,
		typ:    typ,
		update: func(ui *elasticsearch.UpdateInstruction) { bulkLoader.Update(ui) },
		send:   func() { bulkLoader.SendBatch() },
		quit:   func() { bulkLoader.Quit() },
		count:  func() (int, error) { return countIndexed(http.DefaultClient, u, index) },
	}
}

// countIndexed refreshes index so recent bulk writes are visible and
// returns how many documents it holds.
func countIndexed(client *http.Client, u, index string) (int, error) {
	base := strings.TrimSuffix(u, "/") + "/" + url.PathEscape(index)

	res, err := client.Post(base+"/_refresh", "application/json", nil)
	if err != nil {
		return 0, err
	}
	if res.StatusCode != http.StatusOK {
		defer res.Body.Close()
		return 0, httputil.HTTPError(res)
	}
	res.Body.Close()

	res, err = client.Get(base + "/_count")
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return 0, httputil.HTTPError(res)
	}
	rv := struct {
		Count int `json:"count"`
	}{}
	if err := json.NewDecoder(res.Body).Decode(&rv); err != nil {
		return 0, fmt.Errorf("decoding count: %w", err)
	}
	return rv.Count, nil
}

func (e *Elastic) Write(doc wikicorpus.CleanedDocument) error {
	e.pending++
	if e.pending > elasticBatch {
		e.send()
		e.pending = 0
	}
	e.update(&elasticsearch.UpdateInstruction{
		Id:    key(doc),
		Index: e.index,
		Type:  e.typ,
		Body: map[string]interface{}{
			"text": doc.Text,
			"meta": doc.Meta,
		},
	})
	e.written++
	return nil
}

// Close sends what is left, stops the loader and checks the index. An
// index that cannot be counted is an error; one holding fewer
// documents than were sent is logged, since repeated titles overwrite
// each other.
func (e *Elastic) Close() error {
	e.quit()
	n, err := e.count()
	if err != nil {
		return fmt.Errorf("checking index %v: %w", e.index, err)
	}
	if n < e.written {
		log.Warn().Str("index", e.index).Int("sent", e.written).Int("indexed", n).
			Msg("elasticsearch holds fewer documents than were sent")
	}
	return nil
}
