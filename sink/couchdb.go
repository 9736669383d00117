package sink

import (
	"net/http"
	"strings"

	"github.com/dustin/go-couch"
	"github.com/dustin/httputil"
	"github.com/rs/zerolog/log"

	"github.com/dustin/go-wikicorpus"
)

type couchDoc struct {
	ID   string          `json:"_id"`
	Rev  string          `json:"_rev,omitempty"`
	Text string          `json:"text"`
	Meta wikicorpus.Meta `json:"meta"`
}

// CouchDB inserts documents with the escaped title as _id. A document
// that already exists is replaced.
type CouchDB struct {
	db couch.Database
}

// NewCouchDB connects to the database at dburl.
func NewCouchDB(dburl string) (*CouchDB, error) {
	db, err := couch.Connect(dburl)
	if err != nil {
		return nil, err
	}
	return &CouchDB{db: db}, nil
}

func escapeTitle(in string) string {
	return strings.NewReplacer("/", "%2f", "+", "%2b").Replace(in)
}

func (c *CouchDB) Write(doc wikicorpus.CleanedDocument) error {
	d := couchDoc{ID: escapeTitle(key(doc)), Text: doc.Text, Meta: doc.Meta}
	_, _, err := c.db.Insert(&d)
	switch {
	case err == nil:
		return nil
	case httputil.IsHTTPStatus(err, http.StatusConflict):
		return c.replace(&d)
	}
	return err
}

func (c *CouchDB) replace(d *couchDoc) error {
	log.Debug().Str("id", d.ID).Msg("resolving conflict")
	var prev couchDoc
	if err := c.db.Retrieve(d.ID, &prev); err != nil {
		return err
	}
	_, err := c.db.EditWith(d, d.ID, prev.Rev)
	return err
}

func (c *CouchDB) Close() error {
	return nil
}
