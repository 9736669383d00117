// Package sink stores cleaned documents: as JSON lines on disk, or in
// Couchbase, CouchDB, ElasticSearch or MongoDB.
package sink

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-wikicorpus"
)

// ErrUnknownSink is returned by Open for an unrecognised kind.
var ErrUnknownSink = errors.New("unknown sink")

// Kinds of sink understood by Open.
const (
	KindJSONL     = "jsonl"
	KindCouchbase = "couchbase"
	KindCouchDB   = "couchdb"
	KindElastic   = "elasticsearch"
	KindMongo     = "mongodb"
)

// Config selects and configures a sink. Fields that do not apply to
// the chosen kind are ignored.
type Config struct {
	Kind string `mapstructure:"kind"`

	// Path is the JSONL output file; "-" writes to stdout.
	Path string `mapstructure:"path"`

	// URL is the server for the database sinks.
	URL string `mapstructure:"url"`

	Bucket     string `mapstructure:"bucket"`
	Index      string `mapstructure:"index"`
	Type       string `mapstructure:"type"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

// DefaultConfig writes JSONL to stdout and carries the defaults the
// database sinks fall back on.
func DefaultConfig() Config {
	return Config{
		Kind:       KindJSONL,
		Path:       "-",
		Bucket:     "default",
		Index:      "wikicorpus",
		Type:       "article",
		Database:   "wp",
		Collection: "articles",
	}
}

// Open creates the sink described by cfg.
func Open(cfg Config) (wikicorpus.Sink, error) {
	switch strings.ToLower(cfg.Kind) {
	case "", KindJSONL:
		return CreateJSONL(cfg.Path)
	case KindCouchbase:
		return NewCouchbase(cfg.URL, cfg.Bucket)
	case KindCouchDB:
		return NewCouchDB(cfg.URL)
	case KindElastic:
		return NewElastic(cfg.URL, cfg.Index, cfg.Type), nil
	case KindMongo:
		return NewMongo(cfg.URL, cfg.Database, cfg.Collection)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSink, cfg.Kind)
}

// key picks a storage key for doc: its title, or its id when the
// title is missing.
func key(doc wikicorpus.CleanedDocument) string {
	if t := doc.Meta.TitleString(); t != "" {
		return t
	}
	return doc.Meta.IDString()
}
