package sink

import (
	"github.com/couchbase/go-couchbase"

	"github.com/dustin/go-wikicorpus"
)

// Couchbase stores each document in a bucket, keyed by title.
type Couchbase struct {
	b *couchbase.Bucket
}

// NewCouchbase connects to bucket in the default pool of server.
func NewCouchbase(server, bucket string) (*Couchbase, error) {
	b, err := couchbase.GetBucket(server, "default", bucket)
	if err != nil {
		return nil, err
	}
	return &Couchbase{b: b}, nil
}

func (c *Couchbase) Write(doc wikicorpus.CleanedDocument) error {
	return c.b.Set(key(doc), 0, doc)
}

func (c *Couchbase) Close() error {
	c.b.Close()
	return nil
}
