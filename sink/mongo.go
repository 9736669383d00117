package sink

import (
	"github.com/rs/zerolog/log"
	"gopkg.in/mgo.v2"

	"github.com/dustin/go-wikicorpus"
)

// Titles are unique within a wiki, so a duplicate means the same
// article was seen twice.
var titleIndex = mgo.Index{
	Key:        []string{"meta.title"},
	Unique:     true,
	DropDups:   true,
	Background: true,
	Sparse:     true,
}

// Mongo inserts documents into a collection. Duplicates are skipped.
type Mongo struct {
	session *mgo.Session
	c       *mgo.Collection
}

// NewMongo dials dburl and prepares collection in database.
func NewMongo(dburl, database, collection string) (*Mongo, error) {
	session, err := mgo.Dial(dburl)
	if err != nil {
		return nil, err
	}
	c := session.DB(database).C(collection)
	if err := c.EnsureIndex(titleIndex); err != nil {
		session.Close()
		return nil, err
	}
	return &Mongo{session: session, c: c}, nil
}

func (m *Mongo) Write(doc wikicorpus.CleanedDocument) error {
	err := m.c.Insert(&doc)
	if mgo.IsDup(err) {
		log.Debug().Str("title", doc.Meta.TitleString()).Msg("duplicate key")
		return nil
	}
	return err
}

func (m *Mongo) Close() error {
	m.session.Close()
	return nil
}
