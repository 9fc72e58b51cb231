package store

import (
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

var ErrRunNotFound = errors.New("run not found")

const runsBucket = "runs"

type Store struct {
	db *bbolt.DB
}

func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{NoFreelistSync: true})
	if err != nil {
		return nil, errors.Wrap(err, "opening run store")
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(runsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating runs bucket")
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Put(r Run) error {
	if r.ID == "" {
		return errors.New("run has no id")
	}

	v, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "marshaling run JSON")
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(runsBucket)).Put([]byte(r.ID), v)
	})
	return errors.Wrapf(err, "writing run %s", r.ID)
}

func (s *Store) Get(id string) (Run, error) {
	var r Run

	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(runsBucket)).Get([]byte(id))
		if v == nil {
			return errors.Wrapf(ErrRunNotFound, "id %s", id)
		}
		return json.Unmarshal(v, &r)
	})
	return r, err
}

// List returns all runs, newest first.
func (s *Store) List() ([]Run, error) {
	var runs []Run

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(runsBucket)).ForEach(func(_, v []byte) error {
			var r Run
			if err := json.Unmarshal(v, &r); err != nil {
				return errors.Wrap(err, "unmarshaling run JSON")
			}
			runs = append(runs, r)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing runs")
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Created.After(runs[j].Created)
	})
	return runs, nil
}
