package idlstore

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

const (
	// idlKeyPrefix is the prefix for IDL keys in BadgerDB.
	idlKeyPrefix = "idl:"
)

// Badger is a persistent Store backed by BadgerDB.
type Badger struct {
	db *badger.DB
}

// NewBadger opens or creates a store at path.
func NewBadger(path string) (*Badger, error) {
	return openBadger(badger.DefaultOptions(path))
}

// NewBadgerInMemory returns a store that keeps nothing on disk.
func NewBadgerInMemory() (*Badger, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true))
}

func openBadger(opts badger.Options) (*Badger, error) {
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	return &Badger{db: db}, nil
}

func makeIDLKey(programID string) []byte {
	return []byte(idlKeyPrefix + programID)
}

func (s *Badger) Put(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to serialize IDL record: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(makeIDLKey(rec.ProgramID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to store IDL for %s: %w", rec.ProgramID, err)
	}
	return nil
}

func (s *Badger) Get(programID string) (Record, error) {
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(makeIDLKey(programID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, programID)
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to get IDL for %s: %w", programID, err)
	}
	return rec, nil
}

// All iterates keys in order, which is program id order.
func (s *Badger) All() ([]Record, error) {
	var out []Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(idlKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec Record
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", it.Item().Key(), err)
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list IDLs: %w", err)
	}
	return out, nil
}

func (s *Badger) Delete(programID string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(makeIDLKey(programID))
	})
	if err != nil {
		return fmt.Errorf("failed to delete IDL for %s: %w", programID, err)
	}
	return nil
}

func (s *Badger) Close() error {
	return s.db.Close()
}

var _ Store = (*Badger)(nil)
