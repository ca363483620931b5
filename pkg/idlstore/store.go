// Package idlstore persists registered IDL documents so a registry can be
// rebuilt on restart.
package idlstore

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var ErrNotFound = errors.New("IDL not found")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Record is a stored IDL as it was registered.
type Record struct {
	ProgramID string    `json:"programId"`
	Provider  string    `json:"provider"`
	JSON      []byte    `json:"idl"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Store interface {
	// Put stores rec, replacing any record for the same program.
	Put(rec Record) error
	// Get returns ErrNotFound when no record exists for programID.
	Get(programID string) (Record, error)
	// All returns every record ordered by program id.
	All() ([]Record, error)
	Delete(programID string) error
	Close() error
}
