package idlstore

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
)

// Memory is a Store that lives only as long as the process.
type Memory struct {
	mu      sync.RWMutex
	records map[string]Record
}

func NewMemory() *Memory {
	return &Memory{records: map[string]Record{}}
}

func (m *Memory) Put(rec Record) error {
	rec.JSON = bytes.Clone(rec.JSON)
	m.mu.Lock()
	m.records[rec.ProgramID] = rec
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(programID string) (Record, error) {
	m.mu.RLock()
	rec, ok := m.records[programID]
	m.mu.RUnlock()
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, programID)
	}
	rec.JSON = bytes.Clone(rec.JSON)
	return rec, nil
}

func (m *Memory) All() ([]Record, error) {
	m.mu.RLock()
	out := make([]Record, 0, len(m.records))
	for _, rec := range m.records {
		rec.JSON = bytes.Clone(rec.JSON)
		out = append(out, rec)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ProgramID < out[j].ProgramID })
	return out, nil
}

func (m *Memory) Delete(programID string) error {
	m.mu.Lock()
	delete(m.records, programID)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	return nil
}

var _ Store = (*Memory)(nil)
