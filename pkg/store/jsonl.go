package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// JSONLStore appends records as JSON Lines to a single file.
// This is the default backend for local batch runs: the manifest lives
// next to the images it describes and needs no server.
type JSONLStore struct {
	mu     sync.Mutex
	f      *os.File
	enc    *json.Encoder
	closed bool
}

// NewJSONLStore opens (or creates) the manifest file for appending.
func NewJSONLStore(path string) (*JSONLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create manifest dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	return &JSONLStore{f: f, enc: json.NewEncoder(f)}, nil
}

// Append writes one record as a single JSON line.
func (s *JSONLStore) Append(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if err := s.enc.Encode(rec); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// Close syncs and closes the manifest file.
func (s *JSONLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.f.Sync(); err != nil {
		_ = s.f.Close()
		return err
	}
	return s.f.Close()
}

// Path returns the manifest file path.
func (s *JSONLStore) Path() string {
	return s.f.Name()
}

// ReadJSONL loads all records from a manifest file. Intended for tests
// and for tools that post-process a finished run.
func ReadJSONL(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	var records []Record
	dec := json.NewDecoder(f)
	for dec.More() {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("parse record %d: %w", len(records), err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Ensure JSONLStore implements Store.
var _ Store = (*JSONLStore)(nil)
