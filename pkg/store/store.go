// Package store persists metadata records for generated plate images.
//
// Every image a batch run writes gets one record: the plate number, its
// type and region, the effects that were applied and the seed that
// produced them. Records make a dataset reproducible and let training
// pipelines filter by plate type or effect without reopening images.
//
// Backends:
//   - jsonl: append-only JSON Lines file next to the output directory
//   - mongo: MongoDB collection for shared dataset indexes
package store

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned when appending to a closed store.
var ErrClosed = errors.New("store closed")

// Record describes one generated image.
type Record struct {
	ID        string    `json:"id" bson:"id"`
	RunID     string    `json:"run_id" bson:"run_id"`
	Number    string    `json:"number" bson:"number"`
	PlateType string    `json:"plate_type" bson:"plate_type"`
	Province  string    `json:"province" bson:"province"`
	City      string    `json:"city,omitempty" bson:"city,omitempty"`
	Style     string    `json:"style" bson:"style"`
	Effects   []string  `json:"effects,omitempty" bson:"effects,omitempty"`
	Preset    string    `json:"preset,omitempty" bson:"preset,omitempty"`
	File      string    `json:"file" bson:"file"`
	Width     int       `json:"width" bson:"width"`
	Height    int       `json:"height" bson:"height"`
	Seed      uint64    `json:"seed" bson:"seed"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Store is the interface for record persistence backends.
type Store interface {
	// Append persists one record. Safe for concurrent use.
	Append(ctx context.Context, rec *Record) error

	// Close flushes and releases backend resources.
	Close() error
}

// NullStore discards all records. Used when no manifest is wanted.
type NullStore struct{}

// NewNullStore creates a store that drops everything.
func NewNullStore() Store { return &NullStore{} }

// Append does nothing.
func (s *NullStore) Append(ctx context.Context, rec *Record) error { return nil }

// Close does nothing.
func (s *NullStore) Close() error { return nil }

// Ensure NullStore implements Store.
var _ Store = (*NullStore)(nil)
