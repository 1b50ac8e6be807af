package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func testRecord(id string) *Record {
	return &Record{
		ID:        id,
		RunID:     "run-1",
		Number:    "京A12345",
		PlateType: "ordinary_small",
		Province:  "京",
		Style:     "blue",
		Effects:   []string{"fade_effect", "shadow_effect"},
		File:      id + ".png",
		Width:     440,
		Height:    140,
		Seed:      42,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestJSONLStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out", "manifest.jsonl")

	s, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("NewJSONLStore: %v", err)
	}

	for _, id := range []string{"a", "b", "c"} {
		if err := s.Append(ctx, testRecord(id)); err != nil {
			t.Fatalf("Append %s: %v", id, err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	records, err := ReadJSONL(path)
	if err != nil {
		t.Fatalf("ReadJSONL: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	if records[0].ID != "a" || records[2].ID != "c" {
		t.Errorf("record order not preserved: %s %s", records[0].ID, records[2].ID)
	}
	got := records[1]
	if got.Number != "京A12345" || got.Style != "blue" || got.Seed != 42 {
		t.Errorf("record fields lost: %+v", got)
	}
	if len(got.Effects) != 2 || got.Effects[0] != "fade_effect" {
		t.Errorf("effects lost: %v", got.Effects)
	}
}

func TestJSONLStoreAppendsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "manifest.jsonl")

	for _, id := range []string{"first", "second"} {
		s, err := NewJSONLStore(path)
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Append(ctx, testRecord(id)); err != nil {
			t.Fatal(err)
		}
		if err := s.Close(); err != nil {
			t.Fatal(err)
		}
	}

	records, err := ReadJSONL(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("reopening should append, got %d records", len(records))
	}
}

func TestJSONLStoreConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "manifest.jsonl")

	s, err := NewJSONLStore(path)
	if err != nil {
		t.Fatal(err)
	}

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Append(ctx, testRecord(string(rune('a'+i%26))))
		}(i)
	}
	wg.Wait()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	records, err := ReadJSONL(path)
	if err != nil {
		t.Fatalf("concurrent writes corrupted the file: %v", err)
	}
	if len(records) != n {
		t.Errorf("records = %d, want %d", len(records), n)
	}
}

func TestJSONLStoreClosed(t *testing.T) {
	s, err := NewJSONLStore(filepath.Join(t.TempDir(), "manifest.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Append(context.Background(), testRecord("x")); err != ErrClosed {
		t.Errorf("Append after Close = %v, want ErrClosed", err)
	}
	// Double close is not an error
	if err := s.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestNullStore(t *testing.T) {
	s := NewNullStore()
	if err := s.Append(context.Background(), testRecord("x")); err != nil {
		t.Errorf("Append: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
