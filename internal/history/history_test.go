package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndRecent(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, root := range []string{"/a", "/b", "/c"} {
		id, err := s.Record(ctx, Run{
			StartedAt:     base.Add(time.Duration(i) * time.Minute),
			Duration:      1500 * time.Millisecond,
			Root:          root,
			FilesAnalyzed: i + 1,
			Warnings:      i,
			Outputs:       4,
		})
		if err != nil {
			t.Fatalf("Record() error: %v", err)
		}
		if id == "" {
			t.Fatal("Record() should assign an ID")
		}
	}

	runs, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].Root != "/c" || runs[1].Root != "/b" {
		t.Errorf("runs not newest first: %s, %s", runs[0].Root, runs[1].Root)
	}
	if runs[0].FilesAnalyzed != 3 || runs[0].Duration != 1500*time.Millisecond || runs[0].Outputs != 4 {
		t.Errorf("run fields = %+v", runs[0])
	}
	if !runs[0].StartedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("started_at = %v", runs[0].StartedAt)
	}
}

func TestRecordKeepsGivenID(t *testing.T) {
	s, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	id, err := s.Record(context.Background(), Run{ID: "fixed", StartedAt: time.Now(), Root: "/x"})
	if err != nil || id != "fixed" {
		t.Fatalf("Record() = %q, %v", id, err)
	}
	if _, err := s.Record(context.Background(), Run{ID: "fixed", StartedAt: time.Now(), Root: "/x"}); err == nil {
		t.Error("duplicate IDs must be rejected")
	}
}

func TestOpenFileAndMigrateIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if _, err := s.Record(context.Background(), Run{StartedAt: time.Now(), Root: "/r"}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s.Close()
	runs, err := s.Recent(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("got %d runs after reopen, want 1", len(runs))
	}
}
