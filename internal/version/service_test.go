package version

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestTradeRepoLifecycle(t *testing.T) {
	tempDir := t.TempDir()
	svc := New(tempDir)

	if err := svc.EnsureTradeRepo("trade-1"); err != nil {
		t.Fatalf("EnsureTradeRepo() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "trade-1")); err != nil {
		t.Fatalf("repo directory missing: %v", err)
	}
	// Idempotent.
	if err := svc.EnsureTradeRepo("trade-1"); err != nil {
		t.Fatalf("EnsureTradeRepo() second call error = %v", err)
	}

	first, err := svc.CommitSnapshot("trade-1", map[string]string{
		"offer": "<p>offer v1</p>",
	}, "Save offer")
	if err != nil {
		t.Fatalf("CommitSnapshot() error = %v", err)
	}
	if first.Hash == "" {
		t.Fatal("expected commit hash")
	}

	second, err := svc.CommitSnapshot("trade-1", map[string]string{
		"offer": "<p>offer v2</p>",
		"pi":    "<p>invoice v1</p>",
	}, "Save invoice")
	if err != nil {
		t.Fatalf("CommitSnapshot() error = %v", err)
	}

	history, err := svc.History("trade-1", 10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history entries = %d, want 3", len(history))
	}
	if history[0].Hash != second.Hash {
		t.Fatalf("head = %s, want %s", history[0].Hash, second.Hash)
	}

	// The first snapshot has the offer only; the invoice slot is absent.
	docs, err := svc.SnapshotAt("trade-1", first.Hash)
	if err != nil {
		t.Fatalf("SnapshotAt() error = %v", err)
	}
	if docs["offer"] != "<p>offer v1</p>" {
		t.Fatalf("offer content = %q", docs["offer"])
	}
	if _, ok := docs["pi"]; ok {
		t.Fatal("pi should be absent in the first snapshot")
	}

	docs, err = svc.SnapshotAt("trade-1", second.Hash)
	if err != nil {
		t.Fatalf("SnapshotAt() error = %v", err)
	}
	if docs["pi"] != "<p>invoice v1</p>" {
		t.Fatalf("pi content = %q", docs["pi"])
	}
}

func TestCommitSnapshotUnchangedIsNoOp(t *testing.T) {
	svc := New(t.TempDir())
	if err := svc.EnsureTradeRepo("trade-1"); err != nil {
		t.Fatalf("EnsureTradeRepo() error = %v", err)
	}

	docs := map[string]string{"offer": "<p>offer</p>"}
	first, err := svc.CommitSnapshot("trade-1", docs, "Save offer")
	if err != nil {
		t.Fatalf("CommitSnapshot() error = %v", err)
	}
	again, err := svc.CommitSnapshot("trade-1", docs, "Save offer again")
	if err != nil {
		t.Fatalf("CommitSnapshot() unchanged error = %v", err)
	}
	if again.Hash != first.Hash {
		t.Fatalf("unchanged snapshot created commit %s, head was %s", again.Hash, first.Hash)
	}
}

func TestCommitSnapshotRemovesDroppedSlots(t *testing.T) {
	svc := New(t.TempDir())
	if err := svc.EnsureTradeRepo("trade-1"); err != nil {
		t.Fatalf("EnsureTradeRepo() error = %v", err)
	}

	_, err := svc.CommitSnapshot("trade-1", map[string]string{
		"offer": "<p>offer</p>",
		"pi":    "<p>invoice</p>",
	}, "Save both")
	if err != nil {
		t.Fatalf("CommitSnapshot() error = %v", err)
	}

	dropped, err := svc.CommitSnapshot("trade-1", map[string]string{
		"offer": "<p>offer</p>",
	}, "Restore before invoice")
	if err != nil {
		t.Fatalf("CommitSnapshot() error = %v", err)
	}

	docs, err := svc.SnapshotAt("trade-1", dropped.Hash)
	if err != nil {
		t.Fatalf("SnapshotAt() error = %v", err)
	}
	if _, ok := docs["pi"]; ok {
		t.Fatal("pi should have been removed from the snapshot")
	}
}

func TestConcurrentSnapshotsSameTrade(t *testing.T) {
	svc := New(t.TempDir())
	if err := svc.EnsureTradeRepo("trade-1"); err != nil {
		t.Fatalf("EnsureTradeRepo() error = %v", err)
	}

	const writers = 12
	var wg sync.WaitGroup
	errCh := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			docs := map[string]string{"offer": fmt.Sprintf("<p>offer %02d</p>", idx)}
			if _, err := svc.CommitSnapshot("trade-1", docs, fmt.Sprintf("Save %02d", idx)); err != nil {
				errCh <- err
			}
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		if err != nil {
			t.Fatalf("CommitSnapshot() concurrent error = %v", err)
		}
	}

	history, err := svc.History("trade-1", 100)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) < writers+1 {
		t.Fatalf("expected at least %d commits, got %d", writers+1, len(history))
	}
}
