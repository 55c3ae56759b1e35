package stores

import (
	"context"
	"path/filepath"
	"testing"
)

func TestFileBlobPutGet(t *testing.T) {
	blob, err := NewFileBlob(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create blob store: %v", err)
	}

	ctx := context.Background()
	key := "requests/job-001.json"
	payload := []byte(`{"plan":{}}`)

	if err := blob.Put(ctx, key, payload); err != nil {
		t.Fatalf("failed to put blob: %v", err)
	}

	got, err := blob.Get(ctx, key)
	if err != nil {
		t.Fatalf("failed to get blob: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("expected %s, got %s", payload, got)
	}
}

func TestFileBlobRejectsEscape(t *testing.T) {
	blob, err := NewFileBlob(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create blob store: %v", err)
	}

	ctx := context.Background()
	if _, err := blob.Get(ctx, "../outside.json"); err == nil {
		t.Error("expected error for key escaping store root")
	}
	if _, err := blob.Get(ctx, filepath.Join("..", "outside.json")); err == nil {
		t.Error("expected error for key escaping store root")
	}
}

func TestFileBlobMissingKey(t *testing.T) {
	blob, err := NewFileBlob(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create blob store: %v", err)
	}
	if _, err := blob.Get(context.Background(), "results/missing.json"); err == nil {
		t.Error("expected error for missing key")
	}
}
