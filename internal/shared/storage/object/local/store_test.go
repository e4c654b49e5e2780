package local

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestPutOpenRoundTripAndStagingCleanup(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir(), "health-documents")
	if err := store.EnsureBucket(ctx); err != nil {
		t.Fatalf("EnsureBucket: %v", err)
	}

	staging := filepath.Join(t.TempDir(), "token.pdf")
	payload := []byte("%PDF-1.4 content")
	key := "user-documents/7/token.pdf"

	if err := store.Put(ctx, key, staging, payload, "application/pdf", nil); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if _, err := os.Stat(staging); !os.IsNotExist(err) {
		t.Fatalf("staging file not cleaned up: %v", err)
	}

	rc, err := store.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("stored bytes differ from input")
	}
}

func TestPresignedGetCarriesExpiry(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir(), "health-documents")

	url, err := store.PresignedGet(ctx, "user-documents/7/token.pdf", 15*time.Minute)
	if err != nil {
		t.Fatalf("PresignedGet: %v", err)
	}
	if !strings.Contains(url, "expires=") {
		t.Fatalf("url missing expiry: %s", url)
	}
	if !strings.Contains(url, "user-documents/7/token.pdf") {
		t.Fatalf("url missing storage key: %s", url)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	ctx := context.Background()
	store := New(t.TempDir(), "health-documents")

	if _, err := store.Open(ctx, "../outside"); err == nil {
		t.Fatalf("expected error for traversal key")
	}
	if _, err := store.Open(ctx, "/etc/passwd"); err == nil {
		t.Fatalf("expected error for absolute key")
	}
}
