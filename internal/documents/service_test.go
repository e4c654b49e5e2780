package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"healthdocs-backend/internal/analyses"
	"healthdocs-backend/internal/users"
)

type fakeStore struct {
	ensureErr  error
	putErr     error
	presignErr error
	// presignFailKey fails issuance for one storage key only.
	presignFailKey string

	ensures int
	objects map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) EnsureBucket(ctx context.Context) error {
	f.ensures++
	return f.ensureErr
}

func (f *fakeStore) Put(ctx context.Context, storageKey, stagingPath string, data []byte, contentType string, meta map[string]string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.objects[storageKey] = append([]byte(nil), data...)
	return nil
}

func (f *fakeStore) PresignedGet(ctx context.Context, storageKey string, ttl time.Duration) (string, error) {
	if f.presignErr != nil {
		return "", f.presignErr
	}
	if f.presignFailKey != "" && storageKey == f.presignFailKey {
		return "", errors.New("presign failed")
	}
	return fmt.Sprintf("https://store.example/%s?ttl=%d", storageKey, int(ttl.Seconds())), nil
}

func (f *fakeStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	data, ok := f.objects[storageKey]
	if !ok {
		return nil, errors.New("no such object")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func newTestService(t *testing.T, store *fakeStore) (*Service, users.User) {
	t.Helper()
	ctx := context.Background()

	usersRepo := users.NewMemoryRepo()
	user, err := usersRepo.Create(ctx, users.User{Email: "owner@example.com"})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	analysesRepo := analyses.NewMemoryRepo()
	svc := &Service{
		Store:           store,
		Docs:            NewMemoryRepo(analysesRepo),
		Users:           usersRepo,
		Analyses:        analysesRepo,
		Bucket:          "health-documents",
		AnalysisVersion: "v1",
	}
	return svc, user
}

func TestUploadHappyPath(t *testing.T) {
	store := newFakeStore()
	svc, user := newTestService(t, store)
	payload := []byte("%PDF-1.4 fake report")

	doc, err := svc.Upload(context.Background(), UploadRequest{
		UserID:   user.ID,
		Filename: "bloodtest.pdf",
		Data:     payload,
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if doc.ID == 0 {
		t.Fatalf("expected assigned document id")
	}
	if doc.FileID == "bloodtest.pdf" || doc.FileID == "" {
		t.Fatalf("expected generated file id, got %q", doc.FileID)
	}
	if doc.URL == "" {
		t.Fatalf("expected presigned url on upload")
	}
	if doc.SizeBytes != int64(len(payload)) {
		t.Fatalf("size = %d, want %d", doc.SizeBytes, len(payload))
	}

	// The storage key must resolve to byte-identical content.
	rc, err := store.Open(context.Background(), doc.StorageKey)
	if err != nil {
		t.Fatalf("open stored object: %v", err)
	}
	defer rc.Close()
	stored, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read stored object: %v", err)
	}
	if !bytes.Equal(stored, payload) {
		t.Fatalf("stored content differs from upload")
	}
}

func TestUploadValidation(t *testing.T) {
	store := newFakeStore()
	svc, user := newTestService(t, store)
	ctx := context.Background()

	if _, err := svc.Upload(ctx, UploadRequest{UserID: user.ID, Filename: "empty.txt"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty payload: got %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Upload(ctx, UploadRequest{Filename: "a.txt", Data: []byte("x")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing user id: got %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Upload(ctx, UploadRequest{UserID: user.ID, Filename: "../../etc/passwd", Data: []byte("x")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("traversal filename: got %v, want ErrInvalidInput", err)
	}
	if store.ensures != 0 {
		t.Fatalf("validation failures must not touch storage, got %d ensure calls", store.ensures)
	}
}

func TestUploadUnknownUser(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(t, store)

	_, err := svc.Upload(context.Background(), UploadRequest{
		UserID:   999,
		Filename: "a.txt",
		Data:     []byte("x"),
	})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("got %v, want ErrUserNotFound", err)
	}
	if len(store.objects) != 0 {
		t.Fatalf("no blob may be written for an unknown user")
	}
}

func TestUploadStorageUnavailableBeforeAnyWrite(t *testing.T) {
	store := newFakeStore()
	store.ensureErr = errors.New("connection refused")
	svc, user := newTestService(t, store)

	_, err := svc.Upload(context.Background(), UploadRequest{
		UserID:   user.ID,
		Filename: "a.txt",
		Data:     []byte("x"),
	})
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("got %v, want ErrStorageUnavailable", err)
	}
	if len(store.objects) != 0 {
		t.Fatalf("no blob may be written when provisioning fails")
	}
}

func TestUploadBlobFailureCreatesNoDocument(t *testing.T) {
	store := newFakeStore()
	store.putErr = errors.New("write timeout")
	svc, user := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Upload(ctx, UploadRequest{
		UserID:   user.ID,
		Filename: "a.txt",
		Data:     []byte("x"),
	})
	if !errors.Is(err, ErrUploadFailed) {
		t.Fatalf("got %v, want ErrUploadFailed", err)
	}

	docs, err := svc.Docs.ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("document record created despite failed blob write")
	}
}

func TestUploadPresignFailureStillSucceeds(t *testing.T) {
	store := newFakeStore()
	store.presignErr = errors.New("signing key unavailable")
	svc, user := newTestService(t, store)

	doc, err := svc.Upload(context.Background(), UploadRequest{
		UserID:   user.ID,
		Filename: "a.txt",
		Data:     []byte("x"),
	})
	if err != nil {
		t.Fatalf("Upload should tolerate presign failure: %v", err)
	}
	if doc.URL != "" {
		t.Fatalf("expected empty url, got %q", doc.URL)
	}
}

func TestUploadAnalysisOnlyWithDocumentType(t *testing.T) {
	store := newFakeStore()
	svc, user := newTestService(t, store)
	ctx := context.Background()

	typed, err := svc.Upload(ctx, UploadRequest{
		UserID:       user.ID,
		Filename:     "bloodtest.pdf",
		Data:         []byte("x"),
		DocumentType: "lab_report",
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	untyped, err := svc.Upload(ctx, UploadRequest{
		UserID:   user.ID,
		Filename: "notes.txt",
		Data:     []byte("y"),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	typedSummaries, err := svc.Analyses.SummariesByDocument(ctx, typed.ID)
	if err != nil {
		t.Fatalf("SummariesByDocument: %v", err)
	}
	if len(typedSummaries) != 1 {
		t.Fatalf("expected exactly one analysis, got %d", len(typedSummaries))
	}
	if typedSummaries[0].Status != "pending" {
		t.Fatalf("new analysis status = %q, want pending", typedSummaries[0].Status)
	}
	if typedSummaries[0].AnalysisType != "lab_report" {
		t.Fatalf("analysis type = %q, want lab_report", typedSummaries[0].AnalysisType)
	}

	untypedSummaries, err := svc.Analyses.SummariesByDocument(ctx, untyped.ID)
	if err != nil {
		t.Fatalf("SummariesByDocument: %v", err)
	}
	if len(untypedSummaries) != 0 {
		t.Fatalf("expected no analyses without document type, got %d", len(untypedSummaries))
	}
}

func TestListRefreshesURLsAndIsolatesFailures(t *testing.T) {
	store := newFakeStore()
	svc, user := newTestService(t, store)
	ctx := context.Background()

	first, err := svc.Upload(ctx, UploadRequest{UserID: user.ID, Filename: "a.txt", Data: []byte("a")})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	second, err := svc.Upload(ctx, UploadRequest{UserID: user.ID, Filename: "b.txt", Data: []byte("b")})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	store.presignFailKey = first.StorageKey

	views, err := svc.List(ctx, user.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(views))
	}
	// Newest first.
	if views[0].FileID != second.FileID {
		t.Fatalf("expected newest document first, got %s", views[0].FileID)
	}
	if views[0].URL == "" {
		t.Fatalf("expected refreshed url on healthy document")
	}
	if views[1].URL != "" {
		t.Fatalf("expected empty url on failed document, got %q", views[1].URL)
	}
}

func TestDeleteExcludesFromListing(t *testing.T) {
	store := newFakeStore()
	svc, user := newTestService(t, store)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, UploadRequest{UserID: user.ID, Filename: "a.txt", Data: []byte("a")})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	keep, err := svc.Upload(ctx, UploadRequest{UserID: user.ID, Filename: "b.txt", Data: []byte("b")})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if err := svc.Delete(ctx, user.ID, doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	views, err := svc.List(ctx, user.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(views) != 1 || views[0].FileID != keep.FileID {
		t.Fatalf("expected only the remaining document, got %+v", views)
	}

	if err := svc.Delete(ctx, user.ID, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}
}
