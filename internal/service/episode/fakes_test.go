package episode

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/assets"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/content"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain/models"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain/repositories"
)

// fakeStore is an in-memory ContentRecordRepository. It keeps insertion
// order so QueryByType is deterministic, and can be told to fail specific
// calls to exercise partial reconciliation.
type fakeStore struct {
	mu      sync.Mutex
	records []models.ContentRecord
	nextID  int

	creates int
	deletes int

	// failCreate, when set, is consulted per insert; a non-nil error
	// fails that insert without touching the store.
	failCreate func(record *models.ContentRecord) error
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (s *fakeStore) Create(ctx context.Context, record *models.ContentRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.creates++
	if s.failCreate != nil {
		if err := s.failCreate(record); err != nil {
			return err
		}
	}

	s.nextID++
	record.ID = fmt.Sprintf("rec-%d", s.nextID)
	record.CreatedAt = time.Now()
	s.records = append(s.records, *record)
	return nil
}

func (s *fakeStore) QueryByType(ctx context.Context, episodeID string, contentType models.ContentType) ([]models.ContentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.ContentRecord
	for _, r := range s.records {
		if r.EpisodeID == episodeID && r.Type == contentType {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) Delete(ctx context.Context, recordID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.deletes++
	for i, r := range s.records {
		if r.ID == recordID {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	return nil
}

func (s *fakeStore) count(episodeID string, contentType models.ContentType) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, r := range s.records {
		if r.EpisodeID == episodeID && r.Type == contentType {
			n++
		}
	}
	return n
}

// fakeBlobStore records the delete requests asset cleanup issues.
type fakeBlobStore struct {
	mu      sync.Mutex
	deleted []string
}

func (s *fakeBlobStore) Upload(ctx context.Context, objectPath, contentType string, data []byte) (string, error) {
	return objectPath, nil
}

func (s *fakeBlobStore) Delete(ctx context.Context, objectPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, objectPath)
	return nil
}

func (s *fakeBlobStore) List(ctx context.Context, pathPrefix string) ([]string, error) {
	return nil, nil
}

func (s *fakeBlobStore) URL(objectPath string) string {
	return "https://example.test/" + objectPath
}

func (s *fakeBlobStore) deleteCount(ref string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, d := range s.deleted {
		if d == ref {
			n++
		}
	}
	return n
}

// fakeTxManager runs the function directly; the in-memory store has no
// transactions to join.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

// testEngine bundles everything a service test needs.
type testEngine struct {
	store      *fakeStore
	blobs      *fakeBlobStore
	registry   *assets.Registry
	codec      *content.Codec
	reconciler *Reconciler
	frames     *FrameService
	folders    *FolderService
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	registry, err := assets.NewRegistry()
	if err != nil {
		t.Fatalf("load asset registry: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := newFakeStore()
	blobs := &fakeBlobStore{}

	codecs := map[models.Kind]*content.Codec{
		models.KindStoryboard: content.NewCodec(models.KindStoryboard, registry),
		models.KindDrawing:    content.NewCodec(models.KindDrawing, registry),
	}
	reconciler := NewReconciler(store, 0, logger)
	assetMgr := NewAssetManager(blobs, registry, logger)

	return &testEngine{
		store:      store,
		blobs:      blobs,
		registry:   registry,
		codec:      codecs[models.KindStoryboard],
		reconciler: reconciler,
		frames:     NewFrameService(reconciler, codecs, assetMgr, registry, logger),
		folders:    NewFolderService(reconciler, codecs, assetMgr, registry, fakeTxManager{}, logger),
	}
}
