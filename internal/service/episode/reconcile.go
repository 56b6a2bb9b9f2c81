package episode

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/content"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain/models"
	"github.com/AbdelrahmanYosry2022/sohil-dashboard-sub000/internal/domain/repositories"
)

// insertConcurrency bounds the parallel insert fan-out of one save pass.
const insertConcurrency = 8

// Reconciler implements the save protocol: replacing the entire persisted
// collection for one (episode, content type) by deleting every existing
// record of that type and inserting the full new collection.
//
// There is no transaction around a frame reconciliation pass and no
// rollback on partial failure: the remote state can end up a mix of old
// and new records. The caller is expected to retry, which re-runs the
// whole delete-all/insert-all cycle and converges.
type Reconciler struct {
	records repositories.ContentRecordRepository
	gate    *saveGate
	timeout time.Duration
	logger  *slog.Logger
}

// NewReconciler creates a reconciler. timeout bounds one full save pass;
// zero disables the bound.
func NewReconciler(records repositories.ContentRecordRepository, timeout time.Duration, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		records: records,
		gate:    newSaveGate(),
		timeout: timeout,
		logger:  logger,
	}
}

// LoadFrames reads and decodes every frame of an episode for one kind,
// sorted for display. Folders documents sharing the type column in legacy
// data are skipped via the payload marker.
func (r *Reconciler) LoadFrames(ctx context.Context, codec *content.Codec, episodeID string) ([]models.Frame, error) {
	records, err := r.records.QueryByType(ctx, episodeID, codec.Kind().FrameType())
	if err != nil {
		return nil, err
	}

	frames := make([]models.Frame, 0, len(records))
	for _, record := range records {
		if content.IsFoldersPayload(record.Payload) {
			continue
		}
		frames = append(frames, *codec.DecodeFrame(record.ID, record.Payload))
	}

	SortForDisplay(frames)
	return frames, nil
}

// SaveFrames replaces the episode's persisted frame set for one kind.
// Deletes of the current records settle first, then the new collection is
// inserted with bounded parallelism. A newer save for the same collection
// supersedes this one by cancelling its context.
func (r *Reconciler) SaveFrames(ctx context.Context, codec *content.Codec, episodeID string, frames []models.Frame) error {
	frameType := codec.Kind().FrameType()
	ctx, done := r.begin(ctx, episodeID, frameType)
	defer done()

	existing, err := r.records.QueryByType(ctx, episodeID, frameType)
	if err != nil {
		return err
	}

	deleted, err := r.deleteAll(ctx, existing)
	if err != nil {
		return &domain.SaveError{
			EpisodeID: episodeID,
			Type:      string(frameType),
			Deleted:   deleted,
			Err:       err,
		}
	}

	newRecords := make([]*models.ContentRecord, 0, len(frames))
	for i := range frames {
		newRecords = append(newRecords, &models.ContentRecord{
			EpisodeID: episodeID,
			Type:      frameType,
			Payload:   codec.EncodeFrame(&frames[i]),
		})
	}

	inserted, failures := r.insertAll(ctx, newRecords)
	if len(failures) > 0 {
		r.logger.Error("frame save left partial state",
			"episode_id", episodeID,
			"type", frameType,
			"deleted", deleted,
			"inserted", inserted,
			"failed", len(failures),
		)
		return &domain.SaveError{
			EpisodeID: episodeID,
			Type:      string(frameType),
			Deleted:   deleted,
			Inserted:  inserted,
			Err:       errors.Join(failures...),
		}
	}

	r.logger.Debug("frames saved",
		"episode_id", episodeID,
		"type", frameType,
		"count", len(frames),
	)
	return nil
}

// LoadFolders reads the episode's single folders document for one kind.
// No record decodes to an empty list; so does a record whose payload lost
// its folder list.
func (r *Reconciler) LoadFolders(ctx context.Context, codec *content.Codec, episodeID string) ([]models.Folder, error) {
	records, err := r.records.QueryByType(ctx, episodeID, codec.Kind().FoldersType())
	if err != nil {
		return nil, err
	}

	for _, record := range records {
		if content.IsFoldersPayload(record.Payload) {
			return codec.DecodeFolders(record.Payload), nil
		}
	}
	return []models.Folder{}, nil
}

// SaveFolders replaces the episode's folders document for one kind. Every
// existing folders-type record is deleted, then exactly one new record is
// inserted even when folders is empty: the explicit empty document is what
// keeps a wiped folder list from resurrecting as "no record, use defaults".
func (r *Reconciler) SaveFolders(ctx context.Context, codec *content.Codec, episodeID string, folders []models.Folder) error {
	foldersType := codec.Kind().FoldersType()
	ctx, done := r.begin(ctx, episodeID, foldersType)
	defer done()

	existing, err := r.records.QueryByType(ctx, episodeID, foldersType)
	if err != nil {
		return err
	}

	deleted, err := r.deleteAll(ctx, existing)
	if err != nil {
		return &domain.SaveError{
			EpisodeID: episodeID,
			Type:      string(foldersType),
			Deleted:   deleted,
			Err:       err,
		}
	}

	record := &models.ContentRecord{
		EpisodeID: episodeID,
		Type:      foldersType,
		Payload:   codec.EncodeFolders(folders),
	}
	if err := r.records.Create(ctx, record); err != nil {
		return &domain.SaveError{
			EpisodeID: episodeID,
			Type:      string(foldersType),
			Deleted:   deleted,
			Err:       err,
		}
	}

	r.logger.Debug("folders saved",
		"episode_id", episodeID,
		"type", foldersType,
		"count", len(folders),
	)
	return nil
}

// begin applies the save timeout and the supersede-on-new-save gate.
func (r *Reconciler) begin(ctx context.Context, episodeID string, contentType models.ContentType) (context.Context, func()) {
	cancel := func() {}
	if r.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
	}

	ctx, done := r.gate.begin(ctx, episodeID+"/"+string(contentType))
	timeoutCancel := cancel
	return ctx, func() {
		done()
		timeoutCancel()
	}
}

// deleteAll issues one delete per record and waits for all of them.
// Ordering between individual deletes is not required, just settlement
// before inserts begin.
func (r *Reconciler) deleteAll(ctx context.Context, records []models.ContentRecord) (int, error) {
	var (
		mu       sync.Mutex
		failures []error
		deleted  int
	)

	run := r.runner(ctx)
	for i := range records {
		record := records[i]
		run(func() {
			if err := r.records.Delete(ctx, record.ID); err != nil {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return
			}
			mu.Lock()
			deleted++
			mu.Unlock()
		})
	}
	run(nil)

	if len(failures) > 0 {
		return deleted, errors.Join(failures...)
	}
	return deleted, nil
}

// insertAll issues one create per record, every call attempted regardless
// of earlier failures, and reports how many landed plus the individual
// errors.
func (r *Reconciler) insertAll(ctx context.Context, records []*models.ContentRecord) (int, []error) {
	var (
		mu       sync.Mutex
		failures []error
		inserted int
	)

	run := r.runner(ctx)
	for i := range records {
		record := records[i]
		run(func() {
			if err := r.records.Create(ctx, record); err != nil {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return
			}
			mu.Lock()
			inserted++
			mu.Unlock()
		})
	}
	run(nil)

	return inserted, failures
}

// runner returns a submit function for the store calls of one pass.
// Outside a transaction the calls fan out on a bounded errgroup; inside
// one they run sequentially, since pgx.Tx is not safe for concurrent use.
// Submitting nil waits for everything in flight.
func (r *Reconciler) runner(ctx context.Context) func(fn func()) {
	if repositories.GetTx(ctx) != nil {
		return func(fn func()) {
			if fn != nil {
				fn()
			}
		}
	}

	g := new(errgroup.Group)
	g.SetLimit(insertConcurrency)
	return func(fn func()) {
		if fn == nil {
			_ = g.Wait()
			return
		}
		g.Go(func() error {
			fn()
			return nil
		})
	}
}
