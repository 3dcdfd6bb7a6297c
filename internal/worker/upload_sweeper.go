package worker

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/classtrack/classtrack-backend/internal/config"
	"github.com/rs/zerolog"
)

// AttachmentLister reports which stored file names are referenced by a
// submission record.
type AttachmentLister interface {
	AttachedFileNames(ctx context.Context) (map[string]struct{}, error)
}

// UploadSweeper periodically removes uploaded files that no submission
// ever claimed. Uploads happen before the submission record exists, so
// an abandoned form leaves files behind; anything older than the
// retention window and unreferenced is fair game.
type UploadSweeper struct {
	cfg         *config.Config
	submissions AttachmentLister
	log         zerolog.Logger
}

// NewUploadSweeper creates a new UploadSweeper.
func NewUploadSweeper(cfg *config.Config, submissions AttachmentLister, log zerolog.Logger) *UploadSweeper {
	return &UploadSweeper{
		cfg:         cfg,
		submissions: submissions,
		log:         log.With().Str("component", "upload_sweeper").Logger(),
	}
}

// Start begins the sweep loop. Call in a goroutine.
func (w *UploadSweeper) Start(ctx context.Context) {
	w.log.Info().Dur("retention", w.cfg.UploadRetention).Msg("Worker started")

	ticker := time.NewTicker(w.cfg.UploadRetention / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *UploadSweeper) sweep(ctx context.Context) {
	attached, err := w.submissions.AttachedFileNames(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("List attached files error")
		return
	}

	root := filepath.Join(w.cfg.UploadDir, "submissions")
	cutoff := time.Now().Add(-w.cfg.UploadRetention)
	removed := 0

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}

		if _, ok := attached[d.Name()]; ok {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().After(cutoff) {
			// Still inside the retention window; the submission
			// referencing it may not exist yet.
			return nil
		}

		if err := os.Remove(path); err != nil {
			w.log.Error().Err(err).Str("path", path).Msg("Remove orphan error")
			return nil
		}
		removed++
		return nil
	})
	if err != nil {
		w.log.Error().Err(err).Msg("Sweep walk error")
		return
	}

	if removed > 0 {
		w.log.Info().Int("removed", removed).Msg("Swept orphaned uploads")
	}
}
