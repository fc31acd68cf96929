package jobs

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Manoj5621/Fashion-virtual/internal/repository"
)

// Scheduler runs the maintenance sweeps. The orphan sweep removes upload
// directories whose record never made it into the database: a crash between
// directory creation and commit, or a rollback after mkdir, leaves files
// behind with no row pointing at them.
type Scheduler struct {
	cron     *cron.Cron
	records  *repository.TryOnRepository
	sessions *repository.SessionRepository
	root     string
	log      zerolog.Logger
}

// Directories younger than this are skipped so an in-flight save is never
// swept out from under its transaction.
const orphanMinAge = 24 * time.Hour

func NewScheduler(records *repository.TryOnRepository, sessions *repository.SessionRepository, uploadsRoot string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		records:  records,
		sessions: sessions,
		root:     uploadsRoot,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 0 * * *", s.sweepOrphans); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 0 */1 * * *", s.sweepSessions); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sweepOrphans() {
	if s.root == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	dirs, err := filepath.Glob(filepath.Join(s.root, "users", "*", "tryon_*"))
	if err != nil {
		s.log.Error().Err(err).Msg("orphan sweep glob failed")
		return
	}

	removed := 0
	for _, dir := range dirs {
		id, ok := recordIDFromDir(dir)
		if !ok {
			continue
		}

		info, err := os.Stat(dir)
		if err != nil || time.Since(info.ModTime()) < orphanMinAge {
			continue
		}

		exists, err := s.records.Exists(ctx, id)
		if err != nil {
			s.log.Error().Err(err).Int64("record_id", id).Msg("orphan sweep lookup failed")
			continue
		}
		if exists {
			continue
		}

		if err := os.RemoveAll(dir); err != nil {
			s.log.Error().Err(err).Str("dir", dir).Msg("orphan sweep remove failed")
			continue
		}
		removed++
	}

	if removed > 0 {
		s.log.Info().Int("removed", removed).Msg("orphan upload directories removed")
	}
}

func (s *Scheduler) sweepSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("session sweep failed")
		return
	}
	if deleted > 0 {
		s.log.Info().Int64("deleted", deleted).Msg("expired sessions removed")
	}
}

func recordIDFromDir(dir string) (int64, bool) {
	name := filepath.Base(dir)
	idStr := strings.TrimPrefix(name, "tryon_")
	if idStr == name {
		return 0, false
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
