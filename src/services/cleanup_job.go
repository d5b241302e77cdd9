package services

import (
	"context"
	"time"

	"github.com/username/carteira/backend/src/logger"
)

// SessionCleanupJob removes expired sessions and their data. It satisfies scheduler.Job.
type SessionCleanupJob struct {
	sessions *SessionService
	timeout  time.Duration
}

func NewSessionCleanupJob(sessions *SessionService) *SessionCleanupJob {
	return &SessionCleanupJob{sessions: sessions, timeout: time.Minute}
}

func (j *SessionCleanupJob) Name() string {
	return "session_cleanup"
}

func (j *SessionCleanupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	n, err := j.sessions.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.L.Info("Expired sessions purged", "count", n)
	}
	return nil
}
