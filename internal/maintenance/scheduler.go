package maintenance

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/filmcut/filmcut-backend/internal/projects"
)

type Scheduler struct {
	repo      *projects.Repo
	retention time.Duration
	cron      *cron.Cron
}

func NewScheduler(repo *projects.Repo, retention time.Duration) *Scheduler {
	return &Scheduler{repo: repo, retention: retention}
}

// Start schedules the nightly purge of soft-deleted projects (3:00 AM).
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc("0 0 3 * * *", func() {
		s.runPurge()
	})
	if err != nil {
		log.Printf("Failed to create cron job: %v", err)
		return
	}

	log.Println("Maintenance scheduler started (purging nightly at 3:00AM)")
	c.Start()
	s.cron = c
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) runPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer cancel()

	n, err := s.repo.PurgeDeleted(ctx, s.retention)
	if err != nil {
		log.Printf("Purge failed: %v", err)
		return
	}
	log.Printf("Purge completed: %d project(s) removed", n)
}
