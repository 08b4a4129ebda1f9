package matching

import (
	"context"
	"errors"
	"log"
	"time"
)

// Scheduler fires one generation pass per week at the configured weekday and
// hour in the match timezone. A re-fire against an already generated prompt
// is logged and ignored.
type Scheduler struct {
	service Service
	weekday time.Weekday
	hour    int
	loc     *time.Location
}

func NewScheduler(service Service, weekday time.Weekday, hour int, loc *time.Location) *Scheduler {
	return &Scheduler{service: service, weekday: weekday, hour: hour, loc: loc}
}

func (s *Scheduler) Start(ctx context.Context) {
	go s.runWeekly(ctx)
}

func (s *Scheduler) runWeekly(ctx context.Context) {
	for {
		timer := time.NewTimer(time.Until(s.nextRun(time.Now())))

		select {
		case <-timer.C:
			promptID, count, err := s.service.GenerateMatchesForCurrentPrompt(ctx)
			switch {
			case errors.Is(err, ErrAlreadyMatched):
				log.Printf("Weekly generation skipped: prompt %s already generated", promptID)
			case err != nil:
				log.Printf("Weekly generation failed for prompt %s: %v", promptID, err)
			default:
				log.Printf("Weekly generation for prompt %s matched %d users", promptID, count)
			}
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// nextRun is the next configured weekday/hour in the match timezone strictly
// after now.
func (s *Scheduler) nextRun(now time.Time) time.Time {
	local := now.In(s.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), s.hour, 0, 0, 0, s.loc)
	daysAhead := (int(s.weekday) - int(next.Weekday()) + 7) % 7
	next = next.AddDate(0, 0, daysAhead)
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}
