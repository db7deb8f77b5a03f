package views

import (
	"context"
	"time"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/domain"
	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository"
)

// Counter compares the current calendar week against the previous one.
type Counter struct {
	Current int `json:"current"`
	Last    int `json:"last"`
	Diff    int `json:"diff"`
}

type WeeklyStats struct {
	WeekStart time.Time `json:"week_start"`
	Created   Counter   `json:"created"`
	Completed Counter   `json:"completed"`
}

// WeekStart returns Monday 00:00 of the week containing t, in t's location.
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// WeeklyStats counts the caller's tasks created and completed this week and last week.
func (uc *UseCase) WeeklyStats(ctx context.Context, callerID string) (*WeeklyStats, error) {
	if _, err := uc.support.Caller(ctx, callerID); err != nil {
		return nil, err
	}
	now := uc.support.Now().In(uc.support.Location())
	current := WeekStart(now)
	last := current.AddDate(0, 0, -7)

	tasks, err := uc.tasks.List(ctx, repository.WorkItemFilter{
		ParticipantID: callerID,
		ActiveSince:   &last,
	})
	if err != nil {
		return nil, err
	}

	stats := &WeeklyStats{WeekStart: current}
	for i := range tasks {
		task := &tasks[i]
		bump(&stats.Created, task.CreatedAt, current, last)
		if task.Status == domain.TaskDone && task.CompletedAt != nil {
			bump(&stats.Completed, *task.CompletedAt, current, last)
		}
	}
	stats.Created.Diff = stats.Created.Current - stats.Created.Last
	stats.Completed.Diff = stats.Completed.Current - stats.Completed.Last
	return stats, nil
}

func bump(c *Counter, at, current, last time.Time) {
	next := current.AddDate(0, 0, 7)
	switch {
	case !at.Before(current) && at.Before(next):
		c.Current++
	case !at.Before(last) && at.Before(current):
		c.Last++
	}
}
