package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Pazificateur69/CRM-NetStrategy-sub001/repository"
)

// NewStore wires every Postgres repository over one pool.
func NewStore(pool *pgxpool.Pool) repository.Store {
	directory := NewDirectory(pool)
	sequencer := NewSequencer(pool)
	return repository.Store{
		Tasks:     NewTaskRepository(pool),
		Reminders: NewReminderRepository(pool),
		Identity:  directory,
		Accounts:  directory,
		Sequence:  sequencer,
		MaxOrders: sequencer,
		Activity:  NewActivityRepository(pool),
	}
}
