package sqlite

import "github.com/Pazificateur69/CRM-NetStrategy-sub001/repository"

// NewStore wires every SQLite repository over one database.
func NewStore(db *DB) repository.Store {
	directory := NewDirectory(db)
	sequencer := NewSequencer(db)
	return repository.Store{
		Tasks:     NewTaskRepository(db),
		Reminders: NewReminderRepository(db),
		Identity:  directory,
		Accounts:  directory,
		Sequence:  sequencer,
		MaxOrders: sequencer,
		Activity:  NewActivityRepository(db),
	}
}
