package repository

// Store bundles the repositories of one storage backend.
type Store struct {
	Tasks     TaskRepository
	Reminders ReminderRepository
	Identity  IdentityDirectory
	Accounts  AccountDirectory
	Sequence  Sequencer
	MaxOrders MaxOrderReader
	Activity  ActivityRepository
}
