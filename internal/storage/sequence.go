package storage

// Sequence is the durable monotonically increasing counter that assigns
// rental identifiers. Next performs a read-increment-persist cycle, so an
// identifier handed out once is never handed out again, even across process
// restarts. Callers serialize access; the sequence itself does no locking.
type Sequence struct {
	store *Store
}

// NewSequence creates a sequence backed by the store's metadata artifact.
func NewSequence(store *Store) *Sequence {
	return &Sequence{store: store}
}

// Next returns the next identifier and durably advances the counter before
// returning. If persisting the advance fails, no identifier is issued.
func (q *Sequence) Next() (int64, error) {
	next, err := q.store.LoadNextRentalID()
	if err != nil {
		return 0, err
	}
	if err := q.store.SaveNextRentalID(next + 1); err != nil {
		return 0, err
	}
	return next, nil
}

// Peek returns the next identifier without advancing the counter.
func (q *Sequence) Peek() (int64, error) {
	return q.store.LoadNextRentalID()
}
