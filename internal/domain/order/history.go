package order

import "time"

// StatusChange is one audit record of an order-status transition. Only the
// free-text notes may change after the fact; the transition itself is
// immutable and entries are never deleted.
type StatusChange struct {
	ID        int64
	OrderID   int64
	From      Status
	To        Status
	Reason    string
	Memo      string
	ChangedAt time.Time
}

func (sc *StatusChange) UpdateNotes(reason, memo *string) {
	if reason != nil {
		sc.Reason = *reason
	}
	if memo != nil {
		sc.Memo = *memo
	}
}
