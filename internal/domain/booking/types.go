package booking

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusRejected, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// Blocks reports whether a booking in this status occupies its slot for
// conflict purposes. Rejected/cancelled bookings free the slot, and
// completed ones occupy the past.
func (s Status) Blocks() bool {
	return s == StatusPending || s == StatusConfirmed
}

type Type string

const (
	TypeHourly  Type = "hourly"
	TypeDaily   Type = "daily"
	TypeMonthly Type = "monthly"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeHourly, TypeDaily, TypeMonthly:
		return true
	default:
		return false
	}
}
