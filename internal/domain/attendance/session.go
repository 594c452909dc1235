package attendance

// SessionStatus classifies a civil day's attendance from the presence of entry and exit.
type SessionStatus string

const (
	StatusNotStarted SessionStatus = "No ha iniciado"
	StatusInProgress SessionStatus = "En curso"
	StatusFinished   SessionStatus = "Finalizada"
)

// StatusOf derives the status from which side of the session exists.
func StatusOf(hasEntry, hasExit bool) SessionStatus {
	switch {
	case !hasEntry:
		return StatusNotStarted
	case !hasExit:
		return StatusInProgress
	default:
		return StatusFinished
	}
}

// Session is one user's attendance on one civil day. It is derived from
// records and never persisted.
type Session struct {
	UserID      string        `json:"user_id"`
	UserName    string        `json:"user_name"`
	Date        string        `json:"date"`
	EntryRecord *Record       `json:"entry_record,omitempty"`
	ExitRecord  *Record       `json:"exit_record,omitempty"`
	Entry       *string       `json:"entry"`
	Exit        *string       `json:"exit"`
	Hours       float64       `json:"hours"`
	Status      SessionStatus `json:"status"`
}
