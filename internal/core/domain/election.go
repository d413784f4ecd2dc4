package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ElectionState string

// MaxTimeLimitHours bounds TimeLimitHours well inside time.Duration and the INTEGER column.
const MaxTimeLimitHours = 24 * 366 * 10

const (
	StateDraft     ElectionState = "draft"
	StateScheduled ElectionState = "scheduled"
	StateOpen      ElectionState = "open"
	StateClosed    ElectionState = "closed"
	StateDeleted   ElectionState = "deleted"
)

func (s ElectionState) Valid() bool {
	switch s {
	case StateDraft, StateScheduled, StateOpen, StateClosed, StateDeleted:
		return true
	default:
		return false
	}
}

// Election is the aggregate that owns constituencies, district assignments and candidacies.
// A zero TimeLimitHours means the election only closes when stopped.
type Election struct {
	ID             uuid.UUID      `json:"id"`
	Name           string         `json:"name"`
	Date           time.Time      `json:"date"`
	TimeLimitHours int            `json:"time_limit_hours"`
	State          ElectionState  `json:"state"`
	OpenedAt       *time.Time     `json:"opened_at,omitempty"`
	ClosedAt       *time.Time     `json:"closed_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	Constituencies []Constituency `json:"constituencies,omitempty"`
}

// Deadline reports when an open election closes on its own.
func (e *Election) Deadline() (time.Time, bool) {
	if e.State != StateOpen || e.OpenedAt == nil || e.TimeLimitHours <= 0 {
		return time.Time{}, false
	}
	return e.OpenedAt.Add(time.Duration(e.TimeLimitHours) * time.Hour), true
}

// Expired reports whether an open election has run past its time limit at now.
func (e *Election) Expired(now time.Time) bool {
	deadline, ok := e.Deadline()
	return ok && !now.Before(deadline)
}

// ReadinessViolations lists every precondition that blocks an election from being
// scheduled or opened. An empty result means the election is ready.
func ReadinessViolations(e *Election, constituencies []Constituency, candidacies []Candidacy, districts []District) []string {
	var violations []string

	if e.Name == "" {
		violations = append(violations, "name is required")
	}
	if e.Date.IsZero() {
		violations = append(violations, "date is required")
	}
	if len(constituencies) == 0 {
		violations = append(violations, "at least one constituency is required")
	}

	contested := make(map[uuid.UUID]bool, len(candidacies))
	for _, c := range candidacies {
		contested[c.ConstituencyID] = true
	}

	owners := make(map[uuid.UUID]int, len(districts))
	for _, c := range constituencies {
		if !contested[c.ID] {
			violations = append(violations, fmt.Sprintf("constituency %q has no candidacy", c.Name))
		}
		for _, d := range c.DistrictIDs {
			owners[d]++
		}
	}

	for _, d := range districts {
		switch owners[d.ID] {
		case 0:
			violations = append(violations, fmt.Sprintf("district %q is not assigned to any constituency", d.Name))
		case 1:
		default:
			violations = append(violations, fmt.Sprintf("district %q is assigned to more than one constituency", d.Name))
		}
	}

	return violations
}
