package domain

import (
	"errors"
	"strings"
)

// Kind classifies a domain failure. Every rejected operation reports exactly one kind.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindInvalidState Kind = "invalid_state"
	KindNotFound     Kind = "not_found"
)

// Error is a classified domain failure. Violations lists every failed
// precondition when more than one check is evaluated at once.
type Error struct {
	Kind       Kind
	Message    string
	Violations []string
}

func (e *Error) Error() string {
	if len(e.Violations) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Violations, "; ")
}

// Is matches the kind sentinels below against any error of the same kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation, ErrConflict, ErrInvalidState, ErrNotFound:
		return target.(*Error).Kind == e.Kind
	}
	return false
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrValidation   = newError(KindValidation, "validation failed")
	ErrConflict     = newError(KindConflict, "conflict")
	ErrInvalidState = newError(KindInvalidState, "invalid state")
	ErrNotFound     = newError(KindNotFound, "not found")
)

var (
	ErrElectionNotFound     = newError(KindNotFound, "election not found")
	ErrConstituencyNotFound = newError(KindNotFound, "constituency not found")
	ErrDistrictNotFound     = newError(KindNotFound, "district not found")
	ErrPartyNotFound        = newError(KindNotFound, "party not found")
	ErrCitizenNotFound      = newError(KindNotFound, "citizen not found")
	ErrCandidacyNotFound    = newError(KindNotFound, "candidacy not found")
	ErrNotEligible          = newError(KindNotFound, "not eligible for any constituency in this election")

	ErrDistrictAlreadyAssigned = newError(KindConflict, "district is already assigned to another constituency")
	ErrPartyAlreadyContesting  = newError(KindConflict, "party already fields a candidate in this constituency")
	ErrCitizenAlreadyCandidate = newError(KindConflict, "citizen is already a candidate in this election")
	ErrAlreadyVoted            = newError(KindConflict, "citizen has already voted in this election")
	ErrAlreadyPartyMember      = newError(KindConflict, "citizen already belongs to a party")
	ErrDuplicateName           = newError(KindConflict, "name is already taken")
	ErrDuplicateNID            = newError(KindConflict, "citizen with this NID already exists")

	ErrElectionNotOpen    = newError(KindInvalidState, "election is not open")
	ErrElectionNotDraft   = newError(KindInvalidState, "election structure can only change while in draft")
	ErrElectionNotEditing = newError(KindInvalidState, "election details can only change before it opens")
	ErrElectionStarted    = newError(KindInvalidState, "election has already been opened")
	ErrResultsUnavailable = newError(KindInvalidState, "results are unavailable before the election opens")

	ErrNotContesting      = newError(KindValidation, "party is not contesting in the voter's constituency")
	ErrCandidateNotMember = newError(KindValidation, "candidate is not a member of the party")
	ErrInvalidID          = newError(KindValidation, "invalid id")
)

// ErrUnauthorized is returned when a session or identity proof is rejected.
var ErrUnauthorized = errors.New("unauthorized")

// NewValidationError reports every violated precondition in one error.
func NewValidationError(violations ...string) error {
	return &Error{Kind: KindValidation, Message: "validation failed", Violations: violations}
}

// InvalidState builds an invalid-state error naming the current state.
func InvalidState(message string) error {
	return &Error{Kind: KindInvalidState, Message: message}
}

// KindOf returns the kind of err, or "" for errors outside the domain taxonomy.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
