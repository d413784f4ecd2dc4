package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"already voted is a conflict", ErrAlreadyVoted, ErrConflict},
		{"not open is an invalid state", ErrElectionNotOpen, ErrInvalidState},
		{"not eligible is not found", ErrNotEligible, ErrNotFound},
		{"not contesting is a validation failure", ErrNotContesting, ErrValidation},
		{"wrapped errors keep their kind", fmt.Errorf("cast vote: %w", ErrAlreadyVoted), ErrConflict},
		{"violations are validation failures", NewValidationError("name is required"), ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)
		})
	}
}

func TestErrorKinds_DoNotCrossMatch(t *testing.T) {
	assert.False(t, errors.Is(ErrAlreadyVoted, ErrValidation))
	assert.False(t, errors.Is(ErrAlreadyVoted, ErrPartyAlreadyContesting))
	assert.False(t, errors.Is(errors.New("boom"), ErrNotFound))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("x: %w", ErrDistrictAlreadyAssigned)))
	assert.Equal(t, KindInvalidState, KindOf(InvalidState("election is closed")))
	assert.Equal(t, Kind(""), KindOf(errors.New("db down")))
}

func TestValidationError_ListsEveryViolation(t *testing.T) {
	err := NewValidationError("name is required", "date is required")

	var de *Error
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, []string{"name is required", "date is required"}, de.Violations)
	assert.Equal(t, "validation failed: name is required; date is required", err.Error())
}
