package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrWithdrawalNotFound   = errors.New("withdrawal not found")
	ErrInvalidTransition    = errors.New("invalid transition")
	ErrForbidden            = errors.New("actor does not hold the claim")
	ErrEmptyRejectionReason = errors.New("rejection reason must not be empty")
	ErrMissingProof         = errors.New("proof of payment required")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidRiskScore     = errors.New("invalid risk score")
	ErrInternalServer       = errors.New("internal server error")
)

// AlreadyClaimedError is returned when an approve races and loses. It carries
// the current holder's name so operators see who is mid-process.
type AlreadyClaimedError struct {
	HolderName string
}

func (e *AlreadyClaimedError) Error() string {
	return fmt.Sprintf("withdrawal already in process by %s", e.HolderName)
}
