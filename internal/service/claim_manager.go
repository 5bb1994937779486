package service

import (
	"context"
	"time"

	"github.com/rzkmi/payoutdesk/internal/apperrors"
	"github.com/rzkmi/payoutdesk/internal/models"
	"github.com/rzkmi/payoutdesk/internal/repository"
)

// ClaimManager serializes which single admin may advance a withdrawal past
// pending. Acquire is atomic with the pending-status check; release happens
// inside the pay/reject transitions themselves, so the claim can never
// outlive the approved status.
type ClaimManager interface {
	Acquire(ctx context.Context, id string, actor models.Actor) (models.Withdrawal, error)
	Takeover(ctx context.Context, id string, actor models.Actor) (models.Withdrawal, error)
}

type claimManager struct {
	repo repository.WithdrawalRepository
	now  func() time.Time
}

func NewClaimManager(repo repository.WithdrawalRepository) ClaimManager {
	return &claimManager{repo: repo, now: time.Now}
}

// Acquire grants the claim iff the withdrawal is pending and unclaimed.
// Re-acquiring by the current holder is a no-op success, so a double-clicked
// approve does not error. Losing the race surfaces the holder's name.
func (c *claimManager) Acquire(ctx context.Context, id string, actor models.Actor) (models.Withdrawal, error) {
	claim := models.Claim{ActorID: actor.ID, ActorName: actor.Name, ClaimedAt: c.now()}

	ok, err := c.repo.AcquireClaim(ctx, id, claim)
	if err != nil {
		return models.Withdrawal{}, err
	}

	w, err := c.repo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return models.Withdrawal{}, apperrors.ErrWithdrawalNotFound
		}
		return models.Withdrawal{}, err
	}
	if ok {
		return w, nil
	}

	switch {
	case w.Status == models.StatusApproved && w.Claim != nil && w.Claim.ActorID == actor.ID:
		return w, nil
	case w.Status == models.StatusApproved && w.Claim != nil:
		return models.Withdrawal{}, &apperrors.AlreadyClaimedError{HolderName: w.Claim.ActorName}
	default:
		return models.Withdrawal{}, apperrors.ErrInvalidTransition
	}
}

// Takeover reassigns the claim of an approved withdrawal to the calling
// actor. It is the recovery path for a claim whose holder became unavailable;
// authorization for it belongs to the caller, not this service.
func (c *claimManager) Takeover(ctx context.Context, id string, actor models.Actor) (models.Withdrawal, error) {
	claim := models.Claim{ActorID: actor.ID, ActorName: actor.Name, ClaimedAt: c.now()}

	ok, err := c.repo.ReassignClaim(ctx, id, claim)
	if err != nil {
		return models.Withdrawal{}, err
	}

	w, err := c.repo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return models.Withdrawal{}, apperrors.ErrWithdrawalNotFound
		}
		return models.Withdrawal{}, err
	}
	if !ok {
		return models.Withdrawal{}, apperrors.ErrInvalidTransition
	}
	return w, nil
}
