package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rzkmi/payoutdesk/internal/apperrors"
	"github.com/rzkmi/payoutdesk/internal/fraud"
	"github.com/rzkmi/payoutdesk/internal/logger"
	"github.com/rzkmi/payoutdesk/internal/models"
	"github.com/rzkmi/payoutdesk/internal/notification"
	"github.com/rzkmi/payoutdesk/internal/rates"
	"github.com/rzkmi/payoutdesk/internal/repository"
	"go.uber.org/zap"
)

type action string

const (
	actionApprove action = "approve"
	actionPay     action = "pay"
	actionReject  action = "reject"
	actionProof   action = "attach-proof"
	actionRelease action = "force-release"
)

// guards is the transition table. approve is the only claim-gated action;
// reject is open to any actor so a suspicious payout can always be halted,
// even past a stuck claim. pay is restricted to the claim holder.
var guards = map[action][]models.Status{
	actionApprove: {models.StatusPending},
	actionPay:     {models.StatusApproved},
	actionReject:  {models.StatusPending, models.StatusApproved},
	actionProof:   {models.StatusApproved},
	actionRelease: {models.StatusApproved},
}

func allowed(act action, from models.Status) bool {
	for _, s := range guards[act] {
		if s == from {
			return true
		}
	}
	return false
}

type WithdrawalService interface {
	Create(ctx context.Context, req models.CreateWithdrawalRequest) (models.Withdrawal, error)
	Get(ctx context.Context, id string) (models.Withdrawal, error)
	List(ctx context.Context, filter models.ListFilter) ([]models.Withdrawal, error)
	Approve(ctx context.Context, id string, actor models.Actor) (models.Withdrawal, error)
	PayNow(ctx context.Context, id string, actor models.Actor, proofURL *string) (models.Withdrawal, error)
	Reject(ctx context.Context, id string, actor models.Actor, reason string) (models.Withdrawal, error)
	AttachProof(ctx context.Context, id, proofURL string) (models.Withdrawal, error)
	ForceRelease(ctx context.Context, id string, actor models.Actor) (models.Withdrawal, error)
}

type withdrawalService struct {
	repo     repository.WithdrawalRepository
	claims   ClaimManager
	scorer   fraud.Scorer
	rates    rates.Source
	notifier notification.Notifier
	now      func() time.Time
}

func NewWithdrawalService(
	repo repository.WithdrawalRepository,
	claims ClaimManager,
	scorer fraud.Scorer,
	rateSource rates.Source,
	notifier notification.Notifier,
) WithdrawalService {
	return &withdrawalService{
		repo:     repo,
		claims:   claims,
		scorer:   scorer,
		rates:    rateSource,
		notifier: notifier,
		now:      time.Now,
	}
}

// Create freezes the currency snapshot from the rate valid right now and
// obtains the risk score from the oracle, then persists the withdrawal in
// pending with no claim. Amount, fee, snapshot and destination never change
// after this point.
func (s *withdrawalService) Create(ctx context.Context, req models.CreateWithdrawalRequest) (models.Withdrawal, error) {
	if req.Amount <= 0 || req.Fee < 0 {
		return models.Withdrawal{}, apperrors.ErrInvalidAmount
	}
	if req.UserID == "" || req.CurrencyCode == "" || req.Method == "" || req.AccountNumber == "" {
		return models.Withdrawal{}, apperrors.ErrInvalidRequest
	}

	createdAt := s.now()

	rate, err := s.rates.RateAt(ctx, req.CurrencyCode, createdAt)
	if err != nil {
		logger.Log.Error("failed to fetch exchange rate", zap.String("currency", req.CurrencyCode), zap.Error(err))
		return models.Withdrawal{}, err
	}

	risk, err := s.scorer.Score(ctx, fraud.ScoreRequest{
		UserID:        req.UserID,
		UserLevel:     req.UserLevel,
		Amount:        req.Amount,
		Method:        req.Method,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		logger.Log.Error("failed to score withdrawal", zap.String("user_id", req.UserID), zap.Error(err))
		return models.Withdrawal{}, err
	}

	w := models.Withdrawal{
		ID:        uuid.NewString(),
		UserID:    req.UserID,
		UserLevel: req.UserLevel,
		Amount:    req.Amount,
		Fee:       req.Fee,
		Snapshot: models.CurrencySnapshot{
			CurrencyCode: req.CurrencyCode,
			LocalAmount:  (req.Amount + req.Fee) * rate,
			LocalFee:     req.Fee * rate,
			ExchangeRate: rate,
		},
		Method:           req.Method,
		AccountName:      req.AccountName,
		AccountNumber:    req.AccountNumber,
		RiskScore:        risk,
		Status:           models.StatusPending,
		CreatedAt:        createdAt,
		LastTransitionAt: createdAt,
	}

	if err := s.repo.Create(ctx, w); err != nil {
		return models.Withdrawal{}, err
	}
	return w, nil
}

func (s *withdrawalService) Get(ctx context.Context, id string) (models.Withdrawal, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return models.Withdrawal{}, apperrors.ErrWithdrawalNotFound
		}
		return models.Withdrawal{}, err
	}
	return w, nil
}

func (s *withdrawalService) List(ctx context.Context, filter models.ListFilter) ([]models.Withdrawal, error) {
	return s.repo.List(ctx, filter)
}

// Approve acquires the claim; acquisition and the pending check are a single
// compare-and-set, so two racing approves resolve to one winner and one
// AlreadyClaimedError naming the winner.
func (s *withdrawalService) Approve(ctx context.Context, id string, actor models.Actor) (models.Withdrawal, error) {
	return s.claims.Acquire(ctx, id, actor)
}

// PayNow finishes the payout. Only the claim holder may pay, a proof URL must
// accompany the call or already be attached, and the claim is released in the
// same transition.
func (s *withdrawalService) PayNow(ctx context.Context, id string, actor models.Actor, proofURL *string) (models.Withdrawal, error) {
	if proofURL != nil && strings.TrimSpace(*proofURL) == "" {
		return models.Withdrawal{}, apperrors.ErrMissingProof
	}

	ok, err := s.repo.MarkPaid(ctx, id, actor.ID, proofURL)
	if err != nil {
		return models.Withdrawal{}, err
	}

	w, err := s.Get(ctx, id)
	if err != nil {
		return models.Withdrawal{}, err
	}
	if ok {
		s.notify(ctx, actionPay, w)
		return w, nil
	}

	switch {
	case !allowed(actionPay, w.Status):
		return models.Withdrawal{}, apperrors.ErrInvalidTransition
	case w.Claim != nil && w.Claim.ActorID != actor.ID:
		return models.Withdrawal{}, apperrors.ErrForbidden
	default:
		return models.Withdrawal{}, apperrors.ErrMissingProof
	}
}

// Reject halts the withdrawal from pending or approved. It is deliberately
// not claim-gated: any admin can stop a suspicious payout even while another
// admin is mid-process. The reason is mandatory.
func (s *withdrawalService) Reject(ctx context.Context, id string, actor models.Actor, reason string) (models.Withdrawal, error) {
	if strings.TrimSpace(reason) == "" {
		return models.Withdrawal{}, apperrors.ErrEmptyRejectionReason
	}

	ok, err := s.repo.MarkRejected(ctx, id, reason)
	if err != nil {
		return models.Withdrawal{}, err
	}

	w, err := s.Get(ctx, id)
	if err != nil {
		return models.Withdrawal{}, err
	}
	if !ok {
		return models.Withdrawal{}, apperrors.ErrInvalidTransition
	}

	logger.Log.Info("withdrawal rejected",
		zap.String("id", id), zap.String("actor_id", actor.ID), zap.String("reason", reason))
	s.notify(ctx, actionReject, w)
	return w, nil
}

// AttachProof stores the proof-of-payment URL on an approved withdrawal. It
// never changes the status by itself.
func (s *withdrawalService) AttachProof(ctx context.Context, id, proofURL string) (models.Withdrawal, error) {
	if strings.TrimSpace(proofURL) == "" {
		return models.Withdrawal{}, apperrors.ErrMissingProof
	}

	ok, err := s.repo.AttachProof(ctx, id, proofURL)
	if err != nil {
		return models.Withdrawal{}, err
	}

	w, err := s.Get(ctx, id)
	if err != nil {
		return models.Withdrawal{}, err
	}
	if !ok {
		return models.Withdrawal{}, apperrors.ErrInvalidTransition
	}
	return w, nil
}

// ForceRelease is the stuck-claim escape hatch: it hands the claim to the
// calling actor rather than clearing it, so an approved withdrawal always has
// exactly one responsible admin. Gate it to super-admins in the outer layer.
func (s *withdrawalService) ForceRelease(ctx context.Context, id string, actor models.Actor) (models.Withdrawal, error) {
	w, err := s.claims.Takeover(ctx, id, actor)
	if err != nil {
		return models.Withdrawal{}, err
	}

	logger.Log.Warn("withdrawal claim reassigned",
		zap.String("id", id), zap.String("actor_id", actor.ID))
	return w, nil
}

func (s *withdrawalService) notify(ctx context.Context, act action, w models.Withdrawal) {
	var err error
	switch act {
	case actionPay:
		err = s.notifier.WithdrawalPaid(ctx, w)
	case actionReject:
		err = s.notifier.WithdrawalRejected(ctx, w)
	}
	if err != nil {
		logger.Log.Error("failed to notify withdrawal event",
			zap.String("id", w.ID), zap.String("action", string(act)), zap.Error(err))
	}
}
