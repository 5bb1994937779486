package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/rzkmi/payoutdesk/internal/apperrors"
	"github.com/rzkmi/payoutdesk/internal/fraud"
	"github.com/rzkmi/payoutdesk/internal/mocks/client_mocks"
	"github.com/rzkmi/payoutdesk/internal/mocks/repository_mocks"
	"github.com/rzkmi/payoutdesk/internal/mocks/service_mocks"
	"github.com/rzkmi/payoutdesk/internal/models"
	"github.com/stretchr/testify/assert"
)

type serviceMocks struct {
	repo     *repository_mocks.MockWithdrawalRepository
	claims   *service_mocks.MockClaimManager
	scorer   *client_mocks.MockScorer
	rates    *client_mocks.MockSource
	notifier *client_mocks.MockNotifier
}

func newServiceWithMocks(ctrl *gomock.Controller) (WithdrawalService, serviceMocks) {
	m := serviceMocks{
		repo:     repository_mocks.NewMockWithdrawalRepository(ctrl),
		claims:   service_mocks.NewMockClaimManager(ctrl),
		scorer:   client_mocks.NewMockScorer(ctrl),
		rates:    client_mocks.NewMockSource(ctrl),
		notifier: client_mocks.NewMockNotifier(ctrl),
	}
	svc := NewWithdrawalService(m.repo, m.claims, m.scorer, m.rates, m.notifier)
	return svc, m
}

func strPtr(s string) *string {
	return &s
}

func TestWithdrawalService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	validReq := models.CreateWithdrawalRequest{
		UserID:        "u1",
		UserLevel:     "gold",
		Amount:        100,
		Fee:           5,
		CurrencyCode:  "IDR",
		Method:        "bank_transfer",
		AccountName:   "Budi",
		AccountNumber: "1234567890",
	}

	t.Run("snapshot frozen from the live rate", func(t *testing.T) {
		svc, m := newServiceWithMocks(ctrl)

		m.rates.EXPECT().RateAt(ctx, "IDR", gomock.Any()).Return(float64(15000), nil)
		m.scorer.EXPECT().Score(ctx, fraud.ScoreRequest{
			UserID:        "u1",
			UserLevel:     "gold",
			Amount:        100,
			Method:        "bank_transfer",
			AccountNumber: "1234567890",
		}).Return(models.RiskMedium, nil)
		m.repo.EXPECT().Create(ctx, gomock.AssignableToTypeOf(models.Withdrawal{})).DoAndReturn(
			func(_ context.Context, w models.Withdrawal) error {
				assert.NotEmpty(t, w.ID)
				assert.Equal(t, models.StatusPending, w.Status)
				assert.Nil(t, w.Claim)
				assert.Equal(t, float64(100), w.Amount)
				assert.Equal(t, float64(5), w.Fee)
				assert.Equal(t, "IDR", w.Snapshot.CurrencyCode)
				assert.Equal(t, float64(1575000), w.Snapshot.LocalAmount)
				assert.Equal(t, float64(75000), w.Snapshot.LocalFee)
				assert.Equal(t, float64(15000), w.Snapshot.ExchangeRate)
				assert.Equal(t, models.RiskMedium, w.RiskScore)
				return nil
			})

		w, err := svc.Create(ctx, validReq)
		assert.NoError(t, err)
		assert.Equal(t, models.StatusPending, w.Status)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		svc, _ := newServiceWithMocks(ctrl)

		req := validReq
		req.Amount = 0
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	})

	t.Run("missing destination", func(t *testing.T) {
		svc, _ := newServiceWithMocks(ctrl)

		req := validReq
		req.AccountNumber = ""
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	})

	t.Run("rate service failure propagates", func(t *testing.T) {
		svc, m := newServiceWithMocks(ctrl)

		m.rates.EXPECT().RateAt(ctx, "IDR", gomock.Any()).Return(float64(0), errors.New("rates down"))
		_, err := svc.Create(ctx, validReq)
		assert.Error(t, err)
	})
}

func TestWithdrawalService_Approve(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	adminA := models.Actor{ID: "a1", Name: "Admin A"}

	svc, m := newServiceWithMocks(ctrl)
	want := approvedWithdrawal("w1", adminA)
	m.claims.EXPECT().Acquire(ctx, "w1", adminA).Return(want, nil)

	w, err := svc.Approve(ctx, "w1", adminA)
	assert.NoError(t, err)
	assert.Equal(t, want, w)
}

func TestWithdrawalService_PayNow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	adminA := models.Actor{ID: "a1", Name: "Admin A"}
	adminB := models.Actor{ID: "b1", Name: "Admin B"}
	proof := strPtr("https://proofs.example/w1.png")

	paid := models.Withdrawal{
		ID:               "w1",
		Status:           models.StatusPaid,
		ProofURL:         proof,
		LastTransitionAt: time.Now(),
	}

	tests := []struct {
		name      string
		actor     models.Actor
		proofURL  *string
		mockSetup func(m serviceMocks)
		wantErr   error
	}{
		{
			name:     "holder pays with proof",
			actor:    adminA,
			proofURL: proof,
			mockSetup: func(m serviceMocks) {
				m.repo.EXPECT().MarkPaid(ctx, "w1", "a1", proof).Return(true, nil)
				m.repo.EXPECT().GetByID(ctx, "w1").Return(paid, nil)
				m.notifier.EXPECT().WithdrawalPaid(ctx, paid).Return(nil)
			},
		},
		{
			name:     "non-holder is forbidden",
			actor:    adminB,
			proofURL: proof,
			mockSetup: func(m serviceMocks) {
				m.repo.EXPECT().MarkPaid(ctx, "w1", "b1", proof).Return(false, nil)
				m.repo.EXPECT().GetByID(ctx, "w1").Return(approvedWithdrawal("w1", adminA), nil)
			},
			wantErr: apperrors.ErrForbidden,
		},
		{
			name:     "second pay observes paid",
			actor:    adminA,
			proofURL: proof,
			mockSetup: func(m serviceMocks) {
				m.repo.EXPECT().MarkPaid(ctx, "w1", "a1", proof).Return(false, nil)
				m.repo.EXPECT().GetByID(ctx, "w1").Return(paid, nil)
			},
			wantErr: apperrors.ErrInvalidTransition,
		},
		{
			name:  "no proof attached and none provided",
			actor: adminA,
			mockSetup: func(m serviceMocks) {
				m.repo.EXPECT().MarkPaid(ctx, "w1", "a1", nil).Return(false, nil)
				m.repo.EXPECT().GetByID(ctx, "w1").Return(approvedWithdrawal("w1", adminA), nil)
			},
			wantErr: apperrors.ErrMissingProof,
		},
		{
			name:      "blank proof url",
			actor:     adminA,
			proofURL:  strPtr("   "),
			mockSetup: func(m serviceMocks) {},
			wantErr:   apperrors.ErrMissingProof,
		},
		{
			name:     "notify failure does not fail the payment",
			actor:    adminA,
			proofURL: proof,
			mockSetup: func(m serviceMocks) {
				m.repo.EXPECT().MarkPaid(ctx, "w1", "a1", proof).Return(true, nil)
				m.repo.EXPECT().GetByID(ctx, "w1").Return(paid, nil)
				m.notifier.EXPECT().WithdrawalPaid(ctx, paid).Return(errors.New("broker down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newServiceWithMocks(ctrl)
			tt.mockSetup(m)

			w, err := svc.PayNow(ctx, "w1", tt.actor, tt.proofURL)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, models.StatusPaid, w.Status)
			assert.Nil(t, w.Claim)
			assert.NotNil(t, w.ProofURL)
		})
	}
}

func TestWithdrawalService_Reject(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	adminC := models.Actor{ID: "c1", Name: "Admin C"}

	rejected := models.Withdrawal{
		ID:              "w1",
		Status:          models.StatusRejected,
		RejectionReason: strPtr("fraud suspected"),
	}

	tests := []struct {
		name      string
		reason    string
		mockSetup func(m serviceMocks)
		wantErr   error
	}{
		{
			name:   "reject with reason",
			reason: "fraud suspected",
			mockSetup: func(m serviceMocks) {
				m.repo.EXPECT().MarkRejected(ctx, "w1", "fraud suspected").Return(true, nil)
				m.repo.EXPECT().GetByID(ctx, "w1").Return(rejected, nil)
				m.notifier.EXPECT().WithdrawalRejected(ctx, rejected).Return(nil)
			},
		},
		{
			name:      "empty reason",
			reason:    "",
			mockSetup: func(m serviceMocks) {},
			wantErr:   apperrors.ErrEmptyRejectionReason,
		},
		{
			name:      "whitespace reason",
			reason:    "  \t",
			mockSetup: func(m serviceMocks) {},
			wantErr:   apperrors.ErrEmptyRejectionReason,
		},
		{
			name:   "reject terminal withdrawal",
			reason: "too late",
			mockSetup: func(m serviceMocks) {
				m.repo.EXPECT().MarkRejected(ctx, "w1", "too late").Return(false, nil)
				m.repo.EXPECT().GetByID(ctx, "w1").Return(models.Withdrawal{ID: "w1", Status: models.StatusPaid}, nil)
			},
			wantErr: apperrors.ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newServiceWithMocks(ctrl)
			tt.mockSetup(m)

			w, err := svc.Reject(ctx, "w1", adminC, tt.reason)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, models.StatusRejected, w.Status)
			assert.Nil(t, w.Claim)
			if assert.NotNil(t, w.RejectionReason) {
				assert.Equal(t, "fraud suspected", *w.RejectionReason)
			}
		})
	}
}

func TestWithdrawalService_AttachProof(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	adminA := models.Actor{ID: "a1", Name: "Admin A"}

	t.Run("attach to approved withdrawal", func(t *testing.T) {
		svc, m := newServiceWithMocks(ctrl)

		withProof := approvedWithdrawal("w1", adminA)
		withProof.ProofURL = strPtr("https://proofs.example/w1.png")

		m.repo.EXPECT().AttachProof(ctx, "w1", "https://proofs.example/w1.png").Return(true, nil)
		m.repo.EXPECT().GetByID(ctx, "w1").Return(withProof, nil)

		w, err := svc.AttachProof(ctx, "w1", "https://proofs.example/w1.png")
		assert.NoError(t, err)
		assert.Equal(t, models.StatusApproved, w.Status)
		assert.NotNil(t, w.ProofURL)
	})

	t.Run("attach to pending withdrawal", func(t *testing.T) {
		svc, m := newServiceWithMocks(ctrl)

		m.repo.EXPECT().AttachProof(ctx, "w1", "https://proofs.example/w1.png").Return(false, nil)
		m.repo.EXPECT().GetByID(ctx, "w1").Return(models.Withdrawal{ID: "w1", Status: models.StatusPending}, nil)

		_, err := svc.AttachProof(ctx, "w1", "https://proofs.example/w1.png")
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	})

	t.Run("blank url", func(t *testing.T) {
		svc, _ := newServiceWithMocks(ctrl)

		_, err := svc.AttachProof(ctx, "w1", "")
		assert.ErrorIs(t, err, apperrors.ErrMissingProof)
	})
}

func TestWithdrawalService_ForceRelease(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	superAdmin := models.Actor{ID: "s1", Name: "Root"}

	svc, m := newServiceWithMocks(ctrl)
	want := approvedWithdrawal("w1", superAdmin)
	m.claims.EXPECT().Takeover(ctx, "w1", superAdmin).Return(want, nil)

	w, err := svc.ForceRelease(ctx, "w1", superAdmin)
	assert.NoError(t, err)
	if assert.NotNil(t, w.Claim) {
		assert.Equal(t, superAdmin.ID, w.Claim.ActorID)
	}
}
