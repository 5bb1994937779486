package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/rzkmi/payoutdesk/internal/apperrors"
	"github.com/rzkmi/payoutdesk/internal/mocks/repository_mocks"
	"github.com/rzkmi/payoutdesk/internal/models"
	"github.com/stretchr/testify/assert"
)

func approvedWithdrawal(id string, holder models.Actor) models.Withdrawal {
	return models.Withdrawal{
		ID:     id,
		Status: models.StatusApproved,
		Claim: &models.Claim{
			ActorID:   holder.ID,
			ActorName: holder.Name,
			ClaimedAt: time.Now(),
		},
	}
}

func TestClaimManager_Acquire(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	adminA := models.Actor{ID: "a1", Name: "Admin A"}
	adminB := models.Actor{ID: "b1", Name: "Admin B"}

	tests := []struct {
		name       string
		actor      models.Actor
		mockSetup  func(m *repository_mocks.MockWithdrawalRepository)
		wantStatus models.Status
		wantHolder string
		wantErr    error
		wantRace   string
	}{
		{
			name:  "acquire pending withdrawal",
			actor: adminA,
			mockSetup: func(m *repository_mocks.MockWithdrawalRepository) {
				m.EXPECT().AcquireClaim(ctx, "w1", gomock.AssignableToTypeOf(models.Claim{})).Return(true, nil)
				m.EXPECT().GetByID(ctx, "w1").Return(approvedWithdrawal("w1", adminA), nil)
			},
			wantStatus: models.StatusApproved,
			wantHolder: "a1",
		},
		{
			name:  "re-acquire by holder is idempotent",
			actor: adminA,
			mockSetup: func(m *repository_mocks.MockWithdrawalRepository) {
				m.EXPECT().AcquireClaim(ctx, "w1", gomock.Any()).Return(false, nil)
				m.EXPECT().GetByID(ctx, "w1").Return(approvedWithdrawal("w1", adminA), nil)
			},
			wantStatus: models.StatusApproved,
			wantHolder: "a1",
		},
		{
			name:  "race lost surfaces holder name",
			actor: adminB,
			mockSetup: func(m *repository_mocks.MockWithdrawalRepository) {
				m.EXPECT().AcquireClaim(ctx, "w1", gomock.Any()).Return(false, nil)
				m.EXPECT().GetByID(ctx, "w1").Return(approvedWithdrawal("w1", adminA), nil)
			},
			wantRace: "Admin A",
		},
		{
			name:  "terminal withdrawal",
			actor: adminA,
			mockSetup: func(m *repository_mocks.MockWithdrawalRepository) {
				m.EXPECT().AcquireClaim(ctx, "w1", gomock.Any()).Return(false, nil)
				m.EXPECT().GetByID(ctx, "w1").Return(models.Withdrawal{ID: "w1", Status: models.StatusPaid}, nil)
			},
			wantErr: apperrors.ErrInvalidTransition,
		},
		{
			name:  "unknown withdrawal",
			actor: adminA,
			mockSetup: func(m *repository_mocks.MockWithdrawalRepository) {
				m.EXPECT().AcquireClaim(ctx, "w1", gomock.Any()).Return(false, nil)
				m.EXPECT().GetByID(ctx, "w1").Return(models.Withdrawal{}, sql.ErrNoRows)
			},
			wantErr: apperrors.ErrWithdrawalNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repository_mocks.NewMockWithdrawalRepository(ctrl)
			tt.mockSetup(repo)

			cm := NewClaimManager(repo)
			w, err := cm.Acquire(ctx, "w1", tt.actor)

			if tt.wantRace != "" {
				var claimed *apperrors.AlreadyClaimedError
				assert.True(t, errors.As(err, &claimed))
				assert.Equal(t, tt.wantRace, claimed.HolderName)
				return
			}
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, w.Status)
			if assert.NotNil(t, w.Claim) {
				assert.Equal(t, tt.wantHolder, w.Claim.ActorID)
			}
		})
	}
}

func TestClaimManager_Takeover(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	superAdmin := models.Actor{ID: "s1", Name: "Root"}

	tests := []struct {
		name      string
		mockSetup func(m *repository_mocks.MockWithdrawalRepository)
		wantErr   error
	}{
		{
			name: "takeover approved withdrawal",
			mockSetup: func(m *repository_mocks.MockWithdrawalRepository) {
				m.EXPECT().ReassignClaim(ctx, "w1", gomock.Any()).Return(true, nil)
				m.EXPECT().GetByID(ctx, "w1").Return(approvedWithdrawal("w1", superAdmin), nil)
			},
		},
		{
			name: "takeover pending withdrawal rejected",
			mockSetup: func(m *repository_mocks.MockWithdrawalRepository) {
				m.EXPECT().ReassignClaim(ctx, "w1", gomock.Any()).Return(false, nil)
				m.EXPECT().GetByID(ctx, "w1").Return(models.Withdrawal{ID: "w1", Status: models.StatusPending}, nil)
			},
			wantErr: apperrors.ErrInvalidTransition,
		},
		{
			name: "takeover unknown withdrawal",
			mockSetup: func(m *repository_mocks.MockWithdrawalRepository) {
				m.EXPECT().ReassignClaim(ctx, "w1", gomock.Any()).Return(false, nil)
				m.EXPECT().GetByID(ctx, "w1").Return(models.Withdrawal{}, sql.ErrNoRows)
			},
			wantErr: apperrors.ErrWithdrawalNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repository_mocks.NewMockWithdrawalRepository(ctrl)
			tt.mockSetup(repo)

			cm := NewClaimManager(repo)
			w, err := cm.Takeover(ctx, "w1", superAdmin)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			if assert.NotNil(t, w.Claim) {
				assert.Equal(t, superAdmin.ID, w.Claim.ActorID)
			}
		})
	}
}
