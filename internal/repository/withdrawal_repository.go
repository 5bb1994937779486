package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rzkmi/payoutdesk/internal/logger"
	"github.com/rzkmi/payoutdesk/internal/models"
	"go.uber.org/zap"
)

// WithdrawalRepository is the withdrawal ledger. Rows are never deleted;
// amount, fee, snapshot and destination columns are never updated. Claim and
// status changes are conditional single-statement updates so that concurrent
// operators racing on the same row resolve to exactly one winner. The bool
// result of each transition method reports whether the compare-and-set
// applied; callers classify a false by re-reading the row.
type WithdrawalRepository interface {
	Create(ctx context.Context, w models.Withdrawal) error
	GetByID(ctx context.Context, id string) (models.Withdrawal, error)
	List(ctx context.Context, filter models.ListFilter) ([]models.Withdrawal, error)
	AcquireClaim(ctx context.Context, id string, claim models.Claim) (bool, error)
	ReassignClaim(ctx context.Context, id string, claim models.Claim) (bool, error)
	MarkPaid(ctx context.Context, id, actorID string, proofURL *string) (bool, error)
	MarkRejected(ctx context.Context, id, reason string) (bool, error)
	AttachProof(ctx context.Context, id, proofURL string) (bool, error)
}

type withdrawalRepo struct {
	db *sql.DB
}

func NewWithdrawalRepository(db *sql.DB) WithdrawalRepository {
	return &withdrawalRepo{db: db}
}

const withdrawalColumns = `
	id, user_id, user_level, amount, fee,
	currency_code, local_amount, local_fee, exchange_rate,
	method, account_name, account_number, risk_score, status,
	claim_actor_id, claim_actor_name, claim_claimed_at,
	proof_url, rejection_reason, created_at, last_transition_at
`

func (r *withdrawalRepo) Create(ctx context.Context, w models.Withdrawal) error {
	query := `
		INSERT INTO withdrawals (
			id, user_id, user_level, amount, fee,
			currency_code, local_amount, local_fee, exchange_rate,
			method, account_name, account_number, risk_score, status,
			created_at, last_transition_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.db.ExecContext(ctx, query,
		w.ID, w.UserID, w.UserLevel, w.Amount, w.Fee,
		w.Snapshot.CurrencyCode, w.Snapshot.LocalAmount, w.Snapshot.LocalFee, w.Snapshot.ExchangeRate,
		w.Method, w.AccountName, w.AccountNumber, w.RiskScore, w.Status,
		w.CreatedAt, w.LastTransitionAt,
	)
	if err != nil {
		logger.Log.Error("failed to insert withdrawal", zap.Error(err))
	}
	return err
}

func (r *withdrawalRepo) GetByID(ctx context.Context, id string) (models.Withdrawal, error) {
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *withdrawalRepo) scanOne(row *sql.Row) (models.Withdrawal, error) {
	var (
		w            models.Withdrawal
		claimID      sql.NullString
		claimName    sql.NullString
		claimedAt    sql.NullTime
		proofURL     sql.NullString
		rejectReason sql.NullString
	)
	err := row.Scan(
		&w.ID, &w.UserID, &w.UserLevel, &w.Amount, &w.Fee,
		&w.Snapshot.CurrencyCode, &w.Snapshot.LocalAmount, &w.Snapshot.LocalFee, &w.Snapshot.ExchangeRate,
		&w.Method, &w.AccountName, &w.AccountNumber, &w.RiskScore, &w.Status,
		&claimID, &claimName, &claimedAt,
		&proofURL, &rejectReason, &w.CreatedAt, &w.LastTransitionAt,
	)
	if err != nil {
		return models.Withdrawal{}, err
	}
	if claimID.Valid {
		w.Claim = &models.Claim{
			ActorID:   claimID.String,
			ActorName: claimName.String,
			ClaimedAt: claimedAt.Time,
		}
	}
	if proofURL.Valid {
		w.ProofURL = &proofURL.String
	}
	if rejectReason.Valid {
		w.RejectionReason = &rejectReason.String
	}
	return w, nil
}

func (r *withdrawalRepo) List(ctx context.Context, filter models.ListFilter) ([]models.Withdrawal, error) {
	var (
		conds []string
		args  []any
	)

	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Risk != nil {
		args = append(args, *filter.Risk)
		conds = append(conds, fmt.Sprintf("risk_score = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(user_id ILIKE $%d OR account_name ILIKE $%d OR account_number ILIKE $%d)", n, n, n))
	}

	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if strings.EqualFold(filter.Sort, "asc") {
		query += " ORDER BY created_at ASC"
	} else {
		query += " ORDER BY created_at DESC"
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Log.Error("failed to query withdrawals", zap.Error(err))
		return nil, err
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Log.Error("failed to close rows", zap.Error(err))
		}
	}(rows)

	var withdrawals []models.Withdrawal
	for rows.Next() {
		var (
			w            models.Withdrawal
			claimID      sql.NullString
			claimName    sql.NullString
			claimedAt    sql.NullTime
			proofURL     sql.NullString
			rejectReason sql.NullString
		)
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.UserLevel, &w.Amount, &w.Fee,
			&w.Snapshot.CurrencyCode, &w.Snapshot.LocalAmount, &w.Snapshot.LocalFee, &w.Snapshot.ExchangeRate,
			&w.Method, &w.AccountName, &w.AccountNumber, &w.RiskScore, &w.Status,
			&claimID, &claimName, &claimedAt,
			&proofURL, &rejectReason, &w.CreatedAt, &w.LastTransitionAt,
		); err != nil {
			logger.Log.Error("failed to scan withdrawal", zap.Error(err))
			return nil, err
		}
		if claimID.Valid {
			w.Claim = &models.Claim{ActorID: claimID.String, ActorName: claimName.String, ClaimedAt: claimedAt.Time}
		}
		if proofURL.Valid {
			w.ProofURL = &proofURL.String
		}
		if rejectReason.Valid {
			w.RejectionReason = &rejectReason.String
		}
		withdrawals = append(withdrawals, w)
	}
	return withdrawals, rows.Err()
}

// AcquireClaim moves a pending, unclaimed withdrawal to approved and records
// the claim in the same statement. Checking the status and setting the claim
// must be one indivisible operation so that two racing approves cannot both
// win.
func (r *withdrawalRepo) AcquireClaim(ctx context.Context, id string, claim models.Claim) (bool, error) {
	query := `
		UPDATE withdrawals
		SET status = $2,
		    claim_actor_id = $3,
		    claim_actor_name = $4,
		    claim_claimed_at = $5,
		    last_transition_at = $5
		WHERE id = $1 AND status = $6 AND claim_actor_id IS NULL
	`
	return r.execCAS(ctx, query, id, models.StatusApproved, claim.ActorID, claim.ActorName, claim.ClaimedAt, models.StatusPending)
}

// ReassignClaim hands the claim of an approved withdrawal to a new actor.
// Used by the administrative force-release path when the holder is gone.
func (r *withdrawalRepo) ReassignClaim(ctx context.Context, id string, claim models.Claim) (bool, error) {
	query := `
		UPDATE withdrawals
		SET claim_actor_id = $2,
		    claim_actor_name = $3,
		    claim_claimed_at = $4,
		    last_transition_at = $4
		WHERE id = $1 AND status = $5
	`
	return r.execCAS(ctx, query, id, claim.ActorID, claim.ActorName, claim.ClaimedAt, models.StatusApproved)
}

// MarkPaid completes the payout. Only the claim holder passes the WHERE
// clause, and the claim is released in the same statement. When no proof URL
// accompanies the call, one must already be on the row.
func (r *withdrawalRepo) MarkPaid(ctx context.Context, id, actorID string, proofURL *string) (bool, error) {
	now := time.Now()
	if proofURL != nil {
		query := `
			UPDATE withdrawals
			SET status = $3,
			    proof_url = $4,
			    claim_actor_id = NULL,
			    claim_actor_name = NULL,
			    claim_claimed_at = NULL,
			    last_transition_at = $5
			WHERE id = $1 AND status = $6 AND claim_actor_id = $2
		`
		return r.execCAS(ctx, query, id, actorID, models.StatusPaid, *proofURL, now, models.StatusApproved)
	}

	query := `
		UPDATE withdrawals
		SET status = $3,
		    claim_actor_id = NULL,
		    claim_actor_name = NULL,
		    claim_claimed_at = NULL,
		    last_transition_at = $4
		WHERE id = $1 AND status = $5 AND claim_actor_id = $2 AND proof_url IS NOT NULL
	`
	return r.execCAS(ctx, query, id, actorID, models.StatusPaid, now, models.StatusApproved)
}

// MarkRejected halts a pending or approved withdrawal. Any claim on the row
// is cleared in the same statement; on a pending row that clear is a no-op.
func (r *withdrawalRepo) MarkRejected(ctx context.Context, id, reason string) (bool, error) {
	query := `
		UPDATE withdrawals
		SET status = $2,
		    rejection_reason = $3,
		    claim_actor_id = NULL,
		    claim_actor_name = NULL,
		    claim_claimed_at = NULL,
		    last_transition_at = $4
		WHERE id = $1 AND status IN ($5, $6)
	`
	return r.execCAS(ctx, query, id, models.StatusRejected, reason, time.Now(), models.StatusPending, models.StatusApproved)
}

func (r *withdrawalRepo) AttachProof(ctx context.Context, id, proofURL string) (bool, error) {
	query := `
		UPDATE withdrawals
		SET proof_url = $2
		WHERE id = $1 AND status = $3
	`
	return r.execCAS(ctx, query, id, proofURL, models.StatusApproved)
}

func (r *withdrawalRepo) execCAS(ctx context.Context, query string, args ...any) (bool, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Log.Error("failed to update withdrawal", zap.Error(err))
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// IsNotFound reports whether a GetByID error means the row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
