package models

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusPaid     Status = "paid"
	StatusRejected Status = "rejected"
)

// Terminal reports whether no further transition may leave the status.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusRejected
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusPaid, StatusRejected:
		return true
	}
	return false
}

type RiskScore string

const (
	RiskSafe   RiskScore = "safe"
	RiskMedium RiskScore = "medium"
	RiskHigh   RiskScore = "high"
)

func (r RiskScore) Valid() bool {
	switch r {
	case RiskSafe, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// CurrencySnapshot freezes the local-currency figures and the exchange rate
// at the instant a withdrawal is created. It is never recomputed.
type CurrencySnapshot struct {
	CurrencyCode string  `json:"currency_code" db:"currency_code"`
	LocalAmount  float64 `json:"local_amount" db:"local_amount"`
	LocalFee     float64 `json:"local_fee" db:"local_fee"`
	ExchangeRate float64 `json:"exchange_rate" db:"exchange_rate"`
}

// Actor identifies the admin performing an operation. Identity is resolved
// by the auth layer; this service trusts it.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Claim marks the single admin currently entitled to move a withdrawal
// from approved to paid. Non-nil iff status == approved.
type Claim struct {
	ActorID   string    `json:"actor_id" db:"claim_actor_id"`
	ActorName string    `json:"actor_name" db:"claim_actor_name"`
	ClaimedAt time.Time `json:"claimed_at" db:"claim_claimed_at"`
}

type Withdrawal struct {
	ID               string           `json:"id" db:"id"`
	UserID           string           `json:"user_id" db:"user_id"`
	UserLevel        string           `json:"user_level" db:"user_level"`
	Amount           float64          `json:"amount" db:"amount"`
	Fee              float64          `json:"fee" db:"fee"`
	Snapshot         CurrencySnapshot `json:"currency_snapshot"`
	Method           string           `json:"method" db:"method"`
	AccountName      string           `json:"account_name" db:"account_name"`
	AccountNumber    string           `json:"account_number" db:"account_number"`
	RiskScore        RiskScore        `json:"risk_score" db:"risk_score"`
	Status           Status           `json:"status" db:"status"`
	Claim            *Claim           `json:"claim,omitempty"`
	ProofURL         *string          `json:"proof_url,omitempty" db:"proof_url"`
	RejectionReason  *string          `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	LastTransitionAt time.Time        `json:"last_transition_at" db:"last_transition_at"`
}

// CreateWithdrawalRequest is the payload of the member-facing creation flow.
// Amount and fee are in the canonical accounting currency.
type CreateWithdrawalRequest struct {
	UserID        string  `json:"user_id"`
	UserLevel     string  `json:"user_level"`
	Amount        float64 `json:"amount"`
	Fee           float64 `json:"fee"`
	CurrencyCode  string  `json:"currency_code"`
	Method        string  `json:"method"`
	AccountName   string  `json:"account_name"`
	AccountNumber string  `json:"account_number"`
}

// ListFilter narrows and orders the operator dashboard listing.
type ListFilter struct {
	Status *Status
	Risk   *RiskScore
	Search string
	Sort   string // "asc" or "desc" by created_at, default desc
}
