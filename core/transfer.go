package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type RecordKind string

const (
	RecordKindTransfer RecordKind = "transfer"
	RecordKindBonus    RecordKind = "bonus"
)

type RecordStatus string

const (
	RecordStatusConfirmed RecordStatus = "confirmed"
	RecordStatusCompleted RecordStatus = "completed"
)

// BonusSender is the sender recorded on bonus records.
const BonusSender = "System"

type TransactionRecord struct {
	ID        string          `json:"id"`
	Kind      RecordKind      `json:"type"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Amount    decimal.Decimal `json:"amount"`
	Asset     string          `json:"currency"`
	TxHash    string          `json:"txHash,omitempty"`
	Network   Network         `json:"network,omitempty"`
	Status    RecordStatus    `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
}

type TransferRequest struct {
	From    string
	To      string
	Amount  decimal.Decimal
	Asset   string
	Key     string
	Network string
}

type TransferResult struct {
	TxHash      string
	ExplorerURL string
	NewBalance  decimal.Decimal
}

type TransferService interface {
	Transfer(ctx context.Context, req *TransferRequest) (*TransferResult, error)
}

type BonusResult struct {
	Bonuses     Balances
	NewBalances Balances
}

type BonusService interface {
	Claim(ctx context.Context, address string) (*BonusResult, error)
}
