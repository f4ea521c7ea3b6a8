package ledger

import (
	"context"
	"database/sql"

	"github.com/pandodao/custody-wallet/core"
)

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

var accountColumns = []string{
	"address",
	"contact",
	"total_bonus",
	"created_at",
}

func scanAccount(scanner scanner, account *core.Account) error {
	return scanner.Scan(
		&account.Address,
		&account.Contact,
		&account.TotalBonus,
		&account.CreatedAt,
	)
}

var recordColumns = []string{
	"id",
	"kind",
	"sender",
	"recipient",
	"amount",
	"asset",
	"tx_hash",
	"network",
	"status",
	"created_at",
}

func scanRecord(scanner scanner, record *core.TransactionRecord) error {
	var kind, network, status string
	if err := scanner.Scan(
		&record.ID,
		&kind,
		&record.From,
		&record.To,
		&record.Amount,
		&record.Asset,
		&record.TxHash,
		&network,
		&status,
		&record.Timestamp,
	); err != nil {
		return err
	}

	record.Kind = core.RecordKind(kind)
	record.Network = core.Network(network)
	record.Status = core.RecordStatus(status)
	return nil
}
