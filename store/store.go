package store

import (
	"database/sql"
	"errors"

	"github.com/pandodao/custody-wallet/core"
)

func IsErrNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || core.IsKind(err, core.ErrorKindNotFound)
}
