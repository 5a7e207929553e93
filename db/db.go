package dietdb

import (
	"database/sql"
	"errors"

	"github.com/pingcap/log"
	"go.uber.org/zap"
)

const (
	LOCAL  = "local"
	MEMORY = "memory"
)

// this meant be use with defer so it can log error even after function end
func TxnRollback(tx *sql.Tx) {
	err := tx.Rollback()
	if err != nil && !errors.Is(err, sql.ErrTxDone) {
		log.Error("rollback failed", zap.Error(err))
	}
}
