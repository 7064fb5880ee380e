package dbhandler

import (
	"context"
	"errors"
	"log"
	"time"

	"database/sql"

	"github.com/behrang/sqlbatch"
	"github.com/lib/pq"
)

const maxBatchRetries = 5

// DBHandler contains a connection to database.
type DBHandler struct {
	DB *sql.DB
}

// Open connects to Postgres with the pool settings the client needs for its
// small snapshot workload.
func Open(dbUri string) (*DBHandler, error) {
	db, err := sql.Open("postgres", dbUri)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(1 * time.Minute)
	db.SetConnMaxLifetime(4 * time.Hour)
	return &DBHandler{DB: db}, nil
}

// Batch creates a transaction and executes the batch of commands in that transaction.
// If a serialization failure is received, the batch is retried a few times.
func (handler DBHandler) Batch(ctx context.Context, opts *sql.TxOptions, commands []sqlbatch.Command) ([]interface{}, error) {
	var results []interface{}
	var err error

	for i := 0; i < maxBatchRetries; i++ {
		results, err = handler.tryBatch(ctx, opts, commands)

		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "40001" {
			log.Printf("🟡 Retryable Postgres error, retrying: %v", err)
			continue
		}
		return results, err
	}
	return results, err
}

func (handler DBHandler) tryBatch(ctx context.Context, opts *sql.TxOptions, commands []sqlbatch.Command) (results []interface{}, err error) {

	results = make([]interface{}, len(commands))

	tx, err := handler.DB.BeginTx(ctx, opts)
	if err != nil {
		return
	}
	defer tx.Rollback()

	results, err = sqlbatch.Batch(tx, commands)

	if err == nil {
		err = tx.Commit()
	}

	return
}

func (handler DBHandler) Close() error {
	return handler.DB.Close()
}
