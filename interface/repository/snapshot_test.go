package repository

import (
	"context"
	"crowdfund/domain"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/behrang/sqlbatch"
	"github.com/stretchr/testify/require"
)

type row struct {
	slot  string
	value []byte
	at    time.Time
}

// fakeBatch answers read commands from rows and records every command.
type fakeBatch struct {
	rows     []row
	commands []sqlbatch.Command
	err      error
}

func (f *fakeBatch) Batch(ctx context.Context, opts *sql.TxOptions, commands []sqlbatch.Command) ([]interface{}, error) {
	f.commands = append(f.commands, commands...)
	if f.err != nil {
		return nil, f.err
	}

	results := make([]interface{}, len(commands))
	for i, command := range commands {
		switch {
		case command.ReadAll != nil:
			all := command.Init
			for _, r := range f.rows {
				var err error
				all, err = command.ReadAll(all, scanRow(r))
				if err != nil {
					return nil, err
				}
			}
			results[i] = all

		case command.ReadOne != nil:
			if len(f.rows) == 0 {
				return nil, sql.ErrNoRows
			}
			result, err := command.ReadOne(scanRow(f.rows[0]))
			if err != nil {
				return nil, err
			}
			results[i] = result
		}
	}
	return results, nil
}

func scanRow(r row) func(...interface{}) error {
	return func(dest ...interface{}) error {
		*dest[0].(*string) = r.slot
		*dest[1].(*[]byte) = r.value
		*dest[2].(*time.Time) = r.at
		return nil
	}
}

func TestFindAll(t *testing.T) {
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	batch := &fakeBatch{rows: []row{
		{slot: "connectedAccount", value: []byte(`"0xabc"`), at: at},
		{slot: "stats", value: []byte(`{"total_projects":1}`), at: at},
	}}

	snapshots, err := NewSnapshotRepository(batch).FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	require.Equal(t, "stats", snapshots[1].Slot)
	require.Equal(t, at, snapshots[1].UpdateTime)

	var stats domain.Stats
	require.NoError(t, snapshots[1].Decode(&stats))
	require.Equal(t, int64(1), stats.TotalProjects)
}

func TestFindAllEmpty(t *testing.T) {
	snapshots, err := NewSnapshotRepository(&fakeBatch{}).FindAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, snapshots)
}

func TestUpsertSendsJSON(t *testing.T) {
	batch := &fakeBatch{rows: []row{{slot: "connectedAccount", value: []byte(`"0xabc"`)}}}
	snapshot, err := domain.NewSnapshot("connectedAccount", "0xabc")
	require.NoError(t, err)

	stored, err := NewSnapshotRepository(batch).Upsert(context.Background(), snapshot)
	require.NoError(t, err)
	require.Equal(t, "connectedAccount", stored.Slot)

	require.Len(t, batch.commands, 2)
	require.Equal(t, []interface{}{"connectedAccount", []byte(`"0xabc"`)}, batch.commands[0].Args)
}

func TestBatchError(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := NewSnapshotRepository(&fakeBatch{err: boom}).FindAll(context.Background())
	require.ErrorIs(t, err, boom)
}
