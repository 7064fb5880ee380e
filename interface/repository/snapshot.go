package repository

import (
	"context"
	"crowdfund/domain"

	"github.com/behrang/sqlbatch"
)

const (
	sqlSnapshotCreateTable = `
	create table if not exists slot_snapshots (
		slot        text primary key,
		value       jsonb not null,
		update_time timestamptz not null default now()
	)
`

	sqlSnapshotUpsert = `
	insert into slot_snapshots as c (
			slot, value, update_time
		)
		values (
			$1, $2::jsonb, now()
		)
	on conflict (slot) do
		update set
			value = $2::jsonb,
			update_time = now()
`

	sqlSnapshotFind = `
	select
		slot, value, update_time
	from slot_snapshots
	where slot = $1
`

	sqlSnapshotFindAll = `
	select
		slot, value, update_time
	from slot_snapshots
	order by slot
`
)

type SnapshotRepository struct {
	batchHandler BatchHandler
}

func NewSnapshotRepository(db BatchHandler) *SnapshotRepository {
	return &SnapshotRepository{batchHandler: db}
}

func readSnapshot(scan func(...interface{}) error) (interface{}, error) {
	r := domain.Snapshot{}
	var jstr []byte
	err := scan(
		&r.Slot, &jstr, &r.UpdateTime,
	)
	if err != nil {
		return &r, err
	}
	r.Value = jstr
	return &r, nil
}

func readAllSnapshots(all interface{}, scan func(...interface{}) error) (interface{}, error) {
	list := all.([]domain.Snapshot)
	r, err := readSnapshot(scan)
	if err == nil {
		list = append(list, *r.(*domain.Snapshot))
	}
	return list, err
}

func (repo *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	_, err := repo.batchHandler.Batch(ctx, &BatchOptionNormal, []sqlbatch.Command{
		{
			Query: sqlSnapshotCreateTable,
		},
	})
	return err
}

func (repo *SnapshotRepository) Upsert(ctx context.Context, snapshot *domain.Snapshot) (*domain.Snapshot, error) {
	results, err := repo.batchHandler.Batch(ctx, &BatchOptionNormal, []sqlbatch.Command{
		{
			Query: sqlSnapshotUpsert,
			Args: []interface{}{
				snapshot.Slot, []byte(snapshot.Value),
			},
			Affect: 1,
		},
		{
			Query:   sqlSnapshotFind,
			Args:    []interface{}{snapshot.Slot},
			ReadOne: readSnapshot,
		},
	})
	if err != nil {
		return nil, err
	}

	result, _ := results[1].(*domain.Snapshot)
	return result, nil
}

func (repo *SnapshotRepository) FindAll(ctx context.Context) ([]domain.Snapshot, error) {
	results, err := repo.batchHandler.Batch(ctx, &BatchOptionNormalReadOnly, []sqlbatch.Command{
		{
			Query:   sqlSnapshotFindAll,
			Args:    []interface{}{},
			Init:    make([]domain.Snapshot, 0),
			ReadAll: readAllSnapshots,
		},
	})
	if err != nil {
		return nil, err
	}

	result, _ := results[0].([]domain.Snapshot)
	return result, nil
}
