//go:build e2e

package repository_test

import (
	"context"
	"crowdfund/domain"
	"crowdfund/infrastructure/dbhandler"
	"crowdfund/interface/repository"
	"crowdfund/interface/store"
	"crowdfund/usecase"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "crowdfund",
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "pass",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(90 * time.Second),
	}
	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() { _ = postgresC.Terminate(context.Background()) })

	host, err := postgresC.Host(ctx)
	require.NoError(t, err)
	port, err := postgresC.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://test:pass@%s:%s/crowdfund?sslmode=disable", host, port.Port())
}

func TestSnapshotRepositoryRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	ctx := context.Background()

	handler, err := dbhandler.Open(startPostgres(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = handler.Close() })

	repo := repository.NewSnapshotRepository(handler)
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx))

	empty, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Empty(t, empty)

	first, err := domain.NewSnapshot(store.SlotConnectedAccount, "0xabc")
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, first)
	require.NoError(t, err)

	second, err := domain.NewSnapshot(store.SlotConnectedAccount, "0xdef")
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, second)
	require.NoError(t, err)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	found := all[0]
	require.Equal(t, store.SlotConnectedAccount, found.Slot)
	var account string
	require.NoError(t, found.Decode(&account))
	require.Equal(t, "0xdef", account)
	require.False(t, found.UpdateTime.IsZero())
}

func TestStoreSnapshotsSurviveRestart(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	ctx := context.Background()

	handler, err := dbhandler.Open(startPostgres(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = handler.Close() })

	repo := repository.NewSnapshotRepository(handler)
	require.NoError(t, repo.EnsureSchema(ctx))

	cost, err := domain.ParseEther("2.5")
	require.NoError(t, err)

	persister := usecase.NewSnapshotInteractor(repo)
	st := store.New(persister)
	st.Projects.Set([]domain.Project{{ID: 2, Title: "Well", Cost: domain.NewEther(cost)}})
	st.Stats.Set(&domain.Stats{TotalProjects: 1})
	persister.Close()

	snapshots, err := usecase.NewSnapshotInteractor(repo).Restore(ctx)
	require.NoError(t, err)
	require.Len(t, snapshots, 2)

	restored := store.New(nil)
	require.NoError(t, usecase.RestoreStore(snapshots, restored))

	projects, _ := restored.Projects.Get()
	require.Equal(t, "Well", projects[0].Title)
	require.Equal(t, "2.5", projects[0].Cost.String())

	stats, _ := restored.Stats.Get()
	require.Equal(t, int64(1), stats.TotalProjects)
}
