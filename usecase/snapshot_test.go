package usecase_test

import (
	"context"
	"crowdfund/domain"
	"crowdfund/interface/store"
	"crowdfund/usecase"
	"crowdfund/usecase/mocks"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSnapshotInteractorPersistsInOrder(t *testing.T) {
	repository := &mocks.SnapshotRepository{}
	var slots []string
	repository.On("Upsert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			slots = append(slots, args.Get(1).(*domain.Snapshot).Slot)
		}).
		Return(nil, nil)

	interactor := usecase.NewSnapshotInteractor(repository)
	st := store.New(interactor)
	st.ConnectedAccount.Set("0xabc")
	st.Projects.Set([]domain.Project{{ID: 1}})
	interactor.Close()

	require.Equal(t, []string{store.SlotConnectedAccount, store.SlotProjects}, slots)

	require.NotPanics(t, func() { st.Stats.Set(nil) })
	repository.AssertNumberOfCalls(t, "Upsert", 2)
}

func TestRestoreStore(t *testing.T) {
	projects, err := json.Marshal([]domain.Project{{ID: 3, Title: "Solar", Cost: domain.NewEther(ether("1.5")), Status: domain.StatusApproved}})
	require.NoError(t, err)

	repository := &mocks.SnapshotRepository{}
	repository.On("FindAll", mock.Anything).Return([]domain.Snapshot{
		{Slot: store.SlotConnectedAccount, Value: json.RawMessage(`"0xabc"`)},
		{Slot: store.SlotProjects, Value: projects},
		{Slot: "unknown", Value: json.RawMessage(`1`)},
	}, nil)

	interactor := usecase.NewSnapshotInteractor(repository)
	defer interactor.Close()

	snapshots, err := interactor.Restore(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshots, 3)

	persisted := &mocks.SnapshotRepository{}
	writer := usecase.NewSnapshotInteractor(persisted)
	st := store.New(writer)
	require.NoError(t, usecase.RestoreStore(snapshots, st))
	writer.Close()
	persisted.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)

	account, _ := st.ConnectedAccount.Get()
	require.Equal(t, "0xabc", account)

	restored, filled := st.Projects.Get()
	require.True(t, filled)
	require.Equal(t, "Solar", restored[0].Title)
	require.Equal(t, "1.5", restored[0].Cost.String())
	require.Equal(t, domain.StatusApproved, restored[0].Status)

	_, filled = st.Stats.Get()
	require.False(t, filled)
}

func TestSnapshotInteractorDropsWhenQueueIsFull(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	repository := &mocks.SnapshotRepository{}
	repository.On("Upsert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			once.Do(func() { close(started) })
			<-release
		}).
		Return(nil, nil)

	interactor := usecase.NewSnapshotInteractor(repository)
	st := store.New(interactor)

	st.ConnectedAccount.Set("0x0")
	<-started

	// The worker is stuck on the first write; these fill the queue and overflow it.
	for i := 0; i < 20; i++ {
		st.ConnectedAccount.Set("0x1")
	}
	value, _ := st.ConnectedAccount.Get()
	require.Equal(t, "0x1", value)

	close(release)
	interactor.Close()
	repository.AssertNumberOfCalls(t, "Upsert", 17)
}
