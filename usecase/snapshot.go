package usecase

import (
	"context"
	"crowdfund/domain"
	"crowdfund/interface/store"
	"fmt"
	"log"
	"sync"
)

const snapshotQueueSize = 16

type SnapshotRepository interface {
	Upsert(ctx context.Context, snapshot *domain.Snapshot) (*domain.Snapshot, error)
	FindAll(ctx context.Context) ([]domain.Snapshot, error)
}

// SnapshotInteractor persists store slot writes in order on a single worker.
type SnapshotInteractor struct {
	repository SnapshotRepository

	queue   chan *domain.Snapshot
	drained chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewSnapshotInteractor(repository SnapshotRepository) *SnapshotInteractor {
	interactor := &SnapshotInteractor{
		repository: repository,
		queue:      make(chan *domain.Snapshot, snapshotQueueSize),
		drained:    make(chan struct{}),
	}
	go interactor.listenOnChannel()
	return interactor
}

// Persist queues the slot value. A full queue drops the snapshot instead of
// holding up the store write.
func (interactor *SnapshotInteractor) Persist(slot string, value interface{}) {
	snapshot, err := domain.NewSnapshot(slot, value)
	if err != nil {
		log.Printf("🔴 encoding snapshot [slot: %v] - %v\n", slot, err.Error())
		return
	}

	interactor.mu.RLock()
	defer interactor.mu.RUnlock()
	if interactor.closed {
		log.Printf("🟡 snapshot dropped after close [slot: %v]\n", slot)
		return
	}
	select {
	case interactor.queue <- snapshot:
	default:
		log.Printf("🟡 snapshot queue is full, dropped [slot: %v]\n", slot)
	}
}

func (interactor *SnapshotInteractor) listenOnChannel() {
	defer close(interactor.drained)
	for snapshot := range interactor.queue {
		_, err := interactor.repository.Upsert(context.Background(), snapshot)
		if err != nil {
			log.Printf("🔴 storing snapshot [slot: %v] - %v\n", snapshot.Slot, err.Error())
		}
	}
}

// Restore returns the last persisted value of every slot.
func (interactor *SnapshotInteractor) Restore(ctx context.Context) (map[string]domain.Snapshot, error) {
	snapshots, err := interactor.repository.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make(map[string]domain.Snapshot, len(snapshots))
	for _, snapshot := range snapshots {
		result[snapshot.Slot] = snapshot
	}
	return result, nil
}

// RestoreStore seeds the store with the last known slot values. Slots without a
// snapshot stay empty.
func RestoreStore(snapshots map[string]domain.Snapshot, st *store.Store) error {
	for slot, snapshot := range snapshots {
		var err error
		switch slot {
		case store.SlotConnectedAccount:
			err = restoreSlot(snapshot, st.ConnectedAccount)
		case store.SlotProjects:
			err = restoreSlot(snapshot, st.Projects)
		case store.SlotProject:
			err = restoreSlot(snapshot, st.Project)
		case store.SlotBackers:
			err = restoreSlot(snapshot, st.Backers)
		case store.SlotStats:
			err = restoreSlot(snapshot, st.Stats)
		default:
			log.Printf("🟡 unknown snapshot slot skipped [slot: %v]\n", slot)
		}
		if err != nil {
			return fmt.Errorf("restoring slot %v: %w", slot, err)
		}
	}
	return nil
}

func restoreSlot[T any](snapshot domain.Snapshot, slot *store.Slot[T]) error {
	var value T
	if err := snapshot.Decode(&value); err != nil {
		return err
	}
	slot.Restore(value)
	return nil
}

// Close stops accepting snapshots and waits for the queued ones to be stored.
func (interactor *SnapshotInteractor) Close() {
	interactor.mu.Lock()
	if !interactor.closed {
		interactor.closed = true
		close(interactor.queue)
	}
	interactor.mu.Unlock()

	<-interactor.drained
}
