package usecase

import (
	"context"
	"crowdfund/interface/store"
	"log"
)

// SyncInteractor reads chain state, normalizes it and replaces the matching
// store slots. Nothing is written when any read or conversion fails.
type SyncInteractor struct {
	contracts ContractSource
	store     *store.Store
}

func NewSyncInteractor(contracts ContractSource, st *store.Store) *SyncInteractor {
	return &SyncInteractor{
		contracts: contracts,
		store:     st,
	}
}

// LoadProjects refreshes the project list and the stats together.
func (interactor *SyncInteractor) LoadProjects(ctx context.Context) error {
	const op = "load projects"

	contract, err := interactor.contracts.GetContractHandle(ctx)
	if err != nil {
		return Report(op, err)
	}

	rawProjects, err := contract.GetProjects(ctx)
	if err != nil {
		return Report(op, err)
	}
	rawStats, err := contract.Stats(ctx)
	if err != nil {
		return Report(op, err)
	}

	projects, err := NormalizeProjects(rawProjects)
	if err != nil {
		return Report(op, err)
	}
	stats, err := NormalizeStats(*rawStats)
	if err != nil {
		return Report(op, err)
	}

	interactor.store.Stats.Set(stats)
	interactor.store.Projects.Set(projects)
	log.Printf("Loaded projects... Total: %v / Backings: %v\n", stats.TotalProjects, stats.TotalBacking)
	return nil
}

func (interactor *SyncInteractor) LoadProject(ctx context.Context, id int64) error {
	const op = "load project"

	contract, err := interactor.contracts.GetContractHandle(ctx)
	if err != nil {
		return Report(op, err)
	}

	raw, err := contract.GetProject(ctx, id)
	if err != nil {
		return Report(op, err)
	}

	project, err := NormalizeProject(*raw)
	if err != nil {
		return Report(op, err)
	}

	interactor.store.Project.Set(project)
	return nil
}

func (interactor *SyncInteractor) LoadBackers(ctx context.Context, id int64) error {
	const op = "load backers"

	contract, err := interactor.contracts.GetContractHandle(ctx)
	if err != nil {
		return Report(op, err)
	}

	raws, err := contract.GetBackers(ctx, id)
	if err != nil {
		return Report(op, err)
	}

	backers, err := NormalizeBackers(raws)
	if err != nil {
		return Report(op, err)
	}

	interactor.store.Backers.Set(backers)
	return nil
}
