package usecase

import (
	"crowdfund/domain"
	"crowdfund/domain/model"
	"fmt"
	"strings"
)

// NormalizeProjects converts the raw list and reverses it so the newest
// contract id comes first.
func NormalizeProjects(raws []model.RawProject) ([]domain.Project, error) {
	projects := make([]domain.Project, len(raws))
	for i, raw := range raws {
		project, err := NormalizeProject(raw)
		if err != nil {
			return nil, fmt.Errorf("project #%d: %w", i, err)
		}
		projects[len(raws)-1-i] = *project
	}
	return projects, nil
}

func NormalizeProject(raw model.RawProject) (*domain.Project, error) {
	id, err := domain.SafeInt64(raw.Id)
	if err != nil {
		return nil, err
	}
	backers, err := domain.SafeInt64(raw.Backers)
	if err != nil {
		return nil, err
	}
	createdAt, err := domain.UnixTime(raw.Timestamp)
	if err != nil {
		return nil, err
	}
	expiresAt, err := domain.UnixTime(raw.ExpiresAt)
	if err != nil {
		return nil, err
	}

	return &domain.Project{
		ID:          id,
		Owner:       strings.ToLower(raw.Owner.Hex()),
		Title:       raw.Title,
		Description: raw.Description,
		ImageURL:    raw.ImageURL,
		CreatedAt:   createdAt,
		ExpiresAt:   expiresAt,
		Date:        domain.CalendarDate(expiresAt),
		Cost:        domain.NewEther(raw.Cost),
		Raised:      domain.NewEther(raw.Raised),
		BackerCount: backers,
		Status:      domain.ProjectStatus(raw.Status),
	}, nil
}

// NormalizeBackers converts the raw list and reverses it so the most recent
// contribution comes first.
func NormalizeBackers(raws []model.RawBacker) ([]domain.Backer, error) {
	backers := make([]domain.Backer, len(raws))
	for i, raw := range raws {
		timestamp, err := domain.UnixTime(raw.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("backer #%d: %w", i, err)
		}
		backers[len(raws)-1-i] = domain.Backer{
			Owner:        strings.ToLower(raw.Owner.Hex()),
			Contribution: domain.NewEther(raw.Contribution),
			Refunded:     raw.Refunded,
			Timestamp:    timestamp,
		}
	}
	return backers, nil
}

func NormalizeStats(raw model.RawStats) (*domain.Stats, error) {
	totalProjects, err := domain.SafeInt64(raw.TotalProjects)
	if err != nil {
		return nil, err
	}
	totalBacking, err := domain.SafeInt64(raw.TotalBacking)
	if err != nil {
		return nil, err
	}

	return &domain.Stats{
		TotalProjects:  totalProjects,
		TotalBacking:   totalBacking,
		TotalDonations: domain.NewEther(raw.TotalDonations),
	}, nil
}
