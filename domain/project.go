package domain

import (
	"fmt"
	"time"
)

// ProjectStatus mirrors the contract's status enum. Values the client does not
// know are kept as-is.
type ProjectStatus uint8

const (
	StatusOpen ProjectStatus = iota
	StatusApproved
	StatusReverted
	StatusDeleted
	StatusPaidOut
)

var statusNames = map[ProjectStatus]string{
	StatusOpen:     "OPEN",
	StatusApproved: "APPROVED",
	StatusReverted: "REVERTED",
	StatusDeleted:  "DELETED",
	StatusPaidOut:  "PAIDOUT",
}

func (s ProjectStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STATUS(%d)", uint8(s))
}

func (s ProjectStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *ProjectStatus) UnmarshalText(text []byte) error {
	name := string(text)
	for status, statusName := range statusNames {
		if statusName == name {
			*s = status
			return nil
		}
	}

	var raw uint8
	if _, err := fmt.Sscanf(name, "STATUS(%d)", &raw); err != nil {
		return fmt.Errorf("unknown project status %q", name)
	}
	*s = ProjectStatus(raw)
	return nil
}

type Project struct {
	ID          int64         `json:"id" yaml:"id"`
	Owner       string        `json:"owner" yaml:"owner"`
	Title       string        `json:"title" yaml:"title"`
	Description string        `json:"description" yaml:"description"`
	ImageURL    string        `json:"image_url" yaml:"image_url"`
	CreatedAt   time.Time     `json:"created_at" yaml:"created_at"`
	ExpiresAt   time.Time     `json:"expires_at" yaml:"expires_at"`
	Date        string        `json:"date" yaml:"date"`
	Cost        Ether         `json:"cost" yaml:"cost"`
	Raised      Ether         `json:"raised" yaml:"raised"`
	BackerCount int64         `json:"backers" yaml:"backers"`
	Status      ProjectStatus `json:"status" yaml:"status"`
}

// Expired reports whether the funding window has closed at now.
func (p *Project) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// Funded reports whether the raised amount reached the cost.
func (p *Project) Funded() bool {
	return p.Raised.Cmp(p.Cost) >= 0
}

type Backer struct {
	Owner        string    `json:"owner" yaml:"owner"`
	Contribution Ether     `json:"contribution" yaml:"contribution"`
	Refunded     bool      `json:"refunded" yaml:"refunded"`
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
}

type Stats struct {
	TotalProjects  int64 `json:"total_projects" yaml:"total_projects"`
	TotalBacking   int64 `json:"total_backing" yaml:"total_backing"`
	TotalDonations Ether `json:"total_donations" yaml:"total_donations"`
}
