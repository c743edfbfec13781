package domain

import (
	"context"
	"time"
)

type LeadStatus string

const (
	LeadSubmitted   LeadStatus = "submitted"
	LeadInReview    LeadStatus = "in_review"
	LeadQualified   LeadStatus = "qualified"
	LeadSold        LeadStatus = "sold"
	LeadUnqualified LeadStatus = "unqualified"
)

var LeadStatuses = []LeadStatus{LeadSubmitted, LeadInReview, LeadQualified, LeadSold, LeadUnqualified}

func (s LeadStatus) Valid() bool {
	for _, st := range LeadStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Terminal statuses lock the lead content.
func (s LeadStatus) Terminal() bool {
	return s == LeadSold || s == LeadUnqualified
}

type Lead struct {
	ID                  string
	Code                string
	Contact             LeadContact
	SubmittedByID       string
	SecondaryReferrerID *string
	Status              LeadStatus
	AdminNotes          *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	ConvertedAt         *time.Time
}

// LeadContact holds the fields an affiliate may edit while the lead is open.
type LeadContact struct {
	FullName      string
	Email         *string
	Phone         *string
	LocationCity  *string
	LocationState *string
	Industry      *string
	Notes         *string
}

type LeadRepository interface {
	CreateLead(ctx context.Context, lead *Lead) error
	GetLeadByID(ctx context.Context, leadID string) (*Lead, error)
	LeadCodeExists(ctx context.Context, code string) (bool, error)
	UpdateLeadContact(ctx context.Context, lead *Lead) error
	// UpdateLeadStatus persists lead.Status, AdminNotes and ConvertedAt only if the
	// stored status still equals expected. Otherwise it returns ErrConflict.
	UpdateLeadStatus(ctx context.Context, lead *Lead, expected LeadStatus) error
	CountLeads(ctx context.Context, filter LeadFilter) (int64, error)
	CountLeadsByStatus(ctx context.Context, submitterID string) (map[LeadStatus]int64, error)
}

// LeadFilter matches leads; CreatedTo is exclusive.
type LeadFilter struct {
	SubmittedByID string
	Status        *LeadStatus
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

type LeadStats struct {
	Total            int64
	ByStatus         map[LeadStatus]int64
	CreatedThisMonth int64
}
