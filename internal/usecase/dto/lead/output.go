package leaddto

import "github.com/LavaJover/shvark-affiliate-service/internal/domain"

type TransitionLeadOutput struct {
	Lead        *domain.Lead
	Commissions []*domain.Commission
}
