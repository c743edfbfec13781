package commissiondto

import "github.com/LavaJover/shvark-affiliate-service/internal/domain"

type ListCommissionsOutput struct {
	Commissions []*domain.Commission
	Total       int64
	Page        int
	Limit       int
}
