package mappers

import (
	"time"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/shopspring/decimal"
)

type LeadView struct {
	ID                  string     `json:"id"`
	Code                string     `json:"code"`
	FullName            string     `json:"full_name"`
	Email               *string    `json:"email,omitempty"`
	Phone               *string    `json:"phone,omitempty"`
	LocationCity        *string    `json:"location_city,omitempty"`
	LocationState       *string    `json:"location_state,omitempty"`
	Industry            *string    `json:"industry,omitempty"`
	Notes               *string    `json:"notes,omitempty"`
	SubmittedByID       string     `json:"submitted_by_id"`
	SecondaryReferrerID *string    `json:"secondary_referrer_id,omitempty"`
	Status              string     `json:"status"`
	AdminNotes          *string    `json:"admin_notes,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	ConvertedAt         *time.Time `json:"converted_at,omitempty"`
}

func ToLeadView(lead *domain.Lead) LeadView {
	return LeadView{
		ID:                  lead.ID,
		Code:                lead.Code,
		FullName:            lead.Contact.FullName,
		Email:               lead.Contact.Email,
		Phone:               lead.Contact.Phone,
		LocationCity:        lead.Contact.LocationCity,
		LocationState:       lead.Contact.LocationState,
		Industry:            lead.Contact.Industry,
		Notes:               lead.Contact.Notes,
		SubmittedByID:       lead.SubmittedByID,
		SecondaryReferrerID: lead.SecondaryReferrerID,
		Status:              string(lead.Status),
		AdminNotes:          lead.AdminNotes,
		CreatedAt:           lead.CreatedAt,
		UpdatedAt:           lead.UpdatedAt,
		ConvertedAt:         lead.ConvertedAt,
	}
}

type LeadStatsView struct {
	Total            int64            `json:"total"`
	ByStatus         map[string]int64 `json:"by_status"`
	CreatedThisMonth int64            `json:"created_this_month"`
}

func ToLeadStatsView(stats *domain.LeadStats) LeadStatsView {
	byStatus := make(map[string]int64, len(stats.ByStatus))
	for status, count := range stats.ByStatus {
		byStatus[string(status)] = count
	}
	return LeadStatsView{
		Total:            stats.Total,
		ByStatus:         byStatus,
		CreatedThisMonth: stats.CreatedThisMonth,
	}
}

type CommissionView struct {
	ID                string          `json:"id"`
	AffiliateID       string          `json:"affiliate_id"`
	LeadID            *string         `json:"lead_id,omitempty"`
	Type              string          `json:"type"`
	Percentage        decimal.Decimal `json:"percentage"`
	Amount            decimal.Decimal `json:"amount"`
	Description       *string         `json:"description,omitempty"`
	Status            string          `json:"status"`
	PayoutRequestedAt *time.Time      `json:"payout_requested_at,omitempty"`
	ApprovedAt        *time.Time      `json:"approved_at,omitempty"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

func ToCommissionView(c *domain.Commission) CommissionView {
	return CommissionView{
		ID:                c.ID,
		AffiliateID:       c.AffiliateID,
		LeadID:            c.LeadID,
		Type:              string(c.Type),
		Percentage:        c.Percentage,
		Amount:            c.Amount,
		Description:       c.Description,
		Status:            string(c.Status),
		PayoutRequestedAt: c.PayoutRequestedAt,
		ApprovedAt:        c.ApprovedAt,
		PaidAt:            c.PaidAt,
		CreatedAt:         c.CreatedAt,
	}
}

func ToCommissionViews(list []*domain.Commission) []CommissionView {
	views := make([]CommissionView, len(list))
	for i, c := range list {
		views[i] = ToCommissionView(c)
	}
	return views
}

type CommissionSummaryView struct {
	TotalEarned           decimal.Decimal `json:"total_earned"`
	TotalPending          decimal.Decimal `json:"total_pending"`
	TotalApproved         decimal.Decimal `json:"total_approved"`
	CurrentMonthEarnings  decimal.Decimal `json:"current_month_earnings"`
	PreviousMonthEarnings decimal.Decimal `json:"previous_month_earnings"`
	PaidPrimaryCount      int64           `json:"paid_primary_count"`
	PaidReferralCount     int64           `json:"paid_referral_count"`
}

func ToCommissionSummaryView(s *domain.CommissionSummary) CommissionSummaryView {
	return CommissionSummaryView{
		TotalEarned:           s.TotalEarned,
		TotalPending:          s.TotalPending,
		TotalApproved:         s.TotalApproved,
		CurrentMonthEarnings:  s.CurrentMonthEarnings,
		PreviousMonthEarnings: s.PreviousMonthEarnings,
		PaidPrimaryCount:      s.PaidPrimaryCount,
		PaidReferralCount:     s.PaidReferralCount,
	}
}

type RateSettingsView struct {
	ID                  string          `json:"id"`
	PrimaryPercentage   decimal.Decimal `json:"primary_percentage"`
	ReferringPercentage decimal.Decimal `json:"referring_percentage"`
	IsActive            bool            `json:"is_active"`
	EffectiveFrom       time.Time       `json:"effective_from"`
}

func ToRateSettingsView(s *domain.RateSettings) RateSettingsView {
	return RateSettingsView{
		ID:                  s.ID,
		PrimaryPercentage:   s.PrimaryPercentage,
		ReferringPercentage: s.ReferringPercentage,
		IsActive:            s.IsActive,
		EffectiveFrom:       s.EffectiveFrom,
	}
}

type PayoutSummaryView struct {
	AffiliateID string           `json:"affiliate_id"`
	Method      string           `json:"method"`
	Requested   decimal.Decimal  `json:"requested"`
	Allocated   decimal.Decimal  `json:"allocated"`
	Shortfall   decimal.Decimal  `json:"shortfall"`
	Partial     bool             `json:"partial"`
	Commissions []CommissionView `json:"commissions"`
	RequestedAt time.Time        `json:"requested_at"`
}

func ToPayoutSummaryView(s *domain.PayoutSummary) PayoutSummaryView {
	return PayoutSummaryView{
		AffiliateID: s.AffiliateID,
		Method:      string(s.Method),
		Requested:   s.Requested,
		Allocated:   s.Allocated,
		Shortfall:   s.Shortfall,
		Partial:     s.Partial,
		Commissions: ToCommissionViews(s.Commissions),
		RequestedAt: s.RequestedAt,
	}
}

type PayoutGroupView struct {
	Date        string           `json:"date"`
	RequestedAt time.Time        `json:"requested_at"`
	Status      string           `json:"status"`
	TotalAmount decimal.Decimal  `json:"total_amount"`
	Commissions []CommissionView `json:"commissions"`
}

func ToPayoutGroupViews(groups []domain.PayoutGroup) []PayoutGroupView {
	views := make([]PayoutGroupView, len(groups))
	for i, g := range groups {
		views[i] = PayoutGroupView{
			Date:        g.Date.Format(time.DateOnly),
			RequestedAt: g.RequestedAt,
			Status:      string(g.Status),
			TotalAmount: g.TotalAmount,
			Commissions: ToCommissionViews(g.Commissions),
		}
	}
	return views
}

type TreeNodeView struct {
	AffiliateID         string          `json:"affiliate_id"`
	Name                string          `json:"name"`
	Email               string          `json:"email"`
	ReferralCode        string          `json:"referral_code"`
	Level               int             `json:"level"`
	LeadCount           int64           `json:"lead_count"`
	TotalPaidCommission decimal.Decimal `json:"total_paid_commission"`
	JoinedAt            time.Time       `json:"joined_at"`
	Children            []TreeNodeView  `json:"children"`
}

func ToTreeNodeView(node *domain.TreeNode) TreeNodeView {
	children := make([]TreeNodeView, len(node.Children))
	for i, child := range node.Children {
		children[i] = ToTreeNodeView(child)
	}
	return TreeNodeView{
		AffiliateID:         node.AffiliateID,
		Name:                node.Name,
		Email:               node.Email,
		ReferralCode:        node.ReferralCode,
		Level:               node.Level,
		LeadCount:           node.LeadCount,
		TotalPaidCommission: node.TotalPaidCommission,
		JoinedAt:            node.JoinedAt,
		Children:            children,
	}
}

type ReferralStatsView struct {
	DirectCount             int             `json:"direct_count"`
	ActiveCount             int             `json:"active_count"`
	Level1Count             int             `json:"level1_count"`
	Level2Count             int             `json:"level2_count"`
	TotalReferralCommission decimal.Decimal `json:"total_referral_commission"`
}

func ToReferralStatsView(s *domain.ReferralStats) ReferralStatsView {
	return ReferralStatsView{
		DirectCount:             s.DirectCount,
		ActiveCount:             s.ActiveCount,
		Level1Count:             s.Level1Count,
		Level2Count:             s.Level2Count,
		TotalReferralCommission: s.TotalReferralCommission,
	}
}

// AffiliateView exposes which payout methods are configured, not the details.
type AffiliateView struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Role             string    `json:"role"`
	ReferralCode     string    `json:"referral_code"`
	ReferredByID     *string   `json:"referred_by_id,omitempty"`
	PaypalConfigured bool      `json:"paypal_configured"`
	BankConfigured   bool      `json:"bank_configured"`
	CreatedAt        time.Time `json:"created_at"`
}

func ToAffiliateView(a *domain.Affiliate) AffiliateView {
	return AffiliateView{
		ID:               a.ID,
		Email:            a.Email,
		FirstName:        a.FirstName,
		LastName:         a.LastName,
		Role:             string(a.Role),
		ReferralCode:     a.ReferralCode,
		ReferredByID:     a.ReferredByID,
		PaypalConfigured: a.Payment.Supports(domain.PaymentMethodPaypal),
		BankConfigured:   a.Payment.Supports(domain.PaymentMethodBankTransfer),
		CreatedAt:        a.CreatedAt,
	}
}
