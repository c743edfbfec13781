package grpcapi

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-affiliate-service/internal/delivery/grpcapi/mappers"
	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"github.com/LavaJover/shvark-affiliate-service/internal/usecase"
	affiliatedto "github.com/LavaJover/shvark-affiliate-service/internal/usecase/dto/affiliate"
	commissiondto "github.com/LavaJover/shvark-affiliate-service/internal/usecase/dto/commission"
	leaddto "github.com/LavaJover/shvark-affiliate-service/internal/usecase/dto/lead"
	payoutdto "github.com/LavaJover/shvark-affiliate-service/internal/usecase/dto/payout"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type AffiliateHandler struct {
	leads       usecase.LeadUsecase
	commissions usecase.CommissionUsecase
	rates       usecase.RateSettingsUsecase
	payouts     usecase.PayoutUsecase
	referrals   usecase.ReferralUsecase
	affiliates  usecase.AffiliateUsecase
	now         func() time.Time
}

func NewAffiliateHandler(
	leads usecase.LeadUsecase,
	commissions usecase.CommissionUsecase,
	rates usecase.RateSettingsUsecase,
	payouts usecase.PayoutUsecase,
	referrals usecase.ReferralUsecase,
	affiliates usecase.AffiliateUsecase,
) *AffiliateHandler {
	return &AffiliateHandler{
		leads:       leads,
		commissions: commissions,
		rates:       rates,
		payouts:     payouts,
		referrals:   referrals,
		affiliates:  affiliates,
		now:         time.Now,
	}
}

type leadRequest struct {
	LeadID      string `json:"lead_id"`
	SubmitterID string `json:"submitter_id"`
}

type affiliateRequest struct {
	AffiliateID string `json:"affiliate_id"`
}

type commissionRequest struct {
	CommissionID string `json:"commission_id"`
}

type convertLeadRequest struct {
	LeadID    string           `json:"lead_id"`
	DealValue *decimal.Decimal `json:"deal_value,omitempty"`
	Note      *string          `json:"note,omitempty"`
}

type setRatesRequest struct {
	PrimaryPercentage   *decimal.Decimal `json:"primary_percentage"`
	ReferringPercentage *decimal.Decimal `json:"referring_percentage"`
}

type totalsRequest struct {
	AffiliateID string  `json:"affiliate_id"`
	Status      *string `json:"status,omitempty"`
}

type treeRequest struct {
	AffiliateID string `json:"affiliate_id"`
	MaxDepth    int    `json:"max_depth,omitempty"`
}

func (h *AffiliateHandler) SubmitLead(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	var in leaddto.SubmitLeadInput
	if err := decodeRequest(r, &in); err != nil {
		return nil, err
	}
	lead, err := h.leads.Submit(ctx, &in)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]interface{}{"lead": mappers.ToLeadView(lead)})
}

func (h *AffiliateHandler) UpdateLead(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	var in leaddto.UpdateLeadInput
	if err := decodeRequest(r, &in); err != nil {
		return nil, err
	}
	lead, err := h.leads.Update(ctx, &in)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]interface{}{"lead": mappers.ToLeadView(lead)})
}

func (h *AffiliateHandler) GetLead(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	var in leadRequest
	if err := decodeRequest(r, &in); err != nil {
		return nil, err
	}
	if err := requireField("lead_id", in.LeadID); err != nil {
		return nil, err
	}
	lead, err := h.leads.Get(ctx, in.LeadID, in.SubmitterID)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]interface{}{"lead": mappers.ToLeadView(lead)})
}

func (h *AffiliateHandler) GetLeadStats(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	var in leadRequest
	if err := decodeRequest(r, &in); err != nil {
		return nil, err
	}
	if err := requireField("submitter_id", in.SubmitterID); err != nil {
		return nil, err
	}
	stats, err := h.leads.Stats(ctx, in.SubmitterID, h.now())
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]interface{}{"stats": mappers.ToLeadStatsView(stats)})
}

func (h *AffiliateHandler) TransitionLead(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	var in leaddto.TransitionLeadInput
	if err := decodeRequest(r, &in); err != nil {
		return nil, err
	}
	out, err := h.leads.Transition(ctx, &in)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeTransition(out)
}

// ConvertLead marks the lead sold. Without deal_value the configured default applies.
func (h *AffiliateHandler) ConvertLead(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	var in convertLeadRequest
	if err := decodeRequest(r, &in); err != nil {
		return nil, err
	}

	var (
		out *leaddto.TransitionLeadOutput
		err error
	)
	if in.DealValue != nil {
		out, err = h.leads.Convert(ctx, &leaddto.ConvertLeadInput{
			LeadID:    in.LeadID,
			DealValue: *in.DealValue,
			Note:      in.Note,
		})
	} else {
		out, err = h.leads.Transition(ctx, &leaddto.TransitionLeadInput{
			LeadID: in.LeadID,
			Status: string(domain.LeadSold),
			Note:   in.Note,
		})
	}
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeTransition(out)
}

func encodeTransition(out *leaddto.TransitionLeadOutput) (*structpb.Struct, error) {
	return encodeResponse(map[string]interface{}{
		"lead":        mappers.ToLeadView(out.Lead),
		"commissions": mappers.ToCommissionViews(out.Commissions),
	})
}

func (h *AffiliateHandler) GetActiveRates(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	settings, err := h.rates.GetActive(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]interface{}{"rates": mappers.ToRateSettingsView(settings)})
}

func (h *AffiliateHandler) SetRates(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	var in setRatesRequest
	if err := decodeRequest(r, &in); err != nil {
		return nil, err
	}
	if in.PrimaryPercentage == nil || in.ReferringPercentage == nil {
		return nil, status.Error(codes.InvalidArgument, "primary_percentage and referring_percentage are required")
	}
	settings, err := h.rates.SetNew(ctx, *in.PrimaryPercentage, *in.ReferringPercentage)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]interface{}{"rates": mappers.ToRateSettingsView(settings)})
}

func (h *AffiliateHandler) GetRateHistory(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	history, err := h.rates.History(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	views := make([]mappers.RateSettingsView, len(history))
	for i, s := range history {
		views[i] = mappers.ToRateSettingsView(s)
	}
	return encodeResponse(map[string]interface{}{"history": views})
}

func (h *AffiliateHandler) ApproveCommission(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	return h.advanceCommission(ctx, r, h.commissions.Approve)
}

func (h *AffiliateHandler) MarkCommissionPaid(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	return h.advanceCommission(ctx, r, h.commissions.MarkPaid)
}

func (h *AffiliateHandler) advanceCommission(
	ctx context.Context,
	r *structpb.Struct,
	step func(context.Context, string) (*domain.Commission, error),
) (*structpb.Struct, error) {
	var in commissionRequest
	if err := decodeRequest(r, &in); err != nil {
		return nil, err
	}
	if err := requireField("commission_id", in.CommissionID); err != nil {
		return nil, err
	}
	commission, err := step(ctx, in.CommissionID)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]interface{}{"commission": mappers.ToCommissionView(commission)})
}

func (h *AffiliateHandler) CreateManualCommission(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	var in commissiondto.CreateManualCommissionInput
	if err := decodeRequest(r, &in); err != nil {
		return nil, err
	}
	commission, err := h.commissions.CreateManual(ctx, &in)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]interface{}{"commission": mappers.ToCommissionView(commission)})
}

func (h *AffiliateHandler) GetCommissionTotals(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	var in totalsRequest
	if err := decodeRequest(r, &in); err != nil {
		return nil, err
	}
	if err := requireField("affiliate_id", in.AffiliateID); err != nil {
		return nil, err
	}

	var filter *domain.CommissionStatus
	if in.Status != nil {
		s := domain.CommissionStatus(*in.Status)
		filter = &s
	}
	total, err := h.commissions.TotalByAffiliate(ctx, in.AffiliateID, filter)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]interface{}{
		"affiliate_id": in.AffiliateID,
		"status":       in.Status,
		"total":        total,
	})
}

func (h *AffiliateHandler) GetCommissionSummary(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	var in affiliateRequest
	if err := decodeRequest(r, &in); err != nil {
		return nil, err
	}
	if err := requireField("affiliate_id", in.AffiliateID); err != nil {
		return nil, err
	}
	summary, err := h.commissions.Summary(ctx, in.AffiliateID, h.now())
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]interface{}{"summary": mappers.ToCommissionSummaryView(summary)})
}

func (h *AffiliateHandler) ListCommissions(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	var in commissiondto.ListCommissionsInput
	if err := decodeRequest(r, &in); err != nil {
		return nil, err
	}
	out, err := h.commissions.ListByAffiliate(ctx, &in)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]interface{}{
		"commissions": mappers.ToCommissionViews(out.Commissions),
		"total":       out.Total,
		"page":        out.Page,
		"limit":       out.Limit,
	})
}

func (h *AffiliateHandler) RequestPayout(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	var in payoutdto.RequestPayoutInput
	if err := decodeRequest(r, &in); err != nil {
		return nil, err
	}
	summary, err := h.payouts.RequestPayout(ctx, &in)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]interface{}{"payout": mappers.ToPayoutSummaryView(summary)})
}

func (h *AffiliateHandler) ListPayoutRequests(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	var in affiliateRequest
	if err := decodeRequest(r, &in); err != nil {
		return nil, err
	}
	if err := requireField("affiliate_id", in.AffiliateID); err != nil {
		return nil, err
	}
	groups, err := h.payouts.ListPayoutRequests(ctx, in.AffiliateID)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]interface{}{"requests": mappers.ToPayoutGroupViews(groups)})
}

func (h *AffiliateHandler) GetReferralTree(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	var in treeRequest
	if err := decodeRequest(r, &in); err != nil {
		return nil, err
	}
	if err := requireField("affiliate_id", in.AffiliateID); err != nil {
		return nil, err
	}
	tree, err := h.referrals.BuildTree(ctx, in.AffiliateID, in.MaxDepth)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]interface{}{"tree": mappers.ToTreeNodeView(tree)})
}

func (h *AffiliateHandler) GetReferralStats(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	var in affiliateRequest
	if err := decodeRequest(r, &in); err != nil {
		return nil, err
	}
	if err := requireField("affiliate_id", in.AffiliateID); err != nil {
		return nil, err
	}
	stats, err := h.referrals.Stats(ctx, in.AffiliateID)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]interface{}{"stats": mappers.ToReferralStatsView(stats)})
}

func (h *AffiliateHandler) RegisterAffiliate(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	var in affiliatedto.RegisterAffiliateInput
	if err := decodeRequest(r, &in); err != nil {
		return nil, err
	}
	affiliate, err := h.affiliates.Register(ctx, &in)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]interface{}{"affiliate": mappers.ToAffiliateView(affiliate)})
}

func (h *AffiliateHandler) UpdatePaymentProfile(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	var in affiliatedto.UpdatePaymentProfileInput
	if err := decodeRequest(r, &in); err != nil {
		return nil, err
	}
	affiliate, err := h.affiliates.UpdatePaymentProfile(ctx, &in)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]interface{}{"affiliate": mappers.ToAffiliateView(affiliate)})
}

func (h *AffiliateHandler) GetAffiliate(ctx context.Context, r *structpb.Struct) (*structpb.Struct, error) {
	var in affiliateRequest
	if err := decodeRequest(r, &in); err != nil {
		return nil, err
	}
	if err := requireField("affiliate_id", in.AffiliateID); err != nil {
		return nil, err
	}
	affiliate, err := h.affiliates.Get(ctx, in.AffiliateID)
	if err != nil {
		return nil, toStatus(err)
	}
	return encodeResponse(map[string]interface{}{"affiliate": mappers.ToAffiliateView(affiliate)})
}
