package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "affiliate.v1.AffiliateService"

// AffiliateServiceServer is served with google.protobuf.Struct bodies on
// both sides. Field names follow the json tags of the usecase DTOs.
type AffiliateServiceServer interface {
	SubmitLead(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateLead(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetLead(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetLeadStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TransitionLead(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ConvertLead(context.Context, *structpb.Struct) (*structpb.Struct, error)

	GetActiveRates(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetRates(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetRateHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)

	ApproveCommission(context.Context, *structpb.Struct) (*structpb.Struct, error)
	MarkCommissionPaid(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateManualCommission(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCommissionTotals(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCommissionSummary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCommissions(context.Context, *structpb.Struct) (*structpb.Struct, error)

	RequestPayout(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListPayoutRequests(context.Context, *structpb.Struct) (*structpb.Struct, error)

	GetReferralTree(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetReferralStats(context.Context, *structpb.Struct) (*structpb.Struct, error)

	RegisterAffiliate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdatePaymentProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAffiliate(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(AffiliateServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AffiliateServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(AffiliateServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var AffiliateServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AffiliateServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("SubmitLead", AffiliateServiceServer.SubmitLead),
		unary("UpdateLead", AffiliateServiceServer.UpdateLead),
		unary("GetLead", AffiliateServiceServer.GetLead),
		unary("GetLeadStats", AffiliateServiceServer.GetLeadStats),
		unary("TransitionLead", AffiliateServiceServer.TransitionLead),
		unary("ConvertLead", AffiliateServiceServer.ConvertLead),
		unary("GetActiveRates", AffiliateServiceServer.GetActiveRates),
		unary("SetRates", AffiliateServiceServer.SetRates),
		unary("GetRateHistory", AffiliateServiceServer.GetRateHistory),
		unary("ApproveCommission", AffiliateServiceServer.ApproveCommission),
		unary("MarkCommissionPaid", AffiliateServiceServer.MarkCommissionPaid),
		unary("CreateManualCommission", AffiliateServiceServer.CreateManualCommission),
		unary("GetCommissionTotals", AffiliateServiceServer.GetCommissionTotals),
		unary("GetCommissionSummary", AffiliateServiceServer.GetCommissionSummary),
		unary("ListCommissions", AffiliateServiceServer.ListCommissions),
		unary("RequestPayout", AffiliateServiceServer.RequestPayout),
		unary("ListPayoutRequests", AffiliateServiceServer.ListPayoutRequests),
		unary("GetReferralTree", AffiliateServiceServer.GetReferralTree),
		unary("GetReferralStats", AffiliateServiceServer.GetReferralStats),
		unary("RegisterAffiliate", AffiliateServiceServer.RegisterAffiliate),
		unary("UpdatePaymentProfile", AffiliateServiceServer.UpdatePaymentProfile),
		unary("GetAffiliate", AffiliateServiceServer.GetAffiliate),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "affiliate/v1/affiliate.proto",
}

func RegisterAffiliateServiceServer(s grpc.ServiceRegistrar, srv AffiliateServiceServer) {
	s.RegisterService(&AffiliateServiceDesc, srv)
}
