package grpcapi

import (
	"context"
	"errors"
	"log/slog"

	"github.com/LavaJover/shvark-affiliate-service/internal/domain"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{domain.ErrNotFound, codes.NotFound},
	{domain.ErrValidation, codes.InvalidArgument},
	{domain.ErrInvalidStatus, codes.InvalidArgument},
	{domain.ErrInvalidAmount, codes.InvalidArgument},
	{domain.ErrInvalidPaymentMethod, codes.InvalidArgument},
	{domain.ErrAlreadyConverted, codes.AlreadyExists},
	{domain.ErrInvalidTransition, codes.FailedPrecondition},
	{domain.ErrLeadLocked, codes.FailedPrecondition},
	{domain.ErrInsufficientBalance, codes.FailedPrecondition},
	{domain.ErrMissingPaymentInfo, codes.FailedPrecondition},
	{domain.ErrReferralCycle, codes.FailedPrecondition},
	{domain.ErrConflict, codes.Aborted},
}

// toStatus maps usecase errors to gRPC statuses. Unknown errors are logged
// and hidden behind codes.Internal.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	for _, m := range errorCodes {
		if errors.Is(err, m.err) {
			return status.Error(m.code, err.Error())
		}
	}
	slog.Error("unhandled affiliate service error", "error", err.Error())
	return status.Error(codes.Internal, "internal error")
}
