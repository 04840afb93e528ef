package rpc

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cloudmart/accounts/internal/core/domain"
)

// Details sent with INTERNAL errors. The cause is logged, never returned.
const (
	detailsLogin          = "An error occurred during user login"
	detailsRegister       = "Error registering user"
	detailsListUsers      = "Error retrieving users."
	detailsGetUserName    = "Error getting username"
	detailsUpdateCart     = "Error updating cart"
	detailsGetCartItems   = "Error fetching cart items"
	detailsClearCart      = "Error clearing cart"
	detailsAddPromo       = "Error adding promo code."
	detailsRetrievePromos = "Error retrieving promo code."
	detailsRemovePromo    = "Error removing promo code."

	detailsUserNotFound  = "User ID not found."
	detailsTooManyLogins = "Too many login attempts, try again later"
)

// statusFrom converts a service error into a gRPC status error.
func statusFrom(log zerolog.Logger, method string, err error, details string) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return status.Error(codes.NotFound, detailsUserNotFound)
	case errors.Is(err, domain.ErrTooManyAttempts):
		return status.Error(codes.ResourceExhausted, detailsTooManyLogins)
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	log.Error().Err(err).Str("method", method).Msg(details)
	return status.Error(codes.Internal, details)
}
