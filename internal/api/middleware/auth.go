package middleware

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/cloudmart/accounts/pkg/token"
)

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(tokenStr string) (*token.Claims, error)
}

type claimsKey struct{}

// ClaimsFrom returns the claims stored by Auth, if any.
func ClaimsFrom(ctx context.Context) (*token.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*token.Claims)
	return c, ok
}

// Auth validates the bearer token in the "authorization" metadata, applies
// policy and injects the claims into the handler context. Public methods
// skip the check.
func Auth(verifier TokenVerifier, policy Policy) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if policy.isPublic(info.FullMethod) {
			return handler(ctx, req)
		}

		raw, err := bearerToken(ctx)
		if err != nil {
			return nil, err
		}

		claims, err := verifier.Verify(raw)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		if err := policy.authorize(info.FullMethod, claims, req); err != nil {
			return nil, err
		}

		return handler(context.WithValue(ctx, claimsKey{}, claims), req)
	}
}

func bearerToken(ctx context.Context) (string, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	values := md.Get("authorization")
	if len(values) == 0 || values[0] == "" {
		return "", status.Error(codes.Unauthenticated, "missing authorization metadata")
	}

	parts := strings.SplitN(values[0], " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", status.Error(codes.Unauthenticated, "invalid authorization metadata")
	}
	return parts[1], nil
}

// WithBearer returns ctx carrying tok as outgoing authorization metadata.
func WithBearer(ctx context.Context, tok string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+tok)
}
