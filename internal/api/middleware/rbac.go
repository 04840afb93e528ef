package middleware

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cloudmart/accounts/internal/core/domain"
	"github.com/cloudmart/accounts/pkg/token"
)

// Owned is implemented by requests that act on one user's data.
type Owned interface {
	OwnerID() string
}

// Policy decides who may call which method. Methods are full gRPC method
// names. A method that is neither public nor admin-only is open to any
// authenticated caller, restricted to their own user when the request is
// Owned.
type Policy struct {
	public    map[string]struct{}
	adminOnly map[string]struct{}
}

func NewPolicy() Policy {
	return Policy{
		public:    make(map[string]struct{}),
		adminOnly: make(map[string]struct{}),
	}
}

// Public marks methods that need no token.
func (p Policy) Public(methods ...string) Policy {
	for _, m := range methods {
		p.public[m] = struct{}{}
	}
	return p
}

// AdminOnly marks methods reserved to the admin role.
func (p Policy) AdminOnly(methods ...string) Policy {
	for _, m := range methods {
		p.adminOnly[m] = struct{}{}
	}
	return p
}

func (p Policy) isPublic(method string) bool {
	_, ok := p.public[method]
	return ok
}

func (p Policy) authorize(method string, claims *token.Claims, req any) error {
	if claims.Role == domain.RoleAdmin {
		return nil
	}
	if _, ok := p.adminOnly[method]; ok {
		return status.Error(codes.PermissionDenied, "forbidden")
	}
	if owned, ok := req.(Owned); ok && owned.OwnerID() != claims.UserID {
		return status.Error(codes.PermissionDenied, "forbidden")
	}
	return nil
}
