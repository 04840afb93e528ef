package rpc

import "github.com/cloudmart/accounts/internal/api/middleware"

// AccountPolicy is the access policy of the account service when token
// enforcement is on: registration is public, listing users is admin-only and
// every per-user call is limited to the token's own user.
func AccountPolicy() middleware.Policy {
	return middleware.NewPolicy().
		Public(FullMethod(AccountServiceName, "Register")).
		AdminOnly(FullMethod(AccountServiceName, "ListUsers"))
}
