package rpc

import (
	"context"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"github.com/cloudmart/accounts/internal/core/ports"
)

// IdentityServer exposes ports.IdentityService over gRPC.
type IdentityServer struct {
	svc ports.IdentityService
	log zerolog.Logger
}

func NewIdentityServer(svc ports.IdentityService, log zerolog.Logger) *IdentityServer {
	return &IdentityServer{svc: svc, log: log}
}

var identityServiceDesc = grpc.ServiceDesc{
	ServiceName: IdentityServiceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		unary(IdentityServiceName, "Authenticate", (*IdentityServer).Authenticate),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storefront/identity/v1",
}

// RegisterIdentityServer registers srv on r.
func RegisterIdentityServer(r grpc.ServiceRegistrar, srv *IdentityServer) {
	r.RegisterService(&identityServiceDesc, srv)
}

func (s *IdentityServer) Authenticate(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	res, err := s.svc.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, statusFrom(s.log, "Authenticate", err, detailsLogin)
	}
	return &LoginResponse{Success: res.Success, Message: res.Message, Token: res.Token}, nil
}
