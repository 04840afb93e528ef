package rpc

import (
	"context"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"github.com/cloudmart/accounts/internal/api/middleware"
	"github.com/cloudmart/accounts/internal/core/ports"
)

// AccountServer exposes ports.AccountService over gRPC.
type AccountServer struct {
	svc ports.AccountService
	log zerolog.Logger
}

func NewAccountServer(svc ports.AccountService, log zerolog.Logger) *AccountServer {
	return &AccountServer{svc: svc, log: log}
}

var accountServiceDesc = grpc.ServiceDesc{
	ServiceName: AccountServiceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		unary(AccountServiceName, "Register", (*AccountServer).Register),
		unary(AccountServiceName, "ListUsers", (*AccountServer).ListUsers),
		unary(AccountServiceName, "GetUserName", (*AccountServer).GetUserName),
		unary(AccountServiceName, "UpdateCart", (*AccountServer).UpdateCart),
		unary(AccountServiceName, "GetCartItems", (*AccountServer).GetCartItems),
		unary(AccountServiceName, "ClearCart", (*AccountServer).ClearCart),
		unary(AccountServiceName, "AddPromoCode", (*AccountServer).AddPromoCode),
		unary(AccountServiceName, "RetrievePromoCodes", (*AccountServer).RetrievePromoCodes),
		unary(AccountServiceName, "RemovePromoCode", (*AccountServer).RemovePromoCode),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storefront/account/v1",
}

// logFor tags the server logger with the authenticated caller, if any.
func (s *AccountServer) logFor(ctx context.Context) zerolog.Logger {
	if c, ok := middleware.ClaimsFrom(ctx); ok {
		return s.log.With().Str("caller_id", c.UserID).Logger()
	}
	return s.log
}

// RegisterAccountServer registers srv on r.
func RegisterAccountServer(r grpc.ServiceRegistrar, srv *AccountServer) {
	r.RegisterService(&accountServiceDesc, srv)
}

func (s *AccountServer) Register(ctx context.Context, req *RegisterRequest) (*StatusResponse, error) {
	out, err := s.svc.Register(ctx, ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, statusFrom(s.logFor(ctx), "Register", err, detailsRegister)
	}
	return statusResponse(out), nil
}

func (s *AccountServer) ListUsers(ctx context.Context, _ *ListUsersRequest) (*ListUsersResponse, error) {
	users, err := s.svc.ListUsers(ctx)
	if err != nil {
		return nil, statusFrom(s.logFor(ctx), "ListUsers", err, detailsListUsers)
	}
	return &ListUsersResponse{Users: userInfos(users)}, nil
}

func (s *AccountServer) GetUserName(ctx context.Context, req *UserIDRequest) (*UserNameResponse, error) {
	name, err := s.svc.GetUserName(ctx, req.UserID)
	if err != nil {
		return nil, statusFrom(s.logFor(ctx), "GetUserName", err, detailsGetUserName)
	}
	return &UserNameResponse{Name: name}, nil
}

func (s *AccountServer) UpdateCart(ctx context.Context, req *UpdateCartRequest) (*StatusResponse, error) {
	out, err := s.svc.UpdateCart(ctx, ports.CartItemInput{
		UserID:   req.UserID,
		ItemID:   req.ItemID,
		ItemName: req.ItemName,
		Price:    req.Price,
		Quantity: req.Quantity,
	})
	if err != nil {
		return nil, statusFrom(s.logFor(ctx), "UpdateCart", err, detailsUpdateCart)
	}
	return statusResponse(out), nil
}

func (s *AccountServer) GetCartItems(ctx context.Context, req *UserIDRequest) (*CartItemsResponse, error) {
	items, err := s.svc.GetCartItems(ctx, req.UserID)
	if err != nil {
		return nil, statusFrom(s.logFor(ctx), "GetCartItems", err, detailsGetCartItems)
	}
	return &CartItemsResponse{Items: cartItems(items)}, nil
}

func (s *AccountServer) ClearCart(ctx context.Context, req *UserIDRequest) (*StatusResponse, error) {
	out, err := s.svc.ClearCart(ctx, req.UserID)
	if err != nil {
		return nil, statusFrom(s.logFor(ctx), "ClearCart", err, detailsClearCart)
	}
	return statusResponse(out), nil
}

func (s *AccountServer) AddPromoCode(ctx context.Context, req *PromoCodeRequest) (*StatusResponse, error) {
	out, err := s.svc.AddPromoCode(ctx, req.UserID, req.PromoCodeID)
	if err != nil {
		return nil, statusFrom(s.logFor(ctx), "AddPromoCode", err, detailsAddPromo)
	}
	return statusResponse(out), nil
}

// RetrievePromoCodes is the one account RPC that reports an unknown user as
// NOT_FOUND instead of a payload.
func (s *AccountServer) RetrievePromoCodes(ctx context.Context, req *UserIDRequest) (*PromoCodesResponse, error) {
	promos, err := s.svc.RetrievePromoCodes(ctx, req.UserID)
	if err != nil {
		return nil, statusFrom(s.logFor(ctx), "RetrievePromoCodes", err, detailsRetrievePromos)
	}
	if promos == nil {
		promos = []string{}
	}
	return &PromoCodesResponse{Promos: promos}, nil
}

func (s *AccountServer) RemovePromoCode(ctx context.Context, req *PromoCodeRequest) (*StatusResponse, error) {
	out, err := s.svc.RemovePromoCode(ctx, req.UserID, req.PromoCodeID)
	if err != nil {
		return nil, statusFrom(s.logFor(ctx), "RemovePromoCode", err, detailsRemovePromo)
	}
	return statusResponse(out), nil
}
