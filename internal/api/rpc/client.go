package rpc

import (
	"context"

	"google.golang.org/grpc"
)

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, service, method string, req any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(service, method), req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// IdentityClient calls the identity service.
type IdentityClient struct {
	cc grpc.ClientConnInterface
}

func NewIdentityClient(cc grpc.ClientConnInterface) *IdentityClient {
	return &IdentityClient{cc: cc}
}

func (c *IdentityClient) Authenticate(ctx context.Context, req *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, IdentityServiceName, "Authenticate", req, opts)
}

// AccountClient calls the account service.
type AccountClient struct {
	cc grpc.ClientConnInterface
}

func NewAccountClient(cc grpc.ClientConnInterface) *AccountClient {
	return &AccountClient{cc: cc}
}

func (c *AccountClient) Register(ctx context.Context, req *RegisterRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, AccountServiceName, "Register", req, opts)
}

func (c *AccountClient) ListUsers(ctx context.Context, req *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error) {
	return invoke[ListUsersResponse](ctx, c.cc, AccountServiceName, "ListUsers", req, opts)
}

func (c *AccountClient) GetUserName(ctx context.Context, req *UserIDRequest, opts ...grpc.CallOption) (*UserNameResponse, error) {
	return invoke[UserNameResponse](ctx, c.cc, AccountServiceName, "GetUserName", req, opts)
}

func (c *AccountClient) UpdateCart(ctx context.Context, req *UpdateCartRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, AccountServiceName, "UpdateCart", req, opts)
}

func (c *AccountClient) GetCartItems(ctx context.Context, req *UserIDRequest, opts ...grpc.CallOption) (*CartItemsResponse, error) {
	return invoke[CartItemsResponse](ctx, c.cc, AccountServiceName, "GetCartItems", req, opts)
}

func (c *AccountClient) ClearCart(ctx context.Context, req *UserIDRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, AccountServiceName, "ClearCart", req, opts)
}

func (c *AccountClient) AddPromoCode(ctx context.Context, req *PromoCodeRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, AccountServiceName, "AddPromoCode", req, opts)
}

func (c *AccountClient) RetrievePromoCodes(ctx context.Context, req *UserIDRequest, opts ...grpc.CallOption) (*PromoCodesResponse, error) {
	return invoke[PromoCodesResponse](ctx, c.cc, AccountServiceName, "RetrievePromoCodes", req, opts)
}

func (c *AccountClient) RemovePromoCode(ctx context.Context, req *PromoCodeRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, AccountServiceName, "RemovePromoCode", req, opts)
}
