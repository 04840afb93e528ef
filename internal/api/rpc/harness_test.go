package rpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/cloudmart/accounts/internal/core/domain"
	"github.com/cloudmart/accounts/internal/core/ports"
	"github.com/cloudmart/accounts/internal/core/service"
	"github.com/cloudmart/accounts/internal/infrastructure/db/memory"
	"github.com/cloudmart/accounts/internal/validation"
	"github.com/cloudmart/accounts/pkg/token"
)

const (
	bufSize    = 1 << 20
	testSecret = "0123456789abcdef0123456789abcdef"
)

// serve starts a bufconn-backed server with register applied and returns a
// client connection to it.
func serve(t *testing.T, register func(*grpc.Server), extra ...grpc.UnaryServerInterceptor) *grpc.ClientConn {
	t.Helper()
	return serveWithLog(t, zerolog.Nop(), register, extra...)
}

func serveWithLog(t *testing.T, log zerolog.Logger, register func(*grpc.Server), extra ...grpc.UnaryServerInterceptor) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(bufSize)
	srv, _ := NewServer("test", log, extra...)
	register(srv)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial bufnet: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// stack is a memory-backed identity + account pair served over bufconn.
type stack struct {
	store    *memory.Store
	issuer   *token.Issuer
	identity *IdentityClient
	account  *AccountClient
}

func newStack(t *testing.T, accountInterceptors ...grpc.UnaryServerInterceptor) *stack {
	t.Helper()

	store := memory.NewStore()
	issuer, err := token.NewIssuer(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}

	accounts := service.NewAccountService(store, validation.New(), zerolog.Nop(),
		service.WithBcryptCost(bcrypt.MinCost))
	identity := service.NewIdentityService(store, issuer, nil, zerolog.Nop())

	identityConn := serve(t, func(s *grpc.Server) {
		RegisterIdentityServer(s, NewIdentityServer(identity, zerolog.Nop()))
	})
	accountConn := serve(t, func(s *grpc.Server) {
		RegisterAccountServer(s, NewAccountServer(accounts, zerolog.Nop()))
	}, accountInterceptors...)

	return &stack{
		store:    store,
		issuer:   issuer,
		identity: NewIdentityClient(identityConn),
		account:  NewAccountClient(accountConn),
	}
}

// register creates a user through the RPC and returns its ID.
func (s *stack) register(t *testing.T, username, email, password string) string {
	t.Helper()
	ctx := context.Background()

	res, err := s.account.Register(ctx, &RegisterRequest{Username: username, Email: email, Password: password})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	if !res.Success {
		t.Fatalf("register %s: %s", email, res.Message)
	}

	u, err := s.store.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		t.Fatalf("find %s: %v", email, err)
	}
	return u.ID
}

// wantStatus fails unless err carries code, and msg when msg is not empty.
func wantStatus(t *testing.T, err error, code codes.Code, msg string) {
	t.Helper()
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected a status error, got %v", err)
	}
	if st.Code() != code {
		t.Fatalf("expected code %v, got %v (%s)", code, st.Code(), st.Message())
	}
	if msg != "" && st.Message() != msg {
		t.Fatalf("expected details %q, got %q", msg, st.Message())
	}
}

var errBoom = errors.New("boom")

// brokenAccounts fails every call with an infrastructure error.
type brokenAccounts struct{}

func (brokenAccounts) Register(context.Context, ports.RegisterInput) (domain.Outcome, error) {
	return domain.Outcome{}, errBoom
}
func (brokenAccounts) ListUsers(context.Context) ([]ports.UserSummary, error) { return nil, errBoom }
func (brokenAccounts) GetUserName(context.Context, string) (string, error)    { return "", errBoom }
func (brokenAccounts) UpdateCart(context.Context, ports.CartItemInput) (domain.Outcome, error) {
	return domain.Outcome{}, errBoom
}
func (brokenAccounts) GetCartItems(context.Context, string) ([]domain.CartItem, error) {
	return nil, errBoom
}
func (brokenAccounts) ClearCart(context.Context, string) (domain.Outcome, error) {
	return domain.Outcome{}, errBoom
}
func (brokenAccounts) AddPromoCode(context.Context, string, string) (domain.Outcome, error) {
	return domain.Outcome{}, errBoom
}
func (brokenAccounts) RetrievePromoCodes(context.Context, string) ([]string, error) {
	return nil, errBoom
}
func (brokenAccounts) RemovePromoCode(context.Context, string, string) (domain.Outcome, error) {
	return domain.Outcome{}, errBoom
}

// stubIdentity returns err, or panics when panics is set.
type stubIdentity struct {
	err    error
	panics bool
}

func (s stubIdentity) Authenticate(context.Context, string, string) (*ports.AuthResult, error) {
	if s.panics {
		panic("handler exploded")
	}
	return nil, s.err
}
