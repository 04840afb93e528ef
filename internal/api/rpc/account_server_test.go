package rpc

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"

	"github.com/cloudmart/accounts/internal/api/middleware"
	"github.com/cloudmart/accounts/internal/core/domain"
	"github.com/cloudmart/accounts/pkg/token"
)

func TestExampleScenario(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	aliceID := s.register(t, "alice", "alice@x.com", "p1")

	dup, err := s.account.Register(ctx, &RegisterRequest{Username: "alice2", Email: "alice@x.com", Password: "p2"})
	if err != nil {
		t.Fatalf("register duplicate: %v", err)
	}
	if dup.Success || dup.Message != domain.MsgUserExists {
		t.Fatalf("expected duplicate rejection, got %+v", dup)
	}

	login, err := s.identity.Authenticate(ctx, &LoginRequest{Email: "alice@x.com", Password: "p1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !login.Success || login.Token == "" {
		t.Fatalf("expected token, got %+v", login)
	}

	bad, err := s.identity.Authenticate(ctx, &LoginRequest{Email: "alice@x.com", Password: "wrong"})
	if err != nil {
		t.Fatalf("bad login: %v", err)
	}
	if bad.Success || bad.Message != domain.MsgInvalidCredentials || bad.Token != "" {
		t.Fatalf("expected invalid credentials, got %+v", bad)
	}

	added, err := s.account.UpdateCart(ctx, &UpdateCartRequest{UserID: aliceID, ItemID: "sku1", ItemName: "Widget", Price: 9.99, Quantity: 2})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if *added != (StatusResponse{Success: true, Message: domain.MsgItemAdded}) {
		t.Fatalf("unexpected add response: %+v", added)
	}

	updated, err := s.account.UpdateCart(ctx, &UpdateCartRequest{UserID: aliceID, ItemID: "sku1", ItemName: "Widget", Price: 9.99, Quantity: 5})
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if *updated != (StatusResponse{Success: true, Message: domain.MsgQuantityUpdated}) {
		t.Fatalf("unexpected update response: %+v", updated)
	}

	items, err := s.account.GetCartItems(ctx, &UserIDRequest{UserID: aliceID})
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	want := []CartItem{{ItemID: "sku1", ItemName: "Widget", Price: 9.99, Quantity: 5}}
	if !reflect.DeepEqual(items.Items, want) {
		t.Fatalf("unexpected cart: %+v", items.Items)
	}

	promo, err := s.account.AddPromoCode(ctx, &PromoCodeRequest{UserID: aliceID, PromoCodeID: "SAVE10"})
	if err != nil || !promo.Success {
		t.Fatalf("add promo: %+v err=%v", promo, err)
	}

	again, err := s.account.AddPromoCode(ctx, &PromoCodeRequest{UserID: aliceID, PromoCodeID: "SAVE10"})
	if err != nil {
		t.Fatalf("add promo again: %v", err)
	}
	if again.Success || again.Message != domain.MsgPromoExists {
		t.Fatalf("expected duplicate promo rejection, got %+v", again)
	}
}

func TestListUsers_NeverCarriesPasswords(t *testing.T) {
	s := newStack(t)
	s.register(t, "alice", "alice@x.com", "p1")
	s.register(t, "bob", "bob@x.com", "p2")

	res, err := s.account.ListUsers(context.Background(), &ListUsersRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(res.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(res.Users))
	}
	names := []string{res.Users[0].Username, res.Users[1].Username}
	sort.Strings(names)
	if !reflect.DeepEqual(names, []string{"alice", "bob"}) {
		t.Fatalf("unexpected usernames: %v", names)
	}
	for _, u := range res.Users {
		if u.Role != domain.RoleCustomer || u.CreatedAt.IsZero() || u.ID == "" {
			t.Fatalf("incomplete user info: %+v", u)
		}
	}

	var raw map[string]any
	err = s.account.cc.Invoke(context.Background(), FullMethod(AccountServiceName, "ListUsers"),
		&ListUsersRequest{}, &raw, grpc.CallContentSubtype(CodecName))
	if err != nil {
		t.Fatalf("raw list: %v", err)
	}
	for _, u := range raw["users"].([]any) {
		if _, ok := u.(map[string]any)["password"]; ok {
			t.Fatalf("password leaked on the wire: %v", u)
		}
	}
}

func TestUnknownUser_Responses(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	const ghost = "000000000000000000000000"

	name, err := s.account.GetUserName(ctx, &UserIDRequest{UserID: ghost})
	if err != nil || name.Name != "" {
		t.Fatalf("expected empty name, got %+v err=%v", name, err)
	}

	items, err := s.account.GetCartItems(ctx, &UserIDRequest{UserID: ghost})
	if err != nil || len(items.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v err=%v", items, err)
	}

	notFound := StatusResponse{Success: false, Message: domain.MsgUserNotFound}
	idNotFound := StatusResponse{Success: false, Message: domain.MsgUserIDNotFound}

	cart, err := s.account.UpdateCart(ctx, &UpdateCartRequest{UserID: ghost, ItemID: "i", ItemName: "n", Price: 1, Quantity: 1})
	if err != nil || *cart != notFound {
		t.Fatalf("update cart: %+v err=%v", cart, err)
	}

	cleared, err := s.account.ClearCart(ctx, &UserIDRequest{UserID: ghost})
	if err != nil || *cleared != notFound {
		t.Fatalf("clear cart: %+v err=%v", cleared, err)
	}

	add, err := s.account.AddPromoCode(ctx, &PromoCodeRequest{UserID: ghost, PromoCodeID: "X"})
	if err != nil || *add != idNotFound {
		t.Fatalf("add promo: %+v err=%v", add, err)
	}

	rm, err := s.account.RemovePromoCode(ctx, &PromoCodeRequest{UserID: ghost, PromoCodeID: "X"})
	if err != nil || *rm != idNotFound {
		t.Fatalf("remove promo: %+v err=%v", rm, err)
	}

	_, err = s.account.RetrievePromoCodes(ctx, &UserIDRequest{UserID: ghost})
	wantStatus(t, err, codes.NotFound, "User ID not found.")
}

func TestPromoLifecycle(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	id := s.register(t, "alice", "alice@x.com", "p1")

	empty, err := s.account.RetrievePromoCodes(ctx, &UserIDRequest{UserID: id})
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if empty.Promos == nil || len(empty.Promos) != 0 {
		t.Fatalf("expected an empty, non-nil list, got %#v", empty.Promos)
	}

	for _, code := range []string{"A", "B"} {
		res, err := s.account.AddPromoCode(ctx, &PromoCodeRequest{UserID: id, PromoCodeID: code})
		if err != nil || !res.Success {
			t.Fatalf("add %s: %+v err=%v", code, res, err)
		}
	}

	never, err := s.account.RemovePromoCode(ctx, &PromoCodeRequest{UserID: id, PromoCodeID: "C"})
	if err != nil || never.Message != domain.MsgPromoNotFound {
		t.Fatalf("remove unknown promo: %+v err=%v", never, err)
	}

	rm, err := s.account.RemovePromoCode(ctx, &PromoCodeRequest{UserID: id, PromoCodeID: "A"})
	if err != nil || *rm != (StatusResponse{Success: true, Message: domain.MsgPromoRemoved}) {
		t.Fatalf("remove promo: %+v err=%v", rm, err)
	}

	left, err := s.account.RetrievePromoCodes(ctx, &UserIDRequest{UserID: id})
	if err != nil || !reflect.DeepEqual(left.Promos, []string{"B"}) {
		t.Fatalf("expected [B], got %+v err=%v", left, err)
	}
}

func TestClearCart(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	id := s.register(t, "alice", "alice@x.com", "p1")

	if _, err := s.account.UpdateCart(ctx, &UpdateCartRequest{UserID: id, ItemID: "i1", ItemName: "Mug", Price: 3, Quantity: 1}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	res, err := s.account.ClearCart(ctx, &UserIDRequest{UserID: id})
	if err != nil || *res != (StatusResponse{Success: true, Message: domain.MsgCartCleared}) {
		t.Fatalf("clear: %+v err=%v", res, err)
	}

	items, err := s.account.GetCartItems(ctx, &UserIDRequest{UserID: id})
	if err != nil || len(items.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v err=%v", items, err)
	}
}

func TestUpdateCart_ConcurrentDistinctItems(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	id := s.register(t, "alice", "alice@x.com", "p1")

	const n = 20
	var g errgroup.Group
	for i := range n {
		g.Go(func() error {
			res, err := s.account.UpdateCart(ctx, &UpdateCartRequest{
				UserID: id, ItemID: fmt.Sprintf("sku-%02d", i), ItemName: "item", Price: 1, Quantity: 1,
			})
			if err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("update %d: %s", i, res.Message)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent updates: %v", err)
	}

	items, err := s.account.GetCartItems(ctx, &UserIDRequest{UserID: id})
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(items.Items) != n {
		t.Fatalf("expected %d items, got %d", n, len(items.Items))
	}

	ids := make([]string, 0, n)
	for _, it := range items.Items {
		ids = append(ids, it.ItemID)
	}
	sort.Strings(ids)
	for i, got := range ids {
		if want := fmt.Sprintf("sku-%02d", i); got != want {
			t.Fatalf("item %d: expected %s, got %s", i, want, got)
		}
	}
}

func TestRegister_ValidationFailureIsBusinessOutcome(t *testing.T) {
	s := newStack(t)

	res, err := s.account.Register(context.Background(), &RegisterRequest{Username: "", Email: "nope", Password: "p"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.Success || !strings.Contains(res.Message, "must be a valid email") {
		t.Fatalf("expected validation outcome, got %+v", res)
	}
}

func TestAccountServer_InternalErrorsCarryGenericDetails(t *testing.T) {
	conn := serve(t, func(s *grpc.Server) {
		RegisterAccountServer(s, NewAccountServer(brokenAccounts{}, zerolog.Nop()))
	})
	c := NewAccountClient(conn)
	ctx := context.Background()

	calls := map[string]func() error{
		detailsRegister: func() error {
			_, err := c.Register(ctx, &RegisterRequest{})
			return err
		},
		detailsListUsers: func() error {
			_, err := c.ListUsers(ctx, &ListUsersRequest{})
			return err
		},
		detailsGetUserName: func() error {
			_, err := c.GetUserName(ctx, &UserIDRequest{})
			return err
		},
		detailsUpdateCart: func() error {
			_, err := c.UpdateCart(ctx, &UpdateCartRequest{})
			return err
		},
		detailsGetCartItems: func() error {
			_, err := c.GetCartItems(ctx, &UserIDRequest{})
			return err
		},
		detailsClearCart: func() error {
			_, err := c.ClearCart(ctx, &UserIDRequest{})
			return err
		},
		detailsAddPromo: func() error {
			_, err := c.AddPromoCode(ctx, &PromoCodeRequest{})
			return err
		},
		detailsRetrievePromos: func() error {
			_, err := c.RetrievePromoCodes(ctx, &UserIDRequest{})
			return err
		},
		detailsRemovePromo: func() error {
			_, err := c.RemovePromoCode(ctx, &PromoCodeRequest{})
			return err
		},
	}

	for details, call := range calls {
		t.Run(details, func(t *testing.T) {
			wantStatus(t, call(), codes.Internal, details)
		})
	}
}

func TestAccountServer_ErrorLogNamesCaller(t *testing.T) {
	var logs bytes.Buffer
	v, err := token.NewVerifier(testSecret)
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}
	issuer, err := token.NewIssuer(testSecret, 0)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	conn := serve(t, func(s *grpc.Server) {
		RegisterAccountServer(s, NewAccountServer(brokenAccounts{}, zerolog.New(&logs)))
	}, middleware.Auth(v, AccountPolicy()))

	tok, err := issuer.Mint("root", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	_, err = NewAccountClient(conn).ListUsers(middleware.WithBearer(context.Background(), tok), &ListUsersRequest{})
	wantStatus(t, err, codes.Internal, detailsListUsers)

	out := logs.String()
	if !strings.Contains(out, `"caller_id":"root"`) || !strings.Contains(out, errBoom.Error()) {
		t.Fatalf("expected the cause and caller in the log, got %q", out)
	}
}
