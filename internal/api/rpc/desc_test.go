package rpc

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"

	"github.com/cloudmart/accounts/internal/api/metrics"
	"github.com/cloudmart/accounts/internal/core/service"
	"github.com/cloudmart/accounts/internal/infrastructure/db/memory"
	"github.com/cloudmart/accounts/internal/validation"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestMalformedRequest_IsInvalidArgument(t *testing.T) {
	var logs bytes.Buffer
	accounts := service.NewAccountService(memory.NewStore(), validation.New(), zerolog.Nop(),
		service.WithBcryptCost(bcrypt.MinCost))
	conn := serveWithLog(t, zerolog.New(&logs), func(s *grpc.Server) {
		RegisterAccountServer(s, NewAccountServer(accounts, zerolog.Nop()))
	})

	counter := metrics.RPCRequestsTotal.WithLabelValues("test", "UpdateCart", codes.InvalidArgument.String())
	before := counterValue(t, counter)

	req := map[string]any{
		"userId":   "64b7f1c2a1b2c3d4e5f60718",
		"itemId":   "i1",
		"itemName": "Pen",
		"price":    1.5,
		"quantity": 2.5,
	}
	var resp map[string]any
	err := conn.Invoke(context.Background(), FullMethod(AccountServiceName, "UpdateCart"),
		req, &resp, grpc.CallContentSubtype(CodecName))
	wantStatus(t, err, codes.InvalidArgument, detailsMalformed)

	if got := counterValue(t, counter); got != before+1 {
		t.Fatalf("expected the rejected call to be counted, got %v -> %v", before, got)
	}
	out := logs.String()
	if !strings.Contains(out, "cannot unmarshal") || !strings.Contains(out, `"code":"InvalidArgument"`) {
		t.Fatalf("expected the decode failure in the log, got %q", out)
	}
}

func TestMalformedRequest_WithoutInterceptor(t *testing.T) {
	cause := errors.New("bad json")
	desc := unary(AccountServiceName, "UpdateCart", (*AccountServer).UpdateCart)

	_, err := desc.Handler(&AccountServer{}, context.Background(), func(any) error { return cause }, nil)

	wantStatus(t, err, codes.InvalidArgument, detailsMalformed)
	if !errors.Is(err, cause) {
		t.Fatalf("expected the decode cause to be kept, got %v", err)
	}
}
