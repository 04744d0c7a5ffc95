package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"harvesthaven/internal/config"
	"harvesthaven/internal/domain"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testDraft() *domain.SubmissionDraft {
	form := domain.DefaultSubmissionForm()
	form.Name = "Mango Orchard Farm"
	return &domain.SubmissionDraft{ID: "draft-1", OwnerID: "user-1", Stage: domain.StagePayment, Form: form}
}

func TestUPIGateway_BeginBuildsIntent(t *testing.T) {
	g := NewUPIGateway("harvesthaven@upi", "Harvest Haven", 499, zap.NewNop())

	ins, err := g.Begin(context.Background(), testDraft())
	require.NoError(t, err)

	assert.Equal(t, "upi", ins.Method)
	assert.Equal(t, 499, ins.Amount)
	assert.Equal(t, "INR", ins.Currency)

	u, err := url.Parse(ins.URI)
	require.NoError(t, err)
	assert.Equal(t, "upi", u.Scheme)
	assert.Equal(t, "pay", u.Host)
	q := u.Query()
	assert.Equal(t, "harvesthaven@upi", q.Get("pa"))
	assert.Equal(t, "Harvest Haven", q.Get("pn"))
	assert.Equal(t, "499.00", q.Get("am"))
	assert.Equal(t, "INR", q.Get("cu"))
	assert.Equal(t, "Listing fee: Mango Orchard Farm", q.Get("tn"))
	assert.Equal(t, "draft-1", q.Get("tr"))
}

func TestUPIGateway_VerifyTrustsReference(t *testing.T) {
	g := NewUPIGateway("x@upi", "X", 10, zap.NewNop())

	ok, err := g.Verify(context.Background(), "UPI123456789012")
	require.NoError(t, err)
	assert.True(t, ok)
}

func newCheckoutServer(t *testing.T, handler http.HandlerFunc) *CheckoutGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewCheckoutGateway(CheckoutOptions{
		BaseURL:    srv.URL,
		KeyID:      "key_test",
		KeySecret:  "secret_test",
		ListingFee: 499,
		HTTPClient: srv.Client(),
	}, zap.NewNop())
}

func TestCheckoutGateway_BeginCreatesOrder(t *testing.T) {
	g := newCheckoutServer(t, func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key_test", user)
		assert.Equal(t, "secret_test", pass)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		var req createOrderRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 49900, req.Amount)
		assert.Equal(t, "draft-1", req.Receipt)

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(orderResponse{ID: "order_abc", Amount: 49900, Currency: "INR", Status: "created"})
	})

	ins, err := g.Begin(context.Background(), testDraft())
	require.NoError(t, err)
	assert.Equal(t, "checkout", ins.Method)
	assert.Equal(t, "order_abc", ins.OrderID)
	assert.Equal(t, "key_test", ins.CheckoutKey)
	assert.Equal(t, 499, ins.Amount)
}

func TestCheckoutGateway_Verify(t *testing.T) {
	g := newCheckoutServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/payments/pay_captured001":
			_ = json.NewEncoder(w).Encode(paymentResponse{ID: "pay_captured001", Status: "captured"})
		case "/v1/payments/pay_authorized01":
			_ = json.NewEncoder(w).Encode(paymentResponse{ID: "pay_authorized01", Status: "authorized"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	ok, err := g.Verify(ctx, "pay_captured001")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = g.Verify(ctx, "pay_authorized01")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = g.Verify(ctx, "pay_unknown00001")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckoutGateway_BreakerOpensAfterServerErrors(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	g := NewCheckoutGateway(CheckoutOptions{
		BaseURL:    srv.URL,
		KeyID:      "k",
		KeySecret:  "s",
		ListingFee: 499,
		HTTPClient: srv.Client(),
		Breaker: &gobreaker.Settings{
			Name:    "checkout-test",
			Timeout: time.Minute,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 2
			},
		},
	}, zap.NewNop())

	for i := 0; i < 4; i++ {
		_, err := g.Verify(context.Background(), "pay_whatever0001")
		assert.ErrorIs(t, err, ErrGatewayUnavailable)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestNew_SelectsProvider(t *testing.T) {
	g, err := New(config.PaymentConfig{Provider: config.PaymentUPI, UPIVPA: "a@upi", ListingFee: 1}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &UPIGateway{}, g)

	g, err = New(config.PaymentConfig{Provider: config.PaymentCheckout, CheckoutBaseURL: "http://x", CheckoutTimeout: time.Second, ListingFee: 1}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &CheckoutGateway{}, g)

	_, err = New(config.PaymentConfig{Provider: "cash"}, zap.NewNop())
	assert.Error(t, err)
}
