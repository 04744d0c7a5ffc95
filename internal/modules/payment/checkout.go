package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"harvesthaven/internal/domain"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const statusCaptured = "captured"

type CheckoutOptions struct {
	BaseURL    string
	KeyID      string
	KeySecret  string
	ListingFee int
	HTTPClient *http.Client
	// Breaker overrides the default circuit breaker settings.
	Breaker *gobreaker.Settings
}

// CheckoutGateway talks to a hosted checkout provider over REST. Calls go through a
// circuit breaker; transport failures and 5xx responses count against it.
type CheckoutGateway struct {
	baseURL   string
	keyID     string
	keySecret string
	fee       int
	client    *http.Client
	cb        *gobreaker.CircuitBreaker
	log       *zap.Logger
}

func NewCheckoutGateway(opts CheckoutOptions, log *zap.Logger) *CheckoutGateway {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	settings := gobreaker.Settings{
		Name:    "checkout",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	if opts.Breaker != nil {
		settings = *opts.Breaker
	}
	settings.OnStateChange = func(name string, from gobreaker.State, to gobreaker.State) {
		log.Warn("circuit breaker state changed",
			zap.String("breaker", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}

	return &CheckoutGateway{
		baseURL:   opts.BaseURL,
		keyID:     opts.KeyID,
		keySecret: opts.KeySecret,
		fee:       opts.ListingFee,
		client:    client,
		cb:        gobreaker.NewCircuitBreaker(settings),
		log:       log,
	}
}

func (g *CheckoutGateway) Name() string { return "checkout" }

func (g *CheckoutGateway) Begin(ctx context.Context, draft *domain.SubmissionDraft) (*domain.PaymentInstructions, error) {
	req := createOrderRequest{
		Amount:   g.fee * 100,
		Currency: currencyINR,
		Receipt:  draft.ID,
		Notes:    map[string]string{"owner_id": draft.OwnerID, "property": draft.Form.Name},
	}

	var order orderResponse
	status, err := g.call(ctx, http.MethodPost, "/v1/orders", req, &order)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, fmt.Errorf("create order: unexpected status %d", status)
	}

	return &domain.PaymentInstructions{
		Method:      g.Name(),
		Amount:      g.fee,
		Currency:    currencyINR,
		OrderID:     order.ID,
		CheckoutKey: g.keyID,
	}, nil
}

func (g *CheckoutGateway) Verify(ctx context.Context, reference string) (bool, error) {
	var p paymentResponse
	status, err := g.call(ctx, http.MethodGet, "/v1/payments/"+url.PathEscape(reference), nil, &p)
	if err != nil {
		return false, err
	}

	switch status {
	case http.StatusOK:
		if p.Status != statusCaptured {
			g.log.Info("checkout payment not captured", zap.String("reference", reference), zap.String("status", p.Status))
		}
		return p.Status == statusCaptured, nil
	case http.StatusNotFound, http.StatusBadRequest:
		return false, nil
	default:
		return false, fmt.Errorf("verify payment: unexpected status %d", status)
	}
}

// call runs one request through the breaker and decodes a 2xx body into out.
func (g *CheckoutGateway) call(ctx context.Context, method, path string, body any, out any) (int, error) {
	res, err := g.cb.Execute(func() (interface{}, error) {
		var rdr io.Reader
		if body != nil {
			raw, err := json.Marshal(body)
			if err != nil {
				return nil, err
			}
			rdr = bytes.NewReader(raw)
		}

		req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, rdr)
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(g.keyID, g.keySecret)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := g.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("checkout %s %s: status %d", method, path, resp.StatusCode)
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 && out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return nil, fmt.Errorf("decode checkout response: %w", err)
			}
		}
		return resp.StatusCode, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return 0, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
		}
		g.log.Error("checkout request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return 0, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	return res.(int), nil
}
