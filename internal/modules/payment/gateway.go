package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"harvesthaven/internal/config"
	"harvesthaven/internal/domain"

	"go.uber.org/zap"
)

const currencyINR = "INR"

var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// Gateway collects the listing fee for a submission and later confirms a payment reference.
type Gateway interface {
	Name() string
	// Begin returns what the host needs to pay: a UPI intent or a hosted checkout order.
	Begin(ctx context.Context, draft *domain.SubmissionDraft) (*domain.PaymentInstructions, error)
	// Verify reports whether reference identifies a completed payment.
	Verify(ctx context.Context, reference string) (bool, error)
}

// New picks the gateway named by cfg.Provider.
func New(cfg config.PaymentConfig, log *zap.Logger) (Gateway, error) {
	switch cfg.Provider {
	case config.PaymentUPI:
		return NewUPIGateway(cfg.UPIVPA, cfg.UPIPayeeName, cfg.ListingFee, log), nil
	case config.PaymentCheckout:
		client := &http.Client{Timeout: cfg.CheckoutTimeout}
		return NewCheckoutGateway(CheckoutOptions{
			BaseURL:    cfg.CheckoutBaseURL,
			KeyID:      cfg.CheckoutKeyID,
			KeySecret:  cfg.CheckoutKeySecret,
			ListingFee: cfg.ListingFee,
			HTTPClient: client,
		}, log), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", cfg.Provider)
	}
}
