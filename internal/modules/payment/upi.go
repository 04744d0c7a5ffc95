package payment

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"harvesthaven/internal/domain"

	"go.uber.org/zap"
)

// UPIGateway renders a upi://pay intent for QR display. UPI offers no lookup API to
// a plain payee, so Verify accepts the host-supplied transaction reference as is.
type UPIGateway struct {
	vpa   string
	payee string
	fee   int
	log   *zap.Logger
}

func NewUPIGateway(vpa, payee string, fee int, log *zap.Logger) *UPIGateway {
	return &UPIGateway{vpa: vpa, payee: payee, fee: fee, log: log}
}

func (g *UPIGateway) Name() string { return "upi" }

func (g *UPIGateway) Begin(_ context.Context, draft *domain.SubmissionDraft) (*domain.PaymentInstructions, error) {
	return &domain.PaymentInstructions{
		Method:   g.Name(),
		Amount:   g.fee,
		Currency: currencyINR,
		URI:      g.intent(draft),
	}, nil
}

func (g *UPIGateway) intent(draft *domain.SubmissionDraft) string {
	note := "Listing fee"
	if name := strings.TrimSpace(draft.Form.Name); name != "" {
		note = "Listing fee: " + name
	}

	q := url.Values{}
	q.Set("pa", g.vpa)
	q.Set("pn", g.payee)
	q.Set("am", fmt.Sprintf("%d.00", g.fee))
	q.Set("cu", currencyINR)
	q.Set("tn", note)
	q.Set("tr", draft.ID)
	return "upi://pay?" + q.Encode()
}

func (g *UPIGateway) Verify(_ context.Context, reference string) (bool, error) {
	g.log.Warn("upi payment reference accepted without verification", zap.String("reference", reference))
	return true, nil
}
