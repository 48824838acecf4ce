package service

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"madrasa_backend/internals/features/finance/payments/model"
)

// FakeProvider: gateway lokal untuk test & development tanpa server key.
// URL checkout mengarah ke BaseURL; Err (kalau di-set) dikembalikan apa adanya.
type FakeProvider struct {
	BaseURL string
	Err     error

	mu    sync.Mutex
	calls []CheckoutRequest
}

func (f *FakeProvider) Name() model.PaymentGatewayProvider {
	return model.GatewayProviderFake
}

func (f *FakeProvider) CreateCheckout(_ context.Context, r CheckoutRequest) (*CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.calls = append(f.calls, r)
	return &CheckoutSession{
		Token: "fake-" + uuid.NewString(),
		URL:   strings.TrimRight(f.BaseURL, "/") + "/fake-checkout/" + r.OrderID,
	}, nil
}

func (f *FakeProvider) Calls() []CheckoutRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CheckoutRequest(nil), f.calls...)
}
