package service

import (
	"context"
	"errors"
	"math"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	pkgerrors "github.com/pkg/errors"

	"madrasa_backend/internals/features/finance/payments/model"
)

/* =========================================================
   Midtrans Snap
========================================================= */

type MidtransProvider struct {
	client snap.Client
}

// NewMidtransProvider: useProduction=false → Sandbox.
func NewMidtransProvider(serverKey string, useProduction bool) *MidtransProvider {
	p := &MidtransProvider{}
	if useProduction {
		p.client.New(serverKey, midtrans.Production)
	} else {
		p.client.New(serverKey, midtrans.Sandbox)
	}
	return p
}

func (p *MidtransProvider) Name() model.PaymentGatewayProvider {
	return model.GatewayProviderMidtrans
}

func (p *MidtransProvider) CreateCheckout(_ context.Context, r CheckoutRequest) (*CheckoutSession, error) {
	req, err := buildSnapRequest(r)
	if err != nil {
		return nil, err
	}
	resp, mErr := p.client.CreateTransaction(req)
	if mErr != nil {
		return nil, pkgerrors.Wrap(mErr, "midtrans create transaction")
	}
	return &CheckoutSession{Token: resp.Token, URL: resp.RedirectURL}, nil
}

// buildSnapRequest: CheckoutRequest → snap.Request.
// Snap hanya punya satu redirect (Finish); halaman batal ditangani di halaman finish via status.
func buildSnapRequest(r CheckoutRequest) (*snap.Request, error) {
	if r.Amount <= 0 {
		return nil, errors.New("invalid amount")
	}
	if r.OrderID == "" {
		return nil, errors.New("order id is required")
	}
	gross := int64(math.Round(r.Amount))

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  r.OrderID,
			GrossAmt: gross,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: r.CustomerFirstName,
			LName: r.CustomerLastName,
			Email: r.CustomerEmail,
			Phone: r.CustomerPhone,
		},
		CreditCard: &snap.CreditCardDetails{Secure: true},
		// metadata: payment id ikut balik di notifikasi
		CustomField1: r.PaymentID.String(),
	}
	if r.SuccessURL != "" {
		req.Callbacks = &snap.Callbacks{Finish: r.SuccessURL}
	}
	req.Items = &[]midtrans.ItemDetails{
		{
			ID:       r.PaymentID.String(),
			Price:    gross,
			Qty:      1,
			Name:     truncate(firstNonEmpty(r.Description, "School fee"), 50),
			Category: "SPP",
		},
	}
	return req, nil
}

// truncate: maksimal n byte, dipotong di batas rune supaya tetap UTF-8 valid.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	cut := 0
	for i := range s {
		if i > n {
			break
		}
		cut = i
	}
	return s[:cut]
}

func firstNonEmpty(s, def string) string {
	if s != "" {
		return s
	}
	return def
}
