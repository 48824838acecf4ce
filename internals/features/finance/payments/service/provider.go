package service

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"madrasa_backend/internals/features/finance/payments/model"
)

// CheckoutRequest: data minimal yang dikirim ke gateway.
type CheckoutRequest struct {
	OrderID     string
	PaymentID   uuid.UUID
	Amount      float64
	Currency    string
	Description string
	SuccessURL  string
	CancelURL   string

	CustomerFirstName string
	CustomerLastName  string
	CustomerEmail     string
	CustomerPhone     string
}

type CheckoutSession struct {
	Token string
	URL   string
}

// Provider: payment gateway (Midtrans Snap di produksi, FakeProvider di test/dev).
type Provider interface {
	Name() model.PaymentGatewayProvider
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

// NewOrderID: "<payment_id>-<base36 unix>" (≤ 50 char, batas order_id Midtrans).
// Tiap checkout dapat order_id baru; payment_id selalu bisa dibaca dari prefix.
func NewOrderID(paymentID uuid.UUID, now time.Time) string {
	return paymentID.String() + "-" + strconv.FormatInt(now.Unix(), 36)
}

// PaymentIDFromOrder: kebalikan NewOrderID.
func PaymentIDFromOrder(orderID string) (uuid.UUID, bool) {
	orderID = strings.TrimSpace(orderID)
	if len(orderID) < 36 {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(orderID[:36])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Signature Midtrans: SHA512(order_id + status_code + gross_amount + server_key), hex lowercase.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(h[:])
}

// IsSettled: settlement, atau capture yang lolos fraud check.
func IsSettled(transactionStatus, fraudStatus string) bool {
	ts := strings.ToLower(strings.TrimSpace(transactionStatus))
	fraud := strings.ToLower(strings.TrimSpace(fraudStatus))
	switch ts {
	case "settlement":
		return true
	case "capture":
		return fraud == "accept"
	}
	return false
}
