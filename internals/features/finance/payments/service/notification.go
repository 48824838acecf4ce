package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	database "madrasa_backend/internals/databases"
	"madrasa_backend/internals/features/finance/payments/model"
	"madrasa_backend/internals/helpers/apperr"
)

const MsgInvalidSignature = "invalid signature"

// Notification: payload HTTP notification Midtrans (field lain diabaikan).
type Notification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"` // capture, settlement, pending, deny, cancel, expire, refund, failure
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"` // accept / challenge / deny
	TransactionID     string `json:"transaction_id"`
	CustomField1      string `json:"custom_field1"`
}

// hasil proses notifikasi (dibalas ke gateway apa adanya)
const (
	NotificationPaid        = "paid"
	NotificationAlreadyPaid = "already_paid"
	NotificationRecorded    = "recorded"
	NotificationIgnored     = "ignored"
	NotificationRejected    = "rejected"
)

type NotificationResult struct {
	Status    string     `json:"status"`
	PaymentID *uuid.UUID `json:"payment_id,omitempty"`
	Reason    string     `json:"reason,omitempty"`
}

func (s *Service) VerifySignature(n Notification) bool {
	if s.ServerKey == "" || n.SignatureKey == "" {
		return false
	}
	want := Signature(n.OrderID, n.StatusCode, n.GrossAmount, s.ServerKey)
	got := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// HandleNotification: satu-satunya jalur yang menulis status "paid".
// Signature invalid → 401 tanpa menulis apa pun. Order yang tidak dikenal dicatat lalu diabaikan.
// Payment yang sudah paid tidak pernah diturunkan statusnya.
func (s *Service) HandleNotification(ctx context.Context, n Notification, headers map[string]string) (*NotificationResult, error) {
	if !s.VerifySignature(n) {
		log.Printf("[WARN] payment notification with invalid signature order=%q", n.OrderID)
		return nil, apperr.Unauthorized(MsgInvalidSignature)
	}

	headersJSON := eventJSON("headers", headers)
	payloadJSON := eventJSON("payload", n)

	var out NotificationResult
	err := s.Retry.Transaction(ctx, s.DB, "payment-notification", func(tx *gorm.DB) error {
		out = NotificationResult{}
		now := s.Now()
		ev := model.PaymentGatewayEventModel{
			GatewayEventProvider:    model.GatewayProviderMidtrans,
			GatewayEventType:        strPtr(trimLower(n.TransactionStatus)),
			GatewayEventExternalID:  strPtr(n.OrderID),
			GatewayEventExternalRef: strPtr(n.TransactionID),
			GatewayEventHeaders:     headersJSON,
			GatewayEventPayload:     payloadJSON,
			GatewayEventSignature:   strPtr(n.SignatureKey),
			GatewayEventReceivedAt:  now,
			GatewayEventProcessedAt: &now,
		}

		var p model.Payment
		pid, ok := PaymentIDFromOrder(n.OrderID)
		if ok {
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("payment_id = ?", pid).Take(&p).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ok = false
			} else if err != nil {
				return database.MapDBError(pkgerrors.Wrap(err, "load payment"))
			}
		}
		if !ok {
			ev.GatewayEventStatus = model.GatewayEventIgnored
			ev.GatewayEventError = strPtr("payment not found for order_id=" + n.OrderID)
			out = NotificationResult{Status: NotificationIgnored, Reason: "payment not found"}
			return database.MapDBError(tx.Create(&ev).Error)
		}

		ev.GatewayEventMosqueID = &p.PaymentMosqueID
		ev.GatewayEventPaymentID = &p.PaymentID
		out.PaymentID = &p.PaymentID
		ev.GatewayEventStatus = model.GatewayEventProcessed

		switch {
		case !IsSettled(n.TransactionStatus, n.FraudStatus):
			out.Status = NotificationRecorded
		case p.IsPaid():
			out.Status = NotificationAlreadyPaid
		case !sameAmount(n.GrossAmount, p.PaymentAmount):
			ev.GatewayEventStatus = model.GatewayEventFailed
			ev.GatewayEventError = strPtr("gross_amount " + n.GrossAmount + " does not match payment amount")
			out.Status = NotificationRejected
			out.Reason = "amount mismatch"
		default:
			if err := tx.Model(&model.Payment{}).Where("payment_id = ?", p.PaymentID).
				Updates(map[string]any{
					"payment_status":            model.PaymentStatusPaid,
					"payment_paid_at":           now,
					"payment_gateway_reference": strPtr(n.TransactionID),
					"payment_external_id":       n.OrderID,
				}).Error; err != nil {
				return database.MapDBError(pkgerrors.Wrap(err, "mark payment paid"))
			}
			out.Status = NotificationPaid
		}
		return database.MapDBError(tx.Create(&ev).Error)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] payment notification order=%s status=%s result=%s", n.OrderID, n.TransactionStatus, out.Status)
	if out.Status == NotificationPaid {
		var p model.Payment
		if err := s.DB.WithContext(ctx).Select("payment_id", "payment_mosque_id").
			Where("payment_id = ?", *out.PaymentID).Take(&p).Error; err == nil {
			s.notify(p.PaymentMosqueID)
		}
	}
	return &out, nil
}

func sameAmount(gross string, amount float64) bool {
	v, err := strconv.ParseFloat(strings.TrimSpace(gross), 64)
	if err != nil {
		return false
	}
	return math.Abs(v-math.Round(amount)) < 0.01 || math.Abs(v-amount) < 0.01
}

// eventJSON: gagal marshal tidak boleh menggagalkan notifikasi; kolom diisi "{}".
func eventJSON(what string, v any) datatypes.JSON {
	b, err := sonic.Marshal(v)
	if err != nil || len(b) == 0 {
		log.Printf("[WARN] payment notification: marshal %s: %v", what, err)
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(b)
}
