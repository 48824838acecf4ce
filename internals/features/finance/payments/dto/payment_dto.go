package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"madrasa_backend/internals/features/finance/payments/service"
	helper "madrasa_backend/internals/helpers"
)

/* ===================== REQUESTS ===================== */

// POST /api/a/payments
type CreatePaymentRequest struct {
	StudentID   uuid.UUID `json:"student_id" validate:"required"`
	Amount      float64   `json:"amount" validate:"required,gt=0"`
	DueDate     string    `json:"due_date" validate:"required"`
	Description *string   `json:"description" validate:"omitempty,max=500"`
}

func (r CreatePaymentRequest) ToInput() service.CreatePaymentInput {
	return service.CreatePaymentInput{
		StudentID:   r.StudentID,
		Amount:      r.Amount,
		DueDate:     strings.TrimSpace(r.DueDate),
		Description: helper.TrimPtr(r.Description),
	}
}

// POST /api/p/payments/:id/checkout (body opsional)
type CheckoutRequest struct {
	SuccessURL string `json:"success_url" validate:"omitempty,url"`
	CancelURL  string `json:"cancel_url" validate:"omitempty,url"`
}

/* ===================== RESPONSES ===================== */

type PaymentResponse struct {
	ID          uuid.UUID  `json:"id"`
	StudentID   uuid.UUID  `json:"student_id"`
	StudentName string     `json:"student_name,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Amount      float64    `json:"amount"`
	Currency    string     `json:"currency"`
	DueDate     string     `json:"due_date"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status"`
	CheckoutURL *string    `json:"checkout_url,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func FromView(v service.PaymentView) PaymentResponse {
	r := PaymentResponse{
		ID:          v.PaymentID,
		StudentID:   v.PaymentStudentID,
		StudentName: v.StudentName,
		ParentID:    v.PaymentParentID,
		Amount:      v.PaymentAmount,
		Currency:    v.PaymentCurrency,
		DueDate:     v.PaymentDueDate.Format("2006-01-02"),
		Description: v.PaymentDescription,
		Status:      string(v.EffectiveStatus),
		PaidAt:      v.PaymentPaidAt,
		CreatedAt:   v.PaymentCreatedAt,
	}
	if v.IsOpen() {
		r.CheckoutURL = v.PaymentCheckoutURL
	}
	return r
}

func FromViews(rows []service.PaymentView) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(rows))
	for _, v := range rows {
		out = append(out, FromView(v))
	}
	return out
}

// Totals: ringkasan untuk dashboard admin.
type Totals struct {
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

type CheckoutResponse struct {
	URL     string `json:"url"`
	OrderID string `json:"order_id"`
}
