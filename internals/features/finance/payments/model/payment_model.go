package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/*
  payments = tagihan per murid (SPP / iuran).
  - Dibuat admin (status pending).
  - Status "paid" HANYA ditulis oleh webhook gateway yang signature-nya valid.
  - "overdue" dihitung saat dibaca (pending + due date lewat), lihat EffectiveStatus.
*/

type Payment struct {
	PaymentID          uuid.UUID     `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`
	PaymentMosqueID    uuid.UUID     `gorm:"column:payment_mosque_id;type:uuid;not null;index" json:"payment_mosque_id"`
	PaymentStudentID   uuid.UUID     `gorm:"column:payment_student_id;type:uuid;not null;index" json:"payment_student_id"`
	PaymentParentID    *uuid.UUID    `gorm:"column:payment_parent_id;type:uuid;index" json:"payment_parent_id"`
	PaymentAmount      float64       `gorm:"column:payment_amount;type:numeric(12,2);not null" json:"payment_amount"`
	PaymentCurrency    string        `gorm:"column:payment_currency;type:varchar(3);not null" json:"payment_currency"`
	PaymentDueDate     time.Time     `gorm:"column:payment_due_date;type:date;not null" json:"payment_due_date"`
	PaymentDescription *string       `gorm:"column:payment_description;type:text" json:"payment_description"`
	PaymentStatus      PaymentStatus `gorm:"column:payment_status;type:varchar(16);not null;index" json:"payment_status"`

	// order_id yang dikirim ke gateway (unik); diisi saat checkout pertama
	PaymentExternalID       *string `gorm:"column:payment_external_id;type:varchar(64);uniqueIndex:uq_payments_external_id" json:"payment_external_id"`
	PaymentGatewayReference *string `gorm:"column:payment_gateway_reference;type:varchar(128)" json:"payment_gateway_reference"`
	PaymentCheckoutURL      *string `gorm:"column:payment_checkout_url;type:text" json:"payment_checkout_url"`
	PaymentCheckoutToken    *string `gorm:"column:payment_checkout_token;type:text" json:"-"`

	PaymentPaidAt    *time.Time     `gorm:"column:payment_paid_at" json:"payment_paid_at"`
	PaymentCreatedAt time.Time      `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
	PaymentUpdatedAt time.Time      `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at"`
	PaymentDeletedAt gorm.DeletedAt `gorm:"column:payment_deleted_at;index" json:"-"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	if p.PaymentStatus == "" {
		p.PaymentStatus = PaymentStatusPending
	}
	return nil
}

func (p *Payment) IsPaid() bool {
	return p.PaymentStatus == PaymentStatusPaid
}

// IsOpen: masih bisa dibayar.
func (p *Payment) IsOpen() bool {
	return p.PaymentStatus == PaymentStatusPending || p.PaymentStatus == PaymentStatusOverdue
}

// EffectiveStatus: pending yang due date-nya (kalender) sudah lewat dibaca sebagai overdue.
func (p *Payment) EffectiveStatus(today time.Time) PaymentStatus {
	if p.PaymentStatus != PaymentStatusPending {
		return p.PaymentStatus
	}
	y, m, d := today.Date()
	todayKey := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	dy, dm, dd := p.PaymentDueDate.Date()
	due := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	if due.Before(todayKey) {
		return PaymentStatusOverdue
	}
	return PaymentStatusPending
}
