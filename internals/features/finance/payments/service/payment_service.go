package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	database "madrasa_backend/internals/databases"
	"madrasa_backend/internals/features/finance/payments/model"
	mosqueService "madrasa_backend/internals/features/mosques/service"
	studentService "madrasa_backend/internals/features/school/students/service"
	userModel "madrasa_backend/internals/features/users/accounts/model"
	viewsService "madrasa_backend/internals/features/views/service"
	"madrasa_backend/internals/helpers/apperr"
	helperAuth "madrasa_backend/internals/helpers/auth"
	"madrasa_backend/internals/helpers/dbtime"
)

const (
	MsgPaymentNotFound   = "payment not found"
	MsgPaymentNotPayable = "payment is not payable"
	MsgCheckoutDisabled  = "online payment is not configured"
)

type CreatePaymentInput struct {
	StudentID   uuid.UUID
	Amount      float64
	DueDate     string
	Description *string
}

type PaymentFilter struct {
	MosqueID   uuid.UUID
	StudentIDs []uuid.UUID // nil = semua murid tenant
	Status     *model.PaymentStatus
	Limit      int
	Offset     int
}

// PaymentView: payment + status efektif (overdue dihitung saat baca) + nama murid.
type PaymentView struct {
	model.Payment
	EffectiveStatus model.PaymentStatus
	StudentName     string
}

type Service struct {
	DB       *gorm.DB
	Retry    database.RetryPolicy
	Views    viewsService.Invalidator
	Provider Provider // nil → checkout dimatikan

	// shared secret untuk verifikasi signature notifikasi gateway
	ServerKey string

	Currency        string
	DefaultTimezone string
	Now             func() time.Time
}

func New(db *gorm.DB, retry database.RetryPolicy, views viewsService.Invalidator, provider Provider) *Service {
	return &Service{
		DB:       db,
		Retry:    retry,
		Views:    views,
		Provider: provider,
		Currency: "IDR",
		Now:      time.Now,
	}
}

func (s *Service) notify(mosqueID uuid.UUID) {
	viewsService.NotifyAsync(s.Views, viewsService.TenantKeys(mosqueID,
		viewsService.ViewAdminPayments, viewsService.ViewParentPayments, viewsService.ViewAdminDashboard)...)
}

// Today: hari kalender sekarang di timezone mosque.
func (s *Service) Today(ctx context.Context, mosqueID uuid.UUID) (time.Time, error) {
	loc, err := mosqueService.TenantLocation(ctx, s.DB, mosqueID, s.DefaultTimezone)
	if err != nil {
		return time.Time{}, err
	}
	return dbtime.DayKeyOf(s.Now(), loc), nil
}

/* =========================================================
   Admin
========================================================= */

func (s *Service) Create(ctx context.Context, actor helperAuth.Actor, in CreatePaymentInput) (*model.Payment, error) {
	if err := actor.Require(userModel.RoleAdmin); err != nil {
		return nil, err
	}
	if in.Amount <= 0 {
		return nil, apperr.Validation("amount must be greater than 0")
	}
	loc, err := mosqueService.TenantLocation(ctx, s.DB, actor.MosqueID, s.DefaultTimezone)
	if err != nil {
		return nil, err
	}
	due, err := dbtime.DayKey(in.DueDate, loc)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}

	tx := s.DB.WithContext(ctx)
	st, err := studentService.FindTenantStudent(tx, actor.MosqueID, in.StudentID)
	if err != nil {
		return nil, err
	}
	p := &model.Payment{
		PaymentMosqueID:    actor.MosqueID,
		PaymentStudentID:   st.StudentID,
		PaymentParentID:    st.StudentParentID,
		PaymentAmount:      in.Amount,
		PaymentCurrency:    s.Currency,
		PaymentDueDate:     due,
		PaymentDescription: in.Description,
		PaymentStatus:      model.PaymentStatusPending,
	}
	if err := tx.Create(p).Error; err != nil {
		return nil, database.MapDBError(pkgerrors.Wrap(err, "create payment"))
	}
	log.Printf("[INFO] payment created id=%s student=%s amount=%.2f", p.PaymentID, st.StudentID, p.PaymentAmount)
	s.notify(actor.MosqueID)
	return p, nil
}

// List: filter status memakai status efektif (pending ≠ overdue).
func (s *Service) List(ctx context.Context, f PaymentFilter, today time.Time) ([]PaymentView, int64, error) {
	if f.StudentIDs != nil && len(f.StudentIDs) == 0 {
		return []PaymentView{}, 0, nil
	}
	q := s.DB.WithContext(ctx).Model(&model.Payment{}).Where("payment_mosque_id = ?", f.MosqueID)
	if f.StudentIDs != nil {
		q = q.Where("payment_student_id IN ?", f.StudentIDs)
	}
	if f.Status != nil {
		switch *f.Status {
		case model.PaymentStatusOverdue:
			q = q.Where("(payment_status = ? OR (payment_status = ? AND payment_due_date < ?))",
				model.PaymentStatusOverdue, model.PaymentStatusPending, today)
		case model.PaymentStatusPending:
			q = q.Where("payment_status = ? AND payment_due_date >= ?", model.PaymentStatusPending, today)
		default:
			q = q.Where("payment_status = ?", *f.Status)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, database.MapDBError(err)
	}
	var rows []model.Payment
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Order("payment_due_date DESC, payment_created_at DESC").Find(&rows).Error; err != nil {
		return nil, 0, database.MapDBError(err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.PaymentStudentID)
	}
	names, err := studentService.StudentNames(ctx, s.DB, f.MosqueID, ids)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PaymentView, 0, len(rows))
	for _, r := range rows {
		out = append(out, PaymentView{
			Payment:         r,
			EffectiveStatus: r.EffectiveStatus(today),
			StudentName:     names[r.PaymentStudentID],
		})
	}
	return out, total, nil
}

/* =========================================================
   Parent: checkout
========================================================= */

func (s *Service) findParentPayment(tx *gorm.DB, actor helperAuth.Actor, paymentID uuid.UUID) (*model.Payment, error) {
	var p model.Payment
	err := tx.Where("payment_id = ?", paymentID).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Hidden(MsgPaymentNotFound)
	}
	if err != nil {
		return nil, database.MapDBError(err)
	}
	if err := actor.EnsureTenant(p.PaymentMosqueID, "payment"); err != nil {
		return nil, err
	}
	// tagihan anak orang lain = tidak ada
	if p.PaymentParentID == nil || *p.PaymentParentID != actor.UserID {
		return nil, apperr.Hidden(MsgPaymentNotFound)
	}
	return &p, nil
}

// Checkout: buat sesi pembayaran di gateway untuk tagihan anak sendiri.
// Gateway dipanggil di luar transaksi; hasilnya disimpan hanya kalau payment masih terbuka.
func (s *Service) Checkout(ctx context.Context, actor helperAuth.Actor, paymentID uuid.UUID, successURL, cancelURL string) (*model.Payment, error) {
	if err := actor.Require(userModel.RoleParent); err != nil {
		return nil, err
	}
	if s.Provider == nil {
		return nil, apperr.Validation(MsgCheckoutDisabled)
	}

	tx := s.DB.WithContext(ctx)
	p, err := s.findParentPayment(tx, actor, paymentID)
	if err != nil {
		return nil, err
	}
	if !p.IsOpen() {
		return nil, apperr.Conflict(MsgPaymentNotPayable)
	}
	var parent userModel.UserModel
	if err := tx.Where("user_id = ?", actor.UserID).Take(&parent).Error; err != nil {
		return nil, database.MapDBError(err)
	}

	orderID := NewOrderID(p.PaymentID, s.Now())
	desc := ""
	if p.PaymentDescription != nil {
		desc = *p.PaymentDescription
	}
	req := CheckoutRequest{
		OrderID:           orderID,
		PaymentID:         p.PaymentID,
		Amount:            p.PaymentAmount,
		Currency:          p.PaymentCurrency,
		Description:       desc,
		SuccessURL:        successURL,
		CancelURL:         cancelURL,
		CustomerFirstName: parent.UserFirstName,
		CustomerLastName:  parent.UserLastName,
		CustomerEmail:     parent.UserEmail,
	}
	if parent.UserPhone != nil {
		req.CustomerPhone = *parent.UserPhone
	}

	sess, err := s.Provider.CreateCheckout(ctx, req)
	if err != nil {
		log.Printf("[ERROR] checkout %s via %s: %v", p.PaymentID, s.Provider.Name(), err)
		return nil, apperr.Fatal(pkgerrors.Wrap(err, "create checkout"))
	}

	res := tx.Model(&model.Payment{}).
		Where("payment_id = ? AND payment_status IN ?", p.PaymentID,
			[]model.PaymentStatus{model.PaymentStatusPending, model.PaymentStatusOverdue}).
		Updates(map[string]any{
			"payment_external_id":    orderID,
			"payment_checkout_url":   sess.URL,
			"payment_checkout_token": sess.Token,
		})
	if res.Error != nil {
		return nil, database.MapDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Conflict(MsgPaymentNotPayable)
	}
	p.PaymentExternalID = &orderID
	p.PaymentCheckoutURL = &sess.URL
	p.PaymentCheckoutToken = &sess.Token
	log.Printf("[INFO] checkout created payment=%s order=%s provider=%s", p.PaymentID, orderID, s.Provider.Name())
	return p, nil
}

func trimLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
