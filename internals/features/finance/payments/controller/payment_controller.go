package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"madrasa_backend/internals/features/finance/payments/dto"
	"madrasa_backend/internals/features/finance/payments/model"
	"madrasa_backend/internals/features/finance/payments/service"
	studentService "madrasa_backend/internals/features/school/students/service"
	helper "madrasa_backend/internals/helpers"
	"madrasa_backend/internals/helpers/apperr"
	helperAuth "madrasa_backend/internals/helpers/auth"
)

type PaymentController struct {
	Svc       *service.Service
	PublicURL string
}

func NewPaymentController(svc *service.Service, publicURL string) *PaymentController {
	return &PaymentController{Svc: svc, PublicURL: strings.TrimRight(publicURL, "/")}
}

func parseStatus(c *fiber.Ctx) (*model.PaymentStatus, error) {
	raw := strings.ToLower(strings.TrimSpace(c.Query("status")))
	if raw == "" {
		return nil, nil
	}
	st, ok := model.ParsePaymentStatus(raw)
	if !ok {
		return nil, apperr.Validationf("invalid status %q", raw)
	}
	return &st, nil
}

func (h *PaymentController) list(c *fiber.Ctx, f service.PaymentFilter) error {
	p := helper.ResolvePaging(c, 20, 100)
	f.Limit, f.Offset = p.Limit, p.Offset

	today, err := h.Svc.Today(c.UserContext(), f.MosqueID)
	if err != nil {
		return helper.FromError(c, err)
	}
	rows, total, err := h.Svc.List(c.UserContext(), f, today)
	if err != nil {
		return helper.FromError(c, err)
	}
	pg := helper.BuildPagination(total, p, len(rows))
	return helper.JsonList(c, "ok", dto.FromViews(rows), &pg)
}

// ===================== ADMIN =====================

// POST /api/a/payments
func (h *PaymentController) Create(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreatePaymentRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return helper.FromError(c, err)
	}
	p, err := h.Svc.Create(c.UserContext(), actor, req.ToInput())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "payment created", dto.FromView(service.PaymentView{
		Payment:         *p,
		EffectiveStatus: p.PaymentStatus,
	}))
}

// GET /api/a/payments?status=&student_id=
func (h *PaymentController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	st, err := parseStatus(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	studentID, err := helper.ParseUUIDQuery(c, "student_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	f := service.PaymentFilter{MosqueID: actor.MosqueID, Status: st}
	if studentID != nil {
		f.StudentIDs = []uuid.UUID{*studentID}
	}
	return h.list(c, f)
}

// ===================== PARENT =====================

// GET /api/p/payments?status=&student_id=
func (h *PaymentController) MyPayments(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	st, err := parseStatus(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	only, err := helper.ParseUUIDQuery(c, "student_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	ids, err := studentService.ChildIDs(c.UserContext(), h.Svc.DB, actor, only)
	if err != nil {
		return helper.FromError(c, err)
	}
	return h.list(c, service.PaymentFilter{MosqueID: actor.MosqueID, StudentIDs: ids, Status: st})
}

// POST /api/p/payments/:id/checkout
func (h *PaymentController) Checkout(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CheckoutRequest
	if len(c.Body()) > 0 {
		if err := helper.BindAndValidate(c, &req); err != nil {
			return helper.FromError(c, err)
		}
	}
	if req.SuccessURL == "" {
		req.SuccessURL = h.PublicURL + "/payments/success"
	}
	if req.CancelURL == "" {
		req.CancelURL = h.PublicURL + "/payments/cancel"
	}

	p, err := h.Svc.Checkout(c.UserContext(), actor, id, req.SuccessURL, req.CancelURL)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "checkout created", dto.CheckoutResponse{
		URL:     *p.PaymentCheckoutURL,
		OrderID: *p.PaymentExternalID,
	})
}

// ===================== PUBLIC =====================

// POST /api/payments/notification
func (h *PaymentController) Notification(c *fiber.Ctx) error {
	var n service.Notification
	if err := c.BodyParser(&n); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	headers := map[string]string{}
	for k, v := range c.GetReqHeaders() {
		headers[k] = strings.Join(v, ",")
	}
	res, err := h.Svc.HandleNotification(c.UserContext(), n, headers)
	if err != nil {
		return helper.FromError(c, err)
	}
	return c.JSON(res)
}
