package routes_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"madrasa_backend/internals/configs"
	database "madrasa_backend/internals/databases"
	"madrasa_backend/internals/databases/dbtest"
	paymentService "madrasa_backend/internals/features/finance/payments/service"
	attendanceModel "madrasa_backend/internals/features/school/attendance/model"
	userModel "madrasa_backend/internals/features/users/accounts/model"
	helperAuth "madrasa_backend/internals/helpers/auth"
	routes "madrasa_backend/internals/route"
)

const testSecret = "route-test-secret"

func newApp(t *testing.T, db *gorm.DB) *fiber.App {
	t.Helper()
	return routes.NewApp(routes.Deps{
		DB: db,
		Config: configs.Config{
			AppEnv:          "test",
			CORSOrigins:     []string{"http://localhost:5173"},
			JWTSecret:       testSecret,
			DefaultTimezone: "UTC",
			PublicURL:       "http://localhost:3000",
			Midtrans:        configs.MidtransConfig{ServerKey: "server-key", Currency: "IDR"},
		},
		Retry:     database.RetryPolicy{MaxAttempts: 1, IsRetryable: database.IsTransient},
		Payments:  &paymentService.FakeProvider{BaseURL: "http://pay.local"},
		AccessLog: io.Discard,
	})
}

func tokenFor(t *testing.T, u userModel.UserModel) string {
	t.Helper()
	tok, err := helperAuth.SignAccessToken(testSecret, dbtest.ActorOf(u), time.Hour)
	require.NoError(t, err)
	return tok
}

func do(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = sonic.Unmarshal(raw, &out)
	}
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	db := dbtest.Open(t)
	app := newApp(t, db)

	code, _ := do(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestRoleGroups(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "r", 1)
	app := newApp(t, db)

	t.Run("no token", func(t *testing.T) {
		code, body := do(t, app, http.MethodGet, "/api/a/dashboard", "", nil)
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, false, body["success"])
	})
	t.Run("teacher on admin group", func(t *testing.T) {
		code, _ := do(t, app, http.MethodGet, "/api/a/dashboard", tokenFor(t, s.Teacher), nil)
		assert.Equal(t, http.StatusUnauthorized, code)
	})
	t.Run("admin dashboard", func(t *testing.T) {
		code, body := do(t, app, http.MethodGet, "/api/a/dashboard", tokenFor(t, s.Admin), nil)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, true, body["success"])
	})
	t.Run("bad signature", func(t *testing.T) {
		tok, err := helperAuth.SignAccessToken("other-secret", dbtest.ActorOf(s.Admin), time.Hour)
		require.NoError(t, err)
		code, _ := do(t, app, http.MethodGet, "/api/a/dashboard", tok, nil)
		assert.Equal(t, http.StatusUnauthorized, code)
	})
}

func TestRecordAttendanceHTTP(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "h", 2)
	other := dbtest.NewSchool(t, db, "x", 1)
	app := newApp(t, db)
	date := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	body := map[string]any{
		"class_id": s.Class.ClassGroupID,
		"date":     date,
		"records": []map[string]any{
			{"student_id": s.Students[0].StudentID, "status": "present"},
			{"student_id": s.Students[1].StudentID, "status": "absent"},
		},
	}
	code, resp := do(t, app, http.MethodPost, "/api/t/attendance", tokenFor(t, s.Teacher), body)
	require.Equal(t, http.StatusCreated, code, resp)
	assert.Equal(t, true, resp["success"])
	data, ok := resp["data"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, data["records"], 2)

	var n int64
	require.NoError(t, db.Model(&attendanceModel.AttendanceRecordModel{}).Count(&n).Error)
	assert.EqualValues(t, 2, n)

	t.Run("class of another teacher", func(t *testing.T) {
		body := map[string]any{
			"class_id": other.Class.ClassGroupID,
			"date":     date,
			"records":  []map[string]any{{"student_id": other.Students[0].StudentID, "status": "present"}},
		}
		code, _ := do(t, app, http.MethodPost, "/api/t/attendance", tokenFor(t, s.Teacher), body)
		assert.Equal(t, http.StatusNotFound, code)
	})
	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/t/attendance", bytes.NewBufferString("{"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tokenFor(t, s.Teacher))
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestPaymentNotificationIsPublic(t *testing.T) {
	db := dbtest.Open(t)
	app := newApp(t, db)

	// tanpa token, signature salah → 401 dari handler, bukan dari AuthJWT
	code, body := do(t, app, http.MethodPost, "/api/payments/notification", "", map[string]any{
		"order_id":           "nope",
		"status_code":        "200",
		"gross_amount":       "1000.00",
		"signature_key":      "bad",
		"transaction_status": "settlement",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid signature", body["message"])

	// order tak dikenal dengan signature valid → 200 ignored
	sig := paymentService.Signature("nope", "200", "1000.00", "server-key")
	code, _ = do(t, app, http.MethodPost, "/api/payments/notification", "", map[string]any{
		"order_id":           "nope",
		"status_code":        "200",
		"gross_amount":       "1000.00",
		"signature_key":      sig,
		"transaction_status": "settlement",
	})
	assert.Equal(t, http.StatusOK, code)
}

func TestNewAppWithoutExplicitOrigins(t *testing.T) {
	db := dbtest.Open(t)
	for _, origins := range [][]string{nil, {"*"}} {
		assert.NotPanics(t, func() {
			app := routes.NewApp(routes.Deps{
				DB:     db,
				Config: configs.Config{CORSOrigins: origins, JWTSecret: testSecret, DefaultTimezone: "UTC"},
			})
			code, _ := do(t, app, http.MethodGet, "/health", "", nil)
			assert.Equal(t, http.StatusOK, code)
		}, "%v", origins)
	}
}
