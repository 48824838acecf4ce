package routes

import (
	"io"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"madrasa_backend/internals/configs"
	database "madrasa_backend/internals/databases"
	paymentService "madrasa_backend/internals/features/finance/payments/service"
	userModel "madrasa_backend/internals/features/users/accounts/model"
	viewsService "madrasa_backend/internals/features/views/service"
	helper "madrasa_backend/internals/helpers"
	"madrasa_backend/internals/middlewares"
	authMiddleware "madrasa_backend/internals/middlewares/auth"
	routeDetails "madrasa_backend/internals/route/details"
)

var startTime time.Time

type Deps struct {
	DB        *gorm.DB
	Config    configs.Config
	Board     *viewsService.Board
	Retry     database.RetryPolicy
	Payments  paymentService.Provider // nil → checkout dimatikan
	AccessLog io.Writer
}

// NewApp: fiber app lengkap (middleware + semua route).
func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		ErrorHandler:            helper.ErrorHandler,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	middlewares.SetupMiddlewares(app, middlewares.Options{
		CORSOrigins:    d.Config.CORSOrigins,
		RequestTimeout: 5 * time.Second,
		AccessLog:      d.AccessLog,
		RateLimit:      d.Config.IsProduction(),
	})
	SetupRoutes(app, d)
	return app
}

func SetupRoutes(app *fiber.App, d Deps) {
	startTime = time.Now()
	if d.Board == nil {
		d.Board = viewsService.NewBoard()
	}
	ctl := routeDetails.NewControllers(d.DB, d.Config, d.Board, d.Retry, d.Payments)

	BaseRoutes(app, d.DB, d.Config.AppEnv)

	// ===================== PUBLIC =====================
	// harus sebelum group: prefix /api/a & /api/p juga cocok dengan /api/auth & /api/payments
	log.Println("[INFO] Setting up public routes (auth + payment notification)...")
	routeDetails.PublicRoutes(app, ctl)

	// ===================== PRIVATE =====================
	jwt := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              d.Config.JWTSecret,
		AllowCookieFallback: true,
	})

	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/a", jwt, authMiddleware.RequireRoles(userModel.RoleAdmin))
	routeDetails.AdminRoutes(admin, ctl)

	log.Println("[INFO] Setting up TEACHER group...")
	teacher := app.Group("/api/t", jwt, authMiddleware.RequireRoles(userModel.RoleTeacher))
	routeDetails.TeacherRoutes(teacher, ctl)

	log.Println("[INFO] Setting up PARENT group...")
	parent := app.Group("/api/p", jwt, authMiddleware.RequireRoles(userModel.RoleParent))
	routeDetails.ParentRoutes(parent, ctl)

	log.Println("[INFO] Setting up STUDENT group...")
	student := app.Group("/api/s", jwt, authMiddleware.RequireRoles(userModel.RoleStudent))
	routeDetails.StudentRoutes(student, ctl)

	log.Println("[INFO] Setting up USER group...")
	user := app.Group("/api/u", jwt)
	routeDetails.UserRoutes(user, ctl)
}
