package details

import (
	"gorm.io/gorm"

	"madrasa_backend/internals/configs"
	database "madrasa_backend/internals/databases"
	paymentCtl "madrasa_backend/internals/features/finance/payments/controller"
	paymentService "madrasa_backend/internals/features/finance/payments/service"
	dashboardCtl "madrasa_backend/internals/features/mosques/dashboard/controller"
	annCtl "madrasa_backend/internals/features/school/announcements/controller"
	annService "madrasa_backend/internals/features/school/announcements/service"
	attCtl "madrasa_backend/internals/features/school/attendance/controller"
	attService "madrasa_backend/internals/features/school/attendance/service"
	classCtl "madrasa_backend/internals/features/school/class_groups/controller"
	gradeCtl "madrasa_backend/internals/features/school/grades/controller"
	gradeService "madrasa_backend/internals/features/school/grades/service"
	scheduleCtl "madrasa_backend/internals/features/school/schedules/controller"
	scheduleService "madrasa_backend/internals/features/school/schedules/service"
	studentCtl "madrasa_backend/internals/features/school/students/controller"
	memberCtl "madrasa_backend/internals/features/users/accounts/controller"
	accountService "madrasa_backend/internals/features/users/accounts/service"
	authCtl "madrasa_backend/internals/features/users/auth/controller"
	authService "madrasa_backend/internals/features/users/auth/service"
	viewsService "madrasa_backend/internals/features/views/service"
)

// Controllers: semua handler aplikasi, dibangun sekali saat startup.
type Controllers struct {
	Board *viewsService.Board

	Register      *authCtl.RegisterController
	Members       *memberCtl.MemberController
	Classes       *classCtl.ClassGroupController
	Students      *studentCtl.StudentController
	Attendance    *attCtl.AttendanceController
	Grades        *gradeCtl.GradeController
	Schedules     *scheduleCtl.ScheduleController
	Announcements *annCtl.AnnouncementController
	Payments      *paymentCtl.PaymentController
	Dashboard     *dashboardCtl.DashboardController
}

func NewControllers(db *gorm.DB, cfg configs.Config, board *viewsService.Board, retry database.RetryPolicy, provider paymentService.Provider) *Controllers {
	registrar := authService.NewRegistrar(db, retry, board)
	registrar.DefaultTimezone = cfg.DefaultTimezone

	payments := paymentService.New(db, retry, board, provider)
	payments.ServerKey = cfg.Midtrans.ServerKey
	payments.Currency = cfg.Midtrans.Currency
	payments.DefaultTimezone = cfg.DefaultTimezone

	return &Controllers{
		Board:         board,
		Register:      authCtl.NewRegisterController(registrar),
		Members:       memberCtl.NewMemberController(db, accountService.NewMembers(db, board)),
		Classes:       classCtl.NewClassGroupController(db, board),
		Students:      studentCtl.NewStudentController(db, board, cfg.PublicURL),
		Attendance:    attCtl.NewAttendanceController(db, attService.NewRecorder(db, retry, board, cfg.DefaultTimezone)),
		Grades:        gradeCtl.NewGradeController(db, gradeService.NewRecorder(db, retry, board)),
		Schedules:     scheduleCtl.NewScheduleController(db, scheduleService.NewPlanner(db, board)),
		Announcements: annCtl.NewAnnouncementController(annService.New(db, board)),
		Payments:      paymentCtl.NewPaymentController(payments, cfg.PublicURL),
		Dashboard:     dashboardCtl.NewDashboardController(db, cfg.DefaultTimezone),
	}
}
