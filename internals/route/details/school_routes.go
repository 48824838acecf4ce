package details

import (
	"github.com/gofiber/fiber/v2"

	paymentRoute "madrasa_backend/internals/features/finance/payments/route"
	dashboardRoute "madrasa_backend/internals/features/mosques/dashboard/route"
	annRoute "madrasa_backend/internals/features/school/announcements/route"
	attRoute "madrasa_backend/internals/features/school/attendance/route"
	classRoute "madrasa_backend/internals/features/school/class_groups/route"
	gradeRoute "madrasa_backend/internals/features/school/grades/route"
	scheduleRoute "madrasa_backend/internals/features/school/schedules/route"
	studentRoute "madrasa_backend/internals/features/school/students/route"
	memberRoute "madrasa_backend/internals/features/users/accounts/route"
	viewsRoute "madrasa_backend/internals/features/views/route"
)

// /api/a
func AdminRoutes(r fiber.Router, ctl *Controllers) {
	dashboardRoute.DashboardAdminRoutes(r, ctl.Dashboard)
	classRoute.ClassGroupAdminRoutes(r, ctl.Classes)
	studentRoute.StudentAdminRoutes(r, ctl.Students)
	memberRoute.MemberAdminRoutes(r, ctl.Members)
	scheduleRoute.ScheduleAdminRoutes(r, ctl.Schedules)
	annRoute.AnnouncementAdminRoutes(r, ctl.Announcements)
	paymentRoute.PaymentAdminRoutes(r, ctl.Payments)
}

// /api/t
func TeacherRoutes(r fiber.Router, ctl *Controllers) {
	classRoute.ClassGroupTeacherRoutes(r, ctl.Classes)
	attRoute.AttendanceTeacherRoutes(r, ctl.Attendance)
	gradeRoute.GradeTeacherRoutes(r, ctl.Grades)
	scheduleRoute.ScheduleReadRoutes(r, ctl.Schedules)
	annRoute.AnnouncementReadRoutes(r, ctl.Announcements)
}

// /api/p
func ParentRoutes(r fiber.Router, ctl *Controllers) {
	studentRoute.StudentParentRoutes(r, ctl.Students)
	attRoute.AttendanceParentRoutes(r, ctl.Attendance)
	gradeRoute.GradeParentRoutes(r, ctl.Grades)
	paymentRoute.PaymentParentRoutes(r, ctl.Payments)
	scheduleRoute.ScheduleReadRoutes(r, ctl.Schedules)
	annRoute.AnnouncementReadRoutes(r, ctl.Announcements)
}

// /api/s
func StudentRoutes(r fiber.Router, ctl *Controllers) {
	studentRoute.StudentSelfRoutes(r, ctl.Students)
	attRoute.AttendanceStudentRoutes(r, ctl.Attendance)
	gradeRoute.GradeStudentRoutes(r, ctl.Grades)
	scheduleRoute.ScheduleReadRoutes(r, ctl.Schedules)
	annRoute.AnnouncementReadRoutes(r, ctl.Announcements)
}

// /api/u (semua role yang login)
func UserRoutes(r fiber.Router, ctl *Controllers) {
	viewsRoute.ViewsUserRoutes(r, ctl.Board)
}
