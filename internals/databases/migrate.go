package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	paymentModel "madrasa_backend/internals/features/finance/payments/model"
	mosqueModel "madrasa_backend/internals/features/mosques/model"
	announcementModel "madrasa_backend/internals/features/school/announcements/model"
	attendanceModel "madrasa_backend/internals/features/school/attendance/model"
	classModel "madrasa_backend/internals/features/school/class_groups/model"
	gradeModel "madrasa_backend/internals/features/school/grades/model"
	scheduleModel "madrasa_backend/internals/features/school/schedules/model"
	studentModel "madrasa_backend/internals/features/school/students/model"
	userModel "madrasa_backend/internals/features/users/accounts/model"
)

func Models() []any {
	return []any{
		&mosqueModel.MosqueModel{},
		&userModel.UserModel{},
		&classModel.ClassGroupModel{},
		&studentModel.StudentModel{},
		&attendanceModel.AttendanceSessionModel{},
		&attendanceModel.AttendanceRecordModel{},
		&gradeModel.GradeSessionModel{},
		&gradeModel.GradeRecordModel{},
		&scheduleModel.ScheduleSlotModel{},
		&announcementModel.AnnouncementModel{},
		&paymentModel.Payment{},
		&paymentModel.PaymentGatewayEventModel{},
	}
}

// index komposit yang tidak dibuat otomatis oleh AutoMigrate
var extraIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_attendance_sessions_mosque_date ON attendance_sessions (attendance_session_mosque_id, attendance_session_date)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_records_student_date ON attendance_records (attendance_record_student_id, attendance_record_date)`,
	`CREATE INDEX IF NOT EXISTS idx_grade_records_student_created ON grade_records (grade_record_student_id, grade_record_created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_students_mosque_class ON students (student_mosque_id, student_class_group_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_mosque_status_due ON payments (payment_mosque_id, payment_status, payment_due_date)`,
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range extraIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	log.Println("[INFO] Migration done.")
	return nil
}
