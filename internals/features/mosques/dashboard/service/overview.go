package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	database "madrasa_backend/internals/databases"
	paymentModel "madrasa_backend/internals/features/finance/payments/model"
	attendanceModel "madrasa_backend/internals/features/school/attendance/model"
	classModel "madrasa_backend/internals/features/school/class_groups/model"
	classService "madrasa_backend/internals/features/school/class_groups/service"
	studentModel "madrasa_backend/internals/features/school/students/model"
	userModel "madrasa_backend/internals/features/users/accounts/model"
)

type Counts struct {
	Students int64 `json:"students"`
	Classes  int64 `json:"classes"`
	Teachers int64 `json:"teachers"`
	Parents  int64 `json:"parents"`
}

type RollCall struct {
	SessionID uuid.UUID `json:"session_id"`
	ClassID   uuid.UUID `json:"class_id"`
	ClassName string    `json:"class_name"`
	Present   int64     `json:"present"`
	Absent    int64     `json:"absent"`
	Late      int64     `json:"late"`
	Excused   int64     `json:"excused"`
}

type PaymentTotals struct {
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

type Overview struct {
	Date            string        `json:"date"`
	Counts          Counts        `json:"counts"`
	TodayRollCalls  []RollCall    `json:"today_roll_calls"`
	PendingPayments PaymentTotals `json:"pending_payments"`
	OverduePayments PaymentTotals `json:"overdue_payments"`
}

func count(tx *gorm.DB, m any, where string, args ...any) (int64, error) {
	var n int64
	err := tx.Model(m).Where(where, args...).Count(&n).Error
	return n, database.MapDBError(err)
}

// Build: ringkasan dashboard admin untuk satu mosque. today = day key di timezone mosque.
func Build(ctx context.Context, db *gorm.DB, mosqueID uuid.UUID, today time.Time) (*Overview, error) {
	tx := db.WithContext(ctx)
	out := &Overview{Date: today.Format("2006-01-02"), TodayRollCalls: []RollCall{}}

	var err error
	if out.Counts.Students, err = count(tx, &studentModel.StudentModel{}, "student_mosque_id = ?", mosqueID); err != nil {
		return nil, err
	}
	if out.Counts.Classes, err = count(tx, &classModel.ClassGroupModel{}, "class_group_mosque_id = ?", mosqueID); err != nil {
		return nil, err
	}
	if out.Counts.Teachers, err = count(tx, &userModel.UserModel{}, "user_mosque_id = ? AND user_role = ?", mosqueID, userModel.RoleTeacher); err != nil {
		return nil, err
	}
	if out.Counts.Parents, err = count(tx, &userModel.UserModel{}, "user_mosque_id = ? AND user_role = ?", mosqueID, userModel.RoleParent); err != nil {
		return nil, err
	}

	// ===== roll-call hari ini =====
	var sessions []attendanceModel.AttendanceSessionModel
	if err := tx.Where("attendance_session_mosque_id = ? AND attendance_session_date = ?", mosqueID, today).
		Find(&sessions).Error; err != nil {
		return nil, database.MapDBError(err)
	}
	if len(sessions) > 0 {
		sessionIDs := make([]uuid.UUID, 0, len(sessions))
		classIDs := make([]uuid.UUID, 0, len(sessions))
		for _, s := range sessions {
			sessionIDs = append(sessionIDs, s.AttendanceSessionID)
			classIDs = append(classIDs, s.AttendanceSessionClassGroupID)
		}
		var tallies []struct {
			SessionID uuid.UUID                        `gorm:"column:attendance_record_session_id"`
			Status    attendanceModel.AttendanceStatus `gorm:"column:attendance_record_status"`
			N         int64                            `gorm:"column:n"`
		}
		if err := tx.Model(&attendanceModel.AttendanceRecordModel{}).
			Select("attendance_record_session_id, attendance_record_status, COUNT(*) AS n").
			Where("attendance_record_mosque_id = ? AND attendance_record_session_id IN ?", mosqueID, sessionIDs).
			Group("attendance_record_session_id, attendance_record_status").
			Scan(&tallies).Error; err != nil {
			return nil, database.MapDBError(err)
		}
		names, err := classService.ClassNames(tx, mosqueID, classIDs)
		if err != nil {
			return nil, err
		}

		byID := make(map[uuid.UUID]*RollCall, len(sessions))
		for _, s := range sessions {
			out.TodayRollCalls = append(out.TodayRollCalls, RollCall{
				SessionID: s.AttendanceSessionID,
				ClassID:   s.AttendanceSessionClassGroupID,
				ClassName: names[s.AttendanceSessionClassGroupID],
			})
		}
		for i := range out.TodayRollCalls {
			byID[out.TodayRollCalls[i].SessionID] = &out.TodayRollCalls[i]
		}
		for _, t := range tallies {
			rc := byID[t.SessionID]
			if rc == nil {
				continue
			}
			switch t.Status {
			case attendanceModel.AttendancePresent:
				rc.Present = t.N
			case attendanceModel.AttendanceAbsent:
				rc.Absent = t.N
			case attendanceModel.AttendanceLate:
				rc.Late = t.N
			case attendanceModel.AttendanceExcused:
				rc.Excused = t.N
			}
		}
	}

	// ===== payments (overdue = pending + due date lewat) =====
	pay := func(where string, args ...any) (PaymentTotals, error) {
		var t PaymentTotals
		err := tx.Model(&paymentModel.Payment{}).
			Select("COUNT(*) AS count, COALESCE(SUM(payment_amount), 0) AS amount").
			Where("payment_mosque_id = ?", mosqueID).
			Where(where, args...).
			Scan(&t).Error
		return t, database.MapDBError(err)
	}
	if out.PendingPayments, err = pay("payment_status = ? AND payment_due_date >= ?", paymentModel.PaymentStatusPending, today); err != nil {
		return nil, err
	}
	if out.OverduePayments, err = pay("(payment_status = ? OR (payment_status = ? AND payment_due_date < ?))",
		paymentModel.PaymentStatusOverdue, paymentModel.PaymentStatusPending, today); err != nil {
		return nil, err
	}
	return out, nil
}
