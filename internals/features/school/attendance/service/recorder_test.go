package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	database "madrasa_backend/internals/databases"
	"madrasa_backend/internals/databases/dbtest"
	"madrasa_backend/internals/features/school/attendance/model"
	"madrasa_backend/internals/features/school/attendance/service"
	classService "madrasa_backend/internals/features/school/class_groups/service"
	studentService "madrasa_backend/internals/features/school/students/service"
	userModel "madrasa_backend/internals/features/users/accounts/model"
	viewsService "madrasa_backend/internals/features/views/service"
	"madrasa_backend/internals/helpers/apperr"
)

func newRecorder(db *gorm.DB, inv viewsService.Invalidator) *service.Recorder {
	retry := database.DefaultRetryPolicy()
	retry.Sleep = func(context.Context, time.Duration) error { return nil }
	return service.NewRecorder(db, retry, inv, "Europe/Paris")
}

func marks(pairs ...any) []service.AttendanceMark {
	out := make([]service.AttendanceMark, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, service.AttendanceMark{
			StudentID: pairs[i].(uuid.UUID),
			Status:    pairs[i+1].(model.AttendanceStatus),
		})
	}
	return out
}

func countSessions(t *testing.T, db *gorm.DB, classID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.AttendanceSessionModel{}).
		Where("attendance_session_class_group_id = ?", classID).Count(&n).Error)
	return n
}

func recordsOf(t *testing.T, db *gorm.DB, sessionID uuid.UUID) map[uuid.UUID]model.AttendanceStatus {
	t.Helper()
	var rows []model.AttendanceRecordModel
	require.NoError(t, db.Where("attendance_record_session_id = ?", sessionID).Find(&rows).Error)
	out := make(map[uuid.UUID]model.AttendanceStatus, len(rows))
	for _, r := range rows {
		out[r.AttendanceRecordStudentID] = r.AttendanceRecordStatus
	}
	return out
}

func TestRecordAttendance_ResubmissionReplacesRecords(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 3)
	rec := newRecorder(db, nil)
	ctx := context.Background()
	teacher := dbtest.ActorOf(s.Teacher)
	s1, s2, s3 := s.Students[0].StudentID, s.Students[1].StudentID, s.Students[2].StudentID

	first, err := rec.RecordAttendance(ctx, teacher, service.RecordAttendanceInput{
		ClassID: s.Class.ClassGroupID,
		Date:    "2024-03-01",
		Records: marks(s1, model.AttendancePresent, s2, model.AttendanceAbsent, s3, model.AttendanceLate),
	})
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Len(t, first.Records, 3)

	second, err := rec.RecordAttendance(ctx, teacher, service.RecordAttendanceInput{
		ClassID: s.Class.ClassGroupID,
		Date:    "2024-03-01",
		Records: marks(s1, model.AttendancePresent, s2, model.AttendancePresent),
	})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Session.AttendanceSessionID, second.Session.AttendanceSessionID)

	assert.Equal(t, int64(1), countSessions(t, db, s.Class.ClassGroupID))
	got := recordsOf(t, db, first.Session.AttendanceSessionID)
	assert.Equal(t, map[uuid.UUID]model.AttendanceStatus{
		s1: model.AttendancePresent,
		s2: model.AttendancePresent,
	}, got)
}

func TestRecordAttendance_SameDayDifferentTimesShareSession(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 1)
	rec := newRecorder(db, nil)
	teacher := dbtest.ActorOf(s.Teacher)

	a, err := rec.RecordAttendance(context.Background(), teacher, service.RecordAttendanceInput{
		ClassID: s.Class.ClassGroupID, Date: "2024-03-01T08:00:00",
		Records: marks(s.Students[0].StudentID, model.AttendancePresent),
	})
	require.NoError(t, err)
	b, err := rec.RecordAttendance(context.Background(), teacher, service.RecordAttendanceInput{
		ClassID: s.Class.ClassGroupID, Date: "2024-03-01T23:00:00",
		Records: marks(s.Students[0].StudentID, model.AttendanceLate),
	})
	require.NoError(t, err)

	assert.Equal(t, a.Session.AttendanceSessionID, b.Session.AttendanceSessionID)
	assert.Equal(t, "2024-03-01", b.Session.AttendanceSessionDate.Format("2006-01-02"))
	assert.Equal(t, int64(1), countSessions(t, db, s.Class.ClassGroupID))
}

func TestRecordAttendance_UTCInstantUsesMosqueTimezone(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 1)
	rec := newRecorder(db, nil)

	// 23:30Z on Mar 1 is already Mar 2 in Paris
	res, err := rec.RecordAttendance(context.Background(), dbtest.ActorOf(s.Teacher), service.RecordAttendanceInput{
		ClassID: s.Class.ClassGroupID, Date: "2024-03-01T23:30:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02", res.Session.AttendanceSessionDate.Format("2006-01-02"))
}

func TestRecordAttendance_SessionCommentOverwritten(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 1)
	rec := newRecorder(db, nil)
	teacher := dbtest.ActorOf(s.Teacher)
	note := "quiet day"

	first, err := rec.RecordAttendance(context.Background(), teacher, service.RecordAttendanceInput{
		ClassID: s.Class.ClassGroupID, Date: "2024-03-01", SessionComment: &note,
	})
	require.NoError(t, err)
	require.NotNil(t, first.Session.AttendanceSessionComment)

	_, err = rec.RecordAttendance(context.Background(), teacher, service.RecordAttendanceInput{
		ClassID: s.Class.ClassGroupID, Date: "2024-03-01",
	})
	require.NoError(t, err)

	var sess model.AttendanceSessionModel
	require.NoError(t, db.Take(&sess, "attendance_session_id = ?", first.Session.AttendanceSessionID).Error)
	assert.Nil(t, sess.AttendanceSessionComment)
	assert.Equal(t, s.Teacher.UserID, sess.AttendanceSessionTeacherID)
}

func TestRecordAttendance_Authorization(t *testing.T) {
	db := dbtest.Open(t)
	a := dbtest.NewSchool(t, db, "a", 2)
	b := dbtest.NewSchool(t, db, "b", 1)
	rec := newRecorder(db, nil)
	in := service.RecordAttendanceInput{
		ClassID: a.Class.ClassGroupID, Date: "2024-03-01",
		Records: marks(a.Students[0].StudentID, model.AttendancePresent),
	}

	t.Run("teacher of another tenant", func(t *testing.T) {
		_, err := rec.RecordAttendance(context.Background(), dbtest.ActorOf(b.Teacher), in)
		require.Error(t, err)
		ae, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindNotAuthorized, ae.Kind)
		assert.Equal(t, 404, ae.Status)
		assert.Equal(t, classService.MsgClassNotAssigned, ae.Message)
	})

	t.Run("unassigned teacher of same tenant", func(t *testing.T) {
		other := dbtest.User(t, db, a.Mosque.MosqueID, userModel.RoleTeacher, "other-teacher@example.com")
		_, err := rec.RecordAttendance(context.Background(), dbtest.ActorOf(other), in)
		assert.True(t, apperr.IsKind(err, apperr.KindNotAuthorized))
	})

	t.Run("wrong role", func(t *testing.T) {
		_, err := rec.RecordAttendance(context.Background(), dbtest.ActorOf(a.Admin), in)
		ae, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, 401, ae.Status)
	})

	assert.Equal(t, int64(0), countSessions(t, db, a.Class.ClassGroupID))
}

func TestRecordAttendance_RejectsForeignStudents(t *testing.T) {
	db := dbtest.Open(t)
	a := dbtest.NewSchool(t, db, "a", 1)
	b := dbtest.NewSchool(t, db, "b", 1)
	rec := newRecorder(db, nil)

	_, err := rec.RecordAttendance(context.Background(), dbtest.ActorOf(a.Teacher), service.RecordAttendanceInput{
		ClassID: a.Class.ClassGroupID, Date: "2024-03-01",
		Records: marks(a.Students[0].StudentID, model.AttendancePresent, b.Students[0].StudentID, model.AttendanceAbsent),
	})
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, ae.Status)
	assert.Equal(t, studentService.MsgNotClassMembers, ae.Message)
	assert.Equal(t, int64(0), countSessions(t, db, a.Class.ClassGroupID))
}

func TestRecordAttendance_InputValidation(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 1)
	rec := newRecorder(db, nil)
	teacher := dbtest.ActorOf(s.Teacher)
	sid := s.Students[0].StudentID

	cases := map[string]service.RecordAttendanceInput{
		"duplicate student": {ClassID: s.Class.ClassGroupID, Date: "2024-03-01",
			Records: marks(sid, model.AttendancePresent, sid, model.AttendanceAbsent)},
		"bad status": {ClassID: s.Class.ClassGroupID, Date: "2024-03-01",
			Records: marks(sid, model.AttendanceStatus("sleeping"))},
		"bad date":      {ClassID: s.Class.ClassGroupID, Date: "01/03/2024"},
		"missing class": {Date: "2024-03-01"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := rec.RecordAttendance(context.Background(), teacher, in)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation), "got %v", err)
		})
	}
}

func TestRecordAttendance_FailedInsertLeavesNothingBehind(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 3)
	rec := newRecorder(db, nil)
	teacher := dbtest.ActorOf(s.Teacher)
	s1, s2, s3 := s.Students[0].StudentID, s.Students[1].StudentID, s.Students[2].StudentID

	failing := true
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_attendance_records", func(tx *gorm.DB) {
		if failing && tx.Statement.Table == "attendance_records" {
			_ = tx.AddError(errors.New("injected insert failure"))
		}
	}))

	// sesi baru: session row ikut rollback
	_, err := rec.RecordAttendance(context.Background(), teacher, service.RecordAttendanceInput{
		ClassID: s.Class.ClassGroupID, Date: "2024-03-01",
		Records: marks(s1, model.AttendancePresent, s2, model.AttendanceAbsent, s3, model.AttendanceLate),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindFatal))
	assert.Equal(t, int64(0), countSessions(t, db, s.Class.ClassGroupID))

	// sesi lama: record sebelumnya tetap utuh
	failing = false
	first, err := rec.RecordAttendance(context.Background(), teacher, service.RecordAttendanceInput{
		ClassID: s.Class.ClassGroupID, Date: "2024-03-01",
		Records: marks(s1, model.AttendancePresent, s2, model.AttendanceAbsent, s3, model.AttendanceLate),
	})
	require.NoError(t, err)

	failing = true
	_, err = rec.RecordAttendance(context.Background(), teacher, service.RecordAttendanceInput{
		ClassID: s.Class.ClassGroupID, Date: "2024-03-01",
		Records: marks(s1, model.AttendanceAbsent),
	})
	require.Error(t, err)
	assert.Len(t, recordsOf(t, db, first.Session.AttendanceSessionID), 3)
}

func TestRecordAttendance_ConcurrentSubmissionsSerialize(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 3)
	rec := newRecorder(db, nil)
	teacher := dbtest.ActorOf(s.Teacher)

	const workers = 6
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// tiap worker kirim himpunan record berbeda (1..3 murid)
			var ms []service.AttendanceMark
			for j := 0; j <= i%3; j++ {
				ms = append(ms, service.AttendanceMark{StudentID: s.Students[j].StudentID, Status: model.AttendancePresent})
			}
			_, err := rec.RecordAttendance(context.Background(), teacher, service.RecordAttendanceInput{
				ClassID: s.Class.ClassGroupID, Date: "2024-03-01", Records: ms,
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.Equal(t, int64(1), countSessions(t, db, s.Class.ClassGroupID))
	var sess model.AttendanceSessionModel
	require.NoError(t, db.Take(&sess, "attendance_session_class_group_id = ?", s.Class.ClassGroupID).Error)
	n := len(recordsOf(t, db, sess.AttendanceSessionID))
	assert.True(t, n >= 1 && n <= 3, fmt.Sprintf("records must be exactly one submission's set, got %d", n))
}

func TestRecordAttendance_InvalidatesViewsAfterCommit(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 1)
	inv := &dbtest.RecordingInvalidator{}
	rec := newRecorder(db, inv)

	_, err := rec.RecordAttendance(context.Background(), dbtest.ActorOf(s.Teacher), service.RecordAttendanceInput{
		ClassID: s.Class.ClassGroupID, Date: "2024-03-01",
		Records: marks(s.Students[0].StudentID, model.AttendancePresent),
	})
	require.NoError(t, err)

	mid := s.Mosque.MosqueID
	assert.Eventually(t, func() bool {
		return inv.Has(viewsService.TenantKey(mid, viewsService.ViewTeacherAttendance)) &&
			inv.Has(viewsService.TenantKey(mid, viewsService.ViewParentPresences)) &&
			inv.Has(viewsService.TenantKey(mid, viewsService.ViewAdminDashboard))
	}, time.Second, 10*time.Millisecond)
}

func TestListSessionsAndRecords(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 2)
	rec := newRecorder(db, nil)
	teacher := dbtest.ActorOf(s.Teacher)
	ctx := context.Background()

	for _, d := range []string{"2024-03-01", "2024-03-02", "2024-03-05"} {
		_, err := rec.RecordAttendance(ctx, teacher, service.RecordAttendanceInput{
			ClassID: s.Class.ClassGroupID, Date: d,
			Records: marks(s.Students[0].StudentID, model.AttendancePresent, s.Students[1].StudentID, model.AttendanceExcused),
		})
		require.NoError(t, err)
	}

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	views, total, err := service.ListSessions(ctx, db, service.HistoryFilter{
		MosqueID: s.Mosque.MosqueID, ClassIDs: []uuid.UUID{s.Class.ClassGroupID}, From: &from, To: &to,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, views, 2)
	assert.Equal(t, "2024-03-02", views[0].AttendanceSessionDate.Format("2006-01-02"))
	require.Len(t, views[0].Records, 2)
	assert.NotEmpty(t, views[0].Records[0].StudentName)

	rows, total, err := service.ListRecords(ctx, db, service.HistoryFilter{
		MosqueID: s.Mosque.MosqueID, StudentIDs: []uuid.UUID{s.Students[0].StudentID},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, rows, 3)
	assert.Equal(t, "Student1 Taga", rows[0].StudentName)

	// tenant lain tidak melihat apa pun
	rows, _, err = service.ListRecords(ctx, db, service.HistoryFilter{
		MosqueID: uuid.New(), StudentIDs: []uuid.UUID{s.Students[0].StudentID},
	})
	require.NoError(t, err)
	assert.Empty(t, rows)
}
