package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	database "madrasa_backend/internals/databases"
	"madrasa_backend/internals/databases/dbtest"
	"madrasa_backend/internals/features/school/grades/model"
	"madrasa_backend/internals/features/school/grades/service"
	studentService "madrasa_backend/internals/features/school/students/service"
	viewsService "madrasa_backend/internals/features/views/service"
	"madrasa_backend/internals/helpers/apperr"
)

func newRecorder(db *gorm.DB, inv viewsService.Invalidator) *service.Recorder {
	retry := database.DefaultRetryPolicy()
	retry.Sleep = func(context.Context, time.Duration) error { return nil }
	return service.NewRecorder(db, retry, inv)
}

func f64(v float64) *float64 { return &v }

func gradesOf(t *testing.T, db *gorm.DB, studentID uuid.UUID) []float64 {
	t.Helper()
	var vals []float64
	require.NoError(t, db.Model(&model.GradeRecordModel{}).
		Where("grade_record_student_id = ?", studentID).
		Order("grade_record_value DESC").
		Pluck("grade_record_value", &vals).Error)
	return vals
}

func TestRecordGrades_EverySubmissionIsANewSession(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 2)
	rec := newRecorder(db, nil)
	teacher := dbtest.ActorOf(s.Teacher)
	s1, s2 := s.Students[0].StudentID, s.Students[1].StudentID

	first, err := rec.RecordGrades(context.Background(), teacher, service.RecordGradesInput{
		ClassID: s.Class.ClassGroupID, Subject: "Arabic", MaxValue: f64(20),
		Entries: []service.GradeEntry{{StudentID: s1, Value: 15}, {StudentID: s2, Value: 18}},
	})
	require.NoError(t, err)
	second, err := rec.RecordGrades(context.Background(), teacher, service.RecordGradesInput{
		ClassID: s.Class.ClassGroupID, Subject: "Arabic", MaxValue: f64(20),
		Entries: []service.GradeEntry{{StudentID: s1, Value: 12}},
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.Session.GradeSessionID, second.Session.GradeSessionID)
	assert.Len(t, first.Records, 2)
	assert.Len(t, second.Records, 1)

	var sessions int64
	require.NoError(t, db.Model(&model.GradeSessionModel{}).Count(&sessions).Error)
	assert.Equal(t, int64(2), sessions)
	assert.Equal(t, []float64{15, 12}, gradesOf(t, db, s1))

	for _, r := range second.Records {
		assert.Equal(t, "Arabic", r.GradeRecordSubject)
		assert.Equal(t, float64(20), r.GradeRecordMaxValue)
	}
}

func TestRecordGrades_DefaultMaxValue(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 1)
	res, err := newRecorder(db, nil).RecordGrades(context.Background(), dbtest.ActorOf(s.Teacher), service.RecordGradesInput{
		ClassID: s.Class.ClassGroupID, Subject: "Tajwid",
		Entries: []service.GradeEntry{{StudentID: s.Students[0].StudentID, Value: 9.5}},
	})
	require.NoError(t, err)
	assert.Equal(t, float64(service.DefaultMaxValue), res.Session.GradeSessionMaxValue)
}

func TestRecordGrades_MembershipRejectsWholeBatch(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 1)
	other := dbtest.Class(t, db, s.Mosque.MosqueID, "Other", nil)
	outsider := dbtest.Student(t, db, s.Mosque.MosqueID, other.ClassGroupID, "Out", "Sider")

	_, err := newRecorder(db, nil).RecordGrades(context.Background(), dbtest.ActorOf(s.Teacher), service.RecordGradesInput{
		ClassID: s.Class.ClassGroupID, Subject: "Fiqh",
		Entries: []service.GradeEntry{
			{StudentID: s.Students[0].StudentID, Value: 10},
			{StudentID: outsider.StudentID, Value: 10},
		},
	})
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, ae.Status)
	assert.Equal(t, studentService.MsgNotClassMembers, ae.Message)

	var n int64
	require.NoError(t, db.Model(&model.GradeSessionModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRecordGrades_Authorization(t *testing.T) {
	db := dbtest.Open(t)
	a := dbtest.NewSchool(t, db, "a", 1)
	b := dbtest.NewSchool(t, db, "b", 1)
	rec := newRecorder(db, nil)
	in := service.RecordGradesInput{
		ClassID: a.Class.ClassGroupID, Subject: "Arabic",
		Entries: []service.GradeEntry{{StudentID: a.Students[0].StudentID, Value: 10}},
	}

	_, err := rec.RecordGrades(context.Background(), dbtest.ActorOf(b.Teacher), in)
	assert.True(t, apperr.IsKind(err, apperr.KindNotAuthorized))

	_, err = rec.RecordGrades(context.Background(), dbtest.ActorOf(a.Parent), in)
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 401, ae.Status)
}

func TestRecordGrades_Validation(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 1)
	rec := newRecorder(db, nil)
	sid := s.Students[0].StudentID

	cases := map[string]service.RecordGradesInput{
		"no entries":      {ClassID: s.Class.ClassGroupID, Subject: "Arabic"},
		"blank subject":   {ClassID: s.Class.ClassGroupID, Subject: "  ", Entries: []service.GradeEntry{{StudentID: sid, Value: 1}}},
		"negative value":  {ClassID: s.Class.ClassGroupID, Subject: "Arabic", Entries: []service.GradeEntry{{StudentID: sid, Value: -1}}},
		"above max":       {ClassID: s.Class.ClassGroupID, Subject: "Arabic", MaxValue: f64(10), Entries: []service.GradeEntry{{StudentID: sid, Value: 11}}},
		"zero max":        {ClassID: s.Class.ClassGroupID, Subject: "Arabic", MaxValue: f64(0), Entries: []service.GradeEntry{{StudentID: sid, Value: 0}}},
		"duplicate entry": {ClassID: s.Class.ClassGroupID, Subject: "Arabic", Entries: []service.GradeEntry{{StudentID: sid, Value: 1}, {StudentID: sid, Value: 2}}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := rec.RecordGrades(context.Background(), dbtest.ActorOf(s.Teacher), in)
			assert.True(t, apperr.IsKind(err, apperr.KindValidation), "got %v", err)
		})
	}
}

func TestRecordGrades_FailedInsertRollsBackSession(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 2)
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_grade_records", func(tx *gorm.DB) {
		if tx.Statement.Table == "grade_records" {
			_ = tx.AddError(errors.New("injected insert failure"))
		}
	}))

	_, err := newRecorder(db, nil).RecordGrades(context.Background(), dbtest.ActorOf(s.Teacher), service.RecordGradesInput{
		ClassID: s.Class.ClassGroupID, Subject: "Arabic",
		Entries: []service.GradeEntry{{StudentID: s.Students[0].StudentID, Value: 1}, {StudentID: s.Students[1].StudentID, Value: 2}},
	})
	require.Error(t, err)

	var n int64
	require.NoError(t, db.Model(&model.GradeSessionModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestListSessionsFiltersBySubject(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 1)
	inv := &dbtest.RecordingInvalidator{}
	rec := newRecorder(db, inv)
	sid := s.Students[0].StudentID
	for _, subj := range []string{"Arabic", "Fiqh", "arabic"} {
		_, err := rec.RecordGrades(context.Background(), dbtest.ActorOf(s.Teacher), service.RecordGradesInput{
			ClassID: s.Class.ClassGroupID, Subject: subj, Entries: []service.GradeEntry{{StudentID: sid, Value: 5}},
		})
		require.NoError(t, err)
	}

	rows, total, err := service.ListSessions(context.Background(), db, service.HistoryFilter{
		MosqueID: s.Mosque.MosqueID, ClassIDs: []uuid.UUID{s.Class.ClassGroupID}, Subject: "ARABIC",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rows, 2)
	assert.Equal(t, "Student1 Taga", rows[0].Records[0].StudentName)

	assert.Eventually(t, func() bool {
		return inv.Has(viewsService.TenantKey(s.Mosque.MosqueID, viewsService.ViewParentGrades))
	}, time.Second, 10*time.Millisecond)
}
