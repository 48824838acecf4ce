package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"madrasa_backend/internals/databases/dbtest"
	"madrasa_backend/internals/features/school/schedules/model"
	"madrasa_backend/internals/features/school/schedules/service"
	userModel "madrasa_backend/internals/features/users/accounts/model"
	"madrasa_backend/internals/helpers/apperr"
)

func status(t *testing.T, err error) int {
	t.Helper()
	ae, ok := apperr.As(err)
	require.True(t, ok, "expected *apperr.Error, got %v", err)
	return ae.Status
}

func TestCreateSlotsOrdered(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 1)
	p := service.NewPlanner(db, nil)
	admin := dbtest.ActorOf(s.Admin)

	_, err := p.CreateSlots(context.Background(), admin, s.Class.ClassGroupID, []service.SlotInput{
		{Weekday: "wednesday", StartTime: "14:00", EndTime: "15:30", Subject: "Quran"},
		{Weekday: "monday", StartTime: "10:00", EndTime: "11:00", Subject: "Arabic"},
		{Weekday: "monday", StartTime: "09:00", EndTime: "10:00", Subject: "Fiqh"},
	})
	require.NoError(t, err)

	rows, err := service.ListSlots(db, s.Mosque.MosqueID, []uuid.UUID{s.Class.ClassGroupID})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Fiqh", rows[0].ScheduleSlotSubject)
	assert.Equal(t, "09:00", rows[0].ScheduleSlotStartTime.String())
	assert.Equal(t, "Arabic", rows[1].ScheduleSlotSubject)
	assert.Equal(t, model.Wednesday, rows[2].ScheduleSlotWeekday)
}

func TestCreateSlotsAllOrNothing(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 0)
	other := dbtest.NewSchool(t, db, "b", 0)
	p := service.NewPlanner(db, nil)
	admin := dbtest.ActorOf(s.Admin)

	_, err := p.CreateSlots(context.Background(), admin, s.Class.ClassGroupID, []service.SlotInput{
		{Weekday: "monday", StartTime: "09:00", EndTime: "10:00", Subject: "Fiqh"},
		{Weekday: "monday", StartTime: "11:00", EndTime: "10:00", Subject: "Arabic"},
	})
	assert.Equal(t, http.StatusBadRequest, status(t, err))

	_, err = p.CreateSlots(context.Background(), admin, s.Class.ClassGroupID, []service.SlotInput{
		{Weekday: "funday", StartTime: "09:00", EndTime: "10:00", Subject: "Fiqh"},
	})
	assert.Equal(t, http.StatusBadRequest, status(t, err))

	_, err = p.CreateSlots(context.Background(), admin, other.Class.ClassGroupID, []service.SlotInput{
		{Weekday: "monday", StartTime: "09:00", EndTime: "10:00", Subject: "Fiqh"},
	})
	assert.Equal(t, http.StatusNotFound, status(t, err))

	var n int64
	require.NoError(t, db.Model(&model.ScheduleSlotModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestVisibleClassIDs(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 2)
	other := dbtest.NewSchool(t, db, "b", 0)
	ctx := context.Background()

	ids, err := service.VisibleClassIDs(ctx, db, dbtest.ActorOf(s.Teacher), nil)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{s.Class.ClassGroupID}, ids)

	ids, err = service.VisibleClassIDs(ctx, db, dbtest.ActorOf(s.Parent), nil)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{s.Class.ClassGroupID}, ids)

	_, err = service.VisibleClassIDs(ctx, db, dbtest.ActorOf(s.Teacher), &other.Class.ClassGroupID)
	assert.Equal(t, http.StatusNotFound, status(t, err))

	// murid belum punya akun tertaut
	stu := dbtest.User(t, db, s.Mosque.MosqueID, userModel.RoleStudent, "stu@example.com")
	_, err = service.VisibleClassIDs(ctx, db, dbtest.ActorOf(stu), nil)
	assert.Equal(t, http.StatusNotFound, status(t, err))

	require.NoError(t, db.Model(&s.Students[1]).Update("student_user_id", stu.UserID).Error)
	ids, err = service.VisibleClassIDs(ctx, db, dbtest.ActorOf(stu), nil)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{s.Class.ClassGroupID}, ids)
}

func TestDeleteSlot(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 0)
	other := dbtest.NewSchool(t, db, "b", 0)
	p := service.NewPlanner(db, nil)

	slots, err := p.CreateSlots(context.Background(), dbtest.ActorOf(s.Admin), s.Class.ClassGroupID, []service.SlotInput{
		{Weekday: "friday", StartTime: "17:00", EndTime: "18:00", Subject: "Tajwid"},
	})
	require.NoError(t, err)

	err = p.DeleteSlot(context.Background(), dbtest.ActorOf(other.Admin), slots[0].ScheduleSlotID)
	assert.Equal(t, http.StatusNotFound, status(t, err))
	require.NoError(t, p.DeleteSlot(context.Background(), dbtest.ActorOf(s.Admin), slots[0].ScheduleSlotID))
}
