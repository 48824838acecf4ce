package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"madrasa_backend/internals/databases/dbtest"
	"madrasa_backend/internals/features/school/class_groups/model"
	"madrasa_backend/internals/features/school/class_groups/service"
	userModel "madrasa_backend/internals/features/users/accounts/model"
	"madrasa_backend/internals/helpers/apperr"
)

func status(t *testing.T, err error) int {
	t.Helper()
	ae, ok := apperr.As(err)
	require.True(t, ok, "expected *apperr.Error, got %v", err)
	return ae.Status
}

func TestDeleteEmptyClass(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 1)
	other := dbtest.NewSchool(t, db, "b", 0)
	admin := dbtest.ActorOf(s.Admin)
	ctx := context.Background()

	err := service.DeleteEmptyClass(ctx, db, admin, s.Class.ClassGroupID)
	assert.Equal(t, http.StatusConflict, status(t, err))
	ae, _ := apperr.As(err)
	assert.Equal(t, service.MsgClassNotEmpty, ae.Message)

	t.Run("class of another mosque", func(t *testing.T) {
		err := service.DeleteEmptyClass(ctx, db, admin, other.Class.ClassGroupID)
		assert.Equal(t, http.StatusNotFound, status(t, err))
	})
	t.Run("teacher cannot delete", func(t *testing.T) {
		err := service.DeleteEmptyClass(ctx, db, dbtest.ActorOf(s.Teacher), s.Class.ClassGroupID)
		assert.Equal(t, http.StatusUnauthorized, status(t, err))
	})
	t.Run("empty class", func(t *testing.T) {
		empty := dbtest.Class(t, db, s.Mosque.MosqueID, "Empty", nil)
		require.NoError(t, service.DeleteEmptyClass(ctx, db, admin, empty.ClassGroupID))

		var n int64
		require.NoError(t, db.Model(&model.ClassGroupModel{}).Where("class_group_id = ?", empty.ClassGroupID).Count(&n).Error)
		assert.Zero(t, n)
	})
}

func TestAssignTeacher(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 0)
	other := dbtest.NewSchool(t, db, "b", 0)
	admin := dbtest.ActorOf(s.Admin)
	ctx := context.Background()

	second := dbtest.User(t, db, s.Mosque.MosqueID, userModel.RoleTeacher, "second-a@example.com")
	cls, err := service.AssignTeacher(ctx, db, admin, s.Class.ClassGroupID, &second.UserID)
	require.NoError(t, err)
	assert.Equal(t, second.UserID, *cls.ClassGroupTeacherID)

	ids, err := service.TeacherClassIDs(db, dbtest.ActorOf(second))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{s.Class.ClassGroupID}, ids)

	t.Run("teacher of another mosque", func(t *testing.T) {
		_, err := service.AssignTeacher(ctx, db, admin, s.Class.ClassGroupID, &other.Teacher.UserID)
		assert.Equal(t, http.StatusNotFound, status(t, err))
	})
	t.Run("user is not a teacher", func(t *testing.T) {
		_, err := service.AssignTeacher(ctx, db, admin, s.Class.ClassGroupID, &s.Parent.UserID)
		assert.Equal(t, http.StatusNotFound, status(t, err))
	})
	t.Run("unassign", func(t *testing.T) {
		cls, err := service.AssignTeacher(ctx, db, admin, s.Class.ClassGroupID, nil)
		require.NoError(t, err)
		assert.Nil(t, cls.ClassGroupTeacherID)

		var stored model.ClassGroupModel
		require.NoError(t, db.Take(&stored, "class_group_id = ?", s.Class.ClassGroupID).Error)
		assert.Nil(t, stored.ClassGroupTeacherID)
	})
}

func TestResolveTeacherClass(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 2)
	other := dbtest.NewSchool(t, db, "b", 0)

	cls, err := service.ResolveTeacherClass(db, dbtest.ActorOf(s.Teacher), s.Class.ClassGroupID, false)
	require.NoError(t, err)
	assert.Equal(t, s.Class.ClassGroupName, cls.ClassGroupName)

	_, err = service.ResolveTeacherClass(db, dbtest.ActorOf(other.Teacher), s.Class.ClassGroupID, false)
	assert.Equal(t, http.StatusNotFound, status(t, err))

	_, err = service.ResolveTeacherClass(db, dbtest.ActorOf(s.Admin), s.Class.ClassGroupID, false)
	assert.Equal(t, http.StatusUnauthorized, status(t, err))

	counts, err := service.StudentCounts(db, s.Mosque.MosqueID, []uuid.UUID{s.Class.ClassGroupID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[s.Class.ClassGroupID])

	names, err := service.ClassNames(db, s.Mosque.MosqueID, []uuid.UUID{s.Class.ClassGroupID, other.Class.ClassGroupID})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]string{s.Class.ClassGroupID: s.Class.ClassGroupName}, names)
}
