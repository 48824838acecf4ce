package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"madrasa_backend/internals/databases/dbtest"
	"madrasa_backend/internals/features/school/students/model"
	"madrasa_backend/internals/features/school/students/service"
	userModel "madrasa_backend/internals/features/users/accounts/model"
	"madrasa_backend/internals/helpers/apperr"
)

func status(t *testing.T, err error) int {
	t.Helper()
	ae, ok := apperr.As(err)
	require.True(t, ok, "expected *apperr.Error, got %v", err)
	return ae.Status
}

func TestCreateStudent(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 0)
	other := dbtest.NewSchool(t, db, "b", 0)
	admin := dbtest.ActorOf(s.Admin)
	ctx := context.Background()

	m := &model.StudentModel{StudentClassGroupID: s.Class.ClassGroupID, StudentParentID: &s.Parent.UserID,
		StudentFirstName: "Ilyas", StudentLastName: "Amrani"}
	require.NoError(t, service.CreateStudent(ctx, db, admin, m))
	assert.NotEqual(t, uuid.Nil, m.StudentID)
	assert.Equal(t, s.Mosque.MosqueID, m.StudentMosqueID)

	t.Run("without parent", func(t *testing.T) {
		m := &model.StudentModel{StudentClassGroupID: s.Class.ClassGroupID, StudentFirstName: "Nour", StudentLastName: "Haddad"}
		require.NoError(t, service.CreateStudent(ctx, db, admin, m))
		assert.Nil(t, m.StudentParentID)
	})
	t.Run("parent of another mosque", func(t *testing.T) {
		m := &model.StudentModel{StudentClassGroupID: s.Class.ClassGroupID, StudentParentID: &other.Parent.UserID,
			StudentFirstName: "X", StudentLastName: "Y"}
		assert.Equal(t, http.StatusNotFound, status(t, service.CreateStudent(ctx, db, admin, m)))
	})
	t.Run("parent id of a teacher", func(t *testing.T) {
		m := &model.StudentModel{StudentClassGroupID: s.Class.ClassGroupID, StudentParentID: &s.Teacher.UserID,
			StudentFirstName: "X", StudentLastName: "Y"}
		assert.Equal(t, http.StatusNotFound, status(t, service.CreateStudent(ctx, db, admin, m)))
	})
	t.Run("class of another mosque", func(t *testing.T) {
		m := &model.StudentModel{StudentClassGroupID: other.Class.ClassGroupID, StudentFirstName: "X", StudentLastName: "Y"}
		assert.Equal(t, http.StatusNotFound, status(t, service.CreateStudent(ctx, db, admin, m)))
	})

	var n int64
	require.NoError(t, db.Model(&model.StudentModel{}).Where("student_mosque_id = ?", s.Mosque.MosqueID).Count(&n).Error)
	assert.EqualValues(t, 2, n)
}

func TestAssignParent(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 2)
	other := dbtest.NewSchool(t, db, "b", 0)
	admin := dbtest.ActorOf(s.Admin)
	ctx := context.Background()
	kid := s.Students[1]

	st, err := service.AssignParent(ctx, db, admin, kid.StudentID, &s.Parent.UserID)
	require.NoError(t, err)
	assert.Equal(t, s.Parent.UserID, *st.StudentParentID)

	_, err = service.AssignParent(ctx, db, admin, kid.StudentID, &other.Parent.UserID)
	assert.Equal(t, http.StatusNotFound, status(t, err))

	_, err = service.AssignParent(ctx, db, dbtest.ActorOf(other.Admin), kid.StudentID, &other.Parent.UserID)
	assert.Equal(t, http.StatusNotFound, status(t, err))

	st, err = service.AssignParent(ctx, db, admin, kid.StudentID, nil)
	require.NoError(t, err)
	assert.Nil(t, st.StudentParentID)
}

func TestChildIDs(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 2)
	ctx := context.Background()
	parent := dbtest.ActorOf(s.Parent)

	ids, err := service.ChildIDs(ctx, db, parent, nil)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{s.Students[0].StudentID}, ids)

	ids, err = service.ChildIDs(ctx, db, parent, &s.Students[0].StudentID)
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	_, err = service.ChildIDs(ctx, db, parent, &s.Students[1].StudentID)
	assert.Equal(t, http.StatusNotFound, status(t, err))

	_, err = service.ChildIDs(ctx, db, dbtest.ActorOf(s.Teacher), nil)
	assert.Equal(t, http.StatusUnauthorized, status(t, err))
}

func TestLinkedStudent(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 1)
	ctx := context.Background()
	account := dbtest.User(t, db, s.Mosque.MosqueID, userModel.RoleStudent, "student-a@example.com")

	_, err := service.LinkedStudent(ctx, db, dbtest.ActorOf(account))
	assert.Equal(t, http.StatusNotFound, status(t, err))

	require.NoError(t, db.Model(&model.StudentModel{}).Where("student_id = ?", s.Students[0].StudentID).
		Update("student_user_id", account.UserID).Error)
	st, err := service.LinkedStudent(ctx, db, dbtest.ActorOf(account))
	require.NoError(t, err)
	assert.Equal(t, s.Students[0].StudentID, st.StudentID)
}

func TestEnsureClassMembers(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 2)
	other := dbtest.NewSchool(t, db, "b", 1)

	ids := []uuid.UUID{s.Students[0].StudentID, s.Students[1].StudentID}
	require.NoError(t, service.EnsureClassMembers(db, s.Mosque.MosqueID, s.Class.ClassGroupID, ids))

	err := service.EnsureClassMembers(db, s.Mosque.MosqueID, s.Class.ClassGroupID, append(ids, other.Students[0].StudentID))
	assert.Equal(t, http.StatusBadRequest, status(t, err))

	assert.NoError(t, service.DistinctIDs(ids))
	assert.Error(t, service.DistinctIDs(append(ids, ids[0])))
}
