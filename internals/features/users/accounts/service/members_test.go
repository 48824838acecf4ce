package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"madrasa_backend/internals/databases/dbtest"
	classModel "madrasa_backend/internals/features/school/class_groups/model"
	studentModel "madrasa_backend/internals/features/school/students/model"
	"madrasa_backend/internals/features/users/accounts/model"
	"madrasa_backend/internals/features/users/accounts/service"
	"madrasa_backend/internals/helpers/apperr"
)

func newMembers(db *gorm.DB) *service.Members {
	m := service.NewMembers(db, nil)
	m.HashCost = bcrypt.MinCost
	return m
}

func status(t *testing.T, err error) int {
	t.Helper()
	ae, ok := apperr.As(err)
	require.True(t, ok, "expected *apperr.Error, got %v", err)
	return ae.Status
}

func TestCreateMember(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 1)
	m := newMembers(db)
	admin := dbtest.ActorOf(s.Admin)

	u, err := m.Create(context.Background(), admin, model.RoleTeacher, service.AccountInput{
		FirstName: "Youssef", LastName: "Benali", Email: "Youssef@Example.com", Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleTeacher, u.UserRole)
	assert.Equal(t, s.Mosque.MosqueID, u.UserMosqueID)
	assert.Equal(t, "youssef@example.com", u.UserEmail)

	t.Run("email already used", func(t *testing.T) {
		_, err := m.Create(context.Background(), admin, model.RoleParent, service.AccountInput{
			FirstName: "X", LastName: "Y", Email: "teacher-a@example.com", Password: "secret123",
		})
		assert.Equal(t, http.StatusBadRequest, status(t, err))
	})
	t.Run("short password", func(t *testing.T) {
		_, err := m.Create(context.Background(), admin, model.RoleParent, service.AccountInput{
			FirstName: "X", LastName: "Y", Email: "new@example.com", Password: "123",
		})
		assert.Equal(t, http.StatusBadRequest, status(t, err))
	})
	t.Run("admin role not creatable", func(t *testing.T) {
		_, err := m.Create(context.Background(), admin, model.RoleAdmin, service.AccountInput{
			FirstName: "X", LastName: "Y", Email: "new2@example.com", Password: "secret123",
		})
		assert.Equal(t, http.StatusBadRequest, status(t, err))
	})
	t.Run("teacher cannot create accounts", func(t *testing.T) {
		_, err := m.Create(context.Background(), dbtest.ActorOf(s.Teacher), model.RoleParent, service.AccountInput{
			FirstName: "X", LastName: "Y", Email: "new3@example.com", Password: "secret123",
		})
		assert.Equal(t, http.StatusUnauthorized, status(t, err))
	})
}

func TestAssignClassesReplacesSet(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 0)
	other := dbtest.NewSchool(t, db, "b", 0)
	m := newMembers(db)
	admin := dbtest.ActorOf(s.Admin)

	c2 := dbtest.Class(t, db, s.Mosque.MosqueID, "Class 2", nil)
	c3 := dbtest.Class(t, db, s.Mosque.MosqueID, "Class 3", nil)

	require.NoError(t, m.AssignClasses(context.Background(), admin, s.Teacher.UserID, []uuid.UUID{c2.ClassGroupID, c3.ClassGroupID}))

	var owned []classModel.ClassGroupModel
	require.NoError(t, db.Where("class_group_teacher_id = ?", s.Teacher.UserID).Find(&owned).Error)
	ids := []uuid.UUID{}
	for _, c := range owned {
		ids = append(ids, c.ClassGroupID)
	}
	assert.ElementsMatch(t, []uuid.UUID{c2.ClassGroupID, c3.ClassGroupID}, ids)

	t.Run("foreign class rejected without changes", func(t *testing.T) {
		err := m.AssignClasses(context.Background(), admin, s.Teacher.UserID, []uuid.UUID{other.Class.ClassGroupID})
		assert.Equal(t, http.StatusNotFound, status(t, err))

		var n int64
		require.NoError(t, db.Model(&classModel.ClassGroupModel{}).Where("class_group_teacher_id = ?", s.Teacher.UserID).Count(&n).Error)
		assert.EqualValues(t, 2, n)
	})
	t.Run("empty list unassigns everything", func(t *testing.T) {
		require.NoError(t, m.AssignClasses(context.Background(), admin, s.Teacher.UserID, nil))
		var n int64
		require.NoError(t, db.Model(&classModel.ClassGroupModel{}).Where("class_group_teacher_id = ?", s.Teacher.UserID).Count(&n).Error)
		assert.Zero(t, n)
	})
	t.Run("teacher of another mosque", func(t *testing.T) {
		err := m.AssignClasses(context.Background(), admin, other.Teacher.UserID, nil)
		assert.Equal(t, http.StatusNotFound, status(t, err))
	})
}

func TestAssignChildren(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 3)
	other := dbtest.NewSchool(t, db, "b", 1)
	m := newMembers(db)
	admin := dbtest.ActorOf(s.Admin)

	n, err := m.AssignChildren(context.Background(), admin, s.Parent.UserID,
		[]uuid.UUID{s.Students[1].StudentID, s.Students[2].StudentID})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rel, err := service.ChildrenByParent(db, s.Mosque.MosqueID, []uuid.UUID{s.Parent.UserID})
	require.NoError(t, err)
	assert.Len(t, rel[s.Parent.UserID], 3)

	_, err = m.AssignChildren(context.Background(), admin, s.Parent.UserID, nil)
	assert.Equal(t, http.StatusBadRequest, status(t, err))

	_, err = m.AssignChildren(context.Background(), admin, s.Parent.UserID, []uuid.UUID{other.Students[0].StudentID})
	assert.Equal(t, http.StatusNotFound, status(t, err))

	_, err = m.AssignChildren(context.Background(), admin, s.Teacher.UserID, []uuid.UUID{s.Students[0].StudentID})
	assert.Equal(t, http.StatusNotFound, status(t, err))
}

func TestDeleteMember(t *testing.T) {
	db := dbtest.Open(t)
	s := dbtest.NewSchool(t, db, "a", 1)
	m := newMembers(db)
	admin := dbtest.ActorOf(s.Admin)

	require.NoError(t, m.Delete(context.Background(), admin, model.RoleTeacher, s.Teacher.UserID))
	var cls classModel.ClassGroupModel
	require.NoError(t, db.Take(&cls, "class_group_id = ?", s.Class.ClassGroupID).Error)
	assert.Nil(t, cls.ClassGroupTeacherID)

	require.NoError(t, m.Delete(context.Background(), admin, model.RoleParent, s.Parent.UserID))
	var st studentModel.StudentModel
	require.NoError(t, db.Take(&st, "student_id = ?", s.Students[0].StudentID).Error)
	assert.Nil(t, st.StudentParentID)

	err := m.Delete(context.Background(), admin, model.RoleParent, s.Parent.UserID)
	assert.Equal(t, http.StatusNotFound, status(t, err))

	// email tetap terkunci setelah soft delete
	assert.Error(t, service.EnsureEmailFree(db, "teacher-a@example.com"))
}
