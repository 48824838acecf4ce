// Package dbtest opens a migrated SQLite store and seeds fixtures for package tests.
package dbtest

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "madrasa_backend/internals/databases"
	mosqueModel "madrasa_backend/internals/features/mosques/model"
	classModel "madrasa_backend/internals/features/school/class_groups/model"
	studentModel "madrasa_backend/internals/features/school/students/model"
	userModel "madrasa_backend/internals/features/users/accounts/model"
	helperAuth "madrasa_backend/internals/helpers/auth"
)

const Password = "secret123"

// Open: file SQLite di t.TempDir(), satu koneksi (write diserialisasi seperti lock baris di Postgres).
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func Mosque(t testing.TB, db *gorm.DB, name string) mosqueModel.MosqueModel {
	t.Helper()
	m := mosqueModel.MosqueModel{MosqueName: name, MosqueTimezone: "Europe/Paris"}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func User(t testing.TB, db *gorm.DB, mosqueID uuid.UUID, role, email string) userModel.UserModel {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)
	u := userModel.UserModel{
		UserMosqueID:     mosqueID,
		UserRole:         role,
		UserEmail:        email,
		UserPasswordHash: string(hash),
		UserFirstName:    "Test",
		UserLastName:     role,
		UserIsActive:     true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func Class(t testing.TB, db *gorm.DB, mosqueID uuid.UUID, name string, teacherID *uuid.UUID) classModel.ClassGroupModel {
	t.Helper()
	c := classModel.ClassGroupModel{
		ClassGroupMosqueID:  mosqueID,
		ClassGroupName:      name,
		ClassGroupLevel:     "beginner",
		ClassGroupTeacherID: teacherID,
	}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func Student(t testing.TB, db *gorm.DB, mosqueID, classID uuid.UUID, first, last string) studentModel.StudentModel {
	t.Helper()
	s := studentModel.StudentModel{
		StudentMosqueID:     mosqueID,
		StudentClassGroupID: classID,
		StudentFirstName:    first,
		StudentLastName:     last,
	}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func ActorOf(u userModel.UserModel) helperAuth.Actor {
	return helperAuth.Actor{UserID: u.UserID, MosqueID: u.UserMosqueID, Role: u.UserRole}
}

/* =========================================================
   School: satu mosque lengkap dengan teacher, kelas, murid
========================================================= */

type School struct {
	Mosque   mosqueModel.MosqueModel
	Admin    userModel.UserModel
	Teacher  userModel.UserModel
	Parent   userModel.UserModel
	Class    classModel.ClassGroupModel
	Students []studentModel.StudentModel
}

// NewSchool: kelas di-assign ke Teacher, n murid, murid pertama anak Parent.
func NewSchool(t testing.TB, db *gorm.DB, tag string, n int) School {
	t.Helper()
	m := Mosque(t, db, "Mosque "+tag)
	s := School{
		Mosque:  m,
		Admin:   User(t, db, m.MosqueID, userModel.RoleAdmin, fmt.Sprintf("admin-%s@example.com", tag)),
		Teacher: User(t, db, m.MosqueID, userModel.RoleTeacher, fmt.Sprintf("teacher-%s@example.com", tag)),
		Parent:  User(t, db, m.MosqueID, userModel.RoleParent, fmt.Sprintf("parent-%s@example.com", tag)),
	}
	s.Class = Class(t, db, m.MosqueID, "Class "+tag, &s.Teacher.UserID)
	for i := 0; i < n; i++ {
		st := Student(t, db, m.MosqueID, s.Class.ClassGroupID, fmt.Sprintf("Student%d", i+1), "Tag"+tag)
		if i == 0 {
			require.NoError(t, db.Model(&st).Update("student_parent_id", s.Parent.UserID).Error)
			st.StudentParentID = &s.Parent.UserID
		}
		s.Students = append(s.Students, st)
	}
	return s
}

/* =========================================================
   RecordingInvalidator: test double untuk views.Invalidator
========================================================= */

type RecordingInvalidator struct {
	mu   sync.Mutex
	keys []string
}

func (r *RecordingInvalidator) Invalidate(_ context.Context, keys ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, keys...)
}

func (r *RecordingInvalidator) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.keys...)
}

func (r *RecordingInvalidator) Has(key string) bool {
	for _, k := range r.Keys() {
		if k == key {
			return true
		}
	}
	return false
}
