package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	database "madrasa_backend/internals/databases"
	classModel "madrasa_backend/internals/features/school/class_groups/model"
	studentModel "madrasa_backend/internals/features/school/students/model"
	"madrasa_backend/internals/features/users/accounts/model"
	viewsService "madrasa_backend/internals/features/views/service"
	"madrasa_backend/internals/helpers/apperr"
	helperAuth "madrasa_backend/internals/helpers/auth"
)

const MinPasswordLen = 6

type AccountInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Password  string
}

// HashPassword: bcrypt; cost 0 → DefaultCost.
func HashPassword(pw string, cost int) (string, error) {
	if len(pw) < MinPasswordLen {
		return "", apperr.Validationf("password must be at least %d characters", MinPasswordLen)
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", apperr.Fatal(pkgerrors.Wrap(err, "hash password"))
	}
	return string(b), nil
}

func NewAccount(in AccountInput, role string, mosqueID uuid.UUID, hash string) model.UserModel {
	return model.UserModel{
		UserMosqueID:     mosqueID,
		UserRole:         role,
		UserEmail:        model.NormalizeEmail(in.Email),
		UserPasswordHash: hash,
		UserFirstName:    strings.TrimSpace(in.FirstName),
		UserLastName:     strings.TrimSpace(in.LastName),
		UserPhone:        in.Phone,
		UserIsActive:     true,
	}
}

/* =========================================================
   Members: akun teacher / parent yang dikelola admin
========================================================= */

type Members struct {
	DB       *gorm.DB
	Views    viewsService.Invalidator
	HashCost int
}

func NewMembers(db *gorm.DB, views viewsService.Invalidator) *Members {
	return &Members{DB: db, Views: views, HashCost: bcrypt.DefaultCost}
}

func (s *Members) notify(mosqueID uuid.UUID, views ...string) {
	viewsService.NotifyAsync(s.Views, viewsService.TenantKeys(mosqueID, append(views, viewsService.ViewAdminDashboard)...)...)
}

// Create: admin membuat akun teacher/parent di mosque-nya sendiri.
func (s *Members) Create(ctx context.Context, actor helperAuth.Actor, role string, in AccountInput) (*model.UserModel, error) {
	if err := actor.Require(model.RoleAdmin); err != nil {
		return nil, err
	}
	if role != model.RoleTeacher && role != model.RoleParent {
		return nil, apperr.Validationf("cannot create %q accounts here", role)
	}
	hash, err := HashPassword(in.Password, s.HashCost)
	if err != nil {
		return nil, err
	}

	u := NewAccount(in, role, actor.MosqueID, hash)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := EnsureEmailFree(tx, u.UserEmail); err != nil {
			return err
		}
		return CreateAccount(tx, &u)
	})
	if err != nil {
		return nil, err
	}
	s.notify(actor.MosqueID)
	return &u, nil
}

// Delete: soft delete akun; kelas teacher dilepas, anak parent di-unlink.
func (s *Members) Delete(ctx context.Context, actor helperAuth.Actor, role string, userID uuid.UUID) error {
	if err := actor.Require(model.RoleAdmin); err != nil {
		return err
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := FindTenantUser(tx, actor.MosqueID, userID, role)
		if err != nil {
			return err
		}
		switch role {
		case model.RoleTeacher:
			if err := tx.Model(&classModel.ClassGroupModel{}).
				Where("class_group_mosque_id = ? AND class_group_teacher_id = ?", actor.MosqueID, u.UserID).
				Update("class_group_teacher_id", nil).Error; err != nil {
				return database.MapDBError(err)
			}
		case model.RoleParent:
			if err := tx.Model(&studentModel.StudentModel{}).
				Where("student_mosque_id = ? AND student_parent_id = ?", actor.MosqueID, u.UserID).
				Update("student_parent_id", nil).Error; err != nil {
				return database.MapDBError(err)
			}
		}
		return database.MapDBError(tx.Delete(u).Error)
	})
	if err != nil {
		return err
	}
	s.notify(actor.MosqueID, viewsService.ViewAdminClasses, viewsService.ViewAdminStudents)
	return nil
}

// AssignClasses: set kelas teacher = classIDs persis (yang lain dilepas). Semua kelas harus milik tenant.
func (s *Members) AssignClasses(ctx context.Context, actor helperAuth.Actor, teacherID uuid.UUID, classIDs []uuid.UUID) error {
	if err := actor.Require(model.RoleAdmin); err != nil {
		return err
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := FindTenantUser(tx, actor.MosqueID, teacherID, model.RoleTeacher); err != nil {
			return err
		}
		if len(classIDs) > 0 {
			var n int64
			if err := tx.Model(&classModel.ClassGroupModel{}).
				Where("class_group_mosque_id = ? AND class_group_id IN ?", actor.MosqueID, classIDs).
				Count(&n).Error; err != nil {
				return database.MapDBError(err)
			}
			if n != int64(len(classIDs)) {
				return apperr.NotFound("some classes were not found")
			}
		}
		if err := tx.Model(&classModel.ClassGroupModel{}).
			Where("class_group_mosque_id = ? AND class_group_teacher_id = ?", actor.MosqueID, teacherID).
			Update("class_group_teacher_id", nil).Error; err != nil {
			return database.MapDBError(err)
		}
		if len(classIDs) == 0 {
			return nil
		}
		return database.MapDBError(tx.Model(&classModel.ClassGroupModel{}).
			Where("class_group_mosque_id = ? AND class_group_id IN ?", actor.MosqueID, classIDs).
			Update("class_group_teacher_id", teacherID).Error)
	})
	if err != nil {
		return err
	}
	s.notify(actor.MosqueID, viewsService.ViewAdminClasses, viewsService.ViewTeacherAttendance)
	return nil
}

// AssignChildren: tautkan murid-murid ke parent. Semua murid harus milik tenant.
func (s *Members) AssignChildren(ctx context.Context, actor helperAuth.Actor, parentID uuid.UUID, studentIDs []uuid.UUID) (int, error) {
	if err := actor.Require(model.RoleAdmin); err != nil {
		return 0, err
	}
	if len(studentIDs) == 0 {
		return 0, apperr.Validation("at least one student must be selected")
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := FindTenantUser(tx, actor.MosqueID, parentID, model.RoleParent); err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&studentModel.StudentModel{}).
			Where("student_mosque_id = ? AND student_id IN ?", actor.MosqueID, studentIDs).
			Count(&n).Error; err != nil {
			return database.MapDBError(err)
		}
		if n != int64(len(studentIDs)) {
			return apperr.NotFound("some students were not found")
		}
		return database.MapDBError(tx.Model(&studentModel.StudentModel{}).
			Where("student_mosque_id = ? AND student_id IN ?", actor.MosqueID, studentIDs).
			Update("student_parent_id", parentID).Error)
	})
	if err != nil {
		return 0, err
	}
	s.notify(actor.MosqueID, viewsService.ViewAdminStudents, viewsService.ViewParentPresences, viewsService.ViewParentGrades, viewsService.ViewParentPayments)
	return len(studentIDs), nil
}
