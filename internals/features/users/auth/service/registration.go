package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	database "madrasa_backend/internals/databases"
	mosqueModel "madrasa_backend/internals/features/mosques/model"
	mosqueService "madrasa_backend/internals/features/mosques/service"
	studentModel "madrasa_backend/internals/features/school/students/model"
	userModel "madrasa_backend/internals/features/users/accounts/model"
	accountService "madrasa_backend/internals/features/users/accounts/service"
	viewsService "madrasa_backend/internals/features/views/service"
	"madrasa_backend/internals/helpers/apperr"
)

const (
	MsgEmailInUse         = accountService.MsgEmailInUse
	MsgInvalidMosqueCode  = "invalid mosque code"
	MsgInvalidStudentCode = "invalid student code"
	MsgStudentHasAccount  = "this student already has an account"
	MsgNameMismatch       = "first and last name do not match the student record"
)

type AccountInput = accountService.AccountInput

type RegisterMosqueInput struct {
	MosqueName     string
	MosqueAddress  *string
	MosquePhone    *string
	MosqueEmail    *string
	MosqueTimezone string
	Admin          AccountInput
}

type MosqueRegistration struct {
	Mosque     mosqueModel.MosqueModel `json:"mosque"`
	Admin      userModel.UserModel     `json:"admin"`
	MosqueCode string                  `json:"mosque_code"`
}

// Registrar: pendaftaran publik (mosque + admin, teacher via kode mosque, murid via kode murid).
type Registrar struct {
	DB       *gorm.DB
	Retry    database.RetryPolicy
	Views    viewsService.Invalidator
	HashCost int

	// dipakai kalau pendaftar tidak mengirim timezone
	DefaultTimezone string
}

func NewRegistrar(db *gorm.DB, retry database.RetryPolicy, views viewsService.Invalidator) *Registrar {
	return &Registrar{DB: db, Retry: retry, Views: views, HashCost: bcrypt.DefaultCost}
}

func (r *Registrar) hash(pw string) (string, error) {
	return accountService.HashPassword(pw, r.HashCost)
}

/* =========================================================
   Mosque + admin pertama
========================================================= */

func (r *Registrar) RegisterMosque(ctx context.Context, in RegisterMosqueInput) (*MosqueRegistration, error) {
	name := strings.TrimSpace(in.MosqueName)
	if name == "" {
		return nil, apperr.Validation("mosque name is required")
	}
	if tz := strings.TrimSpace(in.MosqueTimezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return nil, apperr.Validationf("unknown timezone %q", tz)
		}
	}
	hash, err := r.hash(in.Admin.Password)
	if err != nil {
		return nil, err
	}

	var out *MosqueRegistration
	err = r.Retry.Transaction(ctx, r.DB, "register mosque", func(tx *gorm.DB) error {
		out = nil
		if err := accountService.EnsureEmailFree(tx, in.Admin.Email); err != nil {
			return err
		}

		m := mosqueModel.MosqueModel{
			MosqueName:     name,
			MosqueAddress:  in.MosqueAddress,
			MosquePhone:    in.MosquePhone,
			MosqueEmail:    in.MosqueEmail,
			MosqueTimezone: strings.TrimSpace(in.MosqueTimezone),
		}
		if m.MosqueTimezone == "" {
			m.MosqueTimezone = r.DefaultTimezone
		}
		if err := tx.Create(&m).Error; err != nil {
			return database.MapDBError(pkgerrors.Wrap(err, "create mosque"))
		}

		admin := accountService.NewAccount(in.Admin, userModel.RoleAdmin, m.MosqueID, hash)
		if err := accountService.CreateAccount(tx, &admin); err != nil {
			return err
		}
		out = &MosqueRegistration{Mosque: m, Admin: admin, MosqueCode: m.MosqueID.String()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] mosque registered id=%s admin=%s", out.Mosque.MosqueID, out.Admin.UserID)
	return out, nil
}

/* =========================================================
   Teacher via kode mosque
========================================================= */

func (r *Registrar) RegisterTeacher(ctx context.Context, mosqueCode string, in AccountInput) (*userModel.UserModel, error) {
	mosqueID, err := uuid.Parse(strings.TrimSpace(mosqueCode))
	if err != nil {
		return nil, apperr.Validation(MsgInvalidMosqueCode)
	}
	hash, err := r.hash(in.Password)
	if err != nil {
		return nil, err
	}

	var out *userModel.UserModel
	err = r.Retry.Transaction(ctx, r.DB, "register teacher", func(tx *gorm.DB) error {
		out = nil
		if _, err := mosqueService.FindMosque(ctx, tx, mosqueID); err != nil {
			if apperr.IsKind(err, apperr.KindNotFound) {
				return apperr.Validation(MsgInvalidMosqueCode)
			}
			return err
		}
		if err := accountService.EnsureEmailFree(tx, in.Email); err != nil {
			return err
		}
		u := accountService.NewAccount(in, userModel.RoleTeacher, mosqueID, hash)
		if err := accountService.CreateAccount(tx, &u); err != nil {
			return err
		}
		out = &u
		return nil
	})
	if err != nil {
		return nil, err
	}
	viewsService.NotifyAsync(r.Views, viewsService.TenantKeys(mosqueID, viewsService.ViewAdminDashboard)...)
	return out, nil
}

/* =========================================================
   Enrollment linking: kode murid (= student_id) → akun student
========================================================= */

// sameName: case-insensitive, setelah normalisasi Unicode (NFC) supaya "é" komposit == "é" dekomposisi.
func sameName(a, b string) bool {
	return strings.EqualFold(norm.NFC.String(strings.TrimSpace(a)), norm.NFC.String(strings.TrimSpace(b)))
}

func (r *Registrar) LinkStudentAccount(ctx context.Context, studentCode string, in AccountInput) (*userModel.UserModel, error) {
	studentID, err := uuid.Parse(strings.TrimSpace(studentCode))
	if err != nil {
		return nil, apperr.Validation(MsgInvalidStudentCode)
	}
	hash, err := r.hash(in.Password)
	if err != nil {
		return nil, err
	}

	var out *userModel.UserModel
	var mosqueID uuid.UUID
	err = r.Retry.Transaction(ctx, r.DB, "link student account", func(tx *gorm.DB) error {
		out = nil

		var st studentModel.StudentModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("student_id = ?", studentID).
			Take(&st).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Validation(MsgInvalidStudentCode)
		}
		if err != nil {
			return database.MapDBError(err)
		}
		if st.StudentUserID != nil {
			return apperr.Validation(MsgStudentHasAccount)
		}
		if err := accountService.EnsureEmailFree(tx, in.Email); err != nil {
			return err
		}
		if !sameName(st.StudentFirstName, in.FirstName) || !sameName(st.StudentLastName, in.LastName) {
			return apperr.Validation(MsgNameMismatch)
		}

		// tenant diturunkan dari murid, bukan dari input
		u := accountService.NewAccount(in, userModel.RoleStudent, st.StudentMosqueID, hash)
		if err := accountService.CreateAccount(tx, &u); err != nil {
			return err
		}

		// link sekali saja: kondisi IS NULL menjaga dari race
		res := tx.Model(&studentModel.StudentModel{}).
			Where("student_id = ? AND student_user_id IS NULL", st.StudentID).
			Update("student_user_id", u.UserID)
		if res.Error != nil {
			return database.MapDBError(pkgerrors.Wrap(res.Error, "link student"))
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict(MsgStudentHasAccount)
		}
		out = &u
		mosqueID = st.StudentMosqueID
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] student %s linked to account %s", studentID, out.UserID)
	viewsService.NotifyAsync(r.Views, viewsService.TenantKeys(mosqueID, viewsService.ViewAdminStudents)...)
	return out, nil
}
