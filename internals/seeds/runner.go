package seeds

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"madrasa_backend/internals/configs"
	database "madrasa_backend/internals/databases"
	paymentService "madrasa_backend/internals/features/finance/payments/service"
	classModel "madrasa_backend/internals/features/school/class_groups/model"
	studentModel "madrasa_backend/internals/features/school/students/model"
	userModel "madrasa_backend/internals/features/users/accounts/model"
	accountService "madrasa_backend/internals/features/users/accounts/service"
	authService "madrasa_backend/internals/features/users/auth/service"
	viewsService "madrasa_backend/internals/features/views/service"
	helperAuth "madrasa_backend/internals/helpers/auth"
)

const (
	DemoAdminEmail   = "admin@demo.madrasa.local"
	DemoTeacherEmail = "teacher@demo.madrasa.local"
	DemoParentEmail  = "parent@demo.madrasa.local"
	demoPassword     = "demo12345"
	demoTokenTTL     = 24 * time.Hour
)

// Demo berisi id hasil seeding, dipakai untuk log token.
type Demo struct {
	MosqueID  uuid.UUID
	AdminID   uuid.UUID
	TeacherID uuid.UUID
	ParentID  uuid.UUID
	ClassID   uuid.UUID
	Students  []uuid.UUID
}

// RunAllSeeds mengisi satu mosque demo lewat service yang sama dengan API.
// Idempotent: kalau admin demo sudah ada, seeding dilewati.
func RunAllSeeds(ctx context.Context, db *gorm.DB, cfg configs.Config, views viewsService.Invalidator) (*Demo, error) {
	var existing userModel.UserModel
	err := db.WithContext(ctx).Where("user_email = ?", DemoAdminEmail).First(&existing).Error
	if err == nil {
		log.Printf("[INFO] seed: demo mosque already present (mosque=%s), skipped", existing.UserMosqueID)
		return nil, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	retry := database.RetryPolicyFromConfig(cfg.Retry)
	reg := authService.NewRegistrar(db, retry, views)
	reg.DefaultTimezone = cfg.DefaultTimezone

	addr := "Jl. Masjid No. 1"
	out, err := reg.RegisterMosque(ctx, authService.RegisterMosqueInput{
		MosqueName:    "Masjid Demo",
		MosqueAddress: &addr,
		Admin: authService.AccountInput{
			FirstName: "Admin",
			LastName:  "Demo",
			Email:     DemoAdminEmail,
			Password:  demoPassword,
		},
	})
	if err != nil {
		return nil, err
	}
	admin := helperAuth.Actor{UserID: out.Admin.UserID, MosqueID: out.Mosque.MosqueID, Role: userModel.RoleAdmin}
	demo := &Demo{MosqueID: admin.MosqueID, AdminID: admin.UserID}

	members := accountService.NewMembers(db, views)
	teacher, err := members.Create(ctx, admin, userModel.RoleTeacher, accountService.AccountInput{
		FirstName: "Ustadz", LastName: "Demo", Email: DemoTeacherEmail, Password: demoPassword,
	})
	if err != nil {
		return nil, err
	}
	parent, err := members.Create(ctx, admin, userModel.RoleParent, accountService.AccountInput{
		FirstName: "Orang Tua", LastName: "Demo", Email: DemoParentEmail, Password: demoPassword,
	})
	if err != nil {
		return nil, err
	}
	demo.TeacherID, demo.ParentID = teacher.UserID, parent.UserID

	class := classModel.ClassGroupModel{
		ClassGroupMosqueID: admin.MosqueID,
		ClassGroupName:     "Iqro 1",
		ClassGroupLevel:    "beginner",
	}
	if err := db.WithContext(ctx).Create(&class).Error; err != nil {
		return nil, err
	}
	demo.ClassID = class.ClassGroupID

	// ===== students =====
	names := [][2]string{{"Ahmad", "Fauzi"}, {"Siti", "Aisyah"}, {"Umar", "Hakim"}}
	for _, n := range names {
		s := studentModel.StudentModel{
			StudentMosqueID:     admin.MosqueID,
			StudentClassGroupID: class.ClassGroupID,
			StudentFirstName:    n[0],
			StudentLastName:     n[1],
		}
		if err := db.WithContext(ctx).Create(&s).Error; err != nil {
			return nil, err
		}
		demo.Students = append(demo.Students, s.StudentID)
	}

	if err := members.AssignClasses(ctx, admin, teacher.UserID, []uuid.UUID{class.ClassGroupID}); err != nil {
		return nil, err
	}
	if _, err := members.AssignChildren(ctx, admin, parent.UserID, demo.Students[:2]); err != nil {
		return nil, err
	}

	payments := paymentService.New(db, retry, views, nil)
	payments.DefaultTimezone = cfg.DefaultTimezone
	desc := "SPP bulan ini"
	due := time.Now().AddDate(0, 0, 14).Format("2006-01-02")
	for _, sid := range demo.Students[:2] {
		if _, err := payments.Create(ctx, admin, paymentService.CreatePaymentInput{
			StudentID: sid, Amount: 150000, DueDate: due, Description: &desc,
		}); err != nil {
			return nil, err
		}
	}

	log.Printf("[INFO] seed: demo mosque=%s class=%s students=%d", demo.MosqueID, demo.ClassID, len(demo.Students))
	logTokens(cfg.JWTSecret, demo)
	return demo, nil
}

func logTokens(secret string, d *Demo) {
	if secret == "" {
		log.Println("[WARN] seed: JWT_SECRET empty, demo tokens not issued")
		return
	}
	actors := []helperAuth.Actor{
		{UserID: d.AdminID, MosqueID: d.MosqueID, Role: userModel.RoleAdmin},
		{UserID: d.TeacherID, MosqueID: d.MosqueID, Role: userModel.RoleTeacher},
		{UserID: d.ParentID, MosqueID: d.MosqueID, Role: userModel.RoleParent},
	}
	for _, a := range actors {
		tok, err := helperAuth.SignAccessToken(secret, a, demoTokenTTL)
		if err != nil {
			log.Printf("[WARN] seed: sign token role=%s: %v", a.Role, err)
			continue
		}
		log.Printf("[INFO] seed: %s token=%s", a.Role, tok)
	}
}
