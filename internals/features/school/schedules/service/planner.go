package service

import (
	"context"
	"log"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	database "madrasa_backend/internals/databases"
	classModel "madrasa_backend/internals/features/school/class_groups/model"
	classService "madrasa_backend/internals/features/school/class_groups/service"
	"madrasa_backend/internals/features/school/schedules/model"
	studentService "madrasa_backend/internals/features/school/students/service"
	userModel "madrasa_backend/internals/features/users/accounts/model"
	viewsService "madrasa_backend/internals/features/views/service"
	"madrasa_backend/internals/helpers/apperr"
	helperAuth "madrasa_backend/internals/helpers/auth"
	"madrasa_backend/internals/helpers/dbtime"
)

type SlotInput struct {
	Weekday   string
	StartTime string
	EndTime   string
	Subject   string
}

// Planner: planning mingguan per kelas.
type Planner struct {
	DB    *gorm.DB
	Views viewsService.Invalidator
}

func NewPlanner(db *gorm.DB, views viewsService.Invalidator) *Planner {
	return &Planner{DB: db, Views: views}
}

func buildSlot(mosqueID, classID uuid.UUID, in SlotInput, idx int) (model.ScheduleSlotModel, error) {
	w, ok := model.ParseWeekday(in.Weekday)
	if !ok {
		return model.ScheduleSlotModel{}, apperr.Validationf("slots[%d]: invalid weekday %q", idx, in.Weekday)
	}
	start, err := dbtime.ParseTod(in.StartTime)
	if err != nil {
		return model.ScheduleSlotModel{}, apperr.Validationf("slots[%d]: invalid start time", idx)
	}
	end, err := dbtime.ParseTod(in.EndTime)
	if err != nil {
		return model.ScheduleSlotModel{}, apperr.Validationf("slots[%d]: invalid end time", idx)
	}
	if !start.Before(end) {
		return model.ScheduleSlotModel{}, apperr.Validationf("slots[%d]: start time must be before end time", idx)
	}
	return model.ScheduleSlotModel{
		ScheduleSlotMosqueID:     mosqueID,
		ScheduleSlotClassGroupID: classID,
		ScheduleSlotWeekday:      w,
		ScheduleSlotStartTime:    start,
		ScheduleSlotEndTime:      end,
		ScheduleSlotSubject:      in.Subject,
	}, nil
}

// CreateSlots: semua slot masuk dalam satu transaksi, atau tidak sama sekali.
func (p *Planner) CreateSlots(ctx context.Context, actor helperAuth.Actor, classID uuid.UUID, in []SlotInput) ([]model.ScheduleSlotModel, error) {
	if err := actor.Require(userModel.RoleAdmin); err != nil {
		return nil, err
	}
	if len(in) == 0 {
		return nil, apperr.Validation("at least one slot is required")
	}
	slots := make([]model.ScheduleSlotModel, 0, len(in))
	for i, s := range in {
		m, err := buildSlot(actor.MosqueID, classID, s, i)
		if err != nil {
			return nil, err
		}
		slots = append(slots, m)
	}

	err := p.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := classService.FindTenantClass(tx, actor.MosqueID, classID); err != nil {
			return err
		}
		if err := tx.CreateInBatches(&slots, 100).Error; err != nil {
			return database.MapDBError(pkgerrors.Wrap(err, "create schedule slots"))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] %d schedule slots created class=%s", len(slots), classID)
	viewsService.NotifyAsync(p.Views, viewsService.TenantKey(actor.MosqueID, viewsService.ViewSchedules))
	return slots, nil
}

func (p *Planner) DeleteSlot(ctx context.Context, actor helperAuth.Actor, slotID uuid.UUID) error {
	if err := actor.Require(userModel.RoleAdmin); err != nil {
		return err
	}
	res := p.DB.WithContext(ctx).
		Where("schedule_slot_id = ? AND schedule_slot_mosque_id = ?", slotID, actor.MosqueID).
		Delete(&model.ScheduleSlotModel{})
	if res.Error != nil {
		return database.MapDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("schedule slot not found")
	}
	viewsService.NotifyAsync(p.Views, viewsService.TenantKey(actor.MosqueID, viewsService.ViewSchedules))
	return nil
}

// ListSlots: urut hari (senin dulu) lalu jam mulai.
func ListSlots(tx *gorm.DB, mosqueID uuid.UUID, classIDs []uuid.UUID) ([]model.ScheduleSlotModel, error) {
	var rows []model.ScheduleSlotModel
	if len(classIDs) == 0 {
		return rows, nil
	}
	if err := tx.Where("schedule_slot_mosque_id = ? AND schedule_slot_class_group_id IN ?", mosqueID, classIDs).
		Order("schedule_slot_day_order ASC, schedule_slot_start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, database.MapDBError(err)
	}
	return rows, nil
}

// VisibleClassIDs: kelas yang planning-nya boleh dilihat actor.
// admin → semua kelas tenant (atau satu kelas kalau only != nil).
func VisibleClassIDs(ctx context.Context, db *gorm.DB, actor helperAuth.Actor, only *uuid.UUID) ([]uuid.UUID, error) {
	tx := db.WithContext(ctx)
	var ids []uuid.UUID

	switch actor.Role {
	case userModel.RoleAdmin:
		if only != nil {
			if _, err := classService.FindTenantClass(tx, actor.MosqueID, *only); err != nil {
				return nil, err
			}
			return []uuid.UUID{*only}, nil
		}
		if err := tx.Model(&classModel.ClassGroupModel{}).
			Where("class_group_mosque_id = ?", actor.MosqueID).
			Pluck("class_group_id", &ids).Error; err != nil {
			return nil, database.MapDBError(err)
		}
		return ids, nil
	case userModel.RoleTeacher:
		var err error
		if ids, err = classService.TeacherClassIDs(tx, actor); err != nil {
			return nil, err
		}
	case userModel.RoleParent:
		kids, err := studentService.ChildrenOf(ctx, db, actor)
		if err != nil {
			return nil, err
		}
		seen := map[uuid.UUID]bool{}
		for _, k := range kids {
			if !seen[k.StudentClassGroupID] {
				seen[k.StudentClassGroupID] = true
				ids = append(ids, k.StudentClassGroupID)
			}
		}
	case userModel.RoleStudent:
		st, err := studentService.LinkedStudent(ctx, db, actor)
		if err != nil {
			return nil, err
		}
		ids = []uuid.UUID{st.StudentClassGroupID}
	default:
		return nil, apperr.Unauthorized("not allowed")
	}

	if only == nil {
		return ids, nil
	}
	for _, id := range ids {
		if id == *only {
			return []uuid.UUID{id}, nil
		}
	}
	return nil, apperr.Hidden(classService.MsgClassNotAssigned)
}
