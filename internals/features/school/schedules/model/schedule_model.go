package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"madrasa_backend/internals/helpers/dbtime"
)

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

var weekdayOrder = map[Weekday]int{
	Monday: 1, Tuesday: 2, Wednesday: 3, Thursday: 4, Friday: 5, Saturday: 6, Sunday: 7,
}

func ParseWeekday(s string) (Weekday, bool) {
	w := Weekday(strings.ToLower(strings.TrimSpace(s)))
	_, ok := weekdayOrder[w]
	return w, ok
}

func (w Weekday) Order() int { return weekdayOrder[w] }

// ScheduleSlotModel: satu slot pelajaran mingguan ("planning") untuk satu kelas.
type ScheduleSlotModel struct {
	ScheduleSlotID           uuid.UUID      `gorm:"column:schedule_slot_id;type:uuid;primaryKey" json:"schedule_slot_id"`
	ScheduleSlotMosqueID     uuid.UUID      `gorm:"column:schedule_slot_mosque_id;type:uuid;not null;index" json:"schedule_slot_mosque_id"`
	ScheduleSlotClassGroupID uuid.UUID      `gorm:"column:schedule_slot_class_group_id;type:uuid;not null;index" json:"schedule_slot_class_group_id"`
	ScheduleSlotWeekday      Weekday        `gorm:"column:schedule_slot_weekday;type:varchar(10);not null" json:"schedule_slot_weekday"`
	ScheduleSlotDayOrder     int            `gorm:"column:schedule_slot_day_order;not null" json:"-"`
	ScheduleSlotStartTime    dbtime.Tod     `gorm:"column:schedule_slot_start_time;type:time;not null" json:"schedule_slot_start_time"`
	ScheduleSlotEndTime      dbtime.Tod     `gorm:"column:schedule_slot_end_time;type:time;not null" json:"schedule_slot_end_time"`
	ScheduleSlotSubject      string         `gorm:"column:schedule_slot_subject;type:varchar(120);not null" json:"schedule_slot_subject"`
	ScheduleSlotCreatedAt    time.Time      `gorm:"column:schedule_slot_created_at;autoCreateTime" json:"schedule_slot_created_at"`
	ScheduleSlotUpdatedAt    time.Time      `gorm:"column:schedule_slot_updated_at;autoUpdateTime" json:"schedule_slot_updated_at"`
	ScheduleSlotDeletedAt    gorm.DeletedAt `gorm:"column:schedule_slot_deleted_at;index" json:"-"`
}

func (ScheduleSlotModel) TableName() string {
	return "schedule_slots"
}

func (m *ScheduleSlotModel) BeforeCreate(tx *gorm.DB) error {
	if m.ScheduleSlotID == uuid.Nil {
		m.ScheduleSlotID = uuid.New()
	}
	m.ScheduleSlotDayOrder = m.ScheduleSlotWeekday.Order()
	return nil
}
