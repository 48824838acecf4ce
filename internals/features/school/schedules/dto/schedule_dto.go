package dto

import (
	"strings"

	"github.com/google/uuid"

	"madrasa_backend/internals/features/school/schedules/model"
	"madrasa_backend/internals/features/school/schedules/service"
)

type SlotRequest struct {
	Weekday   string `json:"weekday" validate:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
	Subject   string `json:"subject" validate:"required,notblank,max=120"`
}

// POST /api/a/schedules
type CreateSlotsRequest struct {
	ClassID uuid.UUID     `json:"class_id" validate:"required"`
	Slots   []SlotRequest `json:"slots" validate:"required,min=1,max=100,dive"`
}

func (r CreateSlotsRequest) ToInputs() []service.SlotInput {
	out := make([]service.SlotInput, 0, len(r.Slots))
	for _, s := range r.Slots {
		out = append(out, service.SlotInput{
			Weekday:   strings.ToLower(strings.TrimSpace(s.Weekday)),
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Subject:   strings.TrimSpace(s.Subject),
		})
	}
	return out
}

type SlotResponse struct {
	ID        uuid.UUID `json:"id"`
	ClassID   uuid.UUID `json:"class_id"`
	ClassName string    `json:"class_name,omitempty"`
	Weekday   string    `json:"weekday"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Subject   string    `json:"subject"`
}

func FromModels(rows []model.ScheduleSlotModel, classNames map[uuid.UUID]string) []SlotResponse {
	out := make([]SlotResponse, 0, len(rows))
	for _, m := range rows {
		out = append(out, SlotResponse{
			ID:        m.ScheduleSlotID,
			ClassID:   m.ScheduleSlotClassGroupID,
			ClassName: classNames[m.ScheduleSlotClassGroupID],
			Weekday:   string(m.ScheduleSlotWeekday),
			StartTime: m.ScheduleSlotStartTime.String(),
			EndTime:   m.ScheduleSlotEndTime.String(),
			Subject:   m.ScheduleSlotSubject,
		})
	}
	return out
}
