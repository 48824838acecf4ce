package dto

import (
	"strings"

	"github.com/google/uuid"

	"madrasa_backend/internals/features/school/grades/model"
	"madrasa_backend/internals/features/school/grades/service"
	helper "madrasa_backend/internals/helpers"
)

/* ===================== REQUESTS ===================== */

// Value nil = murid belum dinilai, dibuang sebelum masuk service.
type GradeEntryRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Value     *float64  `json:"value" validate:"omitempty,gte=0"`
	Comment   *string   `json:"comment" validate:"omitempty,max=500"`
}

type RecordGradesRequest struct {
	ClassID        uuid.UUID           `json:"class_id" validate:"required"`
	Subject        string              `json:"subject" validate:"required,notblank,max=120"`
	MaxValue       *float64            `json:"max_value" validate:"omitempty,gt=0"`
	SessionComment *string             `json:"session_comment" validate:"omitempty,max=1000"`
	Entries        []GradeEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

func (r RecordGradesRequest) ToInput() service.RecordGradesInput {
	in := service.RecordGradesInput{
		ClassID:        r.ClassID,
		Subject:        strings.TrimSpace(r.Subject),
		MaxValue:       r.MaxValue,
		SessionComment: helper.TrimPtr(r.SessionComment),
	}
	for _, e := range r.Entries {
		if e.Value == nil {
			continue
		}
		in.Entries = append(in.Entries, service.GradeEntry{
			StudentID: e.StudentID,
			Value:     *e.Value,
			Comment:   helper.TrimPtr(e.Comment),
		})
	}
	return in
}

/* ===================== RESPONSES ===================== */

type GradeRecordResponse struct {
	ID        uuid.UUID `json:"id"`
	StudentID uuid.UUID `json:"student_id"`
	Student   string    `json:"student_name,omitempty"`
	Subject   string    `json:"subject"`
	Value     float64   `json:"value"`
	MaxValue  float64   `json:"max_value"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt string    `json:"created_at"`
}

type GradeSessionResponse struct {
	ID        uuid.UUID             `json:"id"`
	ClassID   uuid.UUID             `json:"class_id"`
	TeacherID uuid.UUID             `json:"teacher_id"`
	Subject   string                `json:"subject"`
	MaxValue  float64               `json:"max_value"`
	Comment   *string               `json:"session_comment"`
	CreatedAt string                `json:"created_at"`
	Records   []GradeRecordResponse `json:"records"`
}

func FromResult(res *service.GradesResult) GradeSessionResponse {
	out := sessionHeader(res.Session)
	for _, r := range res.Records {
		out.Records = append(out.Records, recordResponse(r, ""))
	}
	return out
}

func FromSessionViews(views []service.SessionView) []GradeSessionResponse {
	out := make([]GradeSessionResponse, 0, len(views))
	for _, v := range views {
		s := sessionHeader(v.GradeSessionModel)
		for _, r := range v.Records {
			s.Records = append(s.Records, recordResponse(r.GradeRecordModel, r.StudentName))
		}
		out = append(out, s)
	}
	return out
}

func FromRecordViews(rows []service.RecordView) []GradeRecordResponse {
	out := make([]GradeRecordResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, recordResponse(r.GradeRecordModel, r.StudentName))
	}
	return out
}

func sessionHeader(m model.GradeSessionModel) GradeSessionResponse {
	return GradeSessionResponse{
		ID:        m.GradeSessionID,
		ClassID:   m.GradeSessionClassGroupID,
		TeacherID: m.GradeSessionTeacherID,
		Subject:   m.GradeSessionSubject,
		MaxValue:  m.GradeSessionMaxValue,
		Comment:   m.GradeSessionComment,
		CreatedAt: m.GradeSessionCreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Records:   []GradeRecordResponse{},
	}
}

func recordResponse(r model.GradeRecordModel, name string) GradeRecordResponse {
	return GradeRecordResponse{
		ID:        r.GradeRecordID,
		StudentID: r.GradeRecordStudentID,
		Student:   name,
		Subject:   r.GradeRecordSubject,
		Value:     r.GradeRecordValue,
		MaxValue:  r.GradeRecordMaxValue,
		Comment:   r.GradeRecordComment,
		CreatedAt: r.GradeRecordCreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
