package dto

import (
	"strings"

	"github.com/google/uuid"

	"madrasa_backend/internals/features/school/attendance/model"
	"madrasa_backend/internals/features/school/attendance/service"
	helper "madrasa_backend/internals/helpers"
)

/* ===================== REQUESTS ===================== */

type AttendanceRecordRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Status    string    `json:"status" validate:"required,notblank"`
	Comment   *string   `json:"comment" validate:"omitempty,max=500"`
}

// mosque_id & teacher_id diambil dari token, BUKAN dari body
type RecordAttendanceRequest struct {
	ClassID        uuid.UUID                 `json:"class_id" validate:"required"`
	Date           string                    `json:"date" validate:"required,notblank"`
	SessionComment *string                   `json:"session_comment" validate:"omitempty,max=1000"`
	Records        []AttendanceRecordRequest `json:"records" validate:"dive"`
}

func (r RecordAttendanceRequest) ToInput() service.RecordAttendanceInput {
	in := service.RecordAttendanceInput{
		ClassID:        r.ClassID,
		Date:           strings.TrimSpace(r.Date),
		SessionComment: helper.TrimPtr(r.SessionComment),
		Records:        make([]service.AttendanceMark, 0, len(r.Records)),
	}
	for _, rec := range r.Records {
		in.Records = append(in.Records, service.AttendanceMark{
			StudentID: rec.StudentID,
			Status:    model.AttendanceStatus(strings.ToLower(strings.TrimSpace(rec.Status))),
			Comment:   helper.TrimPtr(rec.Comment),
		})
	}
	return in
}

/* ===================== RESPONSES ===================== */

type AttendanceRecordResponse struct {
	ID        uuid.UUID `json:"id"`
	StudentID uuid.UUID `json:"student_id"`
	Student   string    `json:"student_name,omitempty"`
	Status    string    `json:"status"`
	Comment   *string   `json:"comment,omitempty"`
}

type AttendanceSessionResponse struct {
	ID        uuid.UUID                  `json:"id"`
	ClassID   uuid.UUID                  `json:"class_id"`
	TeacherID uuid.UUID                  `json:"teacher_id"`
	Date      string                     `json:"date"`
	Comment   *string                    `json:"session_comment"`
	Records   []AttendanceRecordResponse `json:"records"`
}

func FromResult(res *service.AttendanceResult) AttendanceSessionResponse {
	out := sessionHeader(res.Session)
	for _, r := range res.Records {
		out.Records = append(out.Records, recordResponse(r, ""))
	}
	return out
}

func FromSessionViews(views []service.SessionView) []AttendanceSessionResponse {
	out := make([]AttendanceSessionResponse, 0, len(views))
	for _, v := range views {
		s := sessionHeader(v.AttendanceSessionModel)
		for _, r := range v.Records {
			s.Records = append(s.Records, recordResponse(r.AttendanceRecordModel, r.StudentName))
		}
		out = append(out, s)
	}
	return out
}

type PresenceResponse struct {
	AttendanceRecordResponse
	ClassID uuid.UUID `json:"class_id"`
	Date    string    `json:"date"`
}

func FromRecordViews(rows []service.RecordView) []PresenceResponse {
	out := make([]PresenceResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, PresenceResponse{
			AttendanceRecordResponse: recordResponse(r.AttendanceRecordModel, r.StudentName),
			ClassID:                  r.AttendanceRecordClassGroupID,
			Date:                     r.AttendanceRecordDate.Format("2006-01-02"),
		})
	}
	return out
}

func sessionHeader(m model.AttendanceSessionModel) AttendanceSessionResponse {
	return AttendanceSessionResponse{
		ID:        m.AttendanceSessionID,
		ClassID:   m.AttendanceSessionClassGroupID,
		TeacherID: m.AttendanceSessionTeacherID,
		Date:      m.AttendanceSessionDate.Format("2006-01-02"),
		Comment:   m.AttendanceSessionComment,
		Records:   []AttendanceRecordResponse{},
	}
}

func recordResponse(r model.AttendanceRecordModel, name string) AttendanceRecordResponse {
	return AttendanceRecordResponse{
		ID:        r.AttendanceRecordID,
		StudentID: r.AttendanceRecordStudentID,
		Student:   name,
		Status:    string(r.AttendanceRecordStatus),
		Comment:   r.AttendanceRecordComment,
	}
}
