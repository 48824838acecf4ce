package service

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// View yang di-cache di sisi client dan perlu di-refresh setelah write.
const (
	ViewTeacherAttendance = "teacher/attendance"
	ViewTeacherGrades     = "teacher/grades"
	ViewParentPresences   = "parent/presences"
	ViewParentGrades      = "parent/grades"
	ViewParentPayments    = "parent/payments"
	ViewStudentPresences  = "student/presences"
	ViewStudentGrades     = "student/grades"
	ViewSchedules         = "schedules"
	ViewAnnouncements     = "announcements"
	ViewAdminDashboard    = "admin/dashboard"
	ViewAdminPayments     = "admin/payments"
	ViewAdminClasses      = "admin/classes"
	ViewAdminStudents     = "admin/students"
)

// Invalidator dipanggil setelah commit sukses. Best-effort: tidak boleh
// menggagalkan operasi yang sudah commit.
type Invalidator interface {
	Invalidate(ctx context.Context, keys ...string)
}

func TenantKey(mosqueID uuid.UUID, view string) string {
	return "mosque:" + mosqueID.String() + ":" + view
}

func TenantKeys(mosqueID uuid.UUID, views ...string) []string {
	out := make([]string, 0, len(views))
	for _, v := range views {
		out = append(out, TenantKey(mosqueID, v))
	}
	return out
}

// NotifyAsync: fire-and-forget, panic/latency invalidator tidak sampai ke caller.
func NotifyAsync(inv Invalidator, keys ...string) {
	if inv == nil || len(keys) == 0 {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[WARN] view invalidation panic: %v", r)
			}
		}()
		inv.Invalidate(context.Background(), keys...)
	}()
}

/* =========================================================
   Board: versi per key di memori proses
========================================================= */

type Board struct {
	mu       sync.RWMutex
	versions map[string]uint64
}

func NewBoard() *Board {
	return &Board{versions: make(map[string]uint64)}
}

func (b *Board) Invalidate(_ context.Context, keys ...string) {
	b.mu.Lock()
	for _, k := range keys {
		b.versions[k]++
	}
	b.mu.Unlock()
	log.Printf("[VIEWS] invalidated %s", strings.Join(keys, ","))
}

// Versions: key yang belum pernah di-invalidate bernilai 0.
func (b *Board) Versions(keys ...string) map[string]uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]uint64, len(keys))
	for _, k := range keys {
		out[k] = b.versions[k]
	}
	return out
}
