package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBoardInvalidateBumpsVersions(t *testing.T) {
	b := NewBoard()
	mid := uuid.New()
	k := TenantKey(mid, ViewAdminDashboard)

	assert.Equal(t, uint64(0), b.Versions(k)[k])
	b.Invalidate(context.Background(), k)
	b.Invalidate(context.Background(), k, TenantKey(mid, ViewTeacherAttendance))

	got := b.Versions(k, TenantKey(mid, ViewTeacherAttendance), "unknown")
	assert.Equal(t, uint64(2), got[k])
	assert.Equal(t, uint64(1), got[TenantKey(mid, ViewTeacherAttendance)])
	assert.Equal(t, uint64(0), got["unknown"])
}

func TestTenantKeysAreScopedPerMosque(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.NotEqual(t, TenantKey(a, ViewSchedules), TenantKey(b, ViewSchedules))
	assert.Len(t, TenantKeys(a, ViewSchedules, ViewAnnouncements), 2)
}

type panicky struct {
	mu     sync.Mutex
	called bool
}

func (p *panicky) Invalidate(context.Context, ...string) {
	p.mu.Lock()
	p.called = true
	p.mu.Unlock()
	panic("boom")
}

func TestNotifyAsyncSwallowsPanics(t *testing.T) {
	p := &panicky{}
	NotifyAsync(p, "k")
	assert.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.called
	}, time.Second, 10*time.Millisecond)

	// nil invalidator / no keys: no-op
	NotifyAsync(nil, "k")
	NotifyAsync(p)
}
