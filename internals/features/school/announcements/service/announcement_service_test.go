package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"madrasa_backend/internals/databases/dbtest"
	"madrasa_backend/internals/features/school/announcements/model"
	"madrasa_backend/internals/features/school/announcements/service"
	viewsService "madrasa_backend/internals/features/views/service"
	"madrasa_backend/internals/helpers/apperr"
)

func TestAnnouncementsNewestFirstPerTenant(t *testing.T) {
	db := dbtest.Open(t)
	a := dbtest.NewSchool(t, db, "a", 0)
	b := dbtest.NewSchool(t, db, "b", 0)
	inv := &dbtest.RecordingInvalidator{}
	svc := service.New(db, inv)
	ctx := context.Background()

	first, err := svc.Create(ctx, dbtest.ActorOf(a.Admin), "Eid holiday", "No classes on Friday")
	require.NoError(t, err)
	require.NoError(t, db.Model(first).Update("announcement_created_at", time.Now().Add(-time.Hour)).Error)
	_, err = svc.Create(ctx, dbtest.ActorOf(a.Admin), "Exams", "Exams start next week")
	require.NoError(t, err)
	_, err = svc.Create(ctx, dbtest.ActorOf(b.Admin), "Other", "Other mosque")
	require.NoError(t, err)

	rows, total, err := svc.List(ctx, dbtest.ActorOf(a.Parent), 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "Exams", rows[0].AnnouncementTitle)
	assert.Equal(t, "Eid holiday", rows[1].AnnouncementTitle)

	key := viewsService.TenantKey(a.Mosque.MosqueID, viewsService.ViewAnnouncements)
	assert.Eventually(t, func() bool { return inv.Has(key) }, time.Second, 10*time.Millisecond)
}

func TestAnnouncementsAdminOnly(t *testing.T) {
	db := dbtest.Open(t)
	a := dbtest.NewSchool(t, db, "a", 0)
	b := dbtest.NewSchool(t, db, "b", 0)
	svc := service.New(db, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, dbtest.ActorOf(a.Teacher), "Hi", "Teacher post")
	assert.True(t, apperr.IsKind(err, apperr.KindNotAuthorized))

	m, err := svc.Create(ctx, dbtest.ActorOf(a.Admin), "Hi", "Admin post")
	require.NoError(t, err)

	err = svc.Delete(ctx, dbtest.ActorOf(b.Admin), m.AnnouncementID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	require.NoError(t, svc.Delete(ctx, dbtest.ActorOf(a.Admin), m.AnnouncementID))

	var n int64
	require.NoError(t, db.Model(&model.AnnouncementModel{}).Count(&n).Error)
	assert.Zero(t, n)
}
