package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	database "madrasa_backend/internals/databases"
	"madrasa_backend/internals/features/school/announcements/model"
	userModel "madrasa_backend/internals/features/users/accounts/model"
	viewsService "madrasa_backend/internals/features/views/service"
	"madrasa_backend/internals/helpers/apperr"
	helperAuth "madrasa_backend/internals/helpers/auth"
)

type Service struct {
	DB    *gorm.DB
	Views viewsService.Invalidator
}

func New(db *gorm.DB, views viewsService.Invalidator) *Service {
	return &Service{DB: db, Views: views}
}

func (s *Service) Create(ctx context.Context, actor helperAuth.Actor, title, content string) (*model.AnnouncementModel, error) {
	if err := actor.Require(userModel.RoleAdmin); err != nil {
		return nil, err
	}
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if title == "" || content == "" {
		return nil, apperr.Validation("title and content are required")
	}
	m := &model.AnnouncementModel{
		AnnouncementMosqueID: actor.MosqueID,
		AnnouncementAuthorID: actor.UserID,
		AnnouncementTitle:    title,
		AnnouncementContent:  content,
	}
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		return nil, database.MapDBError(err)
	}
	viewsService.NotifyAsync(s.Views, viewsService.TenantKey(actor.MosqueID, viewsService.ViewAnnouncements))
	return m, nil
}

func (s *Service) Delete(ctx context.Context, actor helperAuth.Actor, id uuid.UUID) error {
	if err := actor.Require(userModel.RoleAdmin); err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).
		Where("announcement_id = ? AND announcement_mosque_id = ?", id, actor.MosqueID).
		Delete(&model.AnnouncementModel{})
	if res.Error != nil {
		return database.MapDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("announcement not found")
	}
	viewsService.NotifyAsync(s.Views, viewsService.TenantKey(actor.MosqueID, viewsService.ViewAnnouncements))
	return nil
}

// List: terbaru dulu; semua role di mosque yang sama boleh baca.
func (s *Service) List(ctx context.Context, actor helperAuth.Actor, limit, offset int) ([]model.AnnouncementModel, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.AnnouncementModel{}).
		Where("announcement_mosque_id = ?", actor.MosqueID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, database.MapDBError(err)
	}
	var rows []model.AnnouncementModel
	if err := q.Order("announcement_created_at DESC, announcement_id DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, database.MapDBError(err)
	}
	return rows, total, nil
}
