package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	database "madrasa_backend/internals/databases"
	"madrasa_backend/internals/features/mosques/model"
	"madrasa_backend/internals/helpers/apperr"
)

// TenantLocation: timezone mosque untuk normalisasi day key.
// Tenant yang tidak ada (token basi) → 401.
func TenantLocation(ctx context.Context, db *gorm.DB, mosqueID uuid.UUID, def string) (*time.Location, error) {
	var m model.MosqueModel
	err := db.WithContext(ctx).Select("mosque_id", "mosque_timezone").
		Where("mosque_id = ?", mosqueID).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Unauthorized("unknown tenant")
	}
	if err != nil {
		return nil, database.MapDBError(err)
	}
	return m.Location(def), nil
}

func FindMosque(ctx context.Context, db *gorm.DB, mosqueID uuid.UUID) (*model.MosqueModel, error) {
	var m model.MosqueModel
	err := db.WithContext(ctx).Where("mosque_id = ?", mosqueID).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("mosque not found")
	}
	if err != nil {
		return nil, database.MapDBError(err)
	}
	return &m, nil
}
