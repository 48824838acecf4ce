package seeds_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"madrasa_backend/internals/configs"
	"madrasa_backend/internals/databases/dbtest"
	paymentModel "madrasa_backend/internals/features/finance/payments/model"
	studentModel "madrasa_backend/internals/features/school/students/model"
	"madrasa_backend/internals/seeds"
)

func TestRunAllSeeds(t *testing.T) {
	db := dbtest.Open(t)
	cfg := configs.Config{JWTSecret: "seed-secret", DefaultTimezone: "UTC"}

	demo, err := seeds.RunAllSeeds(context.Background(), db, cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, demo)
	assert.Len(t, demo.Students, 3)

	var linked int64
	require.NoError(t, db.Model(&studentModel.StudentModel{}).
		Where("student_parent_id = ?", demo.ParentID).Count(&linked).Error)
	assert.EqualValues(t, 2, linked)

	var payments int64
	require.NoError(t, db.Model(&paymentModel.Payment{}).Count(&payments).Error)
	assert.EqualValues(t, 2, payments)

	// run kedua tidak menggandakan data
	again, err := seeds.RunAllSeeds(context.Background(), db, cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, again)
	require.NoError(t, db.Model(&paymentModel.Payment{}).Count(&payments).Error)
	assert.EqualValues(t, 2, payments)
}
