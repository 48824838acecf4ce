package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"madrasa_backend/internals/helpers/apperr"
)

type slotBody struct {
	Subject string `json:"subject" validate:"required,notblank"`
	Start   string `json:"start_time" validate:"required,hhmm"`
}

func TestValidateStruct(t *testing.T) {
	require.NoError(t, ValidateStruct(slotBody{Subject: "Fiqh", Start: "08:00"}))

	err := ValidateStruct(slotBody{Subject: "   ", Start: "08:00"})
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, ae.Status)
	assert.Equal(t, "subject cannot be blank", ae.Message)

	err = ValidateStruct(slotBody{Subject: "Fiqh", Start: "8h"})
	ae, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "start_time must be a time in HH:MM format", ae.Message)

	err = ValidateStruct(slotBody{Start: "08:00"})
	ae, ok = apperr.As(err)
	require.True(t, ok)
	assert.Contains(t, ae.Message, "subject")
}
