package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "uniagendas/pkg/domain-errors"
)

func TestParseIDs(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParsePatientID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseDoctorID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		assert.Contains(t, err.Error(), "doctor ID")
	})

	t.Run("nil UUID parses but reports IsNil", func(t *testing.T) {
		id, err := ParseAppointmentID(uuid.Nil.String())
		require.NoError(t, err)
		assert.True(t, id.IsNil())
	})

	t.Run("round trips through String", func(t *testing.T) {
		raw := uuid.New()
		id, err := ParsePatientID(raw.String())
		require.NoError(t, err)
		assert.Equal(t, raw.String(), id.String())
		assert.False(t, id.IsNil())
	})
}

func TestNewIDsAreDistinct(t *testing.T) {
	assert.NotEqual(t, NewAppointmentID(), NewAppointmentID())
	assert.False(t, NewPatientID().IsNil())
	assert.False(t, NewDoctorID().IsNil())
}
