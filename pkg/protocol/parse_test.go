package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "uniagendas/pkg/domain-errors"
)

func TestParse(t *testing.T) {
	t.Run("splits tag and suffix", func(t *testing.T) {
		category, suffix, err := Parse("AUT123456")
		require.NoError(t, err)
		assert.Equal(t, CategoryAuthorization, category)
		assert.Equal(t, 123456, suffix)
	})

	t.Run("accepts lowercase tags", func(t *testing.T) {
		category, _, err := Parse("agd654321")
		require.NoError(t, err)
		assert.Equal(t, CategoryAppointment, category)
	})

	rejected := map[string]string{
		"empty":           "",
		"short":           "AGD12345",
		"unknown tag":     "XYZ123456",
		"non numeric":     "ATD12345a",
		"below range":     "ATD012345",
		"dated format":    "UNI202603070042",
		"embedded spaces": "AGD 12345",
	}
	for name, code := range rejected {
		t.Run("rejects "+name, func(t *testing.T) {
			_, _, err := Parse(code)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			assert.False(t, Valid(code))
		})
	}
}

func TestValidDated(t *testing.T) {
	assert.True(t, ValidDated("UNI", "UNI202610170000"))
	assert.True(t, ValidDated("UNI", "UNI202610179998"))
	assert.False(t, ValidDated("UNI", "UNI202610179999"))
	assert.False(t, ValidDated("UNI", "ABC202610170001"))
	assert.False(t, ValidDated("UNI", "UNI2026101700"))
}

func TestParseCategory(t *testing.T) {
	for _, in := range []string{"appointment", "AGD", " Appointment "} {
		c, ok := ParseCategory(in)
		assert.True(t, ok, in)
		assert.Equal(t, CategoryAppointment, c)
	}

	c, ok := ParseCategory("aut")
	assert.True(t, ok)
	assert.Equal(t, CategoryAuthorization, c)

	c, ok = ParseCategory("surgery")
	assert.False(t, ok)
	assert.Equal(t, CategoryAttendance, c)
}

func TestCategoryNormalize(t *testing.T) {
	assert.Equal(t, CategoryAttendance, Category("").Normalize())
	assert.Equal(t, "ATD", Category("").Tag())
	assert.Equal(t, "attendance", Category("other").String())
	assert.False(t, Category("other").IsKnown())
	assert.True(t, CategoryAppointment.IsKnown())
}
