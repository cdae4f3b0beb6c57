package validator_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Syed-FurqanAhmed/iste-club-activity/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("collects all violations", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.Required("teamName", ""),
			validator.MinLen("username", "ab", 3),
		)
		require.Error(t, err)

		errs := validator.ExtractValidationErrors(err)
		require.Len(t, errs, 2)
		assert.True(t, errs.Has("teamName"))
		assert.True(t, errs.Has("username"))
	})

	t.Run("nil on success", func(t *testing.T) {
		t.Parallel()

		err := validator.Apply(
			validator.Required("teamName", "Alpha"),
			validator.MaxLen("teamName", "Alpha", 30),
		)
		assert.NoError(t, err)
	})
}

func TestApplyFirst(t *testing.T) {
	t.Parallel()

	err := validator.ApplyFirst(
		validator.Required("teamName", ""),
		validator.MinLen("teamName", "", 3),
	)
	require.Error(t, err)

	errs := validator.ExtractValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "teamName is required", errs[0].Message)
}

func TestRules(t *testing.T) {
	t.Parallel()

	t.Run("matches regex uses description in message", func(t *testing.T) {
		t.Parallel()

		re := regexp.MustCompile(`^[0-9]+$`)
		err := validator.Apply(validator.MatchesRegex("pin", "12a", re, "pin must contain digits only"))
		require.Error(t, err)

		errs := validator.ExtractValidationErrors(err)
		assert.Equal(t, "pin must contain digits only", errs[0].Message)
		assert.NotContains(t, errs[0].Message, "[0-9]")
	})

	t.Run("in list", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, validator.Apply(validator.InList("dept", "ISE", validator.Departments)))
		assert.Error(t, validator.Apply(validator.InList("dept", "XYZ", validator.Departments)))
	})
}

func TestIsValidationError(t *testing.T) {
	t.Parallel()

	err := validator.Apply(validator.Required("f", ""))
	assert.True(t, validator.IsValidationError(err))
	assert.False(t, validator.IsValidationError(assert.AnError))
	assert.False(t, validator.IsValidationError(nil))
}

func TestValidationErrorsError(t *testing.T) {
	t.Parallel()

	errs := validator.ValidationErrors{
		{Field: "teamName", Message: "field is required"},
	}
	assert.Equal(t, "validation failed: teamName: field is required", errs.Error())
	assert.Equal(t, "validation failed", validator.ValidationErrors{}.Error())
}
