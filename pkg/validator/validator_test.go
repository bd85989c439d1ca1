package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type uploadForm struct {
	Label    string `validate:"max=10"`
	MinLevel string `validate:"omitempty,severity_level"`
	Sheet    string `validate:"omitempty,export_sheet"`
	Document string `validate:"required"`
}

func TestValidator_Validate(t *testing.T) {
	v := New()

	t.Run("valid", func(t *testing.T) {
		err := v.Validate(uploadForm{Label: "baseline", MinLevel: "warning", Sheet: "rules", Document: "{}"})
		assert.NoError(t, err)
	})

	t.Run("missing required field", func(t *testing.T) {
		err := v.Validate(uploadForm{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "document: is required")
	})

	t.Run("label too long", func(t *testing.T) {
		err := v.Validate(uploadForm{Label: "a label that is too long", Document: "{}"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "label")
	})

	t.Run("unknown severity level", func(t *testing.T) {
		err := v.Validate(uploadForm{MinLevel: "critical", Document: "{}"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "min_level")
	})

	t.Run("severity level is case-insensitive", func(t *testing.T) {
		err := v.Validate(uploadForm{MinLevel: "Warning", Document: "{}"})
		assert.NoError(t, err)
	})

	t.Run("unknown sheet", func(t *testing.T) {
		err := v.Validate(uploadForm{Sheet: "pivot", Document: "{}"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "sheet")
	})
}
