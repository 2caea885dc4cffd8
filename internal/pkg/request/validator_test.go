package request

import (
	"net/http"
	"testing"

	cErr "costlens/internal/pkg/error"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tier struct {
	From int64 `binding:"min=0"`
}

type ruleRequest struct {
	Provider string `binding:"required"`
	Tiers    []tier `binding:"omitempty,dive"`
}

func (ruleRequest) GetMessages() ValidatorMessages {
	return ValidatorMessages{
		"Provider.required": "provider is required",
		"Tiers.*.From.min":  "tier from must not be negative",
	}
}

type plainRequest struct {
	Name string `binding:"required"`
}

func TestValidateStructCustomMessages(t *testing.T) {
	err := ValidateStruct(&ruleRequest{})
	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.HttpCode())
	assert.Equal(t, cErr.BAD_REQUEST_BODY, err.ErrorCode())
	assert.Equal(t, "provider is required", err.ErrorDesc())

	err = ValidateStruct(&ruleRequest{Provider: "openai", Tiers: []tier{{From: 0}, {From: 1}, {From: -1}, {From: 2}, {From: 3}, {From: 4}, {From: 5}, {From: 6}, {From: 7}, {From: 8}, {From: -2}}})
	require.NotNil(t, err)
	assert.Equal(t, "tier from must not be negative", err.ErrorDesc())
}

func TestValidateStructFallsBackToFieldError(t *testing.T) {
	err := ValidateStruct(&plainRequest{})
	require.NotNil(t, err)
	assert.Contains(t, err.ErrorDesc(), "'required'")

	assert.Nil(t, ValidateStruct(&plainRequest{Name: "x"}))
}
