package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAppError(t *testing.T) {
	appErr := NotFoundError("Invalid coupon", errors.New("record not found"))

	got := GetAppError(appErr)
	require.NotNil(t, got)
	assert.Equal(t, http.StatusNotFound, got.Code)

	// wrapped anywhere in the chain still resolves
	wrapped := fmt.Errorf("quote failed: %w", appErr)
	got = GetAppError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, "Invalid coupon", got.Message)

	assert.Nil(t, GetAppError(errors.New("plain")))
	assert.Nil(t, GetAppError(nil))
}

func TestErrorHelperCodes(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, BadRequestError("bad", nil).Code)
	assert.Equal(t, http.StatusNotFound, NotFoundError("missing", nil).Code)
	assert.Equal(t, http.StatusForbidden, ForbiddenError("no", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, InternalError("boom", nil).Code)
}
