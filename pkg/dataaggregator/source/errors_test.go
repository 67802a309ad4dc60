package source

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/travigo/liverail/pkg/ctdf"
)

func TestStatusError(t *testing.T) {
	assert.NoError(t, StatusError("Test", &http.Response{StatusCode: http.StatusOK}))

	err := StatusError("Test", &http.Response{StatusCode: http.StatusForbidden, Status: "403 Forbidden"})
	assert.ErrorIs(t, err, ErrQuotaExceeded)

	var planningError *ctdf.PlanningError
	assert.True(t, errors.As(err, &planningError))
	assert.Equal(t, http.StatusForbidden, planningError.StatusCode)
	assert.Contains(t, err.Error(), "Test returned 403 Forbidden")
}

func TestIsCacheRecoverable(t *testing.T) {
	assert.False(t, IsCacheRecoverable(ErrAuthenticationRequired.WithStatus(401)))
	assert.False(t, IsCacheRecoverable(ErrQuotaExceeded.WithStatus(403)))
	assert.True(t, IsCacheRecoverable(ErrHTTPStatus.WithStatus(500)))
	assert.True(t, IsCacheRecoverable(NetworkError("Test", errors.New("connection reset"))))
	assert.True(t, IsCacheRecoverable(errors.New("unclassified")))

	noResults := &ctdf.PlanningError{Category: ctdf.PlanningErrorCategoryNoResults, Code: "no_connections"}
	assert.False(t, IsCacheRecoverable(noResults))
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(ErrHTTPStatus.WithStatus(http.StatusBadGateway)))
	assert.True(t, IsTransient(ErrHTTPStatus.WithStatus(http.StatusGatewayTimeout)))
	assert.False(t, IsTransient(ErrHTTPStatus.WithStatus(http.StatusInternalServerError)))
	assert.False(t, IsTransient(errors.New("plain")))
}
