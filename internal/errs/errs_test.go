package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "NOT_FOUND", MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound)))
}

func TestHTTPErrorIsMatchesAnyHTTPError(t *testing.T) {
	wrapped := fmt.Errorf("lookup: %w", NewCarNotFoundError(4))

	assert.True(t, errors.Is(wrapped, &HTTPError{}))

	var httpErr *HTTPError
	assert.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "CAR_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "Car 4 not found", httpErr.Error())
}

func TestConstructorsUseStatusText(t *testing.T) {
	assert.Equal(t, "UNAUTHORIZED", NewUnauthorizedError("no key", false).Code)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", NewInternalServerError().Code)
	assert.Equal(t, http.StatusServiceUnavailable, NewServiceUnavailableError().Status)

	code := "CUSTOM"
	assert.Equal(t, "CUSTOM", NewBadRequestError("x", false, &code, nil, nil).Code)
	assert.Equal(t, "Validation failed: boom", ValidationError(errors.New("boom")).Message)
}
