package errs_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/jrazmi/flowdesk/bridge/scaffolding/errs"
	"github.com/jrazmi/flowdesk/core/repositories/authrepo"
	"github.com/jrazmi/flowdesk/core/repositories/tasksrepo"
	"github.com/jrazmi/flowdesk/core/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodesMapToStatus(t *testing.T) {
	tests := map[errs.ErrCode]int{
		errs.InvalidArgument: http.StatusBadRequest,
		errs.Unprocessable:   http.StatusUnprocessableEntity,
		errs.Unauthenticated: http.StatusUnauthorized,
		errs.TooManyRequests: http.StatusTooManyRequests,
		errs.BadGateway:      http.StatusBadGateway,
		errs.InternalOnlyLog: http.StatusInternalServerError,
		errs.ErrCode(99):     http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, code.HTTPStatus(), code.String())
	}
}

func TestNewFields_Encodes(t *testing.T) {
	e := errs.NewFields("validation failed", map[string]string{"title": "Required"})

	data, contentType, err := e.Encode()
	require.NoError(t, err)
	assert.Contains(t, contentType, "application/json")

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, "validation failed", body["error"])
	assert.Equal(t, map[string]any{"title": "Required"}, body["fields"])
	assert.Equal(t, http.StatusBadRequest, e.HTTPStatus())
}

func TestNew_RecordsCallerAndCause(t *testing.T) {
	cause := errors.New("boom")
	e := errs.New(errs.BadGateway, cause)

	assert.ErrorIs(t, e, cause)
	assert.True(t, errs.IsError(e))
	assert.True(t, strings.Contains(e.FileName, "errs_test.go"), e.FileName)
	assert.Contains(t, e.FuncName, "TestNew_RecordsCallerAndCause")
}

func TestFrom_ClassifiesDomainErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{
			name:    "validation",
			err:     &schemas.ValidationError{Fields: schemas.FieldErrors{"title": schemas.MsgTitleTooShort}},
			status:  http.StatusBadRequest,
			message: errs.MsgValidation,
		},
		{
			name:    "rejected credentials",
			err:     &authrepo.AuthError{Status: http.StatusBadRequest, Message: "Invalid login credentials"},
			status:  http.StatusUnauthorized,
			message: "Invalid login credentials",
		},
		{
			name:    "sign-up already registered",
			err:     &authrepo.AuthError{Op: authrepo.OpSignUp, Status: http.StatusUnprocessableEntity, Message: "User already registered"},
			status:  http.StatusUnprocessableEntity,
			message: "User already registered",
		},
		{
			name:    "sign-up refused",
			err:     &authrepo.AuthError{Op: authrepo.OpSignUp, Status: http.StatusBadRequest, Message: "Signups not allowed for this instance"},
			status:  http.StatusBadRequest,
			message: "Signups not allowed for this instance",
		},
		{
			name:    "auth service down",
			err:     &authrepo.AuthError{Message: "connection refused"},
			status:  http.StatusBadGateway,
			message: "connection refused",
		},
		{
			name:    "store failure",
			err:     &tasksrepo.StoreError{Op: "list", Err: errors.New("timeout")},
			status:  http.StatusBadGateway,
			message: "timeout",
		},
		{
			name:   "missing user",
			err:    tasksrepo.ErrMissingUser,
			status: http.StatusUnauthorized,
		},
		{
			name:   "unknown",
			err:    errors.New("something broke"),
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := errs.From(tt.err)
			assert.Equal(t, tt.status, e.HTTPStatus())
			if tt.message != "" {
				assert.Equal(t, tt.message, e.Message)
			}
			assert.ErrorIs(t, e, tt.err)
		})
	}

	ve := errs.From(&schemas.ValidationError{Fields: schemas.FieldErrors{"title": "Required"}})
	assert.Equal(t, map[string]string{"title": "Required"}, ve.Fields)
	assert.Equal(t, errs.InternalOnlyLog, errs.From(errors.New("x")).Code)
}
