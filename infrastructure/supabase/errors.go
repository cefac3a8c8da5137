package supabase

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ServiceError is a non-2xx answer from the service. Message is the text the
// service gave, suitable for showing to the user as-is.
type ServiceError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase: %d: %s", e.Status, e.Message)
}

// DisplayMessage returns the service's own wording.
func (e *ServiceError) DisplayMessage() string {
	return e.Message
}

// IsUnauthorized reports whether the service rejected the credentials.
func (e *ServiceError) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// AsServiceError unwraps err into a *ServiceError.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// errorBody covers both PostgREST ({code, message, details}) and the auth
// service ({error, error_description} or {error_code, msg}).
type errorBody struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Message          string          `json:"message"`
	Msg              string          `json:"msg"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

func newServiceError(status int, data []byte) *ServiceError {
	se := &ServiceError{Status: status}

	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		se.Message = strings.TrimSpace(string(data))
		if se.Message == "" {
			se.Message = http.StatusText(status)
		}
		return se
	}

	se.Message = firstNonEmpty(body.Msg, body.Message, body.ErrorDescription, body.Error, http.StatusText(status))
	se.Code = body.ErrorCode
	if se.Code == "" {
		var code string
		if json.Unmarshal(body.Code, &code) == nil {
			se.Code = code
		}
	}
	if se.Code == "" && body.ErrorDescription != "" {
		se.Code = body.Error
	}
	return se
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
