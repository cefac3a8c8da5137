package errs

import (
	"errors"
	"net/http"

	"github.com/jrazmi/flowdesk/core/repositories"
	"github.com/jrazmi/flowdesk/core/repositories/authrepo"
	"github.com/jrazmi/flowdesk/core/repositories/tasksrepo"
	"github.com/jrazmi/flowdesk/core/schemas"
	"github.com/jrazmi/flowdesk/infrastructure/web"
)

// MsgValidation heads the body of every 400 carrying field messages.
const MsgValidation = "validation failed"

// From classifies an error raised below the bridge. Validation failures keep
// their field messages; service failures keep the service's wording.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	if ve, ok := schemas.AsValidationError(err); ok {
		return newError(InvalidArgument, MsgValidation, err).withFields(ve.Fields)
	}

	if ae, ok := authrepo.AsAuthError(err); ok {
		switch {
		case ae.Rejected() && ae.Op == authrepo.OpSignUp:
			// The account could not be created; the caller is not being
			// refused entry.
			if ae.Status == http.StatusUnprocessableEntity {
				return newError(Unprocessable, ae.Message, err)
			}
			return newError(InvalidArgument, ae.Message, err)
		case ae.Rejected():
			return newError(Unauthenticated, ae.Message, err)
		}
		return newError(BadGateway, ae.Message, err)
	}

	if se, ok := tasksrepo.AsStoreError(err); ok {
		return newError(BadGateway, se.Message(), err)
	}

	switch {
	case errors.Is(err, tasksrepo.ErrMissingUser), errors.Is(err, repositories.ErrUnauthenticated):
		return newError(Unauthenticated, "not authenticated", err)
	case errors.Is(err, web.ErrEmptyBody):
		return newError(InvalidArgument, err.Error(), err)
	case errors.Is(err, repositories.ErrNotFound):
		return newError(NotFound, err.Error(), err)
	}

	return newError(InternalOnlyLog, err.Error(), err)
}

func (e *Error) withFields(fields map[string]string) *Error {
	e.Fields = make(map[string]string, len(fields))
	for k, v := range fields {
		e.Fields[k] = v
	}
	return e
}
