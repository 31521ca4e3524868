package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edumentor/edumentor/core"
	"github.com/edumentor/edumentor/core/chat"
	"github.com/edumentor/edumentor/core/course"
	"github.com/edumentor/edumentor/core/mentorship"
	"github.com/edumentor/edumentor/core/user"
)

var (
	errUnauthorized            = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed    = echo.NewHTTPError(http.StatusUnauthorized, "Incorrect email or password")
	errAccountDeactivated      = echo.NewHTTPError(http.StatusForbidden, "account deactivated")
	errRefreshExpired          = echo.NewHTTPError(http.StatusForbidden, "refresh has expired")
	errInsufficientPermissions = echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
	errUserNotFound            = echo.NewHTTPError(http.StatusNotFound, "User not found")

	// domainErrors maps core errors to their HTTP representation.
	domainErrors = []struct {
		err  error
		herr *echo.HTTPError
	}{
		{user.ErrNotFound, errUserNotFound},
		{course.ErrNotFound, echo.NewHTTPError(http.StatusNotFound, "Course not found")},
		{course.ErrNotInstructor, echo.NewHTTPError(http.StatusForbidden, "Only the course instructor can do this")},
		{mentorship.ErrNotFound, echo.NewHTTPError(http.StatusNotFound, "Session not found")},
		{mentorship.ErrMentorNotFound, echo.NewHTTPError(http.StatusNotFound, "Mentor not found")},
		{mentorship.ErrNotParticipant, echo.NewHTTPError(http.StatusForbidden, "Not a participant of this session")},
		{mentorship.ErrStatusTransition, echo.NewHTTPError(http.StatusBadRequest, "Only scheduled sessions can be completed or cancelled")},
		{chat.ErrNotFound, echo.NewHTTPError(http.StatusNotFound, "Message not found")},
		{chat.ErrReceiverNotFound, echo.NewHTTPError(http.StatusNotFound, "Receiver not found")},
		{chat.ErrNotReceiver, echo.NewHTTPError(http.StatusForbidden, "Only the receiver can mark a message as read")},
	}
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		cause := errors.Cause(err)
		for _, de := range domainErrors {
			// causes of another dynamic type compare unequal, even uncomparable ones
			if cause == de.err {
				cause = de.herr
				break
			}
		}

		switch origErr := cause.(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if fldErrs := origErr.FieldMap(); fldErrs != nil {
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		default: // any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			var usr user.User
			if claims, cErr := getContextClaims(ctx); cErr == nil {
				usr.ID = claims.Subject
				usr.Email = claims.Email
			}
			logger.Error(msg, errors.Wrap(err, msg), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
