package pushover

import (
	"fmt"

	"github.com/spacemonkeygo/errors"
)

var (
	Error = errors.NewClass("pushover")

	// MissingTokenError is returned before any request is made when the
	// Client has no API token.
	MissingTokenError = Error.NewClass("missing token")
	// InvalidUserError is returned when no user key could be resolved.
	InvalidUserError = Error.NewClass("invalid user")
	// RequestError is returned when the API rejects a call with a 4xx
	// status. The reasons reported by the API are available through
	// RequestErrors.
	RequestError = Error.NewClass("request rejected")
	// ServerError is returned on 5xx responses. It is never retried here.
	ServerError           = Error.NewClass("server error")
	InvalidParameterError = Error.NewClass("invalid parameter")
	InvalidSoundError     = Error.NewClass("invalid sound")

	reasonsKey = errors.GenSym()
	statusKey  = errors.GenSym()
)

func newRequestError(status int, reasons []string) error {
	return RequestError.NewWith(joinReasons(reasons),
		errors.SetData(reasonsKey, reasons),
		errors.SetData(statusKey, status))
}

// RequestErrors returns the reasons the API gave for rejecting a request,
// or nil if err is not a RequestError.
func RequestErrors(err error) []string {
	if !RequestError.Contains(err) {
		return nil
	}
	reasons, _ := errors.GetData(err, reasonsKey).([]string)
	return reasons
}

// StatusCode returns the HTTP status attached to a RequestError or
// ServerError, or 0.
func StatusCode(err error) int {
	if err == nil {
		return 0
	}
	code, _ := errors.GetData(err, statusKey).(int)
	return code
}

func newServerError(status int, statusText string) error {
	return ServerError.NewWith(fmt.Sprintf("%d %s", status, statusText),
		errors.SetData(statusKey, status))
}

func joinReasons(reasons []string) string {
	msg := ""
	for _, r := range reasons {
		msg += "\n==> " + r
	}
	return msg
}
