package errcodes

import (
	"fmt"
	"net/http"

	"github.com/iancoleman/strcase"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/errutils"
)

type Handler struct {
	// debug controls whether internal error detail is rendered on 500-class
	// error pages. It must be false in production.
	debug bool
}

func NewHandler(debug bool) *Handler {
	return &Handler{debug: debug}
}

// Handle is an Echo error handler that renders the error view for HTTP
// errors; any generic error is interpreted as an internal server error.
func (h *Handler) Handle(err error, c echo.Context) {
	if errutils.IsIgnorableErr(err) {
		logger.FromEchoContext(c).Err(err).Warn("broken pipe")
		return
	}

	httpCode, code, msg := h.status(err)

	// Internal server errors
	if httpCode == http.StatusInternalServerError {
		logger.FromEchoContext(c).Err(err).Error("server error")
	}

	data := echo.Map{
		"Title":      "Error",
		"StatusCode": httpCode,
		"Code":       code,
		"Message":    msg,
	}
	if h.debug {
		data["Detail"] = fmt.Sprintf("%+v", err)
	}

	if renderErr := c.Render(httpCode, "error", data); renderErr != nil {
		// No renderer (or a broken template); fall back to a JSON payload so
		// the client still gets the right status code.
		payload := echo.Map{
			"error": echo.Map{
				"code":        code,
				"message":     msg,
				"status_code": httpCode,
			},
		}
		if jsonErr := c.JSON(httpCode, payload); jsonErr != nil {
			logger.FromEchoContext(c).Err(errors.WithStack(jsonErr)).Error("error handler json error")
		}
	}
}

func (h *Handler) status(err error) (int, string, string) {
	code := ""
	msg := ""
	httpCode := http.StatusInternalServerError

	// Echo errors
	var he *echo.HTTPError
	if ok := errors.As(err, &he); ok {
		httpCode = he.Code
		msg, _ = he.Message.(string)
		code = strcase.ToSnake(msg)
	}

	// Custom errors
	var e *Error
	if ok := errors.As(err, &e); ok {
		httpCode = e.HTTPCode
		code = e.Code
		msg = e.Message
	}

	// Internal server errors that aren't Echo errors or custom errors
	if httpCode == http.StatusInternalServerError && msg == "" {
		code = "internal_server_error"
		msg = "Internal Server Error"
	}

	return httpCode, code, msg
}
