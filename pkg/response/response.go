package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/social-feed/social-feed/pkg/apperror"
	"github.com/social-feed/social-feed/pkg/validator"
)

// Body is the envelope every endpoint returns.
type Body struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    interface{}            `json:"data,omitempty"`
	Errors  []validator.FieldError `json:"errors,omitempty"`
}

func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Message: message, Data: data})
}

// Fail writes an error envelope with an explicit status.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Body{Success: false, Message: message})
}

// ValidationFailed writes a 400 with per-field binding errors.
func ValidationFailed(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Body{
		Success: false,
		Message: validator.FormatValidationError(err),
		Errors:  validator.FieldErrors(err),
	})
}

// Error maps err to a status via apperror and writes the envelope. Unmapped
// errors become 500 with the raw message and are logged.
func Error(c *gin.Context, log logrus.FieldLogger, err error) {
	code := apperror.MapErrorToStatus(err)
	message := err.Error()

	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}

	if code == http.StatusInternalServerError && log != nil {
		log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).WithError(err).Error("Request failed")
	}
	if message == "" {
		message = "Server Error"
	}

	Fail(c, code, message)
}
