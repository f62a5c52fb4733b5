package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"medlink-backend/internal/shared/httperror"
	"medlink-backend/pkg/logger"
)

// Response is the uniform envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Success writes a success envelope. data may be nil.
func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Fail writes an error envelope with an explicit code.
func Fail(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// HandleError maps service errors onto the envelope.
//
//   - *httperror.HTTPError: mapped directly (status, code, details)
//   - validation.Errors (ozzo): 400 with a field->message map
//   - anything else: logged with full context, surfaced as a generic 500
func HandleError(c *gin.Context, err error) {
	var httpErr *httperror.HTTPError
	if errors.As(err, &httpErr) {
		Fail(c, httpErr.StatusCode, httpErr.Code, httpErr.Message, detailsOrNil(httpErr.Details))
		return
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		Fail(c, http.StatusBadRequest, httperror.CodeInvalidInput, "Invalid input.", fieldErrs)
		return
	}

	logger.Error("unhandled error", map[string]interface{}{"error": err.Error()})
	Fail(c, http.StatusInternalServerError, httperror.CodeInternalError, "Something went wrong.", nil)
}

func detailsOrNil(details map[string]string) interface{} {
	if len(details) == 0 {
		return nil
	}
	return details
}
