package helper

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/response"
	"taskapp/internal/core/validation"
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeInvalidState = "INVALID_STATE"
	CodeBadRequest   = "BAD_REQUEST"
	CodeInternal     = "INTERNAL_ERROR"
	CodeRateLimited  = "RATE_LIMITED"
)

func SendSuccess(c *gin.Context, statusCode int, data any, message ...string) {
	response := response.SuccessResponse{
		Data: data,
	}

	if len(message) > 0 && message[0] != "" {
		response.Message = message[0]
	}

	c.JSON(statusCode, response)
}

func SendError(c *gin.Context, statusCode int, code string, errors []response.ValidationError, details ...any) {
	errorResponse := response.ErrorResponse{
		Error: response.ResponseError{
			Code:   code,
			Errors: errors,
		},
	}

	if len(details) > 0 {
		errorResponse.Error.Details = details[0]
	}

	c.JSON(statusCode, errorResponse)
}

// SendValidationError lists one entry per failed rule.
func SendValidationError(c *gin.Context, err *validation.Error) {
	errors := make([]response.ValidationError, 0, len(err.Issues))

	for _, issue := range err.Issues {
		errors = append(errors, response.ValidationError{
			Field:   issue.Path,
			Message: issue.Message,
		})
	}

	SendError(c, http.StatusBadRequest, CodeValidation, errors)
}

// SendDomainError maps an error category to its status: validation 400, not found 404,
// invalid state 409 and anything else 500. Internal causes are not echoed.
func SendDomainError(c *gin.Context, err error) {
	var shapeErr *validation.Error
	if errors.As(err, &shapeErr) {
		SendValidationError(c, shapeErr)
		return
	}

	var invariant *domain.InvariantError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		SendNotFoundError(c, err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		SendError(c, http.StatusConflict, CodeInvalidState, []response.ValidationError{
			{Field: "task", Message: err.Error()},
		})
	case errors.As(err, &invariant):
		SendError(c, http.StatusBadRequest, CodeValidation, []response.ValidationError{
			{Field: invariant.Field, Message: invariant.Message},
		})
	case errors.Is(err, domain.ErrValidation):
		SendError(c, http.StatusBadRequest, CodeValidation, []response.ValidationError{
			{Field: "request", Message: err.Error()},
		})
	default:
		SendInternalError(c, "Internal server error")
	}
}

func SendInternalError(c *gin.Context, message string, details ...any) {
	errors := []response.ValidationError{
		{
			Field:   "server",
			Message: message,
		},
	}

	SendError(c, http.StatusInternalServerError, CodeInternal, errors, details...)
}

func SendBadRequestError(c *gin.Context, field string, message string) {
	errors := []response.ValidationError{
		{
			Field:   field,
			Message: message,
		},
	}

	SendError(c, http.StatusBadRequest, CodeBadRequest, errors)
}

func SendNotFoundError(c *gin.Context, message string) {
	errors := []response.ValidationError{
		{
			Field:   "resource",
			Message: message,
		},
	}

	SendError(c, http.StatusNotFound, CodeNotFound, errors)
}
