package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/server/http/dto"
)

var kindStatus = map[domainErrors.Kind]int{
	domainErrors.KindValidation:   http.StatusUnprocessableEntity,
	domainErrors.KindNotFound:     http.StatusNotFound,
	domainErrors.KindDependency:   http.StatusServiceUnavailable,
	domainErrors.KindConflict:     http.StatusConflict,
	domainErrors.KindState:        http.StatusConflict,
	domainErrors.KindForbidden:    http.StatusForbidden,
	domainErrors.KindUnauthorized: http.StatusUnauthorized,
}

// writeError renders err as an ErrorResponse with the status of its kind.
// Internal errors never leak their message.
func writeError(c *gin.Context, err error) {
	_ = c.Error(err)

	status, ok := kindStatus[domainErrors.KindOf(err)]
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    "internal_error",
			Message: "internal server error",
		})
		return
	}

	resp := dto.ErrorResponse{Code: domainErrors.CodeOf(err), Message: err.Error()}
	var verr *domainErrors.ValidationError
	if errors.As(err, &verr) {
		resp.Message = "validation failed"
		for _, f := range verr.Fields {
			resp.Fields = append(resp.Fields, dto.FieldError{Field: f.Field, Message: f.Message})
		}
	}
	c.AbortWithStatusJSON(status, resp)
}

func writeBadRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
		Code:    "invalid_body",
		Message: "malformed request body",
	})
}

func fieldError(field, message string) error {
	verr := &domainErrors.ValidationError{}
	verr.Add(field, message)
	return verr
}
