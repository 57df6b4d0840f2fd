package api

import (
	"errors"
	"net/http"

	"messaging-gateway/internal/apperror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError && apperror.KindOf(err) == apperror.KindInternal {
		c.Error(err)
		msg = "Internal server error"
	}
	var ae *apperror.Error
	if errors.As(err, &ae) {
		msg = ae.Message
	}
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    apperror.CodeOf(err),
			"message": msg,
		},
	})
}

// badRequest reports a binding failure. Validator errors are flattened to
// "field is required" style messages.
func badRequest(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		err = formatValidationErrors(verrs)
	}
	fail(c, apperror.Validation(apperror.CodeInvalidInput, err.Error()))
}

func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		fail(c, apperror.Validation(apperror.CodeInvalidInput, name+" must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}

func queryID(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		fail(c, apperror.Validation(apperror.CodeInvalidInput, name+" query parameter is required"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		fail(c, apperror.Validation(apperror.CodeInvalidInput, name+" must be a valid UUID"))
		return uuid.Nil, false
	}
	return id, true
}
