package validation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// Error codes written into 400 bodies.
const (
	CodeBadBody          = "invalid_request_body"
	CodeValidationFailed = "validation_failed"
)

// BindAndValidate binds the JSON body into out and runs the validator
// over it. On failure it writes the 400 itself and returns the error so
// the handler can short-circuit.
func BindAndValidate(c *gin.Context, out interface{}, v *validatorv10.Validate) error {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": CodeBadBody,
			"msg":   err.Error(),
		})
		return err
	}

	if err := v.Struct(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  CodeValidationFailed,
			"fields": fieldErrors(err),
		})
		return err
	}
	return nil
}

// fieldErrors flattens validator errors into a field -> message map.
func fieldErrors(err error) map[string]string {
	fields := map[string]string{}

	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		fields["error"] = err.Error()
		return fields
	}
	for _, fe := range ve {
		fields[fe.StructNamespace()] = fe.Error()
	}
	return fields
}
