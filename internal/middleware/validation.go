package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/ajayk/studisdb/internal/app/models/dto"
)

// BindJSON binds and validates a JSON request body, writing the standard
// validation error response on failure. Returns false when the request was
// rejected.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request body")
		if verrs, ok := err.(validator.ValidationErrors); ok {
			detail = detail.WithDetails(describeValidationErrors(verrs))
		} else {
			detail = detail.WithDetails(err.Error())
		}
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return false
	}
	return true
}

func describeValidationErrors(verrs validator.ValidationErrors) []string {
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
		switch fe.Tag() {
		case "required":
			out = append(out, fmt.Sprintf("%s is required", field))
		case "email":
			out = append(out, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			out = append(out, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "oneof":
			out = append(out, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		default:
			out = append(out, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return out
}
