package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajayk/studisdb/internal/app/models/dto"
	"github.com/ajayk/studisdb/internal/pkg/apperrors"
	"github.com/ajayk/studisdb/internal/pkg/logger"
)

// HandleAPIError maps service errors to HTTP responses. Typed projection
// and storage errors carry their details (offending field, referrer list)
// into the response body.
func HandleAPIError(c *gin.Context, err error) {
	detail := errorDetailFor(err)

	var status int
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicateKey), errors.Is(err, apperrors.ErrEmailAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrReferentialConflict):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrDanglingReference):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrTokenExpired), errors.Is(err, apperrors.ErrTokenInvalid):
		status = http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, apperrors.ErrCascadeIncomplete):
		// The delete committed; the cleanup did not. Degraded success is
		// reported as a server error carrying the records left dangling.
		status = http.StatusInternalServerError
	default:
		logger.Error().Err(err).Msg("Unhandled service error")
		status = http.StatusInternalServerError
	}

	c.JSON(status, dto.NewErrorResponse(detail))
}

func errorDetailFor(err error) *dto.ErrorDetail {
	code := dto.ErrorCodeInternalServer
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code = dto.ErrorCodeResourceNotFound
	case errors.Is(err, apperrors.ErrDuplicateKey), errors.Is(err, apperrors.ErrEmailAlreadyExists):
		code = dto.ErrorCodeResourceAlreadyExists
	case errors.Is(err, apperrors.ErrReferentialConflict):
		code = dto.ErrorCodeReferentialConflict
	case errors.Is(err, apperrors.ErrDanglingReference):
		code = dto.ErrorCodeDanglingReference
	case errors.Is(err, apperrors.ErrCascadeIncomplete):
		code = dto.ErrorCodeCascadeIncomplete
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		code = dto.ErrorCodeValidationFailed
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		code = dto.ErrorCodeInvalidCredentials
	case errors.Is(err, apperrors.ErrTokenExpired):
		code = dto.ErrorCodeExpiredToken
	case errors.Is(err, apperrors.ErrTokenInvalid):
		code = dto.ErrorCodeInvalidToken
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		code = dto.ErrorCodeStorageUnavailable
	}

	detail := dto.NewErrorDetail(code, err.Error())

	var ce *apperrors.CustomError
	if errors.As(err, &ce) && ce.Details != nil {
		if field, ok := ce.Details["field"].(string); ok {
			detail = detail.WithField(field)
		}
		detail = detail.WithDetails(ce.Details)
	}
	return detail
}
