package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajayk/studisdb/internal/app/models/dto"
	"github.com/ajayk/studisdb/internal/app/projection"
	"github.com/ajayk/studisdb/internal/app/services"
	"github.com/ajayk/studisdb/internal/app/store"
	"github.com/ajayk/studisdb/internal/middleware"
)

// recordID extracts the document id of a fetched record.
func recordID(rec store.Record) string {
	return store.ID(rec)
}

// deleteEntity deletes the record with the given id, honoring an optional
// ?policy= override of the configured delete policy.
func deleteEntity(ctx *gin.Context, svc *services.EntityService, id string) {
	var err error
	if policyStr := ctx.Query("policy"); policyStr != "" {
		policy, perr := projection.ParsePolicy(policyStr)
		if perr != nil {
			detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, perr.Error())
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
			return
		}
		err = svc.DeleteWithPolicy(ctx, id, policy)
	} else {
		err = svc.Delete(ctx, id)
	}

	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
