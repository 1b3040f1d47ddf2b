package handler

import (
	"net/http"

	"mesalivre/internal/dto"
	"mesalivre/internal/middleware"
	"mesalivre/internal/service"

	"github.com/gin-gonic/gin"
)

type TableHandler struct{ svc service.TableService }

func NewTableHandler(svc service.TableService) *TableHandler { return &TableHandler{svc: svc} }

// Create godoc
// @Summary Registers a new table
// @Tags tables
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateTableRequest true "Table data"
// @Success 201 {object} dto.TableResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/tables [post]
func (h *TableHandler) Create(c *gin.Context) {
	var req dto.CreateTableRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), middleware.TenantID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary Lists tables with their occupancy status
// @Tags tables
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TableResponse
// @Router /v1/tables [get]
func (h *TableHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary Removes a free table
// @Tags tables
// @Security BearerAuth
// @Param id path string true "Table id"
// @Success 204
// @Failure 422 {object} apierror.APIError
// @Router /v1/tables/{id} [delete]
func (h *TableHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.TenantID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
