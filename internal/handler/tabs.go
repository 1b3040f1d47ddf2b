package handler

import (
	"net/http"

	"mesalivre/internal/dto"
	"mesalivre/internal/infra"
	"mesalivre/internal/middleware"
	"mesalivre/internal/service"

	"github.com/gin-gonic/gin"
)

type TabHandler struct {
	svc      service.TabService
	renderer *infra.PDFRenderer
}

func NewTabHandler(svc service.TabService, renderer *infra.PDFRenderer) *TabHandler {
	return &TabHandler{svc: svc, renderer: renderer}
}

// Resolve godoc
// @Summary Returns the open tab for a table, creating one if none exists
// @Tags tabs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Table id"
// @Success 200 {object} dto.TabResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/tables/{id}/tab [post]
func (h *TabHandler) Resolve(c *gin.Context) {
	tableID, ok := parseID(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.ResolveForTable(c.Request.Context(), middleware.TenantID(c), tableID, claims.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AppendItem godoc
// @Summary Appends an item to an open tab
// @Tags tabs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tab id"
// @Param body body dto.AppendItemRequest true "Item data"
// @Success 200 {object} dto.TabResponse
// @Failure 409 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/tabs/{id}/items [post]
func (h *TabHandler) AppendItem(c *gin.Context) {
	tabID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AppendItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.AppendItem(c.Request.Context(), middleware.TenantID(c), tabID, claims.Name, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Settle godoc
// @Summary Settles a tab, closing it and freeing its table
// @Tags tabs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tab id"
// @Param body body dto.SettleTabRequest true "Payment method"
// @Success 200 {object} dto.TabResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/tabs/{id}/settle [post]
func (h *TabHandler) Settle(c *gin.Context) {
	tabID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.SettleTabRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Settle(c.Request.Context(), middleware.TenantID(c), tabID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Receipt godoc
// @Summary Projects a tab into a printable receipt document
// @Tags tabs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tab id"
// @Param format query string false "Set to pdf for a printable file"
// @Success 200 {object} dto.ReceiptDocument
// @Failure 404 {object} apierror.APIError
// @Router /v1/tabs/{id}/receipt [get]
func (h *TabHandler) Receipt(c *gin.Context) {
	tabID, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Receipt(c.Request.Context(), middleware.TenantID(c), tabID)
	if err != nil {
		respondError(c, err)
		return
	}
	if c.Query("format") == "pdf" {
		path, err := h.renderer.RenderReceipt(*resp)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.FileAttachment(path, "receipt.pdf")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListOpen godoc
// @Summary Lists all open tabs for the floor overview
// @Tags tabs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TabResponse
// @Router /v1/tabs [get]
func (h *TabHandler) ListOpen(c *gin.Context) {
	resp, err := h.svc.ListOpen(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
