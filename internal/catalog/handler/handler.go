package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mobiletrade_backend/internal/catalog/domain"
	"mobiletrade_backend/internal/catalog/service"
	"mobiletrade_backend/internal/catalog/transport"
	"mobiletrade_backend/platform/httpkit"
	"mobiletrade_backend/platform/validator"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new catalog handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GetCatalog returns the full catalog tree.
// GET /api/v1/catalog
func (h *Handler) GetCatalog(c *gin.Context) {
	cat, err := h.svc.GetCatalog(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.CatalogResponse{Brands: cat.Brands})
}

// GetPhoneDetails resolves one model by its tree path.
// GET /api/v1/catalog/phones/:brand/:series/:model
func (h *Handler) GetPhoneDetails(c *gin.Context) {
	result, err := h.svc.PhoneDetails(
		c.Request.Context(),
		c.Param("brand"),
		c.Param("series"),
		c.Param("model"),
	)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ResolveModel resolves one model by key alone.
// GET /api/v1/catalog/models/:modelKey
func (h *Handler) ResolveModel(c *gin.Context) {
	result, err := h.svc.ResolveModel(c.Request.Context(), c.Param("modelKey"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ReplaceCatalog swaps the live catalog for the uploaded document.
// PUT /api/v1/admin/catalog
func (h *Handler) ReplaceCatalog(c *gin.Context) {
	var cat domain.Catalog
	if err := c.ShouldBindJSON(&cat); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	result, err := h.svc.Replace(c.Request.Context(), &cat)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// PresignImageUpload returns a presigned PUT URL for a catalog image.
// POST /api/v1/admin/catalog/images/presign
func (h *Handler) PresignImageUpload(c *gin.Context) {
	var req transport.PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.PresignImageUpload(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
