package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mobiletrade_backend/internal/tradein/service"
	"mobiletrade_backend/internal/tradein/transport"
	"mobiletrade_backend/platform/httpkit"
	"mobiletrade_backend/platform/phone"
	"mobiletrade_backend/platform/validator"
)

// Handler handles HTTP requests for the trade-in module.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid listing id"
	msgInvalidPhone     = "invalid phone number"
)

// New creates a new trade-in handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Quote prices a phone without storing anything.
// POST /api/v1/tradein/quote
func (h *Handler) Quote(c *gin.Context) {
	var req transport.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Quote(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SubmitListing validates, prices and stores a listing.
// POST /api/v1/tradein/listings
func (h *Handler) SubmitListing(c *gin.Context) {
	var req transport.SubmitListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	if !phone.IsValid(req.PhoneNumber) {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidPhone, nil)
		return
	}

	result, err := h.svc.Submit(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// ListListings returns the grouped, filtered listings feed.
// GET /api/v1/tradein/listings
func (h *Handler) ListListings(c *gin.Context) {
	var req transport.ListListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.ListGrouped(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetListingDetails returns one listing with its inquiries.
// GET /api/v1/tradein/listings/:id
func (h *Handler) GetListingDetails(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetListingDetails(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateListingStatus transitions a listing's lifecycle status.
// PATCH /api/v1/admin/tradein/listings/:id/status
func (h *Handler) UpdateListingStatus(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}

	var req transport.UpdateListingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SubmitInquiry stores a buyer inquiry against a listing.
// POST /api/v1/tradein/inquiries (authenticated)
func (h *Handler) SubmitInquiry(c *gin.Context) {
	var req transport.CreateInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	if !phone.IsValid(req.BuyerPhone) {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidPhone, nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.SubmitInquiry(c.Request.Context(), identity.UserID().String(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// ListMyInquiries returns the caller's inquiries.
// GET /api/v1/tradein/inquiries/my (authenticated)
func (h *Handler) ListMyInquiries(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListUserInquiries(c.Request.Context(), identity.UserID().String())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListListingInquiries returns the inquiries against one listing.
// GET /api/v1/admin/tradein/listings/:id/inquiries
func (h *Handler) ListListingInquiries(c *gin.Context) {
	id, ok := listingID(c)
	if !ok {
		return
	}

	result, err := h.svc.ListListingInquiries(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListFAQs returns all FAQ entries.
// GET /api/v1/tradein/faqs
func (h *Handler) ListFAQs(c *gin.Context) {
	result, err := h.svc.ListFAQs(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetFAQ returns one FAQ entry.
// GET /api/v1/tradein/faqs/:id
func (h *Handler) GetFAQ(c *gin.Context) {
	result, err := h.svc.GetFAQ(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateFAQ creates a FAQ entry.
// POST /api/v1/admin/tradein/faqs
func (h *Handler) CreateFAQ(c *gin.Context) {
	var req transport.CreateFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.CreateFAQ(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// UpdateFAQ updates a FAQ entry.
// PUT /api/v1/admin/tradein/faqs/:id
func (h *Handler) UpdateFAQ(c *gin.Context) {
	var req transport.UpdateFAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.UpdateFAQ(c.Request.Context(), c.Param("id"), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteFAQ removes a FAQ entry.
// DELETE /api/v1/admin/tradein/faqs/:id
func (h *Handler) DeleteFAQ(c *gin.Context) {
	if httpkit.HandleError(c, h.svc.DeleteFAQ(c.Request.Context(), c.Param("id"))) {
		return
	}
	httpkit.OK(c, gin.H{"deleted": true})
}

func listingID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return "", false
	}
	return id, true
}
