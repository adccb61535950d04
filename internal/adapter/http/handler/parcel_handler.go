package handler

import (
	"time"

	"zapshift-server/internal/adapter/http/dto"
	"zapshift-server/internal/adapter/http/middleware"
	"zapshift-server/internal/core/domain"
	"zapshift-server/internal/core/ports"
	"zapshift-server/pkg/apperror"
	"zapshift-server/pkg/response"

	"github.com/gin-gonic/gin"
)

// ParcelHandler handles parcel CRUD endpoints.
type ParcelHandler struct {
	parcelSvc ports.ParcelService
}

// NewParcelHandler creates a new ParcelHandler.
func NewParcelHandler(parcelSvc ports.ParcelService) *ParcelHandler {
	return &ParcelHandler{parcelSvc: parcelSvc}
}

// Create handles POST /api/v1/parcels.
func (h *ParcelHandler) Create(c *gin.Context) {
	var req dto.CreateParcelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	parcel, err := h.parcelSvc.Create(c.Request.Context(), &domain.Parcel{
		Name:        req.Name,
		SenderEmail: req.SenderEmail,
		Cost:        req.Cost,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toParcelResponse(parcel))
}

// Get handles GET /api/v1/parcels/:id.
func (h *ParcelHandler) Get(c *gin.Context) {
	parcel, err := h.parcelSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toParcelResponse(parcel))
}

// List handles GET /api/v1/parcels. The optional email filter is restricted
// to the authenticated identity.
func (h *ParcelHandler) List(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		email = c.GetString(middleware.CtxEmail)
	}

	parcels, err := h.parcelSvc.List(c.Request.Context(), ports.ParcelListParams{
		Email: email,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.ParcelResponse, 0, len(parcels))
	for _, p := range parcels {
		items = append(items, toParcelResponse(p))
	}
	response.OK(c, items)
}

// Delete handles DELETE /api/v1/parcels/:id.
func (h *ParcelHandler) Delete(c *gin.Context) {
	if err := h.parcelSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"deleted": true})
}

// toParcelResponse converts domain.Parcel to DTO.
func toParcelResponse(p *domain.Parcel) dto.ParcelResponse {
	return dto.ParcelResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		SenderEmail:   p.SenderEmail,
		Cost:          p.Cost,
		PaymentStatus: string(p.PaymentStatus),
		TrackingID:    p.TrackingID,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}
