// File: handlers/catalog.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"slotbook/models"
	catalogSvc "slotbook/services/catalog"
)

type templatePayload struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type facilityTypePayload struct {
	OfficeID    string            `json:"officeId"`
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	Templates   []templatePayload `json:"templates"`
}

func (p facilityTypePayload) templates(facilityTypeID string) []models.TimeSlotTemplate {
	templates := make([]models.TimeSlotTemplate, 0, len(p.Templates))
	for _, t := range p.Templates {
		templates = append(templates, models.TimeSlotTemplate{
			FacilityTypeID: facilityTypeID,
			Start:          t.Start,
			End:            t.End,
		})
	}
	return templates
}

func respondCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalogSvc.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, catalogSvc.ErrTemplateWindow), errors.Is(err, catalogSvc.ErrTemplateOverlap):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "catalog operation failed"})
	}
}

func (hb *HandlerBundle) ListOfficesHandler(c *gin.Context) {
	offices, err := hb.Catalog.ListOffices(c.Request.Context())
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offices": offices})
}

func (hb *HandlerBundle) CreateOfficeHandler(c *gin.Context) {
	var office models.Office
	if err := c.ShouldBindJSON(&office); err != nil || office.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if err := hb.Catalog.CreateOffice(c.Request.Context(), &office); err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, office)
}

func (hb *HandlerBundle) DeleteOfficeHandler(c *gin.Context) {
	if err := hb.Catalog.DeleteOffice(c.Request.Context(), c.Param("id")); err != nil {
		respondCatalogError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (hb *HandlerBundle) ListFacilityTypesHandler(c *gin.Context) {
	types, err := hb.Catalog.ListFacilityTypes(c.Request.Context(), c.Query("office_id"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"facilityTypes": types})
}

// GetFacilityTypeHandler returns one facility type together with its
// template set, the shape the edit form round-trips.
func (hb *HandlerBundle) GetFacilityTypeHandler(c *gin.Context) {
	ctx := c.Request.Context()
	ft, err := hb.Catalog.GetFacilityType(ctx, c.Param("id"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	templates, err := hb.Catalog.ListTimeSlotTemplates(ctx, ft.ID)
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"facilityType": ft, "templates": templates})
}

func (hb *HandlerBundle) CreateFacilityTypeHandler(c *gin.Context) {
	var payload facilityTypePayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.OfficeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	ft := &models.FacilityType{
		OfficeID:    payload.OfficeID,
		Name:        payload.Name,
		Description: payload.Description,
	}
	if err := hb.Catalog.CreateFacilityType(c.Request.Context(), ft, payload.templates("")); err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ft)
}

func (hb *HandlerBundle) UpdateFacilityTypeHandler(c *gin.Context) {
	var payload facilityTypePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	ft := &models.FacilityType{
		ID:          c.Param("id"),
		Name:        payload.Name,
		Description: payload.Description,
	}
	if err := hb.Catalog.UpdateFacilityType(c.Request.Context(), ft, payload.templates(ft.ID)); err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, ft)
}

func (hb *HandlerBundle) DeleteFacilityTypeHandler(c *gin.Context) {
	if err := hb.Catalog.DeleteFacilityType(c.Request.Context(), c.Param("id")); err != nil {
		respondCatalogError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (hb *HandlerBundle) ListFacilityItemsHandler(c *gin.Context) {
	items, err := hb.Catalog.ListFacilityItems(c.Request.Context(), c.Query("facility_id"))
	if err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"facilityItems": items})
}

func (hb *HandlerBundle) CreateFacilityItemHandler(c *gin.Context) {
	var item models.FacilityItem
	if err := c.ShouldBindJSON(&item); err != nil || item.FacilityTypeID == "" || item.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if err := hb.Catalog.CreateFacilityItem(c.Request.Context(), &item); err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (hb *HandlerBundle) UpdateFacilityItemHandler(c *gin.Context) {
	var item models.FacilityItem
	if err := c.ShouldBindJSON(&item); err != nil || item.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	item.ID = c.Param("id")
	if err := hb.Catalog.UpdateFacilityItem(c.Request.Context(), &item); err != nil {
		respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (hb *HandlerBundle) DeleteFacilityItemHandler(c *gin.Context) {
	if err := hb.Catalog.DeleteFacilityItem(c.Request.Context(), c.Param("id")); err != nil {
		respondCatalogError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
