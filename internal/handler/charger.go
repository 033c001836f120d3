package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voltfind/internal/domain"
	"voltfind/internal/service"
)

// ChargerHandler handles HTTP requests for the charger directory.
type ChargerHandler struct {
	directory *service.DirectoryService
}

// NewChargerHandler creates a new ChargerHandler.
func NewChargerHandler(directory *service.DirectoryService) *ChargerHandler {
	return &ChargerHandler{directory: directory}
}

// ChargerResponse is the HTTP response for a directory entry.
type ChargerResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	Distance      string  `json:"distance"`
	Available     int     `json:"available"`
	Total         int     `json:"total"`
	Speed         string  `json:"speed"`
	PowerKW       int     `json:"power_kw"`
	ConnectorType string  `json:"connector_type"`
	PricePerKWh   float64 `json:"price_per_kwh"`
	Rating        float64 `json:"rating"`
}

func toChargerResponse(c *domain.Charger) ChargerResponse {
	return ChargerResponse{
		ID:            c.ID,
		Name:          c.Name,
		Address:       c.Address,
		Distance:      c.Distance,
		Available:     c.Available,
		Total:         c.Total,
		Speed:         c.Speed,
		PowerKW:       c.PowerKW,
		ConnectorType: c.ConnectorType,
		PricePerKWh:   c.PricePerKWh,
		Rating:        c.Rating,
	}
}

// List handles GET /v1/chargers
func (h *ChargerHandler) List(c *gin.Context) {
	chargers, err := h.directory.List(c.Request.Context(), domain.ChargerQuery{
		Filter:    domain.ChargerFilter(c.DefaultQuery("filter", string(domain.ChargerFilterAll))),
		Connector: c.Query("connector"),
		Search:    c.Query("q"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ChargerResponse, 0, len(chargers))
	for _, ch := range chargers {
		response = append(response, toChargerResponse(ch))
	}

	respondJSON(c, http.StatusOK, response)
}

// Get handles GET /v1/chargers/:id
func (h *ChargerHandler) Get(c *gin.Context) {
	charger, err := h.directory.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toChargerResponse(charger))
}
