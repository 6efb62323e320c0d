package catalog

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookwithbea/internal/domain"
	"bookwithbea/internal/pkg/response"
)

type Handler struct {
	catalog *Catalog
}

func NewHandler(c *Catalog) *Handler {
	return &Handler{catalog: c}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/services", h.GetServices)
}

type serviceResponse struct {
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Price           float64 `json:"price"`
	Duration        string  `json:"duration"`
	DurationMinutes int     `json:"duration_minutes"`
	Category        string  `json:"category"`
	TargetAudience  string  `json:"target_audience"`
}

type categoryResponse struct {
	Key         string            `json:"key"`
	Name        string            `json:"category_name"`
	Description string            `json:"description,omitempty"`
	Services    []serviceResponse `json:"services"`
}

func toServiceResponse(s domain.Service) serviceResponse {
	return serviceResponse{
		Name:            s.Name,
		Description:     s.Description,
		Price:           s.Price,
		Duration:        fmt.Sprintf("%d min", s.DurationMinutes),
		DurationMinutes: s.DurationMinutes,
		Category:        s.Category,
		TargetAudience:  s.TargetAudience,
	}
}

// GetServices handles GET /api/services?audience=
func (h *Handler) GetServices(c *gin.Context) {
	audience := c.DefaultQuery("audience", domain.AudienceAll)

	cats := h.catalog.Categories(audience)
	out := make([]categoryResponse, 0, len(cats))
	total := 0
	for _, cat := range cats {
		cr := categoryResponse{Key: cat.Key, Name: cat.Name, Description: cat.Description}
		for _, s := range cat.Services {
			cr.Services = append(cr.Services, toServiceResponse(s))
		}
		total += len(cr.Services)
		out = append(out, cr)
	}

	response.Success(c, http.StatusOK, gin.H{
		"audience":   audience,
		"categories": out,
		"total":      total,
	})
}
