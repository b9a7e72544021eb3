package handler

import (
	"net/http"

	"unimarket/internal/services"
	"unimarket/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type LookupHandler struct {
	service *services.LookupService
}

func NewLookupHandler(service *services.LookupService) *LookupHandler {
	return &LookupHandler{service: service}
}

func (h *LookupHandler) Universities(c *gin.Context) {
	universities, err := h.service.Universities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromUniversitySlice(universities)))
}

func (h *LookupHandler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromCategorySlice(categories)))
}
