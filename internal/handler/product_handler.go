package handler

import (
	"net/http"
	"strconv"

	"unimarket/internal/repository"
	"unimarket/internal/services"
	"unimarket/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductHandler struct {
	service *services.ProductService
}

func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req httpdto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request")
		return
	}

	sellerID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		respondUnauthorized(c)
		return
	}

	in := services.CreateProductInput{
		SellerID:    sellerID,
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Condition:   req.Condition,
	}
	if req.CategoryID != "" {
		id, err := uuid.Parse(req.CategoryID)
		if err != nil {
			respondBadRequest(c, "invalid category id")
			return
		}
		in.CategoryID = &id
	}
	if req.UniversityID != "" {
		id, err := uuid.Parse(req.UniversityID)
		if err != nil {
			respondBadRequest(c, "invalid university id")
			return
		}
		in.UniversityID = &id
	}
	if req.ImageURL != "" {
		in.ImageURL = &req.ImageURL
	}

	p, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromProduct(p)))
}

func (h *ProductHandler) List(c *gin.Context) {
	filter := repository.ProductFilter{
		Query: c.Query("q"),
	}
	filter.Page, _ = strconv.Atoi(c.Query("page"))
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))

	if v := c.Query("seller_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondBadRequest(c, "invalid seller id")
			return
		}
		filter.SellerID = &id
	}
	if v := c.Query("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondBadRequest(c, "invalid category id")
			return
		}
		filter.CategoryID = &id
	}
	if v := c.Query("university_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondBadRequest(c, "invalid university id")
			return
		}
		filter.UniversityID = &id
	}

	products, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ProductsResponse{
		Products: httpdto.FromProductSlice(products),
		Total:    total,
	}))
}

func (h *ProductHandler) GetByID(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid product id")
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromProduct(p)))
}

func (h *ProductHandler) Update(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		respondUnauthorized(c)
		return
	}
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid product id")
		return
	}

	var req httpdto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request")
		return
	}

	p, err := h.service.Update(c.Request.Context(), productID, userID, services.UpdateProductInput{
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Condition:   req.Condition,
		ImageURL:    req.ImageURL,
		Status:      req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromProduct(p)))
}

func (h *ProductHandler) Delete(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		respondUnauthorized(c)
		return
	}
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid product id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), productID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
