/*
Package sale exposes the sale endpoints.

The controller parses requests, delegates to the application service and
renders responses through the response package. Binding failures return 400
directly; business errors flow through response.HandleAppError, which maps
domain sentinels to status codes.
*/
package sale

import (
	"net/http"
	"strconv"

	"sales-service/api/ctxutil"
	"sales-service/api/response"
	saleapp "sales-service/application/sale"
	"sales-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Listing query parameters reserved for paging and ordering. Every other
// query parameter is a filter on the sale projection.
const (
	paramPage = "page"
	paramSize = "size"
	paramSort = "sort"
)

type Controller struct {
	saleService *saleapp.ApplicationService
}

func NewController(saleService *saleapp.ApplicationService) *Controller {
	return &Controller{saleService: saleService}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	saleGroup := router.Group("/sales")
	{
		saleGroup.POST("", c.CreateSale)
		saleGroup.GET("", c.ListSales)
		saleGroup.GET("/:id", c.GetSale)
		saleGroup.PUT("/:id", c.UpdateSale)
		saleGroup.POST("/:id/cancel", c.CancelSale)
		saleGroup.POST("/:id/complete", c.CompleteSale)
		saleGroup.POST("/:id/items", c.AddItem)
		saleGroup.PUT("/:id/items/:itemId", c.UpdateItemQuantity)
		saleGroup.DELETE("/:id/items/:itemId", c.CancelItem)
	}
}

// CreateSale handles POST /api/v1/sales.
func (c *Controller) CreateSale(ctx *gin.Context) {
	var req saleapp.CreateSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	created, err := c.saleService.CreateSale(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, created, "sale created successfully")
}

// GetSale handles GET /api/v1/sales/:id.
func (c *Controller) GetSale(ctx *gin.Context) {
	saleID := ctx.Param("id")
	if saleID == "" {
		response.HandleError(ctx, errors.BadRequest("sale ID is required"), "sale ID is required", http.StatusBadRequest)
		return
	}

	found, err := c.saleService.GetSale(ctxutil.WithRequestID(ctx), saleID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, found, "sale retrieved successfully")
}

// ListSales handles GET /api/v1/sales with paging, sorting and filtering.
func (c *Controller) ListSales(ctx *gin.Context) {
	q := saleapp.ListSalesQuery{
		Page:   intQuery(ctx, paramPage, saleapp.DefaultPage),
		Size:   intQuery(ctx, paramSize, saleapp.DefaultPageSize),
		Sort:   ctx.QueryArray(paramSort),
		Filter: filterParams(ctx),
	}

	page, err := c.saleService.ListSales(ctxutil.WithRequestID(ctx), q)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandlePaginated(ctx, page.Items, response.Pagination{
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	}, "sales retrieved successfully")
}

// UpdateSale handles PUT /api/v1/sales/:id.
func (c *Controller) UpdateSale(ctx *gin.Context) {
	saleID := ctx.Param("id")
	var req saleapp.UpdateSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	updated, err := c.saleService.UpdateSale(ctxutil.WithRequestID(ctx), saleID, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, updated, "sale updated successfully")
}

// CancelSale handles POST /api/v1/sales/:id/cancel.
func (c *Controller) CancelSale(ctx *gin.Context) {
	cancelled, err := c.saleService.CancelSale(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, cancelled, "sale cancelled successfully")
}

// CompleteSale handles POST /api/v1/sales/:id/complete.
func (c *Controller) CompleteSale(ctx *gin.Context) {
	completed, err := c.saleService.CompleteSale(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, completed, "sale completed successfully")
}

// AddItem handles POST /api/v1/sales/:id/items.
func (c *Controller) AddItem(ctx *gin.Context) {
	var req saleapp.SaleItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	updated, err := c.saleService.AddItem(ctxutil.WithRequestID(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, updated, "item added successfully")
}

// UpdateItemQuantity handles PUT /api/v1/sales/:id/items/:itemId.
func (c *Controller) UpdateItemQuantity(ctx *gin.Context) {
	var req saleapp.UpdateItemQuantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	updated, err := c.saleService.UpdateItemQuantity(ctxutil.WithRequestID(ctx), ctx.Param("id"), ctx.Param("itemId"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, updated, "item quantity updated successfully")
}

// CancelItem handles DELETE /api/v1/sales/:id/items/:itemId. The item is
// cancelled, not removed; its amounts drop to zero.
func (c *Controller) CancelItem(ctx *gin.Context) {
	updated, err := c.saleService.CancelItem(ctxutil.WithRequestID(ctx), ctx.Param("id"), ctx.Param("itemId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, updated, "item cancelled successfully")
}

func intQuery(ctx *gin.Context, key string, fallback int) int {
	raw := ctx.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func filterParams(ctx *gin.Context) map[string][]string {
	filter := make(map[string][]string)
	for key, values := range ctx.Request.URL.Query() {
		switch key {
		case paramPage, paramSize, paramSort:
			continue
		}
		filter[key] = values
	}
	return filter
}
