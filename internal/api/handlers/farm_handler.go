// server/internal/api/handlers/farm_handler.go
package handlers

import (
	"net/http"

	"farm-catalog-server/internal/models"
	"farm-catalog-server/internal/socket"
	"farm-catalog-server/internal/store"

	"github.com/gin-gonic/gin"
)

type FarmHandler struct {
	Farms  store.FarmStore
	Events Broadcaster
}

// Index lists all farms.
func (h *FarmHandler) Index(c *gin.Context) error {
	farms, err := h.Farms.ListFarms(c.Request.Context())
	if err != nil {
		return err
	}
	c.HTML(http.StatusOK, "farms/index", gin.H{"title": "All Farms", "farms": farms})
	return nil
}

// New renders the farm creation form.
func (h *FarmHandler) New(c *gin.Context) error {
	c.HTML(http.StatusOK, "farms/new", gin.H{"title": "New Farm"})
	return nil
}

// Show renders one farm with its products resolved.
func (h *FarmHandler) Show(c *gin.Context) error {
	ctx := c.Request.Context()

	farm, err := h.Farms.FindFarm(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	products, err := h.Farms.FarmProducts(ctx, farm)
	if err != nil {
		return err
	}

	c.HTML(http.StatusOK, "farms/show", gin.H{"title": farm.Name, "farm": farm, "products": products})
	return nil
}

// Create lưu farm mới từ form rồi chuyển về danh sách.
func (h *FarmHandler) Create(c *gin.Context) error {
	var form FarmForm
	if err := bindForm(c, store.FarmModel, &form); err != nil {
		return err
	}

	farm := form.farm()
	if err := h.Farms.CreateFarm(c.Request.Context(), farm); err != nil {
		return err
	}

	publish(h.Events, socket.Event{Type: socket.FarmCreated, ID: farm.ID.Hex(), Name: farm.Name})
	c.Redirect(http.StatusFound, "/farms")
	return nil
}

// NewProduct renders the product form bound to one farm.
func (h *FarmHandler) NewProduct(c *gin.Context) error {
	farm, err := h.Farms.FindFarm(c.Request.Context(), c.Param("id"))
	if err != nil {
		return err
	}
	c.HTML(http.StatusOK, "products/new", gin.H{
		"title":      "New Product",
		"farm":       farm,
		"categories": models.Categories,
	})
	return nil
}

// CreateProduct thêm sản phẩm vào farm: ghi farm trước, sau đó mới ghi product.
// Hai thao tác ghi không nằm trong transaction trừ khi store được cấu hình như vậy.
func (h *FarmHandler) CreateProduct(c *gin.Context) error {
	ctx := c.Request.Context()
	id := c.Param("id")

	farm, err := h.Farms.FindFarm(ctx, id)
	if err != nil {
		return err
	}

	var form ProductForm
	if err := bindForm(c, store.ProductModel, &form); err != nil {
		return err
	}
	product, err := form.product()
	if err != nil {
		return err
	}

	if err := h.Farms.AddProductToFarm(ctx, farm, product); err != nil {
		return err
	}

	publish(h.Events, socket.Event{Type: socket.ProductCreated, ID: product.ID.Hex(), Name: product.Name})
	c.Redirect(http.StatusFound, "/farms/"+id)
	return nil
}

// Delete removes the farm only; its products keep their farm reference.
func (h *FarmHandler) Delete(c *gin.Context) error {
	id := c.Param("id")
	if err := h.Farms.DeleteFarm(c.Request.Context(), id); err != nil {
		return err
	}

	publish(h.Events, socket.Event{Type: socket.FarmDeleted, ID: id})
	c.Redirect(http.StatusFound, "/farms")
	return nil
}
