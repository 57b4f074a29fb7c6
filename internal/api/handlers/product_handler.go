// server/internal/api/handlers/product_handler.go
package handlers

import (
	"net/http"

	"farm-catalog-server/internal/models"
	"farm-catalog-server/internal/socket"
	"farm-catalog-server/internal/store"

	"github.com/gin-gonic/gin"
)

// allCategories is the label shown when the list is not filtered.
const allCategories = "All"

type ProductHandler struct {
	Products store.ProductStore
	Events   Broadcaster
}

// Index lists products, filtered by the "category" query parameter when set.
func (h *ProductHandler) Index(c *gin.Context) error {
	category := c.Query("category")

	products, err := h.Products.ListProducts(c.Request.Context(), models.Category(category))
	if err != nil {
		return err
	}

	label := category
	if label == "" {
		label = allCategories
	}
	c.HTML(http.StatusOK, "products/index", gin.H{
		"title":    label + " Products",
		"products": products,
		"category": label,
	})
	return nil
}

// New renders the standalone product form.
func (h *ProductHandler) New(c *gin.Context) error {
	c.HTML(http.StatusOK, "products/new", gin.H{"title": "New Product", "categories": models.Categories})
	return nil
}

// Show renders a product and the farm it points at, if that farm still exists.
func (h *ProductHandler) Show(c *gin.Context) error {
	ctx := c.Request.Context()

	product, err := h.Products.FindProduct(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	farm, err := h.Products.ProductFarm(ctx, product)
	if err != nil {
		return err
	}

	c.HTML(http.StatusOK, "products/show", gin.H{"title": product.Name, "product": product, "farm": farm})
	return nil
}

// Edit renders the edit form of a product.
func (h *ProductHandler) Edit(c *gin.Context) error {
	product, err := h.Products.FindProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		return err
	}
	c.HTML(http.StatusOK, "products/edit", gin.H{
		"title":      "Edit " + product.Name,
		"product":    product,
		"categories": models.Categories,
	})
	return nil
}

// Create tạo sản phẩm không thuộc farm nào.
func (h *ProductHandler) Create(c *gin.Context) error {
	var form ProductForm
	if err := bindForm(c, store.ProductModel, &form); err != nil {
		return err
	}
	product, err := form.product()
	if err != nil {
		return err
	}

	if err := h.Products.CreateProduct(c.Request.Context(), product); err != nil {
		return err
	}

	publish(h.Events, socket.Event{Type: socket.ProductCreated, ID: product.ID.Hex(), Name: product.Name})
	c.Redirect(http.StatusFound, "/products/"+product.ID.Hex())
	return nil
}

// Update replaces name, price and category, validating them again.
func (h *ProductHandler) Update(c *gin.Context) error {
	var form ProductForm
	if err := bindForm(c, store.ProductModel, &form); err != nil {
		return err
	}
	product, err := form.product()
	if err != nil {
		return err
	}

	updated, err := h.Products.UpdateProduct(c.Request.Context(), c.Param("id"), product)
	if err != nil {
		return err
	}

	publish(h.Events, socket.Event{Type: socket.ProductUpdated, ID: updated.ID.Hex(), Name: updated.Name})
	c.Redirect(http.StatusFound, "/products/"+updated.ID.Hex())
	return nil
}

// Delete removes a product. Farms listing it keep the id.
func (h *ProductHandler) Delete(c *gin.Context) error {
	id := c.Param("id")
	if err := h.Products.DeleteProduct(c.Request.Context(), id); err != nil {
		return err
	}

	publish(h.Events, socket.Event{Type: socket.ProductDeleted, ID: id})
	c.Redirect(http.StatusFound, "/products")
	return nil
}
