package store

import (
	"context"

	"farm-catalog-server/internal/models"

	"github.com/prometheus/client_golang/prometheus"
)

// storeOps counts store calls by driver, operation and outcome. The outcome is
// "ok" or the Kind name of the failure, which keeps label cardinality fixed.
var storeOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_store_operations_total",
		Help: "Total number of store operations by outcome.",
	},
	[]string{"driver", "op", "result"},
)

func init() {
	prometheus.MustRegister(storeOps)
}

type instrumented struct {
	next   Store
	driver string
}

// Instrument wraps s so every call is counted under the given driver label.
func Instrument(s Store, driver string) Store {
	return &instrumented{next: s, driver: driver}
}

func (i *instrumented) observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = KindOf(err).String()
	}
	storeOps.WithLabelValues(i.driver, op, result).Inc()
}

func (i *instrumented) ListFarms(ctx context.Context) ([]models.Farm, error) {
	farms, err := i.next.ListFarms(ctx)
	i.observe("list_farms", err)
	return farms, err
}

func (i *instrumented) FindFarm(ctx context.Context, id string) (*models.Farm, error) {
	farm, err := i.next.FindFarm(ctx, id)
	i.observe("find_farm", err)
	return farm, err
}

func (i *instrumented) CreateFarm(ctx context.Context, farm *models.Farm) error {
	err := i.next.CreateFarm(ctx, farm)
	i.observe("create_farm", err)
	return err
}

func (i *instrumented) DeleteFarm(ctx context.Context, id string) error {
	err := i.next.DeleteFarm(ctx, id)
	i.observe("delete_farm", err)
	return err
}

func (i *instrumented) FarmProducts(ctx context.Context, farm *models.Farm) ([]models.Product, error) {
	products, err := i.next.FarmProducts(ctx, farm)
	i.observe("farm_products", err)
	return products, err
}

func (i *instrumented) AddProductToFarm(ctx context.Context, farm *models.Farm, product *models.Product) error {
	err := i.next.AddProductToFarm(ctx, farm, product)
	i.observe("add_product_to_farm", err)
	return err
}

func (i *instrumented) ListProducts(ctx context.Context, category models.Category) ([]models.Product, error) {
	products, err := i.next.ListProducts(ctx, category)
	i.observe("list_products", err)
	return products, err
}

func (i *instrumented) FindProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := i.next.FindProduct(ctx, id)
	i.observe("find_product", err)
	return product, err
}

func (i *instrumented) ProductFarm(ctx context.Context, product *models.Product) (*models.Farm, error) {
	farm, err := i.next.ProductFarm(ctx, product)
	i.observe("product_farm", err)
	return farm, err
}

func (i *instrumented) CreateProduct(ctx context.Context, product *models.Product) error {
	err := i.next.CreateProduct(ctx, product)
	i.observe("create_product", err)
	return err
}

func (i *instrumented) UpdateProduct(ctx context.Context, id string, product *models.Product) (*models.Product, error) {
	updated, err := i.next.UpdateProduct(ctx, id, product)
	i.observe("update_product", err)
	return updated, err
}

func (i *instrumented) DeleteProduct(ctx context.Context, id string) error {
	err := i.next.DeleteProduct(ctx, id)
	i.observe("delete_product", err)
	return err
}

func (i *instrumented) Close(ctx context.Context) error {
	return i.next.Close(ctx)
}
