package store

import (
	"context"
	"sync"

	"farm-catalog-server/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory keeps farms and products in process memory, in insertion order.
// Documents are copied on the way in and out so callers never share state
// with the store.
type Memory struct {
	mu           sync.RWMutex
	farms        map[primitive.ObjectID]models.Farm
	farmOrder    []primitive.ObjectID
	products     map[primitive.ObjectID]models.Product
	productOrder []primitive.ObjectID
}

func NewMemory() *Memory {
	return &Memory{
		farms:    make(map[primitive.ObjectID]models.Farm),
		products: make(map[primitive.ObjectID]models.Product),
	}
}

func (m *Memory) ListFarms(ctx context.Context) ([]models.Farm, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	farms := make([]models.Farm, 0, len(m.farmOrder))
	for _, id := range m.farmOrder {
		farms = append(farms, cloneFarm(m.farms[id]))
	}
	return farms, nil
}

func (m *Memory) FindFarm(ctx context.Context, id string) (*models.Farm, error) {
	oid, err := parseID(FarmModel, id)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	farm, ok := m.farms[oid]
	if !ok {
		return nil, NotFound(FarmModel, id)
	}
	farm = cloneFarm(farm)
	return &farm, nil
}

func (m *Memory) CreateFarm(ctx context.Context, farm *models.Farm) error {
	if err := validateFarm(farm); err != nil {
		return err
	}
	if farm.ID.IsZero() {
		farm.ID = primitive.NewObjectID()
	}
	if farm.Products == nil {
		farm.Products = []primitive.ObjectID{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.farms[farm.ID]; !exists {
		m.farmOrder = append(m.farmOrder, farm.ID)
	}
	m.farms[farm.ID] = cloneFarm(*farm)
	return nil
}

func (m *Memory) DeleteFarm(ctx context.Context, id string) error {
	oid, err := parseID(FarmModel, id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.farms[oid]; ok {
		delete(m.farms, oid)
		m.farmOrder = without(m.farmOrder, oid)
	}
	return nil
}

func (m *Memory) FarmProducts(ctx context.Context, farm *models.Farm) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	found := make([]models.Product, 0, len(farm.Products))
	for _, id := range farm.Products {
		if p, ok := m.products[id]; ok {
			found = append(found, cloneProduct(p))
		}
	}
	return orderByIDs(farm.Products, found), nil
}

func (m *Memory) AddProductToFarm(ctx context.Context, farm *models.Farm, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	farmID := farm.ID
	product.Farm = &farmID
	farm.Products = append(farm.Products, product.ID)

	m.mu.Lock()
	if stored, ok := m.farms[farm.ID]; ok {
		stored.Products = append(cloneIDs(stored.Products), product.ID)
		m.farms[farm.ID] = stored
	}
	m.mu.Unlock()

	return m.CreateProduct(ctx, product)
}

func (m *Memory) ListProducts(ctx context.Context, category models.Category) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	products := make([]models.Product, 0, len(m.productOrder))
	for _, id := range m.productOrder {
		p := m.products[id]
		if category != "" && p.Category != category {
			continue
		}
		products = append(products, cloneProduct(p))
	}
	return products, nil
}

func (m *Memory) FindProduct(ctx context.Context, id string) (*models.Product, error) {
	oid, err := parseID(ProductModel, id)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[oid]
	if !ok {
		return nil, NotFound(ProductModel, id)
	}
	p = cloneProduct(p)
	return &p, nil
}

func (m *Memory) ProductFarm(ctx context.Context, product *models.Product) (*models.Farm, error) {
	if product.Farm == nil {
		return nil, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	farm, ok := m.farms[*product.Farm]
	if !ok {
		return nil, nil
	}
	farm = cloneFarm(farm)
	return &farm, nil
}

func (m *Memory) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.products[product.ID]; !exists {
		m.productOrder = append(m.productOrder, product.ID)
	}
	m.products[product.ID] = cloneProduct(*product)
	return nil
}

func (m *Memory) UpdateProduct(ctx context.Context, id string, product *models.Product) (*models.Product, error) {
	oid, err := parseID(ProductModel, id)
	if err != nil {
		return nil, err
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.products[oid]
	if !ok {
		return nil, NotFound(ProductModel, id)
	}
	stored.Name = product.Name
	stored.Price = clonePrice(product.Price)
	stored.Category = product.Category
	m.products[oid] = stored

	updated := cloneProduct(stored)
	return &updated, nil
}

func (m *Memory) DeleteProduct(ctx context.Context, id string) error {
	oid, err := parseID(ProductModel, id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[oid]; ok {
		delete(m.products, oid)
		m.productOrder = without(m.productOrder, oid)
	}
	return nil
}

func (m *Memory) Close(ctx context.Context) error { return nil }

func without(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func cloneIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	return append([]primitive.ObjectID{}, ids...)
}

func clonePrice(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFarm(f models.Farm) models.Farm {
	f.Products = cloneIDs(f.Products)
	return f
}

func cloneProduct(p models.Product) models.Product {
	p.Price = clonePrice(p.Price)
	if p.Farm != nil {
		id := *p.Farm
		p.Farm = &id
	}
	return p
}
