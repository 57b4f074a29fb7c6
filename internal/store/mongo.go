package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farm-catalog-server/config"
	"farm-catalog-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	farmsCollection    = "farms"
	productsCollection = "products"
)

// Mongo stores farms and products in two collections of one database.
type Mongo struct {
	client       *mongo.Client
	farms        *mongo.Collection
	products     *mongo.Collection
	transactions bool
	opTimeout    time.Duration
}

// ConnectMongo dials the server, checks it answers and makes sure the
// collection indexes exist. The caller owns the returned store and must Close it.
func ConnectMongo(ctx context.Context, cfg config.MongoConfig) (*Mongo, error) {
	clientOpts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(cfg.ConnectTimeout).SetServerSelectionTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	m := NewMongo(client, cfg)
	if err := m.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return m, nil
}

// NewMongo builds a store on an already connected client.
func NewMongo(client *mongo.Client, cfg config.MongoConfig) *Mongo {
	db := client.Database(cfg.DBName)
	return &Mongo{
		client:       client,
		farms:        db.Collection(farmsCollection),
		products:     db.Collection(productsCollection),
		transactions: cfg.Transactions,
		opTimeout:    cfg.OpTimeout,
	}
}

func (m *Mongo) ensureIndexes(ctx context.Context) error {
	_, err := m.products.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "farm", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}
	return nil
}

func (m *Mongo) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, m.opTimeout)
}

func (m *Mongo) ListFarms(ctx context.Context) ([]models.Farm, error) {
	ctx, cancel := m.opContext(ctx)
	defer cancel()

	cursor, err := m.farms.Find(ctx, bson.M{})
	if err != nil {
		return nil, Failed(FarmModel, "find", err)
	}
	defer cursor.Close(ctx)

	var farms []models.Farm
	if err := cursor.All(ctx, &farms); err != nil {
		return nil, Failed(FarmModel, "decode", err)
	}
	if farms == nil {
		farms = []models.Farm{}
	}
	return farms, nil
}

func (m *Mongo) FindFarm(ctx context.Context, id string) (*models.Farm, error) {
	oid, err := parseID(FarmModel, id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	var farm models.Farm
	if err := m.farms.FindOne(ctx, bson.M{"_id": oid}).Decode(&farm); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NotFound(FarmModel, id)
		}
		return nil, Failed(FarmModel, "findOne", err)
	}
	return &farm, nil
}

func (m *Mongo) CreateFarm(ctx context.Context, farm *models.Farm) error {
	if err := validateFarm(farm); err != nil {
		return err
	}
	if farm.ID.IsZero() {
		farm.ID = primitive.NewObjectID()
	}
	if farm.Products == nil {
		farm.Products = []primitive.ObjectID{}
	}

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	if _, err := m.farms.InsertOne(ctx, farm); err != nil {
		return Failed(FarmModel, "insert", err)
	}
	return nil
}

func (m *Mongo) DeleteFarm(ctx context.Context, id string) error {
	oid, err := parseID(FarmModel, id)
	if err != nil {
		return err
	}

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	if _, err := m.farms.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return Failed(FarmModel, "delete", err)
	}
	return nil
}

func (m *Mongo) FarmProducts(ctx context.Context, farm *models.Farm) ([]models.Product, error) {
	if len(farm.Products) == 0 {
		return []models.Product{}, nil
	}

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	cursor, err := m.products.Find(ctx, bson.M{"_id": bson.M{"$in": farm.Products}})
	if err != nil {
		return nil, Failed(ProductModel, "find", err)
	}
	defer cursor.Close(ctx)

	var found []models.Product
	if err := cursor.All(ctx, &found); err != nil {
		return nil, Failed(ProductModel, "decode", err)
	}
	return orderByIDs(farm.Products, found), nil
}

func (m *Mongo) AddProductToFarm(ctx context.Context, farm *models.Farm, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	farmID := farm.ID
	product.Farm = &farmID
	farm.Products = append(farm.Products, product.ID)

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	writes := func(ctx context.Context) error {
		_, err := m.farms.UpdateOne(ctx, bson.M{"_id": farm.ID}, bson.M{"$push": bson.M{"products": product.ID}})
		if err != nil {
			return Failed(FarmModel, "update", err)
		}
		return m.insertProduct(ctx, product)
	}

	if !m.transactions {
		return writes(ctx)
	}

	session, err := m.client.StartSession()
	if err != nil {
		return Failed(FarmModel, "startSession", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, writes(sc)
	})
	return err
}

func (m *Mongo) ListProducts(ctx context.Context, category models.Category) ([]models.Product, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	cursor, err := m.products.Find(ctx, filter)
	if err != nil {
		return nil, Failed(ProductModel, "find", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, Failed(ProductModel, "decode", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (m *Mongo) FindProduct(ctx context.Context, id string) (*models.Product, error) {
	oid, err := parseID(ProductModel, id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	var product models.Product
	if err := m.products.FindOne(ctx, bson.M{"_id": oid}).Decode(&product); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NotFound(ProductModel, id)
		}
		return nil, Failed(ProductModel, "findOne", err)
	}
	return &product, nil
}

func (m *Mongo) ProductFarm(ctx context.Context, product *models.Product) (*models.Farm, error) {
	if product.Farm == nil {
		return nil, nil
	}

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	var farm models.Farm
	if err := m.farms.FindOne(ctx, bson.M{"_id": *product.Farm}).Decode(&farm); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, Failed(FarmModel, "findOne", err)
	}
	return &farm, nil
}

func (m *Mongo) CreateProduct(ctx context.Context, product *models.Product) error {
	ctx, cancel := m.opContext(ctx)
	defer cancel()

	return m.insertProduct(ctx, product)
}

func (m *Mongo) insertProduct(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if _, err := m.products.InsertOne(ctx, product); err != nil {
		return Failed(ProductModel, "insert", err)
	}
	return nil
}

func (m *Mongo) UpdateProduct(ctx context.Context, id string, product *models.Product) (*models.Product, error) {
	oid, err := parseID(ProductModel, id)
	if err != nil {
		return nil, err
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"name":     product.Name,
		"price":    product.Price,
		"category": product.Category,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Product
	if err := m.products.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NotFound(ProductModel, id)
		}
		return nil, Failed(ProductModel, "update", err)
	}
	return &updated, nil
}

func (m *Mongo) DeleteProduct(ctx context.Context, id string) error {
	oid, err := parseID(ProductModel, id)
	if err != nil {
		return err
	}

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	if _, err := m.products.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return Failed(ProductModel, "delete", err)
	}
	return nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
