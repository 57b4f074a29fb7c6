package store

import (
	"context"
	"testing"
	"time"

	"farm-catalog-server/config"
	"farm-catalog-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const (
	farmsNS    = "farms.farms"
	productsNS = "farms.products"
)

func newMockMongo(mt *mtest.T, transactions bool) *Mongo {
	return NewMongo(mt.Client, config.MongoConfig{DBName: "farms", Transactions: transactions})
}

func commandNames(mt *mtest.T) []string {
	var names []string
	for _, ev := range mt.GetAllStartedEvents() {
		names = append(names, ev.CommandName)
	}
	return names
}

func productDoc(id primitive.ObjectID, name string, price float64, category string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: name},
		{Key: "price", Value: price},
		{Key: "category", Value: category},
	}
}

func TestMongoFarms(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("find farm", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		kale := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, farmsNS, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "name", Value: "Green Acres"},
			{Key: "city", Value: "Springfield"},
			{Key: "email", Value: "green@acres.io"},
			{Key: "products", Value: bson.A{kale}},
		}))

		farm, err := newMockMongo(mt, false).FindFarm(ctx, id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id, farm.ID)
		assert.Equal(mt, "Green Acres", farm.Name)
		assert.Equal(mt, []primitive.ObjectID{kale}, farm.Products)
	})

	mt.Run("find missing farm", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, farmsNS, mtest.FirstBatch))

		_, err := newMockMongo(mt, false).FindFarm(ctx, "64b000000000000000000000")
		require.Error(mt, err)
		assert.Equal(mt, KindMalformedQuery, KindOf(err))
		assert.Equal(mt, `No document found for query "{ _id: "64b000000000000000000000" }" on model "Farm"`, err.Error())
	})

	mt.Run("malformed id sends nothing", func(mt *mtest.T) {
		_, err := newMockMongo(mt, false).FindFarm(ctx, "nope")
		assert.Equal(mt, KindMalformedQuery, KindOf(err))
		assert.Empty(mt, commandNames(mt))
	})

	mt.Run("list farms", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, farmsNS, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "A"}, {Key: "email", Value: "a@a.io"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "B"}, {Key: "email", Value: "b@b.io"}},
		))

		farms, err := newMockMongo(mt, false).ListFarms(ctx)
		require.NoError(mt, err)
		require.Len(mt, farms, 2)
		assert.Equal(mt, "A", farms[0].Name)
		assert.Equal(mt, "B", farms[1].Name)
	})

	mt.Run("list farms empty", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, farmsNS, mtest.FirstBatch))

		farms, err := newMockMongo(mt, false).ListFarms(ctx)
		require.NoError(mt, err)
		assert.NotNil(mt, farms)
		assert.Empty(mt, farms)
	})

	mt.Run("create farm", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		farm := &models.Farm{Name: "Green Acres", Email: "green@acres.io"}
		require.NoError(mt, newMockMongo(mt, false).CreateFarm(ctx, farm))
		assert.False(mt, farm.ID.IsZero())
		assert.NotNil(mt, farm.Products)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "insert", started.CommandName)
		assert.Equal(mt, "farms", started.Command.Lookup("insert").StringValue())
	})

	mt.Run("create invalid farm sends nothing", func(mt *mtest.T) {
		err := newMockMongo(mt, false).CreateFarm(ctx, &models.Farm{City: "Nowhere"})
		assert.Equal(mt, KindValidation, KindOf(err))
		assert.Empty(mt, commandNames(mt))
	})

	mt.Run("delete farm", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		require.NoError(mt, newMockMongo(mt, false).DeleteFarm(ctx, primitive.NewObjectID().Hex()))
		assert.Equal(mt, []string{"delete"}, commandNames(mt))
	})

	mt.Run("driver failure is unclassified", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "bad value",
		}))

		_, err := newMockMongo(mt, false).ListFarms(ctx)
		require.Error(mt, err)
		assert.Equal(mt, KindOther, KindOf(err))
	})
}

func TestMongoFarmProducts(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("keeps farm order and omits missing", func(mt *mtest.T) {
		first, gone, last := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
		// The server returns $in matches in its own order.
		mt.AddMockResponses(mtest.CreateCursorResponse(0, productsNS, mtest.FirstBatch,
			productDoc(last, "Milk", 3, "dairy"),
			productDoc(first, "Kale", 2.5, "vegetable"),
		))

		farm := &models.Farm{Products: []primitive.ObjectID{first, gone, last}}
		products, err := newMockMongo(mt, false).FarmProducts(ctx, farm)
		require.NoError(mt, err)
		require.Len(mt, products, 2)
		assert.Equal(mt, first, products[0].ID)
		assert.Equal(mt, last, products[1].ID)
	})

	mt.Run("no ids sends nothing", func(mt *mtest.T) {
		products, err := newMockMongo(mt, false).FarmProducts(ctx, &models.Farm{})
		require.NoError(mt, err)
		assert.Empty(mt, products)
		assert.Empty(mt, commandNames(mt))
	})
}

func TestMongoAddProductToFarm(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("pushes on farm before inserting", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)

		farm := &models.Farm{ID: primitive.NewObjectID(), Name: "Green Acres", Email: "g@a.io"}
		price := 2.5
		product := &models.Product{Name: "Kale", Price: &price, Category: models.CategoryVegetable}
		require.NoError(mt, newMockMongo(mt, false).AddProductToFarm(ctx, farm, product))

		require.NotNil(mt, product.Farm)
		assert.Equal(mt, farm.ID, *product.Farm)
		assert.Equal(mt, []primitive.ObjectID{product.ID}, farm.Products)

		events := mt.GetAllStartedEvents()
		require.Len(mt, events, 2)
		assert.Equal(mt, "update", events[0].CommandName)
		assert.Equal(mt, "farms", events[0].Command.Lookup("update").StringValue())
		assert.Equal(mt, "insert", events[1].CommandName)
		assert.Equal(mt, "products", events[1].Command.Lookup("insert").StringValue())
	})

	mt.Run("invalid product leaves id on farm", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))

		farm := &models.Farm{ID: primitive.NewObjectID(), Name: "Green Acres", Email: "g@a.io"}
		err := newMockMongo(mt, false).AddProductToFarm(ctx, farm, &models.Product{Name: "Kale"})
		assert.Equal(mt, KindValidation, KindOf(err))
		assert.Equal(mt, []string{"update"}, commandNames(mt))
	})

	mt.Run("transaction wraps both writes", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(),
		)

		farm := &models.Farm{ID: primitive.NewObjectID(), Name: "Green Acres", Email: "g@a.io"}
		price := 1.0
		product := &models.Product{Name: "Apple", Price: &price, Category: models.CategoryFruit}
		require.NoError(mt, newMockMongo(mt, true).AddProductToFarm(ctx, farm, product))

		events := mt.GetAllStartedEvents()
		require.Len(mt, events, 3)
		assert.Equal(mt, "update", events[0].CommandName)
		starting, ok := events[0].Command.Lookup("startTransaction").BooleanOK()
		assert.True(mt, ok && starting)
		assert.Equal(mt, "insert", events[1].CommandName)
		assert.Equal(mt, "commitTransaction", events[2].CommandName)
	})
}

func TestMongoProducts(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("list by category", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, productsNS, mtest.FirstBatch,
			productDoc(primitive.NewObjectID(), "Apple", 1, "fruit"),
		))

		products, err := newMockMongo(mt, false).ListProducts(ctx, models.CategoryFruit)
		require.NoError(mt, err)
		require.Len(mt, products, 1)
		assert.Equal(mt, models.CategoryFruit, products[0].Category)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "fruit", started.Command.Lookup("filter", "category").StringValue())
	})

	mt.Run("list all has empty filter", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, productsNS, mtest.FirstBatch))

		_, err := newMockMongo(mt, false).ListProducts(ctx, "")
		require.NoError(mt, err)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		elems, err := started.Command.Lookup("filter").Document().Elements()
		require.NoError(mt, err)
		assert.Empty(mt, elems)
	})

	mt.Run("find missing product", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, productsNS, mtest.FirstBatch))

		_, err := newMockMongo(mt, false).FindProduct(ctx, "64b000000000000000000000")
		assert.Equal(mt, KindMalformedQuery, KindOf(err))
		assert.Contains(mt, err.Error(), `on model "Product"`)
	})

	mt.Run("product farm missing is nil", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, farmsNS, mtest.FirstBatch))

		farmID := primitive.NewObjectID()
		farm, err := newMockMongo(mt, false).ProductFarm(ctx, &models.Product{Farm: &farmID})
		require.NoError(mt, err)
		assert.Nil(mt, farm)
	})

	mt.Run("update returns new document", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "value", Value: productDoc(id, "Asian Pear", 1.75, "fruit")},
		))

		price := 1.75
		updated, err := newMockMongo(mt, false).UpdateProduct(ctx, id.Hex(),
			&models.Product{Name: "Asian Pear", Price: &price, Category: models.CategoryFruit})
		require.NoError(mt, err)
		assert.Equal(mt, id, updated.ID)
		assert.Equal(mt, "Asian Pear", updated.Name)
		assert.InDelta(mt, 1.75, updated.PriceValue(), 1e-9)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "findAndModify", started.CommandName)
		returnNew, ok := started.Command.Lookup("new").BooleanOK()
		assert.True(mt, ok && returnNew)
	})

	mt.Run("update missing product", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		price := 1.0
		_, err := newMockMongo(mt, false).UpdateProduct(ctx, "64b000000000000000000000",
			&models.Product{Name: "Ghost", Price: &price, Category: models.CategoryFruit})
		require.Error(mt, err)
		assert.Equal(mt, KindMalformedQuery, KindOf(err))
		assert.Contains(mt, err.Error(), "No document found")
	})

	mt.Run("update validates before sending", func(mt *mtest.T) {
		price := -1.0
		_, err := newMockMongo(mt, false).UpdateProduct(ctx, primitive.NewObjectID().Hex(),
			&models.Product{Name: "Bad", Price: &price, Category: models.CategoryFruit})
		assert.Equal(mt, KindValidation, KindOf(err))
		assert.Empty(mt, commandNames(mt))
	})

	mt.Run("delete missing product succeeds", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		require.NoError(mt, newMockMongo(mt, false).DeleteProduct(ctx, primitive.NewObjectID().Hex()))
		assert.Equal(mt, []string{"delete"}, commandNames(mt))
	})
}

func TestMongoOpContext(t *testing.T) {
	m := &Mongo{}
	ctx, cancel := m.opContext(context.Background())
	defer cancel()
	_, ok := ctx.Deadline()
	assert.False(t, ok)

	m.opTimeout = 50 * time.Millisecond
	ctx, cancel = m.opContext(context.Background())
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
}
