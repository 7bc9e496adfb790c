package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog/internal/models"
	"catalog/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ProductCollection is the MongoDB collection holding products.
const ProductCollection = "products"

// productDocument is the stored shape of a product.
type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Category    string             `bson:"category"`
	InStock     bool               `bson:"inStock"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d productDocument) toModel() models.Product {
	return models.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Category:    models.Category(d.Category),
		InStock:     d.InStock,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// MongoProductRepository is a MongoDB implementation of ProductRepository.
// It relies on the text index created by EnsureIndexes for search.
type MongoProductRepository struct {
	coll *mongo.Collection
}

// NewMongoProductRepository creates a repository over db's products collection.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{coll: db.Collection(ProductCollection)}
}

// EnsureIndexes creates the text index over name and description and the
// indexes used by list filters.
func (r *MongoProductRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}
	return nil
}

func filterDocument(f query.Filter) bson.M {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.InStock != nil {
		filter["inStock"] = *f.InStock
	}
	if f.Search != "" {
		filter["$text"] = bson.M{"$search": f.Search}
	}
	return filter
}

var textScore = bson.M{"$meta": "textScore"}

func findOptions(q query.ProductQuery) *options.FindOptions {
	opts := options.Find().
		SetSkip(int64(q.Offset)).
		SetLimit(int64(q.Limit))
	if q.Sort == query.SortRelevance && q.Filter.Search != "" {
		return opts.
			SetProjection(bson.M{"score": textScore}).
			SetSort(bson.D{{Key: "score", Value: textScore}})
	}
	return opts.SetSort(bson.D{{Key: "createdAt", Value: -1}})
}

func categoryPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.M{"$sum": 1}},
			{Key: "priceSum", Value: bson.M{"$sum": "$price"}},
			{Key: "inStockCount", Value: bson.M{"$sum": bson.M{"$cond": bson.A{"$inStock", 1, 0}}}},
		}}},
	}
}

func summaryPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalProducts", Value: bson.M{"$sum": 1}},
			{Key: "totalValue", Value: bson.M{"$sum": "$price"}},
			{Key: "inStockProducts", Value: bson.M{"$sum": bson.M{"$cond": bson.A{"$inStock", 1, 0}}}},
		}}},
	}
}

// objectID parses id. A malformed id is an unclassified storage error, not a
// missing product.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid product ID %q: %w", id, err)
	}
	return oid, nil
}

func (r *MongoProductRepository) decodeAll(ctx context.Context, cur *mongo.Cursor) ([]models.Product, error) {
	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	products := make([]models.Product, len(docs))
	for i, d := range docs {
		products[i] = d.toModel()
	}
	return products, nil
}

// Find retrieves one page of products matching the query.
func (r *MongoProductRepository) Find(ctx context.Context, q query.ProductQuery) ([]models.Product, error) {
	cur, err := r.coll.Find(ctx, filterDocument(q.Filter), findOptions(q))
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return r.decodeAll(ctx, cur)
}

// Count returns the number of products matching the filter.
func (r *MongoProductRepository) Count(ctx context.Context, f query.Filter) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, filterDocument(f))
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

// Search retrieves all products matching the term ordered by text score.
func (r *MongoProductRepository) Search(ctx context.Context, term string) ([]models.Product, error) {
	opts := options.Find().
		SetProjection(bson.M{"score": textScore}).
		SetSort(bson.D{{Key: "score", Value: textScore}})
	cur, err := r.coll.Find(ctx, filterDocument(query.Filter{Search: term}), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return r.decodeAll(ctx, cur)
}

// GetByID retrieves a single product by its ObjectID hex string.
func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc productDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	p := doc.toModel()
	return &p, nil
}

// Create inserts a product and fills in its ID and timestamps.
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC()
	doc := productDocument{
		ID:          primitive.NewObjectID(),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    string(product.Category),
		InStock:     product.InStock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	*product = doc.toModel()
	return nil
}

// Update replaces the editable fields and returns the stored document.
func (r *MongoProductRepository) Update(ctx context.Context, id string, u models.ProductUpdate) (*models.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{
		"name":        u.Name,
		"description": u.Description,
		"price":       u.Price,
		"category":    string(u.Category),
		"updatedAt":   time.Now().UTC(),
	}
	if u.InStock != nil {
		set["inStock"] = *u.InStock
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc productDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}
	p := doc.toModel()
	return &p, nil
}

// Delete removes a product by its ID.
func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

// GroupByCategory runs the per-category $group aggregation.
func (r *MongoProductRepository) GroupByCategory(ctx context.Context) ([]models.CategoryGroup, error) {
	cur, err := r.coll.Aggregate(ctx, categoryPipeline())
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate products by category: %w", err)
	}
	groups := []models.CategoryGroup{}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode category aggregation: %w", err)
	}
	return groups, nil
}

// Summarize runs the collection-wide $group aggregation.
func (r *MongoProductRepository) Summarize(ctx context.Context) (*models.SummaryGroup, error) {
	cur, err := r.coll.Aggregate(ctx, summaryPipeline())
	if err != nil {
		return nil, fmt.Errorf("failed to summarize products: %w", err)
	}
	var summaries []models.SummaryGroup
	if err := cur.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("failed to decode summary aggregation: %w", err)
	}
	if len(summaries) == 0 {
		return nil, nil
	}
	return &summaries[0], nil
}
