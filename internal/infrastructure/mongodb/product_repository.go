package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/bakery-inventory/internal/domain"
	"github.com/jhoicas/bakery-inventory/internal/domain/entity"
	"github.com/jhoicas/bakery-inventory/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

type productDoc struct {
	ID        string               `bson:"_id"`
	Name      string               `bson:"name"`
	NameKey   string               `bson:"name_key"`
	Price     primitive.Decimal128 `bson:"price"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

// ProductRepo catálogo sobre la colección products.
type ProductRepo struct {
	coll  *mongo.Collection
	bound context.Context // contexto de sesión cuando corre dentro de una transacción
}

func (r *ProductRepo) ctx(ctx context.Context) context.Context {
	if r.bound != nil {
		return r.bound
	}
	return ctx
}

// Create inserta el documento; el índice único de name_key detecta duplicados.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	doc, err := toProductDoc(product)
	if err != nil {
		return err
	}
	if _, err := r.coll.InsertOne(r.ctx(ctx), doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("mongodb: insertar producto: %w", err)
	}
	return nil
}

// GetByID devuelve nil, nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var doc productDoc
	err := r.coll.FindOne(r.ctx(ctx), bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("mongodb: obtener producto: %w", err)
	}
	return doc.toEntity()
}

// Update actualiza nombre y precio.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	price, err := primitive.ParseDecimal128(product.Price.String())
	if err != nil {
		return fmt.Errorf("mongodb: precio: %w", err)
	}
	res, err := r.coll.UpdateByID(r.ctx(ctx), product.ID, bson.M{"$set": bson.M{
		"name":       product.Name,
		"name_key":   entity.NameKey(product.Name),
		"price":      price,
		"updated_at": product.UpdatedAt,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("mongodb: actualizar producto: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve el catálogo ordenado por fecha de creación.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	ctx = r.ctx(ctx)
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb: listar productos: %w", err)
	}
	defer cur.Close(ctx)

	var list []*entity.Product
	for cur.Next(ctx) {
		var doc productDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongodb: decodificar producto: %w", err)
		}
		p, err := doc.toEntity()
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, cur.Err()
}

// Delete elimina el documento del producto.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.coll.DeleteOne(r.ctx(ctx), bson.M{"_id": id}); err != nil {
		return fmt.Errorf("mongodb: eliminar producto: %w", err)
	}
	return nil
}

func toProductDoc(p *entity.Product) (productDoc, error) {
	price, err := primitive.ParseDecimal128(p.Price.String())
	if err != nil {
		return productDoc{}, fmt.Errorf("mongodb: precio: %w", err)
	}
	return productDoc{
		ID:        p.ID,
		Name:      p.Name,
		NameKey:   entity.NameKey(p.Name),
		Price:     price,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}, nil
}

func (d productDoc) toEntity() (*entity.Product, error) {
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return nil, fmt.Errorf("mongodb: precio de %s: %w", d.ID, err)
	}
	return &entity.Product{
		ID:        d.ID,
		Name:      d.Name,
		Price:     price,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}
