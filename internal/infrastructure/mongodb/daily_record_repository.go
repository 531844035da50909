package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/bakery-inventory/internal/domain/entity"
	"github.com/jhoicas/bakery-inventory/internal/domain/repository"
)

var _ repository.DailyRecordRepository = (*DailyRecordRepo)(nil)

type recordDoc struct {
	ID           string    `bson:"_id"`
	ProductID    string    `bson:"product_id"`
	Date         string    `bson:"date"`
	Batches      []int     `bson:"batches"`
	TotalSent    int       `bson:"total_sent"`
	RemainingQty int       `bson:"remaining_qty"`
	SoldQty      int       `bson:"sold_qty"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

// DailyRecordRepo registros diarios sobre la colección daily_records.
type DailyRecordRepo struct {
	coll  *mongo.Collection
	bound context.Context
}

func (r *DailyRecordRepo) ctx(ctx context.Context) context.Context {
	if r.bound != nil {
		return r.bound
	}
	return ctx
}

// ListByDate devuelve los registros de la fecha indexados por producto.
func (r *DailyRecordRepo) ListByDate(ctx context.Context, date string) (map[string]*entity.DailyRecord, error) {
	ctx = r.ctx(ctx)
	cur, err := r.coll.Find(ctx, bson.M{"date": date})
	if err != nil {
		return nil, fmt.Errorf("mongodb: listar registros: %w", err)
	}
	defer cur.Close(ctx)

	out := make(map[string]*entity.DailyRecord)
	for cur.Next(ctx) {
		var doc recordDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongodb: decodificar registro: %w", err)
		}
		out[doc.ProductID] = doc.toEntity()
	}
	return out, cur.Err()
}

// Upsert crea o reemplaza por (product_id, date) y devuelve el documento resultante.
func (r *DailyRecordRepo) Upsert(ctx context.Context, record *entity.DailyRecord) error {
	now := time.Now().UTC()
	id := record.ID
	if id == "" {
		id = uuid.New().String()
	}
	filter := bson.M{"product_id": record.ProductID, "date": record.Date}
	update := bson.M{
		"$set": bson.M{
			"batches":       record.Batches.Slice(),
			"total_sent":    record.TotalSent,
			"remaining_qty": record.RemainingQty,
			"sold_qty":      record.SoldQty,
			"updated_at":    now,
		},
		"$setOnInsert": bson.M{"_id": id, "created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc recordDoc
	if err := r.coll.FindOneAndUpdate(r.ctx(ctx), filter, update, opts).Decode(&doc); err != nil {
		return fmt.Errorf("mongodb: upsert registro: %w", err)
	}
	record.ID = doc.ID
	record.CreatedAt = doc.CreatedAt
	record.UpdatedAt = doc.UpdatedAt
	return nil
}

// DeleteByProduct elimina todos los registros del producto.
func (r *DailyRecordRepo) DeleteByProduct(ctx context.Context, productID string) error {
	if _, err := r.coll.DeleteMany(r.ctx(ctx), bson.M{"product_id": productID}); err != nil {
		return fmt.Errorf("mongodb: eliminar registros: %w", err)
	}
	return nil
}

func (d recordDoc) toEntity() *entity.DailyRecord {
	return &entity.DailyRecord{
		ID:           d.ID,
		ProductID:    d.ProductID,
		Date:         d.Date,
		Batches:      entity.BatchesFromSlice(d.Batches),
		TotalSent:    d.TotalSent,
		RemainingQty: d.RemainingQty,
		SoldQty:      d.SoldQty,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
