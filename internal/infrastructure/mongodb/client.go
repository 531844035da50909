// Package mongodb implementa los puertos de persistencia sobre MongoDB
// (almacén documental, mismo modelo de colecciones products / daily_records).
package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	productsCollection = "products"
	recordsCollection  = "daily_records"
)

// Database agrupa el cliente y la base de datos de la panadería.
type Database struct {
	client *mongo.Client
	db     *mongo.Database
	useTx  bool
}

// Connect abre la conexión, verifica con Ping y crea los índices necesarios.
// useTx habilita transacciones multi-documento (requiere replica set).
func Connect(ctx context.Context, uri, dbName string, useTx bool) (*Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb: conectar: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongodb: ping: %w", err)
	}
	d := &Database{client: client, db: client.Database(dbName), useTx: useTx}
	if err := d.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return d, nil
}

func (d *Database) ensureIndexes(ctx context.Context) error {
	_, err := d.db.Collection(productsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name_key", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("mongodb: índices de productos: %w", err)
	}
	_, err = d.db.Collection(recordsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "date", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "date", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("mongodb: índices de registros: %w", err)
	}
	return nil
}

// Products repositorio del catálogo.
func (d *Database) Products() *ProductRepo {
	return &ProductRepo{coll: d.db.Collection(productsCollection)}
}

// Records repositorio de registros diarios.
func (d *Database) Records() *DailyRecordRepo {
	return &DailyRecordRepo{coll: d.db.Collection(recordsCollection)}
}

// Close cierra la conexión.
func (d *Database) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}
