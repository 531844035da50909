package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jhoicas/bakery-inventory/internal/domain/repository"
)

var _ repository.TxRunner = (*Database)(nil)

// Run ejecuta fn en una transacción multi-documento si está habilitada. Sin replica set
// las operaciones corren en secuencia: un registro huérfano se tolera porque los
// registros referencian al producto de forma débil.
func (d *Database) Run(ctx context.Context, fn func(repository.ProductRepository, repository.DailyRecordRepository) error) error {
	if !d.useTx {
		return fn(d.Products(), d.Records())
	}

	session, err := d.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongodb: iniciar sesión: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		products := d.Products()
		products.bound = sc
		records := d.Records()
		records.bound = sc
		return nil, fn(products, records)
	})
	return err
}
