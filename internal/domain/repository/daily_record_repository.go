package repository

import (
	"context"

	"github.com/jhoicas/bakery-inventory/internal/domain/entity"
)

// DailyRecordRepository define el puerto de persistencia de los registros diarios.
type DailyRecordRepository interface {
	// ListByDate devuelve los registros de la fecha indexados por ProductID.
	ListByDate(ctx context.Context, date string) (map[string]*entity.DailyRecord, error)
	// Upsert crea o reemplaza el registro con clave (ProductID, Date). Si es nuevo
	// asigna ID y CreatedAt sobre record.
	Upsert(ctx context.Context, record *entity.DailyRecord) error
	DeleteByProduct(ctx context.Context, productID string) error
}

// TxRunner ejecuta fn dentro de una unidad de trabajo con repositorios atados a ella.
// Usado para borrar un producto junto con sus registros diarios.
type TxRunner interface {
	Run(ctx context.Context, fn func(products ProductRepository, records DailyRecordRepository) error) error
}
