package repository

import (
	"context"

	"github.com/jhoicas/bakery-inventory/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia del catálogo (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// List devuelve el catálogo en orden de creación.
	List(ctx context.Context) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
