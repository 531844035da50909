package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bakery-inventory/internal/application/dto"
	"github.com/jhoicas/bakery-inventory/internal/domain"
	"github.com/jhoicas/bakery-inventory/internal/domain/entity"
	"github.com/jhoicas/bakery-inventory/internal/domain/repository"
)

// Listener recibe los cambios del catálogo (la planilla activa).
type Listener interface {
	ProductSaved(product *entity.Product)
	ProductDeleted(productID string)
}

// UseCase alta, edición, baja y listado de productos.
type UseCase struct {
	repo      repository.ProductRepository
	tx        repository.TxRunner
	log       zerolog.Logger
	listeners []Listener
	now       func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.ProductRepository, tx repository.TxRunner, log zerolog.Logger, listeners ...Listener) *UseCase {
	return &UseCase{repo: repo, tx: tx, log: log, listeners: listeners, now: time.Now}
}

// List devuelve el catálogo en orden de alta.
func (uc *UseCase) List(ctx context.Context) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items}, nil
}

// Create valida y crea un producto.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name, err := validate(in.Name, in.Price)
	if err != nil {
		return nil, err
	}
	if err := uc.checkDuplicate(ctx, name, ""); err != nil {
		return nil, err
	}
	now := uc.now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Name:      name,
		Price:     in.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", product.ID).Str("name", product.Name).Msg("producto creado")
	for _, l := range uc.listeners {
		l.ProductSaved(product)
	}
	return toProductResponse(product), nil
}

// Update reemplaza nombre y precio. El producto editado no cuenta como duplicado de sí mismo.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	name, err := validate(in.Name, in.Price)
	if err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.checkDuplicate(ctx, name, id); err != nil {
		return nil, err
	}
	product.Name = name
	product.Price = in.Price
	product.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	for _, l := range uc.listeners {
		l.ProductSaved(product)
	}
	return toProductResponse(product), nil
}

// Delete elimina el producto y todos sus registros diarios en una sola unidad de trabajo.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	err := uc.tx.Run(ctx, func(products repository.ProductRepository, records repository.DailyRecordRepository) error {
		p, err := products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if err := records.DeleteByProduct(ctx, id); err != nil {
			return fmt.Errorf("eliminar registros: %w", err)
		}
		return products.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("product_id", id).Msg("producto eliminado")
	for _, l := range uc.listeners {
		l.ProductDeleted(id)
	}
	return nil
}

func validate(name string, price decimal.Decimal) (string, error) {
	name = entity.NormalizeName(name)
	if name == "" {
		return "", domain.ErrEmptyName
	}
	if price.IsNegative() {
		return "", domain.ErrNegativePrice
	}
	return name, nil
}

func (uc *UseCase) checkDuplicate(ctx context.Context, name, exceptID string) error {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range list {
		if p.ID != exceptID && entity.SameName(p.Name, name) {
			return domain.ErrDuplicate
		}
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Price:     p.Price,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
