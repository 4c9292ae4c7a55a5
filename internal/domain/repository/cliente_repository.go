package repository

import (
	"context"

	"github.com/jhoicas/Servitec-api/internal/domain/entity"
)

// ClienteRepository define el puerto de persistencia para Cliente.
type ClienteRepository interface {
	Create(ctx context.Context, cliente *entity.Cliente) error
	GetByID(ctx context.Context, id string) (*entity.Cliente, error)
	GetByDocumento(ctx context.Context, documento string) (*entity.Cliente, error)
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Cliente, int, error)
}
