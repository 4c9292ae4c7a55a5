package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

// SedeUseCase casos de uso CRUD para sedes.
type SedeUseCase struct {
	repo repository.SedeRepository
}

// NewSedeUseCase construye el caso de uso.
func NewSedeUseCase(repo repository.SedeRepository) *SedeUseCase {
	return &SedeUseCase{repo: repo}
}

// Create crea una nueva sede.
func (uc *SedeUseCase) Create(ctx context.Context, in dto.CreateSedeRequest) (*dto.SedeResponse, error) {
	nombre := strings.TrimSpace(in.Nombre)
	if nombre == "" {
		return nil, domain.Invalid("el nombre de la sede es requerido")
	}
	now := time.Now()
	sede := &entity.Sede{
		ID:        uuid.New().String(),
		Nombre:    nombre,
		Direccion: in.Direccion,
		Activa:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, sede); err != nil {
		return nil, err
	}
	return toSedeResponse(sede), nil
}

// GetByID obtiene una sede por ID.
func (uc *SedeUseCase) GetByID(ctx context.Context, id string) (*dto.SedeResponse, error) {
	sede, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sede == nil {
		return nil, domain.NotFound("sede")
	}
	return toSedeResponse(sede), nil
}

// Update actualiza una sede.
func (uc *SedeUseCase) Update(ctx context.Context, id string, in dto.UpdateSedeRequest) (*dto.SedeResponse, error) {
	sede, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sede == nil {
		return nil, domain.NotFound("sede")
	}
	if in.Nombre != nil {
		sede.Nombre = strings.TrimSpace(*in.Nombre)
	}
	if in.Direccion != nil {
		sede.Direccion = *in.Direccion
	}
	if in.Activa != nil {
		sede.Activa = *in.Activa
	}
	sede.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, sede); err != nil {
		return nil, err
	}
	return toSedeResponse(sede), nil
}

// List lista sedes con paginación.
func (uc *SedeUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.SedeListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.SedeResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSedeResponse(s))
	}
	return &dto.SedeListResponse{Items: items, Page: dto.NewPageResponse(page, total)}, nil
}

func toSedeResponse(s *entity.Sede) *dto.SedeResponse {
	return &dto.SedeResponse{
		ID:        s.ID,
		Nombre:    s.Nombre,
		Direccion: s.Direccion,
		Activa:    s.Activa,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
