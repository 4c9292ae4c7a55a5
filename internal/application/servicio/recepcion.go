package servicio

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/application/inventory"
	"github.com/jhoicas/Servitec-api/internal/domain"
	"github.com/jhoicas/Servitec-api/internal/domain/entity"
	"github.com/jhoicas/Servitec-api/internal/domain/repository"
)

// Create recepciona un equipo. El estado inicial depende del tipo de servicio; los repuestos
// indicados se consumen del kardex (USO_SERVICIO) en la misma transacción que crea el ticket,
// así que la falta de stock de cualquiera aborta la recepción.
func (uc *UseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateServicioRequest) (*dto.ServicioResponse, error) {
	tipo := entity.TipoServicio(in.TipoServicio)
	estado, ok := tipo.EstadoInicial()
	if !ok {
		return nil, domain.Invalid("tipo de servicio inválido: %s", in.TipoServicio)
	}
	if len(in.Equipos) == 0 {
		return nil, domain.Invalid("se requiere al menos un equipo")
	}
	if in.ClienteID == "" && in.Cliente == nil {
		return nil, domain.Invalid("se requiere clienteId o los datos del cliente")
	}
	if tipo == entity.TipoServicioExpress && (strings.TrimSpace(in.Diagnostico) == "" || strings.TrimSpace(in.Solucion) == "") {
		return nil, domain.Invalid("el servicio express requiere diagnóstico y solución")
	}
	if in.ACuenta.IsNegative() {
		return nil, domain.Invalid("aCuenta no puede ser negativo")
	}

	s := &entity.Servicio{
		ID:                        uuid.New().String(),
		SedeID:                    in.SedeID,
		Tipo:                      tipo,
		Diagnostico:               strings.TrimSpace(in.Diagnostico),
		Solucion:                  strings.TrimSpace(in.Solucion),
		FotosAntes:                in.FotosAntes,
		CostoServicio:             decimal.Zero,
		CostoRepuestos:            decimal.Zero,
		MontoServiciosAdicionales: decimal.Zero,
		ACuenta:                   in.ACuenta,
		AdelantoDevuelto:          decimal.Zero,
		Estado:                    estado,
		UsuarioID:                 actor.UserID,
	}
	for _, e := range in.Equipos {
		if e.Costo.IsNegative() {
			return nil, domain.Invalid("el costo del equipo no puede ser negativo")
		}
		s.Equipos = append(s.Equipos, entity.Equipo{
			Tipo:       e.Tipo,
			Marca:      e.Marca,
			Modelo:     e.Modelo,
			Serie:      e.Serie,
			Falla:      e.Falla,
			Accesorios: e.Accesorios,
			Costo:      e.Costo,
		})
		s.CostoServicio = s.CostoServicio.Add(e.Costo)
	}
	for _, a := range in.ServiciosAdicionales {
		if a.Precio.IsNegative() {
			return nil, domain.Invalid("el precio del servicio adicional no puede ser negativo")
		}
		s.ServiciosAdicionales = append(s.ServiciosAdicionales, entity.ServicioAdicional{Descripcion: a.Descripcion, Precio: a.Precio})
		s.MontoServiciosAdicionales = s.MontoServiciosAdicionales.Add(a.Precio)
	}

	sede, err := uc.sedeRepo.GetByID(ctx, in.SedeID)
	if err != nil {
		return nil, err
	}
	if sede == nil {
		return nil, domain.NotFound("sede")
	}
	if !actor.PuedeOperarSede(in.SedeID) {
		return nil, domain.Forbidden("no puede recepcionar equipos en otra sede")
	}
	repuestos, err := inventory.ResolverLineas(ctx, uc.productRepo, in.Repuestos)
	if err != nil {
		return nil, err
	}
	s.CostoRepuestos = inventory.TotalLineas(repuestos)
	s.RecalcularTotales()
	if s.ACuenta.GreaterThan(s.Total) {
		return nil, domain.Invalid("aCuenta (%s) no puede superar el total (%s)", s.ACuenta.StringFixed(2), s.Total.StringFixed(2))
	}

	err = uc.txRunner.RunWithOptions(ctx, repository.TxOptions{Name: "servicios.recepcionar"}, func(r repository.TxRepos) error {
		cliente, err := uc.resolverCliente(ctx, r, in)
		if err != nil {
			return err
		}
		s.ClienteID = cliente.ID
		s.ClienteNombre = cliente.Nombre

		numero, err := r.Servicios.NextNumero(ctx)
		if err != nil {
			return err
		}
		now := uc.now()
		s.Numero = numero
		s.FechaRecepcion = now
		s.CreatedAt = now
		s.UpdatedAt = now
		if estado == entity.EstadoReparado {
			s.FechaReparacion = &now
		}
		if err := r.Servicios.Create(ctx, s); err != nil {
			return err
		}

		if len(repuestos) > 0 {
			reqs := inventory.Requerimientos(repuestos, s.SedeID)
			if err := uc.ledger.Reservar(ctx, r, reqs, repuestoInsuficiente); err != nil {
				return err
			}
			if _, err := uc.consumir(ctx, r, s, repuestos, entity.MovUsoServicio, actor.UserID); err != nil {
				return err
			}
		}
		return uc.historial(ctx, r, s, "", actor.UserID, "Recepción del equipo ("+string(tipo)+")")
	})
	if err != nil {
		return nil, err
	}
	return uc.Get(ctx, actor, s.ID)
}

// resolverCliente usa clienteId o, con los datos del cliente, reutiliza el cliente del mismo
// documento o lo crea.
func (uc *UseCase) resolverCliente(ctx context.Context, r repository.TxRepos, in dto.CreateServicioRequest) (*entity.Cliente, error) {
	if in.ClienteID != "" {
		c, err := r.Clientes.GetByID(ctx, in.ClienteID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, domain.NotFound("cliente")
		}
		return c, nil
	}
	nombre := strings.TrimSpace(in.Cliente.Nombre)
	if nombre == "" {
		return nil, domain.Invalid("el nombre del cliente es requerido")
	}
	documento := strings.TrimSpace(in.Cliente.Documento)
	if documento != "" {
		c, err := r.Clientes.GetByDocumento(ctx, documento)
		if err != nil {
			return nil, err
		}
		if c != nil {
			return c, nil
		}
	}
	now := uc.now()
	c := &entity.Cliente{
		ID:        uuid.New().String(),
		Nombre:    nombre,
		Documento: documento,
		Telefono:  in.Cliente.Telefono,
		Email:     in.Cliente.Email,
		Direccion: in.Cliente.Direccion,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.Clientes.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
