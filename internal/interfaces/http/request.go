package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Servitec-api/internal/application/dto"
	"github.com/jhoicas/Servitec-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los mensajes nombran el campo JSON, no el de Go.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// parseBody decodifica el JSON y aplica los tags validate del DTO.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.Invalid("cuerpo inválido: %v", err)
	}
	return validateStruct(out)
}

func validateStruct(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Invalid("cuerpo inválido")
	}
	msgs := make([]string, 0, len(verrs))
	de := domain.Invalid("")
	for _, fe := range verrs {
		field := fieldPath(fe)
		msg := validationMessage(field, fe)
		msgs = append(msgs, msg)
		de.WithDetail(field, fe.Tag())
	}
	de.Message = strings.Join(msgs, "; ")
	return de
}

// fieldPath quita el nombre del struct raíz: "CreateVentaRequest.items[0].cantidad" -> "items[0].cantidad".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return field + " es requerido"
	case "min":
		switch fe.Kind() {
		case reflect.Slice:
			return fmt.Sprintf("%s requiere al menos %s elemento(s)", field, fe.Param())
		case reflect.String:
			return fmt.Sprintf("%s requiere al menos %s caracter(es)", field, fe.Param())
		}
		return fmt.Sprintf("%s debe ser mayor o igual a %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s admite como máximo %s caracteres", field, fe.Param())
		}
		return fmt.Sprintf("%s debe ser menor o igual a %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s debe ser mayor a %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s debe ser mayor o igual a %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", field, fe.Param())
	case "numeric":
		return field + " solo admite dígitos"
	case "email":
		return field + " no es un email válido"
	default:
		return fmt.Sprintf("%s no cumple la regla %s", field, fe.Tag())
	}
}

// pageFromQuery lee page y limit; los valores por defecto los aplica el caso de uso.
func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	return dto.PageRequest{Page: c.QueryInt("page", 0), Limit: c.QueryInt("limit", 0)}
}

// fechaFromQuery acepta RFC3339 o YYYY-MM-DD. Con finDeDia una fecha sin hora cubre el día completo.
func fechaFromQuery(c *fiber.Ctx, key string, finDeDia bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, domain.Invalid("%s inválida: use YYYY-MM-DD o RFC3339", key)
	}
	if finDeDia {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

// rangoFechas lee fechaDesde y fechaHasta.
func rangoFechas(c *fiber.Ctx) (desde, hasta *time.Time, err error) {
	if desde, err = fechaFromQuery(c, "fechaDesde", false); err != nil {
		return nil, nil, err
	}
	if hasta, err = fechaFromQuery(c, "fechaHasta", true); err != nil {
		return nil, nil, err
	}
	if desde != nil && hasta != nil && hasta.Before(*desde) {
		return nil, nil, domain.Invalid("fechaHasta no puede ser anterior a fechaDesde")
	}
	return desde, hasta, nil
}

func requireParam(c *fiber.Ctx, name string) (string, error) {
	v := strings.TrimSpace(c.Params(name))
	if v == "" {
		return "", domain.Invalid("%s es requerido", name)
	}
	return v, nil
}
