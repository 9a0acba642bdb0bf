package http

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/gudang-api/internal/application/dto"
)

var validate = validator.New()

func init() {
	// decimal.Decimal como numérico para que min/gt/required no hagan panic.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// validationFailed responde 422 con el mapa campo → regla incumplida.
func validationFailed(c *fiber.Ctx, err error) error {
	fields := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fields[fe.Namespace()] = fe.Tag()
		}
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
		Code: "VALIDATION", Message: "datos inválidos", Details: fields,
	})
}

// parseBody decodifica el JSON y valida los tags. Si devuelve false ya se escribió la respuesta.
func parseBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido: " + err.Error()})
	}
	if err := validate.Struct(out); err != nil {
		return false, validationFailed(c, err)
	}
	return true, nil
}
