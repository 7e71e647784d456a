package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/produksi-api/internal/application/auth"
	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/usecase"
)

// CustomerHandler administración de clientes por parte del personal.
type CustomerHandler struct {
	uc   *usecase.CustomerUseCase
	auth *auth.AuthUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *usecase.CustomerUseCase, authUC *auth.AuthUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc, auth: authUC}
}

// List godoc
// @Summary      Listar clientes
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.CustomerResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext(), pageFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Get godoc
// @Summary      Obtener cliente
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Profile(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetPassword godoc
// @Summary      Restablecer contraseña de cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                  true  "ID"
// @Param        body  body  dto.SetPasswordRequest  true  "Nueva contraseña"
// @Success      204
// @Router       /api/customers/{id}/password [put]
func (h *CustomerHandler) SetPassword(c *fiber.Ctx) error {
	var in dto.SetPasswordRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	if err := h.auth.SetCustomerPassword(c.UserContext(), c.Params("id"), in.Password); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
