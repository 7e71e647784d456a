package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/produksi-api/internal/application/auth"
	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/order"
	"github.com/jhoicas/produksi-api/internal/application/usecase"
	"github.com/jhoicas/produksi-api/internal/domain"
)

// AccountHandler maneja la cuenta del cliente autenticado.
type AccountHandler struct {
	customers *usecase.CustomerUseCase
	auth      *auth.AuthUseCase
	orders    *order.UseCase
	files     ProofFiles
}

// NewAccountHandler construye el handler.
func NewAccountHandler(customers *usecase.CustomerUseCase, authUC *auth.AuthUseCase, orders *order.UseCase, files ProofFiles) *AccountHandler {
	return &AccountHandler{customers: customers, auth: authUC, orders: orders, files: files}
}

// Profile godoc
// @Summary      Perfil del cliente
// @Tags         account
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CustomerResponse
// @Router       /api/account [get]
func (h *AccountHandler) Profile(c *fiber.Ctx) error {
	out, err := h.customers.Profile(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateProfile godoc
// @Summary      Actualizar perfil
// @Tags         account
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CustomerUpdateRequest  true  "Datos de contacto"
// @Success      200   {object}  dto.CustomerResponse
// @Router       /api/account [put]
func (h *AccountHandler) UpdateProfile(c *fiber.Ctx) error {
	var in dto.CustomerUpdateRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.customers.UpdateProfile(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ChangePassword godoc
// @Summary      Cambiar contraseña
// @Tags         account
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.ChangePasswordRequest  true  "Contraseña actual y nueva"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/account/password [put]
func (h *AccountHandler) ChangePassword(c *fiber.Ctx) error {
	var in dto.ChangePasswordRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	if err := h.auth.ChangeCustomerPassword(c.UserContext(), GetUserID(c), in); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Orders godoc
// @Summary      Historial de pedidos
// @Tags         account
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/account/orders [get]
func (h *AccountHandler) Orders(c *fiber.Ctx) error {
	list, err := h.customers.Orders(c.UserContext(), GetUserID(c), pageFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Order godoc
// @Summary      Detalle de un pedido propio
// @Tags         account
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/account/orders/{id} [get]
func (h *AccountHandler) Order(c *fiber.Ctx) error {
	out, err := h.customers.Order(c.UserContext(), GetUserID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UploadPaymentProof godoc
// @Summary      Subir comprobante de pago
// @Description  Un pedido en AWAITING_PAYMENT pasa a PROCESSING y descuenta stock.
// @Tags         account
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id             path      string  true  "ID"
// @Param        payment_proof  formData  file    true  "Comprobante (jpg, png o pdf)"
// @Success      200  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/account/orders/{id}/payment-proof [post]
func (h *AccountHandler) UploadPaymentProof(c *fiber.Ctx) error {
	ref, err := saveProof(c, h.files)
	if err != nil {
		return writeError(c, err)
	}
	if ref == "" {
		return writeError(c, domain.NewValidationError("payment_proof", "es requerido"))
	}
	out, err := h.orders.AttachPaymentProof(c.UserContext(), GetUserID(c), c.Params("id"), ref)
	if err != nil {
		discardProof(c, h.files, ref)
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Notifications godoc
// @Summary      Avisos del cliente
// @Description  Pedidos con costo de envío fijado que siguen pendientes de pago o en proceso.
// @Tags         account
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.NotificationDTO
// @Router       /api/account/notifications [get]
func (h *AccountHandler) Notifications(c *fiber.Ctx) error {
	list, err := h.customers.Notifications(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}
