package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/produksi-api/internal/application/cart"
	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/domain"
)

// CartHandler maneja el carrito de la sesión del cliente y el checkout.
type CartHandler struct {
	uc    *cart.UseCase
	files ProofFiles
}

// NewCartHandler construye el handler.
func NewCartHandler(uc *cart.UseCase, files ProofFiles) *CartHandler {
	return &CartHandler{uc: uc, files: files}
}

// View godoc
// @Summary      Ver carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart [get]
func (h *CartHandler) View(c *fiber.Ctx) error {
	out, err := h.uc.View(c.UserContext(), GetSessionID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Agregar producto al carrito
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddToCartRequest  true  "item_id y quantity"
// @Success      200   {object}  dto.CartResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddToCartRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Add(c.UserContext(), GetSessionID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateItem godoc
// @Summary      Cambiar cantidad en el carrito
// @Description  Cantidad menor o igual a cero elimina la línea.
// @Tags         cart
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        itemId  path  string                 true  "ID del producto"
// @Param        body    body  dto.UpdateCartRequest  true  "quantity"
// @Success      200     {object}  dto.CartResponse
// @Router       /api/cart/items/{itemId} [put]
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateCartRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetSessionID(c), c.Params("itemId"), in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RemoveItem godoc
// @Summary      Quitar producto del carrito
// @Tags         cart
// @Security     Bearer
// @Produce      json
// @Param        itemId  path  string  true  "ID del producto"
// @Success      200     {object}  dto.CartResponse
// @Router       /api/cart/items/{itemId} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	out, err := h.uc.Remove(c.UserContext(), GetSessionID(c), c.Params("itemId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Checkout godoc
// @Summary      Confirmar pedido
// @Description  Crea el pedido con el contenido del carrito. Con comprobante nace en PROCESSING.
// @Tags         cart
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        shipping_address  formData  string  false  "Dirección de envío"
// @Param        payment_proof     formData  file    false  "Comprobante (jpg, png o pdf)"
// @Success      201  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/checkout [post]
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, domain.NewValidationError("body", "cuerpo inválido"))
		}
	}
	ref, err := saveProof(c, h.files)
	if err != nil {
		return writeError(c, err)
	}
	in.PaymentProof = ref
	out, err := h.uc.Checkout(c.UserContext(), GetSessionID(c), GetUserID(c), in)
	if err != nil {
		discardProof(c, h.files, ref)
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// discardProof borra un comprobante recién subido cuyo pedido no llegó a guardarse.
func discardProof(c *fiber.Ctx, files ProofFiles, ref string) {
	if ref == "" {
		return
	}
	if err := files.Remove(c.UserContext(), ref); err != nil {
		log.Warn().Err(err).Str("ref", ref).Msg("no se pudo borrar el comprobante huérfano")
	}
}

// saveProof guarda el archivo payment_proof si viene en el formulario; sin archivo devuelve "".
func saveProof(c *fiber.Ctx, files ProofFiles) (string, error) {
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		return "", nil
	}
	fh, err := c.FormFile("payment_proof")
	if err != nil {
		return "", nil
	}
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return files.Save(c.UserContext(), fh.Filename, f)
}
