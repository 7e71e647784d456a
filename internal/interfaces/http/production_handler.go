package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/produksi-api/internal/application/dto"
	"github.com/jhoicas/produksi-api/internal/application/production"
)

// ProductionHandler maneja el registro de producción y sus líneas de consumo.
type ProductionHandler struct {
	uc *production.UseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *production.UseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar producción
// @Description  Consume materias primas de las líneas y suma el resultado al stock.
// @Tags         productions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductionRequest  true  "Producción"
// @Success      201   {object}  dto.ProductionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/productions [post]
func (h *ProductionHandler) Create(c *fiber.Ctx) error {
	var in dto.ProductionRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Record(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar producciones
// @Tags         productions
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.ProductionResponse
// @Router       /api/productions [get]
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.uc.List(c.UserContext(), from, to, pageFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Get godoc
// @Summary      Obtener producción
// @Tags         productions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.ProductionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productions/{id} [get]
func (h *ProductionHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar producción
// @Description  Aplica al stock la diferencia de resultado y de consumo.
// @Tags         productions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID"
// @Param        body  body  dto.ProductionRequest  true  "Producción"
// @Success      200   {object}  dto.ProductionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/productions/{id} [put]
func (h *ProductionHandler) Update(c *fiber.Ctx) error {
	var in dto.ProductionRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producción
// @Description  Revierte el resultado y devuelve las materias primas consumidas.
// @Tags         productions
// @Security     Bearer
// @Param        id  path  string  true  "ID"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/productions/{id} [delete]
func (h *ProductionHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetUserID(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddLine godoc
// @Summary      Agregar línea de consumo
// @Tags         productions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la producción"
// @Param        body  body  dto.ProductionLineInput  true  "Línea"
// @Success      201   {object}  dto.ProductionLineResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/productions/{id}/lines [post]
func (h *ProductionHandler) AddLine(c *fiber.Ctx) error {
	var in dto.ProductionLineInput
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.AddLine(c.UserContext(), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateLine godoc
// @Summary      Editar línea de consumo
// @Tags         productions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string                   true  "ID de la producción"
// @Param        lineId  path  string                   true  "ID de la línea"
// @Param        body    body  dto.ProductionLineInput  true  "Línea"
// @Success      200     {object}  dto.ProductionLineResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/productions/{id}/lines/{lineId} [put]
func (h *ProductionHandler) UpdateLine(c *fiber.Ctx) error {
	var in dto.ProductionLineInput
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateLine(c.UserContext(), GetUserID(c), c.Params("id"), c.Params("lineId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeleteLine godoc
// @Summary      Eliminar línea de consumo
// @Tags         productions
// @Security     Bearer
// @Param        id      path  string  true  "ID de la producción"
// @Param        lineId  path  string  true  "ID de la línea"
// @Success      204
// @Router       /api/productions/{id}/lines/{lineId} [delete]
func (h *ProductionHandler) DeleteLine(c *fiber.Ctx) error {
	if err := h.uc.DeleteLine(c.UserContext(), GetUserID(c), c.Params("id"), c.Params("lineId")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
