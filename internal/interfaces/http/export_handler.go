package http

import (
	"bytes"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/application/export"
)

const maxImportBytes = 5 << 20

// ExportCustomers godoc
// @Summary      Exportar clientes a CSV
// @Tags         customers
// @Security     Bearer
// @Produce      text/csv
// @Success      200
// @Router       /api/customers/export.csv [get]
func ExportCustomers(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := export.WriteCustomersCSV(&buf, GetEngine(c).Customers().List()); err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+export.CustomersFilename+`"`)
	return c.Send(buf.Bytes())
}

// ImportMovements godoc
// @Summary      Importar ingresos y gastos desde CSV heredado (Latin-1, ";")
// @Tags         movements
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Archivo CSV"
// @Success      202   {object}  export.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/movements/import [post]
func ImportMovements(c *fiber.Ctx) error {
	var r io.Reader
	if fh, err := c.FormFile("file"); err == nil {
		if fh.Size > maxImportBytes {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "FILE_TOO_LARGE", Message: "archivo demasiado grande"})
		}
		f, err := fh.Open()
		if err != nil {
			return badBody(c)
		}
		defer f.Close()
		r = f
	} else {
		body := c.Body()
		if len(body) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo requerido"})
		}
		r = bytes.NewReader(body)
	}
	res, err := export.ImportMovements(c.UserContext(), GetEngine(c), r)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(res)
}
