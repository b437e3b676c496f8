// Package export genera y lee los archivos planos del back-office:
// la exportación de clientes a CSV y la importación de movimientos heredados.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jhoicas/backoffice-api/internal/domain/entity"
)

// CustomersFilename nombre sugerido del adjunto.
const CustomersFilename = "clientes.csv"

var customerHeader = []string{"Nombre", "Tipo", "Documento", "Email", "Teléfono", "Estado", "Última compra"}

// WriteCustomersCSV escribe los clientes separados por ";" ordenados por nombre.
// Tipo y estado van con su etiqueta visible; sin última compra se escribe "N/A".
func WriteCustomersCSV(w io.Writer, customers []entity.Customer) error {
	rows := make([]entity.Customer, len(customers))
	copy(rows, customers)
	sort.SliceStable(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
	})

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(customerHeader); err != nil {
		return fmt.Errorf("export clientes: %w", err)
	}
	for _, c := range rows {
		last := "N/A"
		if c.LastPurchase != nil && !c.LastPurchase.IsZero() {
			last = fmt.Sprintf("%02d/%02d/%04d", c.LastPurchase.Day(), int(c.LastPurchase.Month()), c.LastPurchase.Year())
		}
		record := []string{
			c.Name,
			entity.OptionLabel(entity.KindCustomer, "type", string(c.Type)),
			c.Document,
			c.Email,
			c.Phone,
			entity.OptionLabel(entity.KindCustomer, "status", string(c.Status)),
			last,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export clientes: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
