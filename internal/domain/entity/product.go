package entity

import "github.com/shopspring/decimal"

// ProductStatus etiqueta de nivel de stock.
type ProductStatus string

const (
	ProductInStock  ProductStatus = "in_stock"
	ProductLowStock ProductStatus = "low_stock"
)

func (s ProductStatus) Valid() bool {
	return s == ProductInStock || s == ProductLowStock
}

// Product representa un producto del inventario del negocio.
type Product struct {
	Meta
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	MinStock int             `json:"minStock"`
	Price    decimal.Decimal `json:"price"`
	Status   ProductStatus   `json:"status"`
	Category string          `json:"category"`
}

// IsLowStock indica si la cantidad está en o por debajo del mínimo.
func (p Product) IsLowStock() bool { return p.Quantity <= p.MinStock }

func (p Product) Validate() error {
	if err := required("name", p.Name); err != nil {
		return err
	}
	if p.Quantity < 0 {
		return invalid("quantity", "no puede ser negativa")
	}
	if p.MinStock < 0 {
		return invalid("minStock", "no puede ser negativo")
	}
	if p.Price.IsNegative() {
		return invalid("price", "no puede ser negativo")
	}
	if p.Status != "" && !p.Status.Valid() {
		return invalid("status", "no es un nivel de stock válido")
	}
	return nil
}

// Normalize deriva el estado desde cantidad y mínimo. La etiqueta nunca se toma del cliente
// ni del documento guardado: un patch de quantity o minStock la deja desactualizada.
func (p Product) Normalize() Product {
	p.Status = ProductInStock
	if p.IsLowStock() {
		p.Status = ProductLowStock
	}
	return p
}

func (p Product) WithID(id string) Product       { p.ID = id; return p }
func (p Product) OwnedBy(userID string) Product { p.OwnerID = userID; return p }

// ProductPatch actualización parcial de un producto. El estado no se escribe: se deriva al leer.
type ProductPatch struct {
	Name     *string          `json:"name,omitempty"`
	Quantity *int             `json:"quantity,omitempty"`
	MinStock *int             `json:"minStock,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Category *string          `json:"category,omitempty"`
}

func (p ProductPatch) Validate() error {
	if p == (ProductPatch{}) {
		return emptyPatch()
	}
	if err := requiredPtr("name", p.Name); err != nil {
		return err
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		return invalid("quantity", "no puede ser negativa")
	}
	if p.MinStock != nil && *p.MinStock < 0 {
		return invalid("minStock", "no puede ser negativo")
	}
	if p.Price != nil && p.Price.IsNegative() {
		return invalid("price", "no puede ser negativo")
	}
	return nil
}
