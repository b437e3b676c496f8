package entity

import (
	"net/mail"

	"github.com/jhoicas/backoffice-api/pkg/date"
)

type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "active"
	CustomerInactive CustomerStatus = "inactive"
)

// CustomerType persona natural u organización.
type CustomerType string

const (
	CustomerIndividual   CustomerType = "individual"
	CustomerOrganization CustomerType = "organization"
)

// Customer representa un cliente. Document es la cédula o NIT.
type Customer struct {
	Meta
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	Status       CustomerStatus `json:"status"`
	Type         CustomerType   `json:"type"`
	Document     string         `json:"document"`
	LastPurchase *date.Date     `json:"lastPurchase,omitempty"`
}

func (c Customer) Validate() error {
	if err := required("name", c.Name); err != nil {
		return err
	}
	if err := validEmail(c.Email); err != nil {
		return err
	}
	if c.Status != CustomerActive && c.Status != CustomerInactive {
		return invalid("status", "no es un estado de cliente válido")
	}
	if c.Type != CustomerIndividual && c.Type != CustomerOrganization {
		return invalid("type", "no es un tipo de cliente válido")
	}
	return nil
}

func (c Customer) Normalize() Customer {
	if c.Status == "" {
		c.Status = CustomerActive
	}
	if c.Type == "" {
		c.Type = CustomerIndividual
	}
	return c
}

func (c Customer) WithID(id string) Customer       { c.ID = id; return c }
func (c Customer) OwnedBy(userID string) Customer { c.OwnerID = userID; return c }

// CustomerPatch actualización parcial de un cliente.
type CustomerPatch struct {
	Name         *string         `json:"name,omitempty"`
	Email        *string         `json:"email,omitempty"`
	Phone        *string         `json:"phone,omitempty"`
	Status       *CustomerStatus `json:"status,omitempty"`
	Type         *CustomerType   `json:"type,omitempty"`
	Document     *string         `json:"document,omitempty"`
	LastPurchase *date.Date      `json:"lastPurchase,omitempty"`
}

func (p CustomerPatch) Validate() error {
	if p == (CustomerPatch{}) {
		return emptyPatch()
	}
	if err := requiredPtr("name", p.Name); err != nil {
		return err
	}
	if p.Email != nil {
		if err := validEmail(*p.Email); err != nil {
			return err
		}
	}
	if p.Status != nil && *p.Status != CustomerActive && *p.Status != CustomerInactive {
		return invalid("status", "no es un estado de cliente válido")
	}
	if p.Type != nil && *p.Type != CustomerIndividual && *p.Type != CustomerOrganization {
		return invalid("type", "no es un tipo de cliente válido")
	}
	return nil
}

// validEmail acepta vacío (campo opcional en el formulario).
func validEmail(s string) error {
	if s == "" {
		return nil
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return invalid("email", "no es un email válido")
	}
	return nil
}
