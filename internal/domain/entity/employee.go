package entity

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/pkg/date"
)

// Department área del negocio a la que pertenece un empleado.
type Department string

const (
	DepartmentAdministrative Department = "administrative"
	DepartmentFinancial      Department = "financial"
	DepartmentCommercial     Department = "commercial"
	DepartmentOperations     Department = "operations"
	DepartmentHR             Department = "hr"
)

func (d Department) Valid() bool {
	switch d {
	case DepartmentAdministrative, DepartmentFinancial, DepartmentCommercial, DepartmentOperations, DepartmentHR:
		return true
	}
	return false
}

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeVacation EmployeeStatus = "vacation"
	EmployeeLeave    EmployeeStatus = "leave"
	EmployeeInactive EmployeeStatus = "inactive"
)

func (s EmployeeStatus) Valid() bool {
	switch s {
	case EmployeeActive, EmployeeVacation, EmployeeLeave, EmployeeInactive:
		return true
	}
	return false
}

// Employee representa un colaborador del negocio.
type Employee struct {
	Meta
	Name       string          `json:"name"`
	Position   string          `json:"position"`
	Department Department      `json:"department"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	StartDate  date.Date       `json:"startDate"`
	Salary     decimal.Decimal `json:"salary"`
	Status     EmployeeStatus  `json:"status"`
}

func (e Employee) Validate() error {
	if err := required("name", e.Name); err != nil {
		return err
	}
	if err := required("position", e.Position); err != nil {
		return err
	}
	if !e.Department.Valid() {
		return invalid("department", "no es un departamento válido")
	}
	if err := validEmail(e.Email); err != nil {
		return err
	}
	if e.Salary.IsNegative() {
		return invalid("salary", "no puede ser negativo")
	}
	if !e.Status.Valid() {
		return invalid("status", "no es un estado de empleado válido")
	}
	return nil
}

func (e Employee) Normalize() Employee {
	if e.Status == "" {
		e.Status = EmployeeActive
	}
	return e
}

func (e Employee) WithID(id string) Employee       { e.ID = id; return e }
func (e Employee) OwnedBy(userID string) Employee { e.OwnerID = userID; return e }

// EmployeePatch actualización parcial de un empleado.
type EmployeePatch struct {
	Name       *string          `json:"name,omitempty"`
	Position   *string          `json:"position,omitempty"`
	Department *Department      `json:"department,omitempty"`
	Email      *string          `json:"email,omitempty"`
	Phone      *string          `json:"phone,omitempty"`
	StartDate  *date.Date       `json:"startDate,omitempty"`
	Salary     *decimal.Decimal `json:"salary,omitempty"`
	Status     *EmployeeStatus  `json:"status,omitempty"`
}

func (p EmployeePatch) Validate() error {
	if p == (EmployeePatch{}) {
		return emptyPatch()
	}
	if err := requiredPtr("name", p.Name); err != nil {
		return err
	}
	if err := requiredPtr("position", p.Position); err != nil {
		return err
	}
	if p.Department != nil && !p.Department.Valid() {
		return invalid("department", "no es un departamento válido")
	}
	if p.Email != nil {
		if err := validEmail(*p.Email); err != nil {
			return err
		}
	}
	if p.Salary != nil && p.Salary.IsNegative() {
		return invalid("salary", "no puede ser negativo")
	}
	if p.Status != nil && !p.Status.Valid() {
		return invalid("status", "no es un estado de empleado válido")
	}
	return nil
}
