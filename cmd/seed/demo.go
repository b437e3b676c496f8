package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/backoffice-api/internal/application/datasync"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/pkg/date"
)

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// demoData registros de ejemplo con fechas relativas a today para que el tablero tenga movimiento.
type demoData struct {
	expenses  []entity.Expense
	incomes   []entity.Income
	products  []entity.Product
	customers []entity.Customer
	employees []entity.Employee
	tasks     []entity.Task
}

func buildDemo(today date.Date) demoData {
	lastWeek := today.AddDays(-7)
	nextWeek := today.AddDays(7)
	return demoData{
		expenses: []entity.Expense{
			{Description: "Arriendo local", Amount: amount("2500000"), Date: today.FirstOfMonth(), Category: "Instalaciones", Status: entity.ExpensePaid},
			{Description: "Energía eléctrica", Amount: amount("380000"), Date: today.AddDays(-10), Category: "Servicios públicos", Status: entity.ExpensePaid},
			{Description: "Nómina quincena", Amount: amount("4200000"), Date: today.AddDays(-3), Category: "Salarios", Status: entity.ExpensePending},
			{Description: "Pauta redes sociales", Amount: amount("600000"), Date: today.AddMonths(-1), Category: "Marketing", Status: entity.ExpenseOverdue},
		},
		incomes: []entity.Income{
			{Description: "Ventas mostrador", Amount: amount("5400000"), Date: today.AddDays(-2), Category: "Ventas", Status: entity.IncomeReceived},
			{Description: "Mantenimiento equipos", Amount: amount("1200000"), Date: today.AddDays(-12), Category: "Servicios", Status: entity.IncomeReceived},
			{Description: "Pedido mayorista", Amount: amount("3100000"), Date: today.AddDays(-20), Category: "Ventas", Status: entity.IncomePending},
			{Description: "Rendimientos CDT", Amount: amount("150000"), Date: today.AddMonths(-2), Category: "Inversiones", Status: entity.IncomeReceived},
		},
		products: []entity.Product{
			{Name: "Tornillo drywall 6x1", Quantity: 40, MinStock: 100, Price: amount("80"), Category: "Ferretería"},
			{Name: "Pintura vinilo blanco galón", Quantity: 25, MinStock: 10, Price: amount("68000"), Category: "Pinturas"},
			{Name: "Brocha 3 pulgadas", Quantity: 8, MinStock: 8, Price: amount("9500"), Category: "Pinturas"},
		},
		customers: []entity.Customer{
			{Name: "Constructora Andina S.A.S.", Type: entity.CustomerOrganization, Document: "901234567", Email: "compras@andina.example.com", Phone: "6017654321", LastPurchase: &lastWeek},
			{Name: "María Fernanda Ríos", Type: entity.CustomerIndividual, Document: "1020304050", Email: "mafe.rios@example.com", Phone: "3105551234"},
		},
		employees: []entity.Employee{
			{Name: "Carlos Pérez", Position: "Vendedor", Department: entity.DepartmentCommercial, Email: "carlos@example.com", StartDate: today.AddYears(-2), Salary: amount("1800000"), Status: entity.EmployeeActive},
			{Name: "Luisa Gómez", Position: "Contadora", Department: entity.DepartmentFinancial, Email: "luisa@example.com", StartDate: today.AddYears(-1), Salary: amount("3200000"), Status: entity.EmployeeVacation},
		},
		tasks: []entity.Task{
			{Title: "Declaración de IVA bimestral", DueDate: &nextWeek, Priority: entity.PriorityCritical, Status: entity.TaskPending},
			{Title: "Inventario físico de pinturas", DueDate: &lastWeek, Priority: entity.PriorityMedium, Status: entity.TaskInProgress},
			{Title: "Renovar póliza del local", Priority: entity.PriorityLow, Status: entity.TaskCompleted},
		},
	}
}

// seedDemo crea los registros de ejemplo y devuelve cuántos se escribieron.
func seedDemo(ctx context.Context, e *datasync.Engine, today date.Date) (int, error) {
	d := buildDemo(today)
	n := 0
	if err := createAll(ctx, e.Expenses(), d.expenses, &n); err != nil {
		return n, err
	}
	if err := createAll(ctx, e.Incomes(), d.incomes, &n); err != nil {
		return n, err
	}
	if err := createAll(ctx, e.Products(), d.products, &n); err != nil {
		return n, err
	}
	if err := createAll(ctx, e.Customers(), d.customers, &n); err != nil {
		return n, err
	}
	if err := createAll(ctx, e.Employees(), d.employees, &n); err != nil {
		return n, err
	}
	if err := createAll(ctx, e.Tasks(), d.tasks, &n); err != nil {
		return n, err
	}
	return n, nil
}

func createAll[T entity.Record[T], P entity.Patch](ctx context.Context, c *datasync.Collection[T, P], recs []T, n *int) error {
	for _, rec := range recs {
		if _, err := c.Create(ctx, rec); err != nil {
			return fmt.Errorf("crear %s: %w", c.Kind(), err)
		}
		*n++
	}
	return nil
}
