package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/backoffice-api/internal/application/datasync"
	"github.com/jhoicas/backoffice-api/internal/domain"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/pkg/date"
	"github.com/jhoicas/backoffice-api/pkg/textfold"
)

// Movement fila válida del archivo heredado: exactamente uno de Income o Expense.
type Movement struct {
	Line    int
	Income  *entity.Income
	Expense *entity.Expense
}

// RowError fila descartada con su motivo.
type RowError struct {
	Line int    `json:"line"`
	Err  string `json:"error"`
}

// ImportResult resumen de una importación.
type ImportResult struct {
	Incomes  int        `json:"incomes"`
	Expenses int        `json:"expenses"`
	Rejected []RowError `json:"rejected"`
}

// Columnas del archivo heredado (Latin-1, separado por ";"):
//
//	tipo;descripcion;valor;fecha;categoria;estado
//
// tipo es "ingreso" o "gasto"; valor admite "1.234,56" o "1234.56"; fecha "dd/mm/aaaa" o "aaaa-mm-dd".
// estado es opcional.
const movementColumns = 6

// ParseMovements lee el CSV heredado. Las filas inválidas se devuelven aparte y no detienen la lectura.
// La primera fila se toma como encabezado si su primera columna es "tipo".
func ParseMovements(r io.Reader) ([]Movement, []RowError, error) {
	cr := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		out      []Movement
		rejected []RowError
		line     int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				rejected = append(rejected, RowError{Line: perr.Line, Err: perr.Err.Error()})
				continue
			}
			return nil, nil, fmt.Errorf("import movimientos: %w", err)
		}
		if line == 1 && textfold.Fold(strings.TrimSpace(rec[0])) == "tipo" {
			continue
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		m, err := parseMovement(rec)
		if err != nil {
			rejected = append(rejected, RowError{Line: line, Err: err.Error()})
			continue
		}
		m.Line = line
		out = append(out, m)
	}
	return out, rejected, nil
}

func parseMovement(rec []string) (Movement, error) {
	if len(rec) < movementColumns-1 {
		return Movement{}, fmt.Errorf("%w: se esperaban %d columnas, hay %d", domain.ErrInvalidInput, movementColumns, len(rec))
	}
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	amount, err := parseAmount(rec[2])
	if err != nil {
		return Movement{}, err
	}
	d, err := parseDate(rec[3])
	if err != nil {
		return Movement{}, err
	}
	var status string
	if len(rec) >= movementColumns {
		status = textfold.Fold(rec[5])
	}

	switch textfold.Fold(rec[0]) {
	case "ingreso", "income", "receita":
		in := entity.Income{Description: rec[1], Amount: amount, Date: d, Category: rec[4]}
		switch status {
		case "recibido", "received", "recebido":
			in.Status = entity.IncomeReceived
		case "vencido", "overdue", "atrasado":
			in.Status = entity.IncomeOverdue
		case "pendiente", "pending", "pendente", "":
			in.Status = entity.IncomePending
		default:
			return Movement{}, fmt.Errorf("%w: estado de ingreso %q", domain.ErrInvalidInput, rec[5])
		}
		in = in.Normalize()
		if err := in.Validate(); err != nil {
			return Movement{}, err
		}
		return Movement{Income: &in}, nil
	case "gasto", "expense", "despesa":
		ex := entity.Expense{Description: rec[1], Amount: amount, Date: d, Category: rec[4]}
		switch status {
		case "pagado", "paid", "pago":
			ex.Status = entity.ExpensePaid
		case "vencido", "overdue", "atrasado":
			ex.Status = entity.ExpenseOverdue
		case "pendiente", "pending", "pendente", "":
			ex.Status = entity.ExpensePending
		default:
			return Movement{}, fmt.Errorf("%w: estado de gasto %q", domain.ErrInvalidInput, rec[5])
		}
		ex = ex.Normalize()
		if err := ex.Validate(); err != nil {
			return Movement{}, err
		}
		return Movement{Expense: &ex}, nil
	}
	return Movement{}, fmt.Errorf("%w: tipo %q (use ingreso o gasto)", domain.ErrInvalidInput, rec[0])
}

// parseAmount con coma decimal si la hay ("1.234,56"); si no, punto decimal.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimLeft(s, "$R "))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: valor %q", domain.ErrInvalidInput, s)
	}
	return d, nil
}

func parseDate(s string) (date.Date, error) {
	if parts := strings.Split(s, "/"); len(parts) == 3 {
		s = parts[2] + "-" + parts[1] + "-" + parts[0]
	}
	d, err := date.Parse(s)
	if err != nil {
		return date.Date{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return d, nil
}

// ImportMovements crea en la sesión de e cada movimiento válido de r.
// Se detiene en el primer error de escritura; lo ya creado queda pendiente de sincronizar.
func ImportMovements(ctx context.Context, e *datasync.Engine, r io.Reader) (*ImportResult, error) {
	movements, rejected, err := ParseMovements(r)
	if err != nil {
		return nil, err
	}
	res := &ImportResult{Rejected: rejected}
	for _, m := range movements {
		switch {
		case m.Income != nil:
			if _, err := e.Incomes().Create(ctx, *m.Income); err != nil {
				return res, fmt.Errorf("import línea %d: %w", m.Line, err)
			}
			res.Incomes++
		case m.Expense != nil:
			if _, err := e.Expenses().Create(ctx, *m.Expense); err != nil {
				return res, fmt.Errorf("import línea %d: %w", m.Line, err)
			}
			res.Expenses++
		}
	}
	return res, nil
}
