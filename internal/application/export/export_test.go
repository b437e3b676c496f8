package export

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/backoffice-api/internal/application/datasync"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/internal/infrastructure/memstore"
	"github.com/jhoicas/backoffice-api/pkg/date"
	"github.com/jhoicas/backoffice-api/pkg/logger"
)

func latin1(t *testing.T, s string) *bytes.Reader {
	t.Helper()
	out, err := charmap.ISO8859_1.NewEncoder().String(s)
	require.NoError(t, err)
	return bytes.NewReader([]byte(out))
}

// ── clientes ─────────────────────────────────────────────────────────────────

func TestWriteCustomersCSV(t *testing.T) {
	last := date.MustParse("2026-02-07")
	customers := []entity.Customer{
		{Name: "Zapatería Ruiz", Type: entity.CustomerOrganization, Document: "900123", Status: entity.CustomerInactive, LastPurchase: &last},
		{Name: "ana Gómez", Type: entity.CustomerIndividual, Document: "1020", Email: "ana@example.com", Phone: "3001234567", Status: entity.CustomerActive},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCustomersCSV(&buf, customers))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Nombre;Tipo;Documento;Email;Teléfono;Estado;Última compra", lines[0])
	assert.Equal(t, "ana Gómez;Persona natural;1020;ana@example.com;3001234567;Activo;N/A", lines[1])
	assert.Equal(t, "Zapatería Ruiz;Persona jurídica;900123;;;Inactivo;07/02/2026", lines[2])
}

func TestWriteCustomersCSV_Vacio(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCustomersCSV(&buf, nil))
	assert.Equal(t, "Nombre;Tipo;Documento;Email;Teléfono;Estado;Última compra\n", buf.String())
}

// ── movimientos heredados ────────────────────────────────────────────────────

const legacy = "tipo;descripcion;valor;fecha;categoria;estado\n" +
	"ingreso;Venta mostrador;1.234,56;05/03/2026;Ventas;recibido\n" +
	"gasto;Energía eléctrica;180.000,00;2026-03-01;Servicios públicos;pagado\n" +
	"gasto;Publicidad;250;10/03/2026;Marketing;\n" +
	"traslado;Caja menor;10;10/03/2026;Otros;\n" +
	"ingreso;Sin fecha;10;;Ventas;recibido\n"

func TestParseMovements(t *testing.T) {
	movements, rejected, err := ParseMovements(latin1(t, legacy))
	require.NoError(t, err)
	require.Len(t, movements, 3)
	require.Len(t, rejected, 2)

	in := movements[0].Income
	require.NotNil(t, in)
	assert.Equal(t, "Venta mostrador", in.Description)
	assert.Equal(t, "1234.56", in.Amount.String())
	assert.Equal(t, "2026-03-05", in.Date.String())
	assert.Equal(t, entity.IncomeReceived, in.Status)

	ex := movements[1].Expense
	require.NotNil(t, ex)
	assert.Equal(t, "Energía eléctrica", ex.Description)
	assert.Equal(t, "Servicios públicos", ex.Category)
	assert.Equal(t, "180000", ex.Amount.String())
	assert.Equal(t, entity.ExpensePaid, ex.Status)

	assert.Equal(t, entity.ExpensePending, movements[2].Expense.Status)

	assert.Equal(t, 5, rejected[0].Line)
	assert.Contains(t, rejected[0].Err, "traslado")
	assert.Equal(t, 6, rejected[1].Line)
}

func TestParseMovements_SinEncabezado(t *testing.T) {
	movements, rejected, err := ParseMovements(latin1(t, "gasto;Papelería;12.5;2026-03-02;Otros;vencido\n"))
	require.NoError(t, err)
	assert.Empty(t, rejected)
	require.Len(t, movements, 1)
	assert.Equal(t, entity.ExpenseOverdue, movements[0].Expense.Status)
	assert.Equal(t, 1, movements[0].Line)
}

func TestImportMovements(t *testing.T) {
	e := datasync.NewEngine(memstore.New(logger.Nop()), logger.Nop())
	t.Cleanup(e.CloseSession)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, e.OpenSession(ctx, "u1"))
	require.NoError(t, e.Ready(ctx))

	res, err := ImportMovements(ctx, e, latin1(t, legacy))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Incomes)
	assert.Equal(t, 2, res.Expenses)
	assert.Len(t, res.Rejected, 2)

	assert.Eventually(t, func() bool {
		return len(e.Incomes().List()) == 1 && len(e.Expenses().List()) == 2
	}, 2*time.Second, 5*time.Millisecond)
}

func TestImportMovements_SinSesion(t *testing.T) {
	e := datasync.NewEngine(memstore.New(logger.Nop()), logger.Nop())
	_, err := ImportMovements(context.Background(), e, latin1(t, legacy))
	assert.Error(t, err)
}
