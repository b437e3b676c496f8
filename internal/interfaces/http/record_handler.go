package http

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/datasync"
	"github.com/jhoicas/backoffice-api/internal/application/dto"
	"github.com/jhoicas/backoffice-api/internal/domain/entity"
	"github.com/jhoicas/backoffice-api/pkg/textfold"
)

// RecordHandler CRUD HTTP de un Kind sobre la colección del engine de la sesión.
// Las escrituras responden 202: el cambio aparece en los listados con el próximo snapshot.
type RecordHandler[T entity.Record[T], P entity.Patch] struct {
	kind   entity.Kind
	pick   func(*datasync.Engine) *datasync.Collection[T, P]
	search func(T) []string // textos en los que busca ?q=
	status func(T) string   // valor comparado con ?status=
	less   func(a, b T) bool
}

// List godoc
// @Summary      Listar registros de un tipo
// @Tags         records
// @Security     Bearer
// @Produce      json
// @Param        kind    path   string  true   "expenses, incomes, products, customers, employees o tasks"
// @Param        q       query  string  false  "Búsqueda sin distinguir mayúsculas ni tildes"
// @Param        status  query  string  false  "Filtrar por estado"
// @Success      200     {object}  dto.ListResponse
// @Router       /api/{kind} [get]
func (h *RecordHandler[T, P]) List(c *fiber.Ctx) error {
	col := h.pick(GetEngine(c))
	q := c.Query("q")
	status := strings.TrimSpace(c.Query("status"))

	items := make([]T, 0)
	for _, rec := range col.List() {
		if status != "" && h.status(rec) != status {
			continue
		}
		if !textfold.Contains(q, h.search(rec)...) {
			continue
		}
		items = append(items, rec)
	}
	sort.SliceStable(items, func(i, j int) bool { return h.less(items[i], items[j]) })
	return c.JSON(dto.ListResponse[T]{Items: items, Count: len(items), Synced: col.Synced()})
}

// Get godoc
// @Summary      Obtener un registro por ID
// @Tags         records
// @Security     Bearer
// @Produce      json
// @Param        kind  path  string  true  "Tipo de registro"
// @Param        id    path  string  true  "ID del registro"
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/{kind}/{id} [get]
func (h *RecordHandler[T, P]) Get(c *fiber.Ctx) error {
	rec, ok := h.pick(GetEngine(c)).Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "registro no encontrado"})
	}
	return c.JSON(rec)
}

// Create godoc
// @Summary      Crear un registro
// @Tags         records
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        kind  path  string  true  "Tipo de registro"
// @Success      202   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/{kind} [post]
func (h *RecordHandler[T, P]) Create(c *fiber.Ctx) error {
	var rec T
	if err := c.BodyParser(&rec); err != nil {
		return badBody(c)
	}
	id, err := h.pick(GetEngine(c)).Create(c.UserContext(), rec)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.MutationResponse{ID: id, Pending: true})
}

// Update godoc
// @Summary      Actualizar campos de un registro
// @Tags         records
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        kind  path  string  true  "Tipo de registro"
// @Param        id    path  string  true  "ID del registro"
// @Success      202   {object}  dto.MutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/{kind}/{id} [patch]
func (h *RecordHandler[T, P]) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	var patch P
	if err := c.BodyParser(&patch); err != nil {
		return badBody(c)
	}
	if err := h.pick(GetEngine(c)).Update(c.UserContext(), id, patch); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.MutationResponse{ID: id, Pending: true})
}

// Delete godoc
// @Summary      Eliminar un registro
// @Tags         records
// @Security     Bearer
// @Produce      json
// @Param        kind  path  string  true  "Tipo de registro"
// @Param        id    path  string  true  "ID del registro"
// @Success      202   {object}  dto.MutationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/{kind}/{id} [delete]
func (h *RecordHandler[T, P]) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.pick(GetEngine(c)).Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.MutationResponse{ID: id, Pending: true})
}

// Fields godoc
// @Summary      Campos de formulario de un tipo
// @Tags         records
// @Security     Bearer
// @Produce      json
// @Param        kind  path  string  true  "Tipo de registro"
// @Success      200   {object}  dto.FieldsResponse
// @Router       /api/{kind}/fields [get]
func (h *RecordHandler[T, P]) Fields(c *fiber.Ctx) error {
	return c.JSON(dto.FieldsResponse{Kind: h.kind, Fields: entity.Fields(h.kind)})
}

func (h *RecordHandler[T, P]) register(r fiber.Router) {
	g := r.Group("/" + string(h.kind))
	g.Get("/", h.List)
	g.Get("/fields", h.Fields)
	g.Post("/", h.Create)
	g.Get("/:id", h.Get)
	g.Patch("/:id", h.Update)
	g.Put("/:id", h.Update)
	g.Delete("/:id", h.Delete)
}

// ── definiciones por Kind ────────────────────────────────────────────────────

// byDateDesc movimientos más recientes primero; a igual fecha, el último creado primero.
func byDateDesc[T interface{ Identity() entity.Meta }](date func(T) string) func(a, b T) bool {
	return func(a, b T) bool {
		da, db := date(a), date(b)
		if da != db {
			return da > db
		}
		return a.Identity().CreatedAt.After(b.Identity().CreatedAt)
	}
}

func byName[T any](name func(T) string) func(a, b T) bool {
	return func(a, b T) bool {
		return textfold.Fold(name(a)) < textfold.Fold(name(b))
	}
}

func registerRecordHandlers(r fiber.Router) {
	(&RecordHandler[entity.Expense, entity.ExpensePatch]{
		kind:   entity.KindExpense,
		pick:   (*datasync.Engine).Expenses,
		search: func(e entity.Expense) []string { return []string{e.Description, e.Category} },
		status: func(e entity.Expense) string { return string(e.Status) },
		less:   byDateDesc(func(e entity.Expense) string { return e.Date.String() }),
	}).register(r)

	(&RecordHandler[entity.Income, entity.IncomePatch]{
		kind:   entity.KindIncome,
		pick:   (*datasync.Engine).Incomes,
		search: func(i entity.Income) []string { return []string{i.Description, i.Category} },
		status: func(i entity.Income) string { return string(i.Status) },
		less:   byDateDesc(func(i entity.Income) string { return i.Date.String() }),
	}).register(r)

	(&RecordHandler[entity.Product, entity.ProductPatch]{
		kind:   entity.KindProduct,
		pick:   (*datasync.Engine).Products,
		search: func(p entity.Product) []string { return []string{p.Name, p.Category} },
		status: func(p entity.Product) string { return string(p.Status) },
		less:   byName(func(p entity.Product) string { return p.Name }),
	}).register(r)

	(&RecordHandler[entity.Customer, entity.CustomerPatch]{
		kind:   entity.KindCustomer,
		pick:   (*datasync.Engine).Customers,
		search: func(c entity.Customer) []string { return []string{c.Name, c.Email, c.Document, c.Phone} },
		status: func(c entity.Customer) string { return string(c.Status) },
		less:   byName(func(c entity.Customer) string { return c.Name }),
	}).register(r)

	(&RecordHandler[entity.Employee, entity.EmployeePatch]{
		kind:   entity.KindEmployee,
		pick:   (*datasync.Engine).Employees,
		search: func(e entity.Employee) []string { return []string{e.Name, e.Position, e.Email} },
		status: func(e entity.Employee) string { return string(e.Status) },
		less:   byName(func(e entity.Employee) string { return e.Name }),
	}).register(r)

	(&RecordHandler[entity.Task, entity.TaskPatch]{
		kind:   entity.KindTask,
		pick:   (*datasync.Engine).Tasks,
		search: func(t entity.Task) []string { return []string{t.Title, t.Description} },
		status: func(t entity.Task) string { return string(t.Status) },
		less: func(a, b entity.Task) bool {
			return a.CreatedAt.After(b.CreatedAt)
		},
	}).register(r)
}
