package entity

// FieldType tipo de control de formulario para un campo.
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldNumber FieldType = "number"
	FieldDate   FieldType = "date"
	FieldEmail  FieldType = "email"
	FieldPhone  FieldType = "tel"
	FieldSelect FieldType = "select"
)

// Option valor permitido de un campo select.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// FieldDescriptor describe un campo editable de un Kind para que la presentación arme su formulario.
type FieldDescriptor struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required,omitempty"`
	Options  []Option  `json:"options,omitempty"`
}

var (
	ExpenseCategories = []string{"Instalaciones", "Servicios públicos", "Salarios", "Marketing", "Otros"}
	IncomeCategories  = []string{"Ventas", "Servicios", "Inversiones", "Otros"}
)

func labels(values ...string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{ID: v, Label: v}
	}
	return out
}

var fieldsByKind = map[Kind][]FieldDescriptor{
	KindExpense: {
		{Name: "description", Label: "Descripción", Type: FieldText, Required: true},
		{Name: "amount", Label: "Valor", Type: FieldNumber, Required: true},
		{Name: "date", Label: "Fecha", Type: FieldDate, Required: true},
		{Name: "category", Label: "Categoría", Type: FieldSelect, Required: true, Options: labels(ExpenseCategories...)},
		{Name: "status", Label: "Estado", Type: FieldSelect, Options: []Option{
			{ID: string(ExpensePaid), Label: "Pagado"},
			{ID: string(ExpensePending), Label: "Pendiente"},
			{ID: string(ExpenseOverdue), Label: "Vencido"},
		}},
	},
	KindIncome: {
		{Name: "description", Label: "Descripción", Type: FieldText, Required: true},
		{Name: "amount", Label: "Valor", Type: FieldNumber, Required: true},
		{Name: "date", Label: "Fecha", Type: FieldDate, Required: true},
		{Name: "category", Label: "Categoría", Type: FieldSelect, Required: true, Options: labels(IncomeCategories...)},
		{Name: "status", Label: "Estado", Type: FieldSelect, Options: []Option{
			{ID: string(IncomeReceived), Label: "Recibido"},
			{ID: string(IncomePending), Label: "Pendiente"},
			{ID: string(IncomeOverdue), Label: "Vencido"},
		}},
	},
	KindProduct: {
		{Name: "name", Label: "Nombre", Type: FieldText, Required: true},
		{Name: "category", Label: "Categoría", Type: FieldText},
		{Name: "quantity", Label: "Cantidad", Type: FieldNumber, Required: true},
		{Name: "minStock", Label: "Stock mínimo", Type: FieldNumber, Required: true},
		{Name: "price", Label: "Precio", Type: FieldNumber, Required: true},
	},
	KindCustomer: {
		{Name: "name", Label: "Nombre", Type: FieldText, Required: true},
		{Name: "type", Label: "Tipo", Type: FieldSelect, Options: []Option{
			{ID: string(CustomerIndividual), Label: "Persona natural"},
			{ID: string(CustomerOrganization), Label: "Persona jurídica"},
		}},
		{Name: "document", Label: "Documento", Type: FieldText},
		{Name: "email", Label: "Email", Type: FieldEmail},
		{Name: "phone", Label: "Teléfono", Type: FieldPhone},
		{Name: "status", Label: "Estado", Type: FieldSelect, Options: []Option{
			{ID: string(CustomerActive), Label: "Activo"},
			{ID: string(CustomerInactive), Label: "Inactivo"},
		}},
	},
	KindEmployee: {
		{Name: "name", Label: "Nombre completo", Type: FieldText, Required: true},
		{Name: "position", Label: "Cargo", Type: FieldText, Required: true},
		{Name: "department", Label: "Departamento", Type: FieldSelect, Required: true, Options: []Option{
			{ID: string(DepartmentAdministrative), Label: "Administrativo"},
			{ID: string(DepartmentFinancial), Label: "Financiero"},
			{ID: string(DepartmentCommercial), Label: "Comercial"},
			{ID: string(DepartmentOperations), Label: "Operaciones"},
			{ID: string(DepartmentHR), Label: "Recursos humanos"},
		}},
		{Name: "email", Label: "Email", Type: FieldEmail},
		{Name: "phone", Label: "Teléfono", Type: FieldPhone},
		{Name: "startDate", Label: "Fecha de ingreso", Type: FieldDate},
		{Name: "salary", Label: "Salario", Type: FieldNumber},
		{Name: "status", Label: "Estado", Type: FieldSelect, Options: []Option{
			{ID: string(EmployeeActive), Label: "Activo"},
			{ID: string(EmployeeVacation), Label: "En vacaciones"},
			{ID: string(EmployeeLeave), Label: "Licencia"},
			{ID: string(EmployeeInactive), Label: "Inactivo"},
		}},
	},
	KindTask: {
		{Name: "title", Label: "Título", Type: FieldText, Required: true},
		{Name: "description", Label: "Descripción", Type: FieldText},
		{Name: "dueDate", Label: "Fecha de vencimiento", Type: FieldDate},
		{Name: "status", Label: "Estado", Type: FieldSelect, Options: []Option{
			{ID: string(TaskPending), Label: "Pendiente"},
			{ID: string(TaskInProgress), Label: "En curso"},
			{ID: string(TaskCompleted), Label: "Completada"},
			{ID: string(TaskCancelled), Label: "Cancelada"},
			{ID: string(TaskOnHold), Label: "En espera"},
		}},
		{Name: "priority", Label: "Prioridad", Type: FieldSelect, Options: []Option{
			{ID: string(PriorityCritical), Label: "Crítica"},
			{ID: string(PriorityHigh), Label: "Alta"},
			{ID: string(PriorityMedium), Label: "Media"},
			{ID: string(PriorityLow), Label: "Baja"},
		}},
	},
}

// Fields devuelve los descriptores de formulario de k (nil si k no existe).
func Fields(k Kind) []FieldDescriptor {
	return fieldsByKind[k]
}

// OptionLabel devuelve la etiqueta visible de value en el campo field de k, o value si no hay opción.
func OptionLabel(k Kind, field, value string) string {
	for _, f := range fieldsByKind[k] {
		if f.Name != field {
			continue
		}
		for _, o := range f.Options {
			if o.ID == value {
				return o.Label
			}
		}
	}
	return value
}
