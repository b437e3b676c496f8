package entity

// Kind identifica un tipo de registro y coincide con el nombre de su colección en el almacén.
type Kind string

const (
	KindExpense  Kind = "expenses"
	KindIncome   Kind = "incomes"
	KindProduct  Kind = "products"
	KindCustomer Kind = "customers"
	KindEmployee Kind = "employees"
	KindTask     Kind = "tasks"
)

// UsersCollection guarda las cuentas; no pertenece a ningún Kind sincronizado.
const UsersCollection = "users"

// OwnerField es el campo del documento con el dueño del registro.
const OwnerField = "ownerId"

var allKinds = []Kind{KindExpense, KindIncome, KindProduct, KindCustomer, KindEmployee, KindTask}

// Kinds devuelve los seis tipos sincronizados en orden estable.
func Kinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

// ParseKind acepta el nombre de la colección ("expenses", "tasks", ...).
func ParseKind(s string) (Kind, bool) {
	for _, k := range allKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Collection es el nombre de la colección en el almacén remoto.
func (k Kind) Collection() string { return string(k) }

func (k Kind) String() string { return string(k) }
