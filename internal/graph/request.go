package graph

// Operation names one of the fixed resolver entry points.
type Operation string

const (
	OpFetchAll  Operation = "fetch-all"
	OpFetchByID Operation = "fetch-by-id"
	OpCreate    Operation = "create"
	OpUpdate    Operation = "update"
	OpDelete    Operation = "delete"
)

// rootFields maps GraphQL root fields to operations.
var rootFields = map[string]Operation{
	"products":      OpFetchAll,
	"product":       OpFetchByID,
	"createProduct": OpCreate,
	"updateProduct": OpUpdate,
	"deleteProduct": OpDelete,
}

// RootField returns the GraphQL root field serving op.
func (o Operation) RootField() string {
	for name, op := range rootFields {
		if op == o {
			return name
		}
	}
	return string(o)
}

// NonNull reports whether the root field serving o is declared non-null in the schema. A failure
// of such a field nulls the whole data object.
func (o Operation) NonNull() bool {
	return o == OpFetchAll || o == OpCreate || o == OpDelete
}

// Field is one entry of an output selection.
type Field struct {
	Alias string
	Name  string
}

// Key is the name the field is rendered under.
func (f Field) Key() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// Request is a resolved query-graph request: an operation, its arguments, and the ordered output selection.
type Request struct {
	Operation Operation
	// ResponseKey is where the result lands in the response; defaults to the operation's root field.
	ResponseKey string
	Args        map[string]Value
	Selection   []Field
}

// Key is the response key for the request.
func (r Request) Key() string {
	if r.ResponseKey != "" {
		return r.ResponseKey
	}
	return r.Operation.RootField()
}

// Arg returns a non-null argument.
func (r Request) Arg(name string) (Value, bool) {
	v, ok := r.Args[name]
	if !ok || v.IsNull() {
		return Value{}, false
	}
	return v, true
}

// Selects reports whether any selected field has the given name.
func (r Request) Selects(name string) bool {
	for _, f := range r.Selection {
		if f.Name == name {
			return true
		}
	}
	return false
}
