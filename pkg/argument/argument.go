package argument

// Property names used when an Argument is stored as named string properties.
const (
	Name     = "Argument.name"
	Value    = "Argument.value"
	Metadata = "Argument.metadata"
)

// Argument is a single name/value record with an optional metadata slot.
// It has no identity of its own: inside a collection it is identified by position,
// and two Arguments may share the same name.
type Argument struct {
	name     string
	value    string
	metadata string
}

// New creates an Argument with every slot unset.
func New() *Argument {
	return &Argument{}
}

// NewArgument creates an Argument with a name and value and no metadata.
func NewArgument(name, value string) *Argument {
	return &Argument{name: name, value: value}
}

// NewArgumentWithMetadata creates an Argument with all three slots set.
func NewArgumentWithMetadata(name, value, metadata string) *Argument {
	return &Argument{name: name, value: value, metadata: metadata}
}

// SetName sets the name slot.
func (a *Argument) SetName(name string) {
	a.name = name
}

// Name returns the name, or "" when unset.
func (a *Argument) Name() string {
	return a.name
}

// SetValue sets the value slot.
func (a *Argument) SetValue(value string) {
	a.value = value
}

// Value returns the value, or "" when unset.
func (a *Argument) Value() string {
	return a.value
}

// SetMetadata sets the metadata slot.
func (a *Argument) SetMetadata(metadata string) {
	a.metadata = metadata
}

// Metadata returns the metadata, or "" when unset.
func (a *Argument) Metadata() string {
	return a.metadata
}

// String concatenates name, metadata and value, e.g. "X-Env=qa" for an
// Argument whose metadata is "=".
func (a *Argument) String() string {
	return a.name + a.metadata + a.value
}
