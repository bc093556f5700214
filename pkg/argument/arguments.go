package argument

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Arguments is an ordered collection of Argument records. Order is insertion order
// and is preserved through JSON encoding. Add never stores nil, and nil entries in
// a literal are skipped by Names, MarshalJSON and the header editor's Import.
type Arguments []*Argument

// Add appends an Argument to the end of the collection. A nil Argument is ignored.
func (as *Arguments) Add(a *Argument) {
	if a == nil {
		return
	}
	*as = append(*as, a)
}

// Len returns the number of Arguments.
func (as Arguments) Len() int {
	return len(as)
}

// Get returns the Argument at index i, or nil when i is out of range.
func (as Arguments) Get(i int) *Argument {
	if i < 0 || i >= len(as) {
		return nil
	}
	return as[i]
}

// Names returns the names in collection order, duplicates included.
func (as Arguments) Names() []string {
	names := make([]string, 0, len(as))
	for _, a := range as {
		if a == nil {
			continue
		}
		names = append(names, a.Name())
	}
	return names
}

type argumentJSON struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Metadata string `json:"metadata,omitempty"`
}

// MarshalJSON encodes the collection as an ordered array of objects.
func (as Arguments) MarshalJSON() ([]byte, error) {
	out := make([]argumentJSON, 0, len(as))
	for _, a := range as {
		if a == nil {
			continue
		}
		out = append(out, argumentJSON{Name: a.name, Value: a.value, Metadata: a.metadata})
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes an array produced by MarshalJSON.
func (as *Arguments) UnmarshalJSON(data []byte) error {
	var in []argumentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return errors.Wrap(err, "decoding arguments")
	}
	result := make(Arguments, 0, len(in))
	for _, a := range in {
		result = append(result, NewArgumentWithMetadata(a.Name, a.Value, a.Metadata))
	}
	*as = result
	return nil
}
