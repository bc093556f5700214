package argument

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgumentConstructors(t *testing.T) {
	tests := map[string]struct {
		arg      *Argument
		name     string
		value    string
		metadata string
	}{
		"empty": {
			arg: New(),
		},
		"name and value": {
			arg:   NewArgument("X-Test", "1"),
			name:  "X-Test",
			value: "1",
		},
		"all slots": {
			arg:      NewArgumentWithMetadata("X-Env", "qa", "="),
			name:     "X-Env",
			value:    "qa",
			metadata: "=",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.name, tc.arg.Name())
			assert.Equal(t, tc.value, tc.arg.Value())
			assert.Equal(t, tc.metadata, tc.arg.Metadata())
		})
	}
}

func TestArgumentSetters(t *testing.T) {
	a := New()
	a.SetName("X-Trace")
	assert.Equal(t, "X-Trace", a.Name())
	assert.Equal(t, "", a.Value(), "setting the name leaves the value unset")

	a.SetValue("abc")
	a.SetMetadata(":")
	assert.Equal(t, "abc", a.Value())
	assert.Equal(t, ":", a.Metadata())
	assert.Equal(t, "X-Trace:abc", a.String())
}

func TestArgumentsOrderAndDuplicates(t *testing.T) {
	var as Arguments
	as.Add(NewArgument("X-Dup", "1"))
	as.Add(NewArgument("X-Other", "2"))
	as.Add(NewArgument("X-Dup", "3"))

	assert.Equal(t, 3, as.Len())
	assert.Equal(t, []string{"X-Dup", "X-Other", "X-Dup"}, as.Names())
	assert.Equal(t, "3", as.Get(2).Value())
	assert.Nil(t, as.Get(3))
	assert.Nil(t, as.Get(-1))
}

func TestArgumentsJSON(t *testing.T) {
	as := Arguments{
		NewArgument("X-Test", "1"),
		NewArgument("", ""),
		NewArgumentWithMetadata("X-Env", "qa", "="),
	}

	data, err := json.Marshal(as)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"X-Test","value":"1"},{"name":"","value":""},{"name":"X-Env","value":"qa","metadata":"="}]`, string(data))

	var decoded Arguments
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, 3, decoded.Len())
	assert.Equal(t, "X-Test", decoded.Get(0).Name())
	assert.Equal(t, "", decoded.Get(1).Name())
	assert.Equal(t, "=", decoded.Get(2).Metadata())
}

func TestArgumentsJSONInvalid(t *testing.T) {
	var decoded Arguments
	err := json.Unmarshal([]byte(`{"name":"not-an-array"}`), &decoded)
	assert.Error(t, err)
}

func TestArgumentsSkipNil(t *testing.T) {
	var as Arguments
	as.Add(NewArgument("X-A", "1"))
	as.Add(nil)
	require.Equal(t, 1, as.Len())

	literal := Arguments{nil, NewArgument("X-B", "2")}
	assert.Equal(t, []string{"X-B"}, literal.Names())

	data, err := json.Marshal(literal)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"X-B","value":"2"}]`, string(data))
}
