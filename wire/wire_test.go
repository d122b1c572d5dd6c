package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_Has(t *testing.T) {
	m := Message{"RequestId": float64(42), "Error": nil}

	assert.True(t, m.Has("RequestId"))
	assert.True(t, m.Has("Error")) // present even though nil
	assert.False(t, m.Has("Response"))
}

func TestMessage_String(t *testing.T) {
	m := Message{"Type": "Admin", "RequestId": float64(42)}

	v, ok := m.String("Type")
	assert.True(t, ok)
	assert.Equal(t, "Admin", v)

	_, ok = m.String("RequestId") // present but not a string
	assert.False(t, ok)

	_, ok = m.String("missing")
	assert.False(t, ok)
}

func TestSameID(t *testing.T) {
	assert.True(t, SameID(float64(42), float64(42)))
	assert.True(t, SameID("req-1", "req-1"))
	assert.False(t, SameID(float64(42), float64(43)))
	assert.False(t, SameID(float64(42), "42"))
	assert.False(t, SameID(float64(42), nil))

	// Non-comparable ids must not panic.
	assert.True(t, SameID([]any{1.0}, []any{1.0}))
	assert.False(t, SameID([]any{1.0}, float64(1)))
}

func TestMessage_Map(t *testing.T) {
	t.Run("decoded JSON object", func(t *testing.T) {
		var m Message
		err := json.Unmarshal([]byte(`{"Params":{"Token":"abc"}}`), &m)
		require.NoError(t, err)

		token, ok := m.Map("Params").String("Token")
		assert.True(t, ok)
		assert.Equal(t, "abc", token)
	})

	t.Run("missing key chains safely", func(t *testing.T) {
		m := Message{}
		_, ok := m.Map("Params").String("Token")
		assert.False(t, ok)
	})

	t.Run("non-object value chains safely", func(t *testing.T) {
		m := Message{"Params": "not-an-object"}
		_, ok := m.Map("Params").String("Token")
		assert.False(t, ok)
	})

	t.Run("nested Message value", func(t *testing.T) {
		m := Message{"Params": Message{"Token": "abc"}}
		token, ok := m.Map("Params").String("Token")
		assert.True(t, ok)
		assert.Equal(t, "abc", token)
	})
}
