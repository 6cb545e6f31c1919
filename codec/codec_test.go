package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	C1 int32     `json:"c1"`
	C2 *string   `json:"c2"`
	V  []float32 `json:"v"`
}

func TestCodecs_Agree(t *testing.T) {
	name := "a<b"
	in := row{C1: 7, C2: &name, V: []float32{1, 2.5}}

	for _, c := range []Codec{JSON{}, GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			data, err := c.Marshal(in)
			require.NoError(t, err)

			var out row
			require.NoError(t, c.Unmarshal(data, &out))
			assert.Equal(t, in, out)

			buf, err := Append(c, []byte("x"), map[string]any{"c1": 1})
			require.NoError(t, err)
			assert.Equal(t, `x{"c1":1}`, string(buf))
		})
	}
}

func TestGoJSON_AppendNoEscape(t *testing.T) {
	buf, err := GoJSON{}.Append(nil, "a<b")
	require.NoError(t, err)
	assert.Equal(t, `"a<b"`, string(buf))

	b, err := GoJSON{}.Marshal("a<b")
	require.NoError(t, err)
	assert.Equal(t, `"a\u003cb"`, string(b))

	buf, err = GoJSON{}.Append([]byte("x"), func() {})
	require.Error(t, err)
	assert.Equal(t, "x", string(buf))
}

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	c, ok = ByName("")
	require.True(t, ok)
	assert.Equal(t, "go-json", c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

func TestMustMarshal(t *testing.T) {
	assert.Equal(t, `[1,2]`, string(MustMarshal(nil, []int{1, 2})))
	assert.Panics(t, func() { MustMarshal(JSON{}, func() {}) })
}
