package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinter_JSONSuccess(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, true, true)
	assert.True(t, p.IsJSON())

	require.NoError(t, p.Success(map[string]any{"digest": "abc", "placeholders": 2}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "abc", got["digest"])
	assert.InDelta(t, 2, got["placeholders"], 0)
}

func TestPrinter_HumanSuccess(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, false)

	require.NoError(t, p.Success(map[string]any{"message": "deleted 1 template"}))
	assert.Equal(t, "deleted 1 template\n", buf.String())

	buf.Reset()
	require.NoError(t, p.Success(map[string]any{"b": 2, "a": "x"}))
	assert.Equal(t, "a: x\nb: 2\n", buf.String())
}

func TestPrinter_Error(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		NewPrinter(&buf, true, false).Error(NewSystemError("disk full"))

		var got map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "disk full", got["error"])
		assert.InDelta(t, ExitSystemError, got["code"], 0)
	})

	t.Run("human to stderr", func(t *testing.T) {
		var out, errOut bytes.Buffer
		NewPrinter(&out, false, false).WithStderr(&errOut).Error(errors.New("plain failure"))

		assert.Empty(t, out.String())
		assert.Equal(t, "Error: plain failure\n", errOut.String())
	})
}

func TestPrinter_Warn(t *testing.T) {
	var out, errOut bytes.Buffer
	NewPrinter(&out, false, false).WithStderr(&errOut).Warn("store %s unavailable", "x.db")
	assert.Equal(t, "Warning: store x.db unavailable\n", errOut.String())

	out.Reset()
	NewPrinter(&out, true, false).Warn("careful")
	assert.JSONEq(t, `{"warning":"careful"}`, out.String())
}

func TestPrinter_Stderr(t *testing.T) {
	var out, errOut bytes.Buffer
	NewPrinter(&out, false, false).WithStderr(&errOut).Stderr("watching %s\n", "a.tmpl")
	assert.Equal(t, "watching a.tmpl\n", errOut.String())
	assert.Empty(t, out.String())

	errOut.Reset()
	NewPrinter(&out, true, false).WithStderr(&errOut).Stderr("hidden")
	assert.Empty(t, errOut.String())
	assert.Empty(t, out.String())
}

func TestPrinter_Table(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, false)

	p.Table([]string{"DIGEST", "N"}, [][]string{
		{"abc", "1"},
		{"a", "10", "ignored"},
	})
	assert.Equal(t, "DIGEST  N\nabc     1\na       10\n", buf.String())

	buf.Reset()
	p.Table(nil, [][]string{{"x"}})
	assert.Empty(t, buf.String())
}

func TestPrinter_PrintAndKeyValue(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, false)

	p.Print("%s=%d", "n", 1)
	p.Println()
	p.KeyValue("digest", "abc")
	assert.Equal(t, "n=1\ndigest: abc\n", buf.String())
	assert.Equal(t, "muted", p.Dim("muted"))
}

func TestErrorJSON(t *testing.T) {
	assert.JSONEq(t, `{"error":"bad","code":1}`, string(ErrorJSON("bad", 1)))
}

func TestResolveColorMode(t *testing.T) {
	assert.False(t, ResolveColorMode("never", true))
	assert.True(t, ResolveColorMode("always", false))
	assert.True(t, ResolveColorMode("auto", true))
	assert.False(t, ResolveColorMode("", false))
}

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, IsTTY(f))
}
