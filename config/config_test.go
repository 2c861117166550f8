package config

import (
	"path/filepath"
	"testing"

	"github.com/BarrensZeppelin/pta/cs"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	opts, err := Load(filepath.Join("testdata", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "2-obj", opts.Sensitivity)
	assert.Equal(t, "Main.main()", opts.Entry)
	assert.Equal(t, []string{"Handler.run(Request)"}, opts.Entries)
	require.NotNil(t, opts.HeapDepth)
	assert.Equal(t, 1, *opts.HeapDepth)

	lvl, err := opts.Level()
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, lvl)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}

func TestParseDefaults(t *testing.T) {
	opts, err := Parse([]byte("entry: A.main()\n"))
	require.NoError(t, err)
	assert.Equal(t, "ci", opts.Sensitivity)
	assert.Equal(t, "site", opts.HeapModel)
	assert.Nil(t, opts.HeapDepth)
}

func TestSelector(t *testing.T) {
	one := 1
	for _, tc := range []struct {
		opts Options
		want string
	}{
		{Options{}, "ci"},
		{Options{Sensitivity: "CI"}, "ci"},
		{Options{Sensitivity: "1-call"}, "1-call"},
		{Options{Sensitivity: "2-cfa"}, "2-call"},
		{Options{Sensitivity: "2-obj", HeapDepth: &one}, "2-obj"},
		{Options{Sensitivity: "3-type"}, "3-type"},
	} {
		t.Run(tc.want, func(t *testing.T) {
			sel, err := tc.opts.Selector()
			require.NoError(t, err)
			assert.Equal(t, tc.want, sel.String())
		})
	}
}

func TestSelectorErrors(t *testing.T) {
	neg := -1
	for _, opts := range []Options{
		{Sensitivity: "obj"},
		{Sensitivity: "0-call"},
		{Sensitivity: "2-field"},
		{Sensitivity: "x-obj"},
		{Sensitivity: "1-call", HeapDepth: &neg},
	} {
		_, err := opts.Selector()
		assert.ErrorIs(t, err, ErrUnknownSensitivity, "sensitivity %q", opts.Sensitivity)
	}
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("sensitivity: 2-foo\n"))
	assert.ErrorIs(t, err, ErrUnknownSensitivity)

	_, err = Parse([]byte("heap-model: region\n"))
	assert.ErrorIs(t, err, ErrUnknownHeapModel)

	_, err = Parse([]byte("log-level: loud\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("sensitivity: [1, 2]\n"))
	assert.Error(t, err)
}

func TestHeapModelsAreFresh(t *testing.T) {
	opts := Default()
	h1, err := opts.Heap()
	require.NoError(t, err)
	h2, err := opts.Heap()
	require.NoError(t, err)
	assert.NotSame(t, h1, h2)

	opts.HeapModel = "type"
	_, err = opts.Heap()
	assert.NoError(t, err)
}

func TestDefaultHeapDepth(t *testing.T) {
	// A 2-call selector keeps one call site of heap context by default, so
	// an object allocated under [c1, c2] gets heap context [c2].
	sel, err := (&Options{Sensitivity: "2-call"}).Selector()
	require.NoError(t, err)

	ctx := sel.EmptyContext().Append("c1", 2).Append("c2", 2)
	hctx := sel.SelectHeapContext(cs.Method{Context: ctx}, nil)
	assert.Equal(t, []any{"c2"}, hctx.Elems())
}
