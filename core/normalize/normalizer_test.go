package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLinks(t *testing.T) {
	out, err := New().Normalize(`<p>read <a href="https://x.test/a">this</a></p>`)
	require.NoError(t, err)
	assert.Contains(t, out, "[this](https://x.test/a)")
}

func TestNormalizeParagraphs(t *testing.T) {
	out, err := New().Normalize(`<p>first</p><p>second</p>`)
	require.NoError(t, err)
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "second")
	assert.Less(t, strings.Index(out, "first"), strings.Index(out, "second"))
	assert.Equal(t, strings.TrimSpace(out), out)
}

func TestNormalizeEmpty(t *testing.T) {
	out, err := New().Normalize("")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}
