//go:build !production

package warning

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestWarn_LogsOnlyWhenConditionFails(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	t.Cleanup(func() { SetLogger(zerolog.Nop()) })

	Warn(true, "quiet")
	assert.Empty(t, buf.String())

	Warn(false, "loud")
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "loud")
}

func TestNew_UsesGivenLogger(t *testing.T) {
	var buf bytes.Buffer
	warn := New(zerolog.New(&buf))

	warn(false, "bound logger")
	assert.Contains(t, buf.String(), "bound logger")
	assert.True(t, Enabled())
}
