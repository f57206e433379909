package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetters(t *testing.T) {
	t.Setenv("FO_STRING", "value")
	t.Setenv("FO_EMPTY", "")
	t.Setenv("FO_INT", "42")
	t.Setenv("FO_BAD_INT", "forty")
	t.Setenv("FO_BOOL", "false")
	t.Setenv("FO_DURATION", "1500ms")

	assert.Equal(t, "value", GetString("FO_STRING", "x"))
	assert.Equal(t, "x", GetString("FO_EMPTY", "x"))
	assert.Equal(t, "x", GetString("FO_MISSING", "x"))

	assert.Equal(t, 42, GetInt("FO_INT", 1))
	assert.Equal(t, 1, GetInt("FO_BAD_INT", 1))
	assert.Equal(t, 1, GetInt("FO_MISSING", 1))

	assert.False(t, GetBool("FO_BOOL", true))
	assert.True(t, GetBool("FO_MISSING", true))

	assert.Equal(t, 1500*time.Millisecond, GetDuration("FO_DURATION", time.Second))
	assert.Equal(t, time.Second, GetDuration("FO_STRING", time.Second))
}
