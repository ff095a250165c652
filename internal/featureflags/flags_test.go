package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lookup(env map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}
}

func TestLoad(t *testing.T) {
	set := Load(lookup(map[string]string{"FLAG_SCOPED_OFFENDERS": " Yes "}))
	assert.True(t, set.Enabled(ScopedOffenders))
	assert.Equal(t, "scoped_offenders", set.LogValue().String())

	set = Load(lookup(map[string]string{"FLAG_SCOPED_OFFENDERS": "0"}))
	assert.False(t, set.Enabled(ScopedOffenders))
	assert.Empty(t, set.LogValue().String())

	assert.False(t, Load(lookup(nil)).Enabled(ScopedOffenders), "unset flags are off")
	assert.False(t, Load(lookup(nil)).Enabled(Flag("unknown")))
}

func TestFromEnv(t *testing.T) {
	t.Setenv(ScopedOffenders.Env(), "on")
	assert.True(t, FromEnv().Enabled(ScopedOffenders))
}
