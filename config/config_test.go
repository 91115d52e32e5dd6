package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtraConfig(t *testing.T) {
	t.Parallel()
	ec := ExtraConfig{
		"partition":     "gpu",
		"exclusive":     "true",
		"nodes":         "2",
		"extra_options": "qos=express,account=qaoa",
	}

	require.Equal(t, "gpu", ec.GetString("partition"))
	require.Equal(t, "", ec.GetString("missing"))
	require.Equal(t, "def", ec.GetStringOrDefault("missing", "def"))
	require.Equal(t, "gpu", ec.GetStringOrDefault("partition", "def"))
	require.True(t, ec.GetBool("exclusive"))
	require.False(t, ec.GetBool("missing"))
	require.Equal(t, 2, ec.GetInt("nodes"))
	require.Equal(t, []string{"qos=express", "account=qaoa"}, ec.GetStringSlice("extra_options"))
}

func TestExtraConfigStringSliceFromSlice(t *testing.T) {
	t.Parallel()
	ec := ExtraConfig{"extra_options": []string{"qos=express"}}
	require.Equal(t, []string{"qos=express"}, ec.GetStringSlice("extra_options"))
}
