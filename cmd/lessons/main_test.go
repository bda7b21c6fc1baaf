package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeFlags_DefaultToEnv(t *testing.T) {
	t.Setenv("LESSONS_ADDR", ":7331")
	t.Setenv("LESSONS_UPDATE_DELAY", "250ms")

	root := newRootCmd()
	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)

	assert.Equal(t, ":7331", serve.Flags().Lookup("addr").DefValue)
	assert.Equal(t, "250ms", serve.Flags().Lookup("update-delay").DefValue)
	assert.Equal(t, "info", serve.Flags().Lookup("log-level").DefValue)
}

func TestServe_BadEnvFails(t *testing.T) {
	t.Setenv("LESSONS_UPDATE_DELAY", "soon")

	root := newRootCmd()
	root.SetArgs([]string{"serve"})
	root.SilenceUsage = true
	root.SilenceErrors = true
	assert.ErrorContains(t, root.Execute(), "parse env")
}
