package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_Validate(t *testing.T) {
	dir := t.TempDir()

	p := &Profile{Mode: "dev", Data: dir}
	require.NoError(t, p.Validate())

	assert.Equal(t, "sqlite", p.Driver, "sqlite is the default driver")
	assert.Equal(t, filepath.Join(dir, "corrnet_dev.db"), p.DSN)
	assert.True(t, p.IsDev())
}

func TestProfile_ValidateUnknownModeFallsBack(t *testing.T) {
	p := &Profile{Mode: "staging", Data: t.TempDir()}
	require.NoError(t, p.Validate())
	assert.Equal(t, "demo", p.Mode)
}

func TestProfile_ValidateRejectsUnknownDriver(t *testing.T) {
	p := &Profile{Mode: "dev", Data: t.TempDir(), Driver: "mysql"}
	assert.Error(t, p.Validate())
}

func TestProfile_ValidatePostgresRequiresDSN(t *testing.T) {
	p := &Profile{Mode: "prod", Data: t.TempDir(), Driver: "postgres"}
	assert.Error(t, p.Validate())

	p.DSN = "postgres://corrnet@localhost/corrnet?sslmode=disable"
	assert.NoError(t, p.Validate())
}

func TestProfile_IsAIEnabled(t *testing.T) {
	p := &Profile{}
	assert.False(t, p.IsAIEnabled())
	p.AIAPIKey = "sk-test"
	assert.True(t, p.IsAIEnabled())
}
