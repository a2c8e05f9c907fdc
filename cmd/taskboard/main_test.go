package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/auth"
	"github.com/nhle/taskboard/internal/credential"
	"github.com/nhle/taskboard/internal/model"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestConfigInitWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskboard", "config.yaml")

	out, err := execute(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	cfg, err := model.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultAppConfig().Server.Addr, cfg.Server.Addr)
	assert.Equal(t, model.DriverMemory, cfg.Store.Driver)

	_, err = execute(t, "config", "init", "--config", path)
	assert.ErrorContains(t, err, "already exists")
}

func TestTokenIssuesVerifiableToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := model.DefaultAppConfig()
	cfg.Auth.Mode = model.AuthModeJWT
	cfg.Auth.JWTSecret = "test-secret"
	require.NoError(t, model.SaveConfig(path, cfg))

	out, err := execute(t, "token", "--config", path, "--user", "user-42", "--email", "u@example.com")
	require.NoError(t, err)

	claims, err := auth.NewJWTManager("test-secret", time.Hour).ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, "u@example.com", claims.Email)
}

func TestTokenRevokeRemovesSavedToken(t *testing.T) {
	var removed []string
	orig := removeCredential
	t.Cleanup(func() {
		removeCredential = orig
		tokenRevoke = false
	})

	removeCredential = func(key string) error {
		removed = append(removed, key)
		return nil
	}
	out, err := execute(t, "token", "--revoke")
	require.NoError(t, err)
	assert.Equal(t, []string{credential.KeyAPIToken}, removed)
	assert.Contains(t, out, "removed")

	removeCredential = func(string) error { return credential.ErrNotFound }
	out, err = execute(t, "token", "--revoke")
	require.NoError(t, err)
	assert.Contains(t, out, "no saved token")

	removeCredential = func(string) error { return errors.New("keyring locked") }
	_, err = execute(t, "token", "--revoke")
	assert.ErrorContains(t, err, "keyring locked")
}
