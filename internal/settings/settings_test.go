package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tripboard-backend/internal/domain"
	"tripboard-backend/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

func TestUpdatePersistsImmediately(t *testing.T) {
	repo := mocks.NewMockRepository()
	m := NewManager(repo, zap.NewNop())

	cfg := domain.AIConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: "https://api.example.com/v1"}
	require.NoError(t, m.Update(context.Background(), cfg))
	assert.Equal(t, cfg, m.AIConfig())

	// a fresh manager sees the persisted value right away
	m2 := NewManager(repo, zap.NewNop())
	require.NoError(t, m2.Load(context.Background()))
	assert.Equal(t, cfg, m2.AIConfig())
}

func TestLoadMissingConfigLeavesZero(t *testing.T) {
	m := NewManager(mocks.NewMockRepository(), zap.NewNop())
	require.NoError(t, m.Load(context.Background()))
	assert.False(t, m.AIConfig().IsConfigured())
}

func TestSeedFillsOnlyEmptyFields(t *testing.T) {
	m := NewManager(mocks.NewMockRepository(), zap.NewNop())
	require.NoError(t, m.Update(context.Background(), domain.AIConfig{Model: "persisted-model"}))

	m.Seed(domain.AIConfig{APIKey: "env-key", Model: "env-model", BaseURL: "https://env.example.com"})

	got := m.AIConfig()
	assert.Equal(t, "env-key", got.APIKey)
	assert.Equal(t, "persisted-model", got.Model)
	assert.Equal(t, "https://env.example.com", got.BaseURL)
}

func TestWatchFileAppliesAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ai:\n  model: file-model\n"), 0o600))

	m := NewManager(mocks.NewMockRepository(), zap.NewNop())
	require.NoError(t, m.WatchFile(path))
	defer m.Close()

	assert.Equal(t, "file-model", m.AIConfig().Model)

	require.NoError(t, os.WriteFile(path, []byte("ai:\n  model: rotated-model\n"), 0o600))
	assert.Eventually(t, func() bool {
		return m.AIConfig().Model == "rotated-model"
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWatchFileMissing(t *testing.T) {
	m := NewManager(mocks.NewMockRepository(), zap.NewNop())
	assert.Error(t, m.WatchFile(filepath.Join(t.TempDir(), "absent.yaml")))
}
