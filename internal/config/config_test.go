package config

import (
	"os"
	"testing"
	"time"

	libconfig "github.com/shouni/go-storybook-kit/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("環境変数が無ければ既定値になること", func(t *testing.T) {
		for _, key := range []string{EnvReplicateToken, "STANDARD_MODEL", "FAST_MODEL", "STORY_FILE", "OUTPUT_DIR", "CATALOG_FILE"} {
			t.Setenv(key, "placeholder")
			require.NoError(t, os.Unsetenv(key))
		}
		cfg := LoadConfig()
		assert.Equal(t, libconfig.DefaultStandardModel, cfg.StandardModel)
		assert.Equal(t, libconfig.DefaultFastModel, cfg.FastModel)
		assert.Equal(t, libconfig.DefaultStoryFile, cfg.StoryPath())
		assert.Equal(t, libconfig.DefaultOutputDir, cfg.IllustrationDir())
		assert.Empty(t, cfg.CatalogPath())
	})

	t.Run("環境変数を読み込むこと", func(t *testing.T) {
		t.Setenv(EnvReplicateToken, "r8_test")
		t.Setenv("FAST_MODEL", "acme/fast")
		t.Setenv("OUTPUT_DIR", "/tmp/book")
		cfg := LoadConfig()
		assert.Equal(t, "r8_test", cfg.ReplicateToken)
		assert.Equal(t, "acme/fast", cfg.FastModel)
		assert.Equal(t, "/tmp/book", cfg.IllustrationDir())
	})
}

func TestConfig_FlagsOverrideEnv(t *testing.T) {
	cfg := &Config{
		StoryFile:   "env/story.json",
		OutputDir:   "env/out",
		CatalogFile: "env/catalog.json",
		FastModel:   "acme/fast",
		Options: GenerateOptions{
			StoryFile: "flag/story.json",
			OutputDir: "flag/out",
			Interval:  5 * time.Second,
		},
	}

	assert.Equal(t, "flag/story.json", cfg.StoryPath())
	assert.Equal(t, "flag/out", cfg.IllustrationDir())
	assert.Equal(t, "env/catalog.json", cfg.CatalogPath())

	lib := cfg.LibraryConfig()
	assert.Equal(t, 5*time.Second, lib.RateInterval)
	assert.Equal(t, "acme/fast", lib.FastModel)
	assert.Equal(t, libconfig.DefaultStandardModel, lib.StandardModel)
	assert.Equal(t, libconfig.DefaultHTTPTimeout, lib.RequestTimeout)
}
