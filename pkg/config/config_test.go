package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaultsWhenUnset(t *testing.T) {
	t.Setenv(envGraphURI, "")
	t.Setenv(envDictionaryPath, "")
	t.Setenv(envCheckpointDir, "")

	cfg := FromEnv()
	assert.Equal(t, defaultDictPath, cfg.DictionaryPath)
	assert.Equal(t, defaultCheckpoint, cfg.CheckpointDir)
	assert.False(t, cfg.UsesRemoteGraph())
	assert.False(t, cfg.HasHelper())
}

func TestFromEnvReadsOverrides(t *testing.T) {
	t.Setenv(envGraphURI, "neo4j://localhost:7687")
	t.Setenv(envGraphUser, "neo4j")
	t.Setenv(envGraphPassword, "secret")
	t.Setenv(envDictionaryPath, "/data/dict.csv")
	t.Setenv(envCheckpointDir, "/var/run/checkpoints")
	t.Setenv(envHelperEndpoint, "http://localhost:9000")
	t.Setenv(envHelperModel, "helper-v1")

	cfg := FromEnv()
	assert.Equal(t, "neo4j://localhost:7687", cfg.GraphURI)
	assert.Equal(t, "neo4j", cfg.GraphUser)
	assert.Equal(t, "secret", cfg.GraphPassword)
	assert.Equal(t, "/data/dict.csv", cfg.DictionaryPath)
	assert.Equal(t, "/var/run/checkpoints", cfg.CheckpointDir)
	assert.True(t, cfg.UsesRemoteGraph())
	assert.True(t, cfg.HasHelper())
}
