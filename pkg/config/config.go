// Package config reads the engine's environment-variable configuration
// (spec §6): graph-store connection, dictionary source, checkpoint
// directory, and the optional external-helper endpoint.
package config

import "os"

const (
	envGraphURI       = "JPLAW_GRAPH_URI"
	envGraphUser      = "JPLAW_GRAPH_USER"
	envGraphPassword  = "JPLAW_GRAPH_PASSWORD"
	envDictionaryPath = "JPLAW_DICTIONARY_PATH"
	envCheckpointDir  = "JPLAW_CHECKPOINT_DIR"
	envHelperEndpoint = "JPLAW_HELPER_ENDPOINT"
	envHelperModel    = "JPLAW_HELPER_MODEL"

	defaultDictPath   = "dictionary.csv"
	defaultCheckpoint = ".jplaw-cite/checkpoints"
)

// Config is the engine's environment-derived configuration.
type Config struct {
	// GraphURI, when set, selects a Neo4jStore (spec §4.6). Empty means
	// use the embedded MemStore.
	GraphURI      string
	GraphUser     string
	GraphPassword string

	// DictionaryPath is the CSV source build-dictionary reads from.
	DictionaryPath string

	// CheckpointDir is where the orchestrator writes run checkpoints.
	CheckpointDir string

	// HelperEndpoint and HelperModel configure the optional external
	// enrichment helper (spec §4.5 phase 5). Both empty means no helper is
	// wired, and the detector runs without residual-phrase enrichment.
	HelperEndpoint string
	HelperModel    string
}

// FromEnv reads Config from the process environment, falling back to
// defaultLibraryPath-style hard-coded defaults for the two settings that
// are always needed (dictionary path, checkpoint directory) and leaving
// the rest empty when unset.
func FromEnv() Config {
	return Config{
		GraphURI:       os.Getenv(envGraphURI),
		GraphUser:      os.Getenv(envGraphUser),
		GraphPassword:  os.Getenv(envGraphPassword),
		DictionaryPath: getOrDefault(envDictionaryPath, defaultDictPath),
		CheckpointDir:  getOrDefault(envCheckpointDir, defaultCheckpoint),
		HelperEndpoint: os.Getenv(envHelperEndpoint),
		HelperModel:    os.Getenv(envHelperModel),
	}
}

// UsesRemoteGraph reports whether GraphURI selects a Neo4jStore over the
// embedded MemStore.
func (c Config) UsesRemoteGraph() bool {
	return c.GraphURI != ""
}

// HasHelper reports whether an external enrichment helper is configured.
func (c Config) HasHelper() bool {
	return c.HelperEndpoint != ""
}

func getOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
