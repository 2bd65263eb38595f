package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where babynest stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// AI configuration
	AIEnabled      bool   // BABYNEST_AI_ENABLED
	AIAPIKey       string // BABYNEST_AI_API_KEY
	AIBaseURL      string // BABYNEST_AI_BASE_URL (default: https://api.openai.com/v1)
	AIChatModel    string // BABYNEST_AI_CHAT_MODEL (default: gpt-4o-mini)
	AIEmbedModel   string // BABYNEST_AI_EMBED_MODEL (default: text-embedding-3-small)
	GuidelinesPath string // BABYNEST_GUIDELINES_PATH (default: <data>/guidelines.json)

	// Context cache policy
	CacheDir            string // BABYNEST_CACHE_DIR (default: <data>/cache)
	CacheMaxFileMB      int    // max serialized record size per user, in MiB
	CacheMaxEntries     int    // max tracking entries per category
	CacheMaxAgeDays     int    // max cache file age before the sweep removes it
	CacheMaxMemoryUsers int    // max resident users in the memory tier
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if AI is enabled and an API key is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIEnabled && p.AIAPIKey != ""
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver == "" {
		p.Driver = "sqlite"
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
		return err
	}
	p.Data = dataDir

	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("babynest_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	if p.CacheDir == "" {
		p.CacheDir = filepath.Join(dataDir, "cache")
	}
	if p.GuidelinesPath == "" {
		p.GuidelinesPath = filepath.Join(dataDir, "guidelines.json")
	}

	if p.AIBaseURL == "" {
		p.AIBaseURL = "https://api.openai.com/v1"
	}
	if p.AIChatModel == "" {
		p.AIChatModel = "gpt-4o-mini"
	}
	if p.AIEmbedModel == "" {
		p.AIEmbedModel = "text-embedding-3-small"
	}

	if p.CacheMaxFileMB <= 0 {
		p.CacheMaxFileMB = 10
	}
	if p.CacheMaxEntries <= 0 {
		p.CacheMaxEntries = 10
	}
	if p.CacheMaxAgeDays <= 0 {
		p.CacheMaxAgeDays = 30
	}
	if p.CacheMaxMemoryUsers <= 0 {
		p.CacheMaxMemoryUsers = 50
	}

	return nil
}
