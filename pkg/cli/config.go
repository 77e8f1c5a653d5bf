package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/r-ahemad/radiqa/pkg/adapter"
	"github.com/r-ahemad/radiqa/pkg/repository"
	"github.com/r-ahemad/radiqa/pkg/usecase/qa"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// config holds configuration values
type config struct {
	configPath string

	// Repository
	storeDir string
	project  string
	database string

	// Adapters
	openaiAPIKey   string
	geminiProject  string
	geminiLocation string
	bucket         string

	// QA engine tuning
	topK         int64
	historyLimit int64

	// Logging
	logLevel string
}

// fileConfig mirrors the config file layout. Flags and environment
// variables take precedence over values loaded from the file.
type fileConfig struct {
	StoreDir string `yaml:"store_dir"`
	Project  string `yaml:"project"`
	Bucket   string `yaml:"bucket"`
	LogLevel string `yaml:"log_level"`
}

// loadFile fills unset config fields from a YAML config file.
func (cfg *config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return goerr.Wrap(err, "failed to read config file", goerr.Value("path", path))
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return goerr.Wrap(err, "failed to parse config file", goerr.Value("path", path))
	}

	if cfg.storeDir == "" {
		cfg.storeDir = fc.StoreDir
	}
	if cfg.project == "" {
		cfg.project = fc.Project
	}
	if cfg.bucket == "" {
		cfg.bucket = fc.Bucket
	}
	if cfg.logLevel == "" {
		cfg.logLevel = fc.LogLevel
	}
	return nil
}

// load applies the optional config file before dependencies are built.
// Flags and environment variables win over file values.
func (cfg *config) load() error {
	if cfg.configPath == "" {
		return nil
	}
	return cfg.loadFile(cfg.configPath)
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to a YAML config file",
			Sources:     cli.EnvVars("RADIQA_CONFIG"),
			Destination: &cfg.configPath,
		},
		&cli.StringFlag{
			Name:        "store-dir",
			Aliases:     []string{"s"},
			Usage:       "Directory for local JSON stores (used when no project is set)",
			Sources:     cli.EnvVars("RADIQA_STORE_DIR"),
			Destination: &cfg.storeDir,
		},
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID (enables Firestore storage)",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Sources:     cli.EnvVars("RADIQA_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
	}
}

// llmFlags returns flags for LLM-related configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key (answers degrade to fallback mode without it)",
			Sources:     cli.EnvVars("OPENAI_API_KEY"),
			Destination: &cfg.openaiAPIKey,
		},
		&cli.IntFlag{
			Name:        "top-k",
			Usage:       "Number of stored analyses retrieved per question",
			Value:       3,
			Sources:     cli.EnvVars("RADIQA_TOP_K"),
			Destination: &cfg.topK,
		},
		&cli.IntFlag{
			Name:        "history-limit",
			Usage:       "Number of conversation turns kept in memory",
			Value:       10,
			Sources:     cli.EnvVars("RADIQA_HISTORY_LIMIT"),
			Destination: &cfg.historyLimit,
		},
	}
}

// visionFlags returns flags for the image analysis backend
func visionFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
	}
}

// storageFlags returns flags for the report archive bucket
func storageFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bucket",
			Aliases:     []string{"b"},
			Usage:       "Cloud Storage bucket for archived reports",
			Sources:     cli.EnvVars("RADIQA_BUCKET"),
			Destination: &cfg.bucket,
		},
	}
}

// newRepository creates a repository instance. Firestore is used when a
// project is configured, otherwise records go to local JSON files.
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	if cfg.project != "" {
		if cfg.database == "" {
			return nil, goerr.New("database is required")
		}
		repo, err := repository.NewFirestore(ctx, cfg.project, cfg.database)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create firestore repository")
		}
		return repo, nil
	}

	dir := cfg.storeDir
	if dir == "" {
		dir = "."
	}
	repo, err := repository.NewFile(dir)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create file repository")
	}
	return repo, nil
}

// newEngine creates a QA engine on top of the given repository.
func (cfg *config) newEngine(repo repository.Repository) *qa.Engine {
	return qa.New(qa.NewInput{
		Repo:         repo,
		APIKey:       cfg.openaiAPIKey,
		TopK:         int(cfg.topK),
		HistoryLimit: int(cfg.historyLimit),
	})
}

// newGemini creates a new Gemini adapter instance
func (cfg *config) newGemini(ctx context.Context) (adapter.Gemini, error) {
	if cfg.geminiProject == "" {
		return nil, goerr.New("gemini-project is required")
	}
	if cfg.geminiLocation == "" {
		return nil, goerr.New("gemini-location is required")
	}

	gemini, err := adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create gemini adapter")
	}
	return gemini, nil
}

// newStorage creates a new Storage adapter instance
func (cfg *config) newStorage(ctx context.Context) (adapter.Storage, error) {
	if cfg.bucket == "" {
		return nil, goerr.New("bucket is required")
	}

	storage, err := adapter.NewStorage(ctx, cfg.bucket)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage")
	}
	return storage, nil
}
