package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/dgallion1/pagewright/internal/navigation"
)

const (
	StoreMemory    = "memory"
	StoreSQLite    = "sqlite"
	StorePathstore = "pathstore"
)

// Editor holds the defaults applied to every new editing session.
type Editor struct {
	WordsPerPage     int    `toml:"words_per_page"`
	FontSize         int    `toml:"font_size"`
	FontFamily       string `toml:"font_family"`
	Header           string `toml:"header"`
	Footer           string `toml:"footer"`
	ShowHeaderFooter bool   `toml:"show_header_footer"`
}

type Config struct {
	Port string

	// Auth
	APIKey string

	// Document storage
	StoreDriver     string
	SQLitePath      string
	PathstoreURL    string
	PathstoreAPIKey string

	Editor Editor

	// Session state
	SessionTTL time.Duration

	// Upload limits
	MaxUploadBytes int64

	LogLevel slog.Level

	// PDF
	PDFFallbackPdftotext bool
}

type fileConfig struct {
	Editor Editor `toml:"editor"`
}

func defaultEditor() Editor {
	return Editor{
		WordsPerPage: navigation.DefaultWordsPerPage,
		FontSize:     navigation.DefaultFontSize,
		FontFamily:   navigation.DefaultFontFamily,
		Footer:       "Page {{pageNumber}} of {{totalPages}}",
	}
}

// Load reads .env (if present), the optional CONFIG_FILE TOML, then the
// environment. Environment values win over the file.
func Load() (Config, error) {
	_ = godotenv.Load()

	editor := defaultEditor()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		var err error
		if editor, err = loadEditorFile(path, editor); err != nil {
			return Config{}, err
		}
	}

	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("API_KEY"),

		StoreDriver:     strings.ToLower(envOr("STORE_DRIVER", StoreMemory)),
		SQLitePath:      envOr("SQLITE_PATH", "pagewright.db"),
		PathstoreURL:    envOr("PATHSTORE_URL", "http://localhost:8080"),
		PathstoreAPIKey: os.Getenv("PATHSTORE_API_KEY"),

		Editor: Editor{
			WordsPerPage:     envInt("DEFAULT_WORDS_PER_PAGE", editor.WordsPerPage),
			FontSize:         envInt("DEFAULT_FONT_SIZE", editor.FontSize),
			FontFamily:       envOr("DEFAULT_FONT_FAMILY", editor.FontFamily),
			Header:           envOr("DEFAULT_HEADER", editor.Header),
			Footer:           envOr("DEFAULT_FOOTER", editor.Footer),
			ShowHeaderFooter: envBool("DEFAULT_SHOW_HEADER_FOOTER", editor.ShowHeaderFooter),
		},

		SessionTTL: envDuration("SESSION_TTL", 1*time.Hour),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10<<20),

		LogLevel: envLevel("LOG_LEVEL", slog.LevelInfo),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	cfg.Editor.WordsPerPage = navigation.ClampWordsPerPage(cfg.Editor.WordsPerPage)
	cfg.Editor.FontSize = navigation.ClampFontSize(cfg.Editor.FontSize)
	cfg.Editor.FontFamily = navigation.NormalizeFontFamily(cfg.Editor.FontFamily)
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 1 * time.Hour
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY is required")
	}
	switch c.StoreDriver {
	case StoreMemory:
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite store")
		}
	case StorePathstore:
		if c.PathstoreAPIKey == "" {
			return fmt.Errorf("PATHSTORE_API_KEY is required for the pathstore store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// loadEditorFile overlays the [editor] table of a TOML file onto base.
func loadEditorFile(path string, base Editor) (Editor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Editor{}, fmt.Errorf("read config file: %w", err)
	}
	fc := fileConfig{Editor: base}
	if err := toml.Unmarshal(data, &fc); err != nil {
		return Editor{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return fc.Editor, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(v)); err == nil {
			return level
		}
	}
	return fallback
}
