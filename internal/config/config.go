package config

import (
	"os"
	"strings"
	"time"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port      string
	UploadDir string

	// ScriptsDir is where the model-invocation scripts live.
	ScriptsDir string

	// PythonBin is the ordered interpreter fallback list, comma separated.
	PythonBin string

	AnalyzeTimeout time.Duration
	RecipeTimeout  time.Duration

	// StorageBackend selects where uploads are persisted: "local" or "r2".
	StorageBackend string

	R2Endpoint      string
	R2AccessKey     string
	R2SecretKey     string
	R2Bucket        string
	R2PublicBaseURL string
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Port:           GetEnv("PORT", "5000"),
		UploadDir:      GetEnv("UPLOAD_DIR", "uploads"),
		ScriptsDir:     GetEnv("SCRIPTS_DIR", "ai_scripts"),
		PythonBin:      GetEnv("PYTHON_BIN", "python,python3,py"),
		AnalyzeTimeout: getDuration("ANALYZE_TIMEOUT", 120*time.Second),
		RecipeTimeout:  getDuration("RECIPE_TIMEOUT", 5*time.Minute),
		StorageBackend: GetEnv("STORAGE_BACKEND", "local"),

		R2Endpoint:      os.Getenv("R2_ENDPOINT"),
		R2AccessKey:     os.Getenv("R2_ACCESS_KEY"),
		R2SecretKey:     os.Getenv("R2_SECRET_KEY"),
		R2Bucket:        os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL: os.Getenv("R2_PUBLIC_BASE_URL"),
	}
}

// Interpreters returns the parsed interpreter fallback list.
func (c *Config) Interpreters() []string {
	parts := strings.Split(c.PythonBin, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetEnv returns the value of key or fallback if unset.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
