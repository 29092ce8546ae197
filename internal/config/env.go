package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Env holds process-level settings read from the environment.
type Env struct {
	LogLevel   string
	LogFormat  string
	ConfigPath string
	Addr       string
	Tracing    bool
}

// LoadEnv loads the given dotenv files (".env" when none are named) into the
// process environment and reads the VALSIM_* settings. Missing files are not
// an error; variables already set in the environment win.
func LoadEnv(files ...string) (Env, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Env{}, err
	}

	env := Env{
		LogLevel:   getenv("VALSIM_LOG_LEVEL", "info"),
		LogFormat:  getenv("VALSIM_LOG_FORMAT", "console"),
		ConfigPath: os.Getenv("VALSIM_CONFIG"),
		Addr:       getenv("VALSIM_ADDR", ":8080"),
	}
	if v := os.Getenv("VALSIM_TRACING"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Env{}, err
		}
		env.Tracing = b
	}
	return env, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
