package config // package config loads client configuration from environment variables

import (
	"log"           // log is used to report configuration errors and halt execution
	"os"            // os provides access to environment variables
	"path/filepath" // filepath builds the default credentials path
	"strconv"       // strconv converts strings to other types
	"time"          // time expresses the HTTP timeout

	"github.com/joho/godotenv" // godotenv loads a local .env file when present
)

// Config holds all runtime configuration for the reservation client.
// Each field corresponds to an environment variable.  Only the API base
// URL is required; everything else has a sensible default so the CLI
// works out of the box against a local backend.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	APIURL          string        // base URL of the reservation API
	HTTPTimeout     time.Duration // per-request timeout for API calls
	CredentialsFile string        // path of the JSON file holding the session
}

// Load reads configuration from the environment and returns a Config.
// A .env file in the working directory is applied first when present;
// real environment variables take precedence over it.  A missing
// API_URL causes the program to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load() // absence of a .env file is not an error

	return Config{
		Env:             getenv("APP_ENV", "dev"),                        // environment name
		APIURL:          must("API_URL"),                                 // reservation API base URL
		HTTPTimeout:     time.Duration(intenv("HTTP_TIMEOUT_SEC", 15)) * time.Second, // request timeout
		CredentialsFile: getenv("CREDENTIALS_FILE", defaultCredentialsFile()),        // session file path
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the value of an environment variable or a default when
// the variable is unset or empty.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// intenv is like getenv but converts the value into an integer.  Invalid
// values cause a fatal log message, matching the behavior of must().
func intenv(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// defaultCredentialsFile places the session file under the user's home
// directory.  When the home directory cannot be determined the file is
// kept relative to the working directory instead.
func defaultCredentialsFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".reservationctl-credentials.json"
	}
	return filepath.Join(home, ".reservationctl", "credentials.json")
}
