package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// envPrefix namespaces every variable read by parseEnv.
const envPrefix = "PULSE_"

// dotEnvFile is loaded before the environment is read. Variables already set
// in the process environment win over the file. A missing file is fine.
var dotEnvFile = ".env"

// parseEnv overlays config with PULSE_* environment variables. A value that
// cannot be parsed panics, like malformed flags do.
func parseEnv(config *Config) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		panic(fmt.Errorf("load %s: %w", dotEnvFile, err))
	}

	envString("HTTP_ADDR", &config.HTTPAddr)
	envString("DATABASE_DSN", &config.DatabaseDSN)
	envString("LOG_BACKEND", &config.LogBackend)
	envString("LOG_LEVEL", &config.LogLevel)
	envDuration("SHUTDOWN_TIMEOUT", &config.ShutdownTimeout)
	envString("MAX_UPLOAD_SIZE", &config.MaxUploadSize)
	envList("CORS_ALLOW_ORIGINS", &config.CORSAllowOrigins)

	envString("IDENTITY_KEY_FILE", &config.IdentityKeyFile)
	envString("IDENTITY_ISSUER", &config.IdentityIssuer)
	envDuration("ID_TOKEN_VALIDITY_DURATION", &config.IDTokenValidityDuration)

	envString("S3_ROOT_USER", &config.S3RootUser)
	envString("S3_ROOT_PASSWORD", &config.S3RootPassword)
	envString("S3_BUCKET", &config.S3Bucket)
	envString("S3_REGION", &config.S3Region)
	envString("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	envString("S3_PUBLIC_BASE_URL", &config.S3PublicBaseURL)

	envString("NEWSDATA_API_KEY", &config.NewsDataAPIKey)
	envString("NEWSDATA_BASE_URL", &config.NewsDataBaseURL)
	envString("GNEWS_API_KEY", &config.GNewsAPIKey)
	envString("GNEWS_BASE_URL", &config.GNewsBaseURL)
	envString("NEWS_LOCATION", &config.NewsLocation)

	envString("REDDIT_CLIENT_ID", &config.RedditClientID)
	envString("REDDIT_CLIENT_SECRET", &config.RedditClientSecret)
	envString("REDDIT_TOKEN_URL", &config.RedditTokenURL)
	envString("REDDIT_API_BASE_URL", &config.RedditAPIBaseURL)
	envString("REDDIT_SUBREDDIT", &config.RedditSubreddit)
	envInt("REDDIT_LISTING_LIMIT", &config.RedditListingLimit)
	envString("REDDIT_USER_AGENT", &config.RedditUserAgent)

	envString("SPEECH_CREDENTIALS_FILE", &config.SpeechCredentialsFile)
	envString("SPEECH_ENCODING", &config.SpeechEncoding)
	envString("SPEECH_LANGUAGE", &config.SpeechLanguage)

	envDuration("STAGING_GRACE_PERIOD", &config.StagingGracePeriod)
	envDuration("SWEEP_INTERVAL", &config.SweepInterval)
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", envPrefix, key, err))
	}
	*dst = n
}

func envDuration(key string, dst *time.Duration) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", envPrefix, key, err))
	}
	*dst = d
}

// envList reads a comma-separated list; blank items are dropped.
func envList(key string, dst *[]string) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || v == "" {
		return
	}
	*dst = splitList(v)
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
