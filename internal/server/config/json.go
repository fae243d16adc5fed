package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/pulsecity/internal/flagx"
	"github.com/dmitrijs2005/pulsecity/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept both
// "1h"-style strings and integer nanoseconds via timex.Duration. Keys that
// are absent leave the current value untouched.
type JsonConfig struct {
	HTTPAddr         string         `json:"http_addr"`
	DatabaseDSN      string         `json:"database_dsn"`
	LogBackend       string         `json:"log_backend"`
	LogLevel         string         `json:"log_level"`
	ShutdownTimeout  timex.Duration `json:"shutdown_timeout"`
	MaxUploadSize    string         `json:"max_upload_size"`
	CORSAllowOrigins []string       `json:"cors_allow_origins"`

	IdentityKeyFile         string         `json:"identity_key_file"`
	IdentityIssuer          string         `json:"identity_issuer"`
	IDTokenValidityDuration timex.Duration `json:"id_token_validity_duration"`

	S3RootUser      string `json:"s3_root_user"`
	S3RootPassword  string `json:"s3_root_password"`
	S3Bucket        string `json:"s3_bucket"`
	S3Region        string `json:"s3_region"`
	S3BaseEndpoint  string `json:"s3_base_endpoint"`
	S3PublicBaseURL string `json:"s3_public_base_url"`

	NewsDataAPIKey  string `json:"newsdata_api_key"`
	NewsDataBaseURL string `json:"newsdata_base_url"`
	GNewsAPIKey     string `json:"gnews_api_key"`
	GNewsBaseURL    string `json:"gnews_base_url"`
	NewsLocation    string `json:"news_location"`

	RedditClientID     string `json:"reddit_client_id"`
	RedditClientSecret string `json:"reddit_client_secret"`
	RedditTokenURL     string `json:"reddit_token_url"`
	RedditAPIBaseURL   string `json:"reddit_api_base_url"`
	RedditSubreddit    string `json:"reddit_subreddit"`
	RedditListingLimit int    `json:"reddit_listing_limit"`
	RedditUserAgent    string `json:"reddit_user_agent"`

	SpeechCredentialsFile string `json:"speech_credentials_file"`
	SpeechEncoding        string `json:"speech_encoding"`
	SpeechLanguage        string `json:"speech_language"`

	StagingGracePeriod timex.Duration `json:"staging_grace_period"`
	SweepInterval      timex.Duration `json:"sweep_interval"`
}

// parseJson overlays config with the file named by -c / -config. Without the
// flag nothing is loaded. An unreadable or malformed file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.applyTo(config)
}

func (c *JsonConfig) applyTo(config *Config) {
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.LogBackend, c.LogBackend)
	setString(&config.LogLevel, c.LogLevel)
	setDuration(&config.ShutdownTimeout, c.ShutdownTimeout)
	setString(&config.MaxUploadSize, c.MaxUploadSize)
	if len(c.CORSAllowOrigins) > 0 {
		config.CORSAllowOrigins = c.CORSAllowOrigins
	}

	setString(&config.IdentityKeyFile, c.IdentityKeyFile)
	setString(&config.IdentityIssuer, c.IdentityIssuer)
	setDuration(&config.IDTokenValidityDuration, c.IDTokenValidityDuration)

	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicBaseURL, c.S3PublicBaseURL)

	setString(&config.NewsDataAPIKey, c.NewsDataAPIKey)
	setString(&config.NewsDataBaseURL, c.NewsDataBaseURL)
	setString(&config.GNewsAPIKey, c.GNewsAPIKey)
	setString(&config.GNewsBaseURL, c.GNewsBaseURL)
	setString(&config.NewsLocation, c.NewsLocation)

	setString(&config.RedditClientID, c.RedditClientID)
	setString(&config.RedditClientSecret, c.RedditClientSecret)
	setString(&config.RedditTokenURL, c.RedditTokenURL)
	setString(&config.RedditAPIBaseURL, c.RedditAPIBaseURL)
	setString(&config.RedditSubreddit, c.RedditSubreddit)
	if c.RedditListingLimit > 0 {
		config.RedditListingLimit = c.RedditListingLimit
	}
	setString(&config.RedditUserAgent, c.RedditUserAgent)

	setString(&config.SpeechCredentialsFile, c.SpeechCredentialsFile)
	setString(&config.SpeechEncoding, c.SpeechEncoding)
	setString(&config.SpeechLanguage, c.SpeechLanguage)

	setDuration(&config.StagingGracePeriod, c.StagingGracePeriod)
	setDuration(&config.SweepInterval, c.SweepInterval)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
