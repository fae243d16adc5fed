package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/pulsecity/internal/flagx"
)

// serverFlags lists the short flags understood by parseFlags. Other
// arguments (the -c config flag, admin CLI positionals) are filtered out
// before parsing.
var serverFlags = []string{"-a", "-d", "-l", "-k", "-u", "-p", "-b", "-g", "-e", "-n", "-m", "-i", "-s", "-o"}

// ValueFlags lists every flag that consumes the following argument, so
// callers can tell positional arguments apart.
func ValueFlags() []string {
	return append([]string{"-c", "-config"}, serverFlags...)
}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-l string   log level (debug, info, warn, error)
//	-k string   identity signing key file (PEM)
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-n string   NewsData.io API key
//	-m string   GNews API key
//	-i string   Reddit client id
//	-s string   Reddit client secret
//	-o string   comma-separated CORS origins
//
// A malformed flag panics.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.IdentityKeyFile, "k", config.IdentityKeyFile, "identity signing key file")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.StringVar(&config.NewsDataAPIKey, "n", config.NewsDataAPIKey, "NewsData.io API key")
	fs.StringVar(&config.GNewsAPIKey, "m", config.GNewsAPIKey, "GNews API key")
	fs.StringVar(&config.RedditClientID, "i", config.RedditClientID, "Reddit client id")
	fs.StringVar(&config.RedditClientSecret, "s", config.RedditClientSecret, "Reddit client secret")

	origins := fs.String("o", "", "comma-separated CORS origins")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *origins != "" {
		config.CORSAllowOrigins = splitList(*origins)
	}
}
