package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mnohosten/laura-stem/pkg/server"
)

func main() {
	// Parse command-line flags
	configFile := flag.String("config", "", "Path to a YAML configuration file")
	host := flag.String("host", "localhost", "Server host address")
	port := flag.Int("port", 8080, "Server port")
	dataDir := flag.String("data-dir", "./data", "Corpus directory (empty disables the document endpoints)")
	compression := flag.String("compression", "zstd", "Document compression: none, snappy, zstd or gzip")
	stopWords := flag.String("stop-words", "", "Stop word file, one word per line, reloaded on change")
	corrections := flag.Bool("corrections", true, "Apply the correction table during analysis")
	workers := flag.Int("workers", 0, "Goroutines per batch request (0 = GOMAXPROCS)")
	compare := flag.Bool("compare", true, "Enable /_compare (loads the reference stemmers and lemmatizer)")
	corsOrigin := flag.String("cors-origin", "*", "CORS allowed origin")
	logFormat := flag.String("log-format", "text", "Log format: text or json")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error")
	enableTLS := flag.Bool("tls", false, "Enable TLS/SSL")
	tlsCert := flag.String("tls-cert", "", "Path to TLS certificate file")
	tlsKey := flag.String("tls-key", "", "Path to TLS private key file")
	generateCert := flag.Bool("generate-cert", false, "Write a self-signed certificate to -tls-cert and -tls-key, then exit")
	enableGraphQL := flag.Bool("graphql", false, "Enable GraphQL API endpoint (/graphql) and GraphiQL playground (/graphiql)")
	flag.Parse()

	if *generateCert {
		if *tlsCert == "" || *tlsKey == "" {
			fmt.Fprintln(os.Stderr, "❌ -generate-cert needs -tls-cert and -tls-key")
			os.Exit(2)
		}
		if err := server.GenerateSelfSignedCert(*tlsCert, *tlsKey, *host); err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to generate certificate: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Certificate written to %s, key written to %s\n", *tlsCert, *tlsKey)
		return
	}

	// Create server configuration
	config := server.DefaultConfig()
	if *configFile != "" {
		loaded, err := server.LoadConfig(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
		config = loaded
	}

	// Explicit flags win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			config.Host = *host
		case "port":
			config.Port = *port
		case "data-dir":
			config.DataDir = *dataDir
		case "compression":
			config.Compression = strings.ToLower(*compression)
		case "stop-words":
			config.StopWordsFile = *stopWords
		case "corrections":
			config.Corrections = *corrections
		case "workers":
			config.BatchWorkers = *workers
		case "compare":
			config.EnableCompare = *compare
		case "cors-origin":
			config.AllowedOrigins = []string{*corsOrigin}
		case "log-format":
			config.LogFormat = *logFormat
		case "log-level":
			config.LogLevel = *logLevel
		case "tls":
			config.EnableTLS = *enableTLS
		case "tls-cert":
			config.TLSCertFile = *tlsCert
		case "tls-key":
			config.TLSKeyFile = *tlsKey
		case "graphql":
			config.EnableGraphQL = *enableGraphQL
		}
	})

	// Create and start server
	srv, err := server.New(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to create server: %v\n", err)
		os.Exit(1)
	}

	// Start server (blocks until shutdown)
	if err := srv.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Server error: %v\n", err)
		os.Exit(1)
	}
}
