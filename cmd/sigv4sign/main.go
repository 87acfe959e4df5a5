// sigv4sign signs an HTTP request with AWS Signature Version 4 and
// prints the resulting Authorization header, or a ready-to-run curl
// command.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"github.com/ethanadams/sigv4/internal/awsv2compat"
	"github.com/ethanadams/sigv4/internal/logging"
	"github.com/ethanadams/sigv4/internal/sigv4config"
	"github.com/ethanadams/sigv4/internal/sigv4metrics"
	"github.com/ethanadams/sigv4/internal/stdhash"
	"github.com/ethanadams/sigv4/sigv4"
)

var logger = logging.Component("sigv4sign")

func main() {
	configPath := flag.String("config", os.Getenv("SIGV4SIGN_CONFIG"), "path to YAML config (optional)")
	method := flag.String("method", "GET", "HTTP method")
	path := flag.String("path", "/", "request path")
	query := flag.String("query", "", "raw query string")
	host := flag.String("host", "", "Host header value (required)")
	region := flag.String("region", "", "AWS region (overrides config)")
	service := flag.String("service", "", "AWS service (overrides config)")
	accessKeyID := flag.String("access-key-id", os.Getenv("AWS_ACCESS_KEY_ID"), "access key ID")
	secretAccessKey := flag.String("secret-access-key", os.Getenv("AWS_SECRET_ACCESS_KEY"), "secret access key")
	curl := flag.Bool("curl", false, "print a curl command instead of just the header")
	serve := flag.Bool("serve", false, "run a /metrics HTTP server and exit on signal instead of signing once")
	flag.Parse()

	var cfg *sigv4config.Config
	if *configPath != "" {
		var err error
		cfg, err = sigv4config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sigv4sign: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg = sigv4config.Defaults()
	}
	logging.SetLevel(cfg.Logging.Level)

	if *region != "" {
		cfg.Signing.Region = *region
	}
	if *service != "" {
		cfg.Signing.Service = *service
	}
	if *accessKeyID != "" {
		cfg.Credentials.AccessKeyID = *accessKeyID
	}
	if *secretAccessKey != "" {
		cfg.Credentials.SecretAccessKey = *secretAccessKey
	}

	if *serve {
		runServer(cfg)
		return
	}

	if *host == "" || cfg.Credentials.AccessKeyID == "" || cfg.Credentials.SecretAccessKey == "" {
		fmt.Fprintln(os.Stderr, "Usage: sigv4sign -host HOST -access-key-id ID -secret-access-key SECRET [-method M] [-path P] [-query Q] [-region R] [-service S] [-curl]")
		os.Exit(1)
	}

	resolver := awsv2compat.NewStatic(cfg.Credentials.AccessKeyID, cfg.Credentials.SecretAccessKey, cfg.Credentials.SecurityToken)
	creds, err := resolver.Resolve(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "sigv4sign: %v\n", err)
		os.Exit(1)
	}

	now := time.Now().UTC()
	dateISO8601 := make([]byte, 16)
	if err := sigv4.AwsIotDateToIso8601([]byte(now.Format("2006-01-02T15:04:05Z")), dateISO8601); err != nil {
		fmt.Fprintf(os.Stderr, "sigv4sign: %v\n", err)
		os.Exit(1)
	}

	headers := fmt.Sprintf("host:%s\r\nx-amz-date:%s\r\n\r\n", *host, dateISO8601)

	params := &sigv4.Parameters{
		Algorithm:   cfg.Signing.Algorithm,
		Credentials: creds,
		DateISO8601: string(dateISO8601),
		Region:      cfg.Signing.Region,
		Service:     cfg.Signing.Service,
		HTTP: sigv4.HTTPParameters{
			Method:  []byte(strings.ToUpper(*method)),
			Path:    []byte(*path),
			Query:   []byte(*query),
			Headers: []byte(headers),
		},
		Crypto:             stdhash.SHA256(),
		ProcessingBufferLen: cfg.Signing.ProcessingBufferLen,
		MaxHeaderPairCount:  cfg.Signing.MaxHeaderPairCount,
		MaxQueryPairCount:   cfg.Signing.MaxQueryPairCount,
	}

	authBuf := make([]byte, 4096)
	authLen, _, _, err := sigv4.GenerateHTTPAuthorization(params, authBuf)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sigv4sign: signing failed: %v\n", err)
		os.Exit(1)
	}
	authorization := string(authBuf[:authLen])

	requestID := ulid.Make().String()
	logger.Info("signed request %s: %s %s (run-id=%s)", *method, *path, cfg.Signing.Service, requestID)

	if *curl {
		printCurl(*method, *host, *path, *query, authorization, string(dateISO8601))
		return
	}
	fmt.Printf("Authorization: %s\n", authorization)
}

func printCurl(method, host, path, query, authorization, dateISO8601 string) {
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	url := "https://" + host + path
	if query != "" {
		url += "?" + query
	}
	fmt.Fprintf(w, "curl -v -X %s \\\n", strings.ToUpper(method))
	fmt.Fprintf(w, "  -H 'x-amz-date: %s' \\\n", dateISO8601)
	fmt.Fprintf(w, "  -H 'Authorization: %s' \\\n", authorization)
	fmt.Fprintf(w, "  '%s'\n", url)
}

// runServer starts a Prometheus /metrics endpoint and, if configured,
// a cron-scheduled demo that re-signs a fixed request on a schedule so
// the signing-latency histograms have something to show. It runs
// until SIGINT/SIGTERM.
func runServer(cfg *sigv4config.Config) {
	collector := sigv4metrics.NewCollector(nil)

	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	var c *cron.Cron
	if cfg.Rotate.Enabled && cfg.Credentials.AccessKeyID != "" {
		c = cron.New()
		_, err := c.AddFunc(cfg.Rotate.Schedule, func() {
			signDemoRequest(cfg, collector)
		})
		if err != nil {
			logger.Error("invalid rotate schedule %q: %v", cfg.Rotate.Schedule, err)
		} else {
			c.Start()
			logger.Info("scheduled re-signing demo on %q", cfg.Rotate.Schedule)
		}
	}

	logger.Info("serving metrics on :%d%s", cfg.Metrics.Port, cfg.Metrics.Path)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("http server: %v", err)
	}
	if c != nil {
		c.Stop()
	}
}

func signDemoRequest(cfg *sigv4config.Config, collector *sigv4metrics.Collector) {
	start := time.Now()
	now := start.UTC()
	dateISO8601 := make([]byte, 16)
	_ = sigv4.AwsIotDateToIso8601([]byte(now.Format("2006-01-02T15:04:05Z")), dateISO8601)

	headers := fmt.Sprintf("host:demo.invalid\r\nx-amz-date:%s\r\n\r\n", dateISO8601)
	authBuf := make([]byte, 4096)
	_, _, _, err := sigv4.GenerateHTTPAuthorization(&sigv4.Parameters{
		Algorithm: cfg.Signing.Algorithm,
		Credentials: sigv4.Credentials{
			AccessKeyID:     cfg.Credentials.AccessKeyID,
			SecretAccessKey: cfg.Credentials.SecretAccessKey,
		},
		DateISO8601: string(dateISO8601),
		Region:      cfg.Signing.Region,
		Service:     cfg.Signing.Service,
		HTTP: sigv4.HTTPParameters{
			Method:  []byte("GET"),
			Path:    []byte("/"),
			Headers: []byte(headers),
		},
		Crypto:              stdhash.SHA256(),
		ProcessingBufferLen: cfg.Signing.ProcessingBufferLen,
		MaxHeaderPairCount:  cfg.Signing.MaxHeaderPairCount,
		MaxQueryPairCount:   cfg.Signing.MaxQueryPairCount,
	}, authBuf)
	collector.RecordSign(cfg.Signing.Service, cfg.Signing.Region, time.Since(start), err)
}
