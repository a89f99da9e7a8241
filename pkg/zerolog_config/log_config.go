package zerolog_config

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.elastic.co/ecszerolog"
)

var (
	appPrefix         string
	setAppPrefixOnce  sync.Once
	startupLoggerOnce sync.Once

	// console output; stdout belongs to command results
	consoleOut io.Writer = os.Stderr
)

// ElasticsearchWriter indexes each log line as one document
type ElasticsearchWriter struct {
	endpoint string
	client   *http.Client
}

// NewElasticsearchWriter targets <baseURL>/<index>/_doc
func NewElasticsearchWriter(baseURL, index string) *ElasticsearchWriter {
	return &ElasticsearchWriter{
		endpoint: strings.TrimRight(baseURL, "/") + "/" + index + "/_doc",
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

func (ew *ElasticsearchWriter) Write(p []byte) (int, error) {
	resp, err := ew.client.Post(ew.endpoint, "application/json", bytes.NewReader(p))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return 0, fmt.Errorf("elasticsearch returned %d", resp.StatusCode)
	}
	return len(p), nil
}

func startupLogger(elasticsearchURL, index string, level zerolog.Level) {
	zerolog.SetGlobalLevel(level)

	var out io.Writer = zerolog.ConsoleWriter{Out: consoleOut, TimeFormat: time.Kitchen}
	if elasticsearchURL != "" {
		out = zerolog.MultiLevelWriter(
			ecszerolog.New(NewElasticsearchWriter(elasticsearchURL, index)),
			out,
		)
	}

	log.Logger = zerolog.New(out).With().Str("app", appPrefix).Timestamp().Logger()
}

// SetAppPrefix names the app on every log line. Only the first call counts.
func SetAppPrefix(name string) {
	setAppPrefixOnce.Do(func() {
		appPrefix = name
	})
}

// StartupWithEnv installs the global logger: console on stderr, plus ECS documents in
// the given Elasticsearch index when elasticsearchURL is set. An empty level means info.
// Call SetAppPrefix first.
func StartupWithEnv(elasticsearchURL, index, level string) error {
	if index == "" {
		return fmt.Errorf("log index is required")
	}

	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}

	startupLoggerOnce.Do(func() {
		startupLogger(elasticsearchURL, index, lvl)
	})
	return nil
}
