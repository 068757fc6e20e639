package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/doisellos/storefront/internal/agenda"
	"github.com/doisellos/storefront/pkg/logging"
)

const defaultAgendaBaseURL = "http://ice-club.my"

type config struct {
	agendaBaseURL string
	agendaPath    string
	agendaTimeout time.Duration
}

func loadConfig() (config, error) {
	baseURL := strings.TrimSpace(os.Getenv("AGENDA_BASE_URL"))
	if baseURL == "" {
		baseURL = defaultAgendaBaseURL
	}

	// Zero leaves the upstream call unbounded; the Lambda deadline still applies.
	var timeout time.Duration
	if raw := strings.TrimSpace(os.Getenv("AGENDA_TIMEOUT")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return config{}, fmt.Errorf("invalid AGENDA_TIMEOUT: %w", err)
		}
		timeout = parsed
	}

	return config{
		agendaBaseURL: strings.TrimRight(baseURL, "/"),
		agendaPath:    strings.TrimSpace(os.Getenv("AGENDA_PATH")),
		agendaTimeout: timeout,
	}, nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}

	logger := logging.New(os.Getenv("LOG_LEVEL")).Component("agenda-lambda")
	fetcher := agenda.NewHTTPFetcher(cfg.agendaBaseURL, logger,
		agenda.WithPath(cfg.agendaPath),
		agenda.WithTimeout(cfg.agendaTimeout),
	)
	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, fetcher, evt)
	})
}

func handle(ctx context.Context, fetcher agenda.Fetcher, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	path := strings.TrimSpace(evt.RawPath)
	if path == "" {
		path = strings.TrimSpace(evt.RequestContext.HTTP.Path)
	}

	if path == "/health" || path == "/_health" {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusOK, Body: "ok"}, nil
	}

	if method != "" && method != http.MethodGet {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusMethodNotAllowed}, nil
	}

	q := agenda.QueryFromValues(func(key string) string {
		return evt.QueryStringParameters[key]
	})
	status, body := agenda.Relay(ctx, fetcher, q)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Body:       string(body),
		Headers:    map[string]string{"content-type": "application/json"},
	}, nil
}
