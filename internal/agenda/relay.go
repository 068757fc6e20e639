package agenda

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// relayFailureBody is returned for any relay failure; causes are not distinguished.
var relayFailureBody = []byte(`{"erro":"query failed"}`)

// Relay is the serverless passthrough: it forwards the query and returns the
// upstream JSON body with 200, or {"erro":"query failed"} with 500.
func Relay(ctx context.Context, f Fetcher, q Query) (int, []byte) {
	if f == nil {
		return http.StatusInternalServerError, relayFailureBody
	}
	payload, err := f.Fetch(ctx, q)
	if err != nil || payload == nil {
		return http.StatusInternalServerError, relayFailureBody
	}
	if len(payload.Raw) > 0 {
		return http.StatusOK, payload.Raw
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return http.StatusInternalServerError, relayFailureBody
	}
	return http.StatusOK, body
}

// QueryFromValues reads the relay's barbeiro/data parameters.
func QueryFromValues(get func(string) string) Query {
	return Query{
		Barber: strings.TrimSpace(get("barbeiro")),
		Date:   strings.TrimSpace(get("data")),
	}
}
