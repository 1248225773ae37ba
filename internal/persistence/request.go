package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

type reqConfig struct {
	Method  string
	Url     string
	Headers []string
	Body    []byte
}

// StatusError is an unexpected response code from a remote API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response status code %d: %s", e.Code, e.Body)
}

const maxErrorBody = 512

func request[T any](ctx context.Context, client *http.Client, config reqConfig, expectedResCode int) (*T, error) {
	req, err := http.NewRequestWithContext(ctx, config.Method, config.Url, bytes.NewBuffer(config.Body))

	if err != nil {
		return nil, err
	}

	for i := 0; i < len(config.Headers); i++ {
		headerKV := strings.SplitN(config.Headers[i], ":", 2)
		if len(headerKV) != 2 {
			return nil, fmt.Errorf("malformed header %q", headerKV[0])
		}
		req.Header.Add(strings.TrimSpace(headerKV[0]), strings.TrimSpace(headerKV[1]))
	}

	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)

	if err != nil {
		return nil, err
	}

	body, err := read(resp.Body)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode != expectedResCode {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	if len(body) == 0 {
		var t T
		return &t, nil
	}

	return readJSON[T](body)
}

func read(reader io.ReadCloser) ([]byte, error) {
	defer func() {
		if err := reader.Close(); err != nil {
			zap.L().Error("closing response body", zap.Error(err))
		}
	}()

	return io.ReadAll(reader)
}

func readJSON[T any](content []byte) (*T, error) {
	var t *T
	err := json.Unmarshal(content, &t)

	if err != nil {
		return nil, err
	}

	if t == nil {
		t = new(T)
	}

	return t, nil
}
