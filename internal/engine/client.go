/*
PURPOSE:
  Client for the local Ollama HTTP API.
  Issues the non-streamed generate calls that the benchmark measures.

REQUIREMENTS:
  User-specified:
  - One synchronous /api/generate call per trial, stream disabled.
  - No retries: a failed call stops the run instead of hiding a bad measurement.

  Implementation-discovered:
  - Field set differs between Ollama versions; decode into a map and read
    each field with a zero default.
  - Model discovery (/api/tags) and placement (/api/ps) help debug a host.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine.Runner, internal/cli
  - Uses: internal/config, internal/model, internal/output

ERROR HANDLING:
  - Non-2xx, transport errors, malformed bodies and API "error" fields are returned.
  - Context cancellation (SIGINT/SIGTERM) aborts the in-flight call.

IMPLEMENTATION RULES:
  - Use net/http.
  - No client timeout: a 512-token decode on a slow box can take minutes.

USAGE:
  e := engine.New(cfg)
  resp, err := e.Generate(ctx, req)

SELF-HEALING INSTRUCTIONS:
  - If Ollama API changes, update endpoints (/api/tags, /api/ps, /api/generate).

RELATED FILES:
  - internal/config/config.go
  - internal/model/types.go

MAINTENANCE:
  - Update for new Ollama API features.
*/

package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"strings"

	"github.com/daryltucker/ollama-bench/internal/config"
	"github.com/daryltucker/ollama-bench/internal/model"
	"github.com/daryltucker/ollama-bench/internal/output"
)

var (
	// ErrInvalidRequest is returned before any network call for an unusable request.
	ErrInvalidRequest = errors.New("invalid generation request")
	// ErrMalformedResponse is returned when the body is not a JSON object.
	ErrMalformedResponse = errors.New("malformed generation response")
)

// Engine handles Ollama interactions.
type Engine struct {
	Config *config.Config
	Client *http.Client
}

// New creates a new Engine.
func New(cfg *config.Config) *Engine {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	return &Engine{
		Config: cfg,
		Client: &http.Client{Transport: transport},
	}
}

func (e *Engine) endpoint(path string) string {
	return strings.TrimRight(e.Config.Host, "/") + path
}

// GetModels returns a list of available models from the Ollama host.
func (e *Engine) GetModels(ctx context.Context) ([]string, error) {
	var payload struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := e.getJSON(ctx, "/api/tags", &payload); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(payload.Models))
	for _, m := range payload.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// GetRunningModelInfo retrieves memory stats for a running model from /api/ps.
// It returns zeros when the model is not loaded.
func (e *Engine) GetRunningModelInfo(ctx context.Context, modelName string) (size int64, sizeVRAM int64, err error) {
	var payload struct {
		Models []struct {
			Name     string `json:"name"`
			Model    string `json:"model"`
			Size     int64  `json:"size"`
			SizeVRAM int64  `json:"size_vram"`
		} `json:"models"`
	}
	if err := e.getJSON(ctx, "/api/ps", &payload); err != nil {
		return 0, 0, err
	}

	for _, m := range payload.Models {
		if m.Name == modelName || m.Model == modelName || strings.HasPrefix(m.Name, modelName) {
			return m.Size, m.SizeVRAM, nil
		}
	}
	return 0, 0, nil
}

func (e *Engine) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.endpoint(path), nil)
	if err != nil {
		return err
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return fmt.Errorf("Network/Connection Error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status from %s: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// Generate runs one non-streaming generate call and returns the decoded body.
func (e *Engine) Generate(ctx context.Context, r model.GenerationRequest) (model.GenerationResponse, error) {
	switch {
	case r.Model == "":
		return nil, fmt.Errorf("%w: model is empty", ErrInvalidRequest)
	case r.Prompt == "":
		return nil, fmt.Errorf("%w: prompt is empty", ErrInvalidRequest)
	case r.Options.NumPredict <= 0:
		return nil, fmt.Errorf("%w: num_predict must be positive, got %d", ErrInvalidRequest, r.Options.NumPredict)
	}
	r.Stream = false

	reqBody, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}

	trace := &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) {
			output.Logger.Debug("Network: Connected", "remote", info.Conn.RemoteAddr(), "reused", info.Reused)
		},
		GotFirstResponseByte: func() {
			output.Logger.Debug("Network: First Byte Received", "model", r.Model)
		},
	}
	ctx = httptrace.WithClientTrace(ctx, trace)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint("/api/generate"), bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Network/Connection Error: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("Ollama Server Error (%s): %s", resp.Status, strings.TrimSpace(string(bodyBytes)))
	}

	return decodeResponse(bodyBytes)
}

func decodeResponse(body []byte) (model.GenerationResponse, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var data model.GenerationResponse
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %v (Body: %s)", ErrMalformedResponse, err, truncate(body, 200))
	}
	if data == nil {
		return nil, fmt.Errorf("%w: body is null", ErrMalformedResponse)
	}
	if msg := data.String(model.FieldError); msg != "" {
		return nil, fmt.Errorf("Ollama API Error: %s", msg)
	}
	return data, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
