package local

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Health reports whether the server is up and which model it has loaded.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var status HealthStatus
	if err := c.getJSON(ctx, healthPath, &status); err != nil {
		return HealthStatus{}, err
	}
	return status, nil
}

// Models lists the models the server can serve.
func (c *Client) Models(ctx context.Context) ([]ModelInfo, error) {
	var resp modelsResponse
	if err := c.getJSON(ctx, modelsPath, &resp); err != nil {
		return nil, err
	}
	return resp.Models, nil
}

// CurrentModel returns the model currently serving requests.
func (c *Client) CurrentModel(ctx context.Context) (CurrentModelInfo, error) {
	var info CurrentModelInfo
	if err := c.getJSON(ctx, currentModelPath, &info); err != nil {
		return CurrentModelInfo{}, err
	}
	return info, nil
}

// SwitchModel asks the server to load a different model. The backend
// argument is optional; when empty the server keeps its current backend.
func (c *Client) SwitchModel(ctx context.Context, model, backend string) error {
	q := url.Values{"model_name": {model}}
	if backend != "" {
		q.Set("backend", backend)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+switchModelPath+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("local: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("local: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parseHTTPError(resp)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("local: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("local: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parseHTTPError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("local: %w", err)
	}
	return nil
}
