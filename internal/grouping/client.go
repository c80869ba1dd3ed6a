// Package grouping calls the remote near-duplicate grouping service.
package grouping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"phototagger/internal/asset"
)

// ServiceError is returned when the grouping service responds with a
// non-success status. The pipeline must abort without touching any
// selection state.
type ServiceError struct {
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("grouping service failed with status %d: %s", e.StatusCode, e.Body)
}

// Client submits acquired assets to the grouping endpoint.
type Client struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  http.DefaultClient,
	}
}

// ComputeGroups uploads all assets in one multipart request and returns
// the ordered duplicate groups of filenames. Assets must already be
// materialized; the call sends their bytes. Files absent from every group
// are unique and simply not mentioned.
func (c *Client) ComputeGroups(ctx context.Context, assets []asset.Asset) ([][]string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for _, a := range assets {
		part, err := writer.CreateFormFile("images", a.Name)
		if err != nil {
			return nil, fmt.Errorf("could not create form file for %s: %w", a.Name, err)
		}
		if _, err := part.Write(a.Data); err != nil {
			return nil, fmt.Errorf("could not write form file for %s: %w", a.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("could not finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/compute/phash-group", &body)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send grouping request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, &ServiceError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	var result struct {
		Groups [][]string `json:"groups"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("could not decode grouping response: %w", err)
	}
	return result.Groups, nil
}
