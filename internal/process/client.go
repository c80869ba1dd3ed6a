// Package process uploads curated images to the processing endpoint and
// consumes its server-sent event stream, translating stream phases into a
// single monotonic progress value and collecting per-image results.
package process

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"

	"phototagger/internal/asset"
)

// ErrAlreadyRunning is returned when a run is requested while a previous
// one is still streaming.
var ErrAlreadyRunning = errors.New("processing already running")

// TerminalError is a failure reported by the server through the stream
// itself, as opposed to a transport failure.
type TerminalError struct {
	Message string
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("processing failed: %s", e.Message)
}

// Callbacks receives progress and per-image results as the stream arrives.
// Either field may be nil.
type Callbacks struct {
	OnProgress func(percent int, message string)
	OnResult   func(ev Event)
}

// Client runs the upload-and-stream processing call. At most one run may
// be in flight per client.
type Client struct {
	baseURL string
	client  *http.Client

	mu      sync.Mutex
	running bool
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  http.DefaultClient,
	}
}

// Run uploads all assets in one multipart request and consumes the event
// stream until the complete record. It returns the result map keyed by
// "{index}_{originalName}". The stream ending without a complete record is
// an error: partial results are not trusted.
func (c *Client) Run(ctx context.Context, assets []asset.Asset, cb Callbacks) (map[string]Result, error) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	c.running = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	resp, err := c.upload(ctx, assets)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("processing service failed with status %d: %s", resp.StatusCode, string(b))
	}

	return c.consume(resp.Body, len(assets), cb)
}

func (c *Client) upload(ctx context.Context, assets []asset.Asset) (*http.Response, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, a := range assets {
		part, err := writer.CreateFormFile("files", a.Name)
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

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send processing request: %w", err)
	}
	return resp, nil
}

// consume reads the stream line by line. Each data record is decoded on
// its own; a malformed record is logged and skipped rather than aborting
// the run. Progress only ever moves forward.
func (c *Client) consume(body io.Reader, total int, cb Callbacks) (map[string]Result, error) {
	results := make(map[string]Result)
	progress := 0
	received := 0
	completed := false

	report := func(percent int, message string) {
		if percent < progress {
			percent = progress
		}
		progress = percent
		if cb.OnProgress != nil {
			cb.OnProgress(percent, message)
		}
	}

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), 2*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}

		var ev Event
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			log.Printf("skipping malformed stream record: %v", err)
			continue
		}

		switch ev.Status {
		case StatusUploading:
			if ev.Total > 0 {
				report(30*ev.Progress/ev.Total, ev.Message)
			}
		case StatusProcessing:
			report(40, ev.Message)
		case StatusResult:
			if ev.Result != nil {
				results[fmt.Sprintf("%d_%s", ev.Index, ev.OriginalName)] = *ev.Result
				if cb.OnResult != nil {
					cb.OnResult(ev)
				}
			}
			// Results may arrive out of order; progress tracks how many
			// have landed, not which.
			received++
			if total > 0 {
				report(40+50*received/total, ev.Message)
			}
		case StatusComplete:
			report(100, ev.Message)
			completed = true
		case StatusError:
			return nil, &TerminalError{Message: ev.Message}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read processing stream: %w", err)
	}
	if !completed {
		return nil, errors.New("processing stream ended before completion")
	}
	return results, nil
}
