package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"phototagger/internal/ai"
	"phototagger/internal/constants"
	"phototagger/internal/process"
)

// ProcessHandler runs image analysis over an upload batch and streams the
// lifecycle back as server-sent events.
type ProcessHandler struct {
	provider ai.Provider
	workers  int
}

// NewProcessHandler creates a new processing handler.
func NewProcessHandler(provider ai.Provider) *ProcessHandler {
	return &ProcessHandler{
		provider: provider,
		workers:  constants.AnalysisWorkers,
	}
}

type uploadedFile struct {
	index int
	name  string
	data  []byte
}

// Upload accepts multipart files and responds with a text/event-stream of
// uploading, processing, result, and complete records. Results are emitted
// in completion order, so their indexes may arrive out of order.
func (h *ProcessHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		respondError(w, http.StatusBadRequest, "no files provided")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	jobID := uuid.NewString()
	total := len(headers)
	log.Printf("processing job %s: %d files", jobID, total)

	files := make([]uploadedFile, 0, total)
	for i, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			sendEvent(w, flusher, process.Event{
				Status:  process.StatusError,
				Message: fmt.Sprintf("failed to open %s", fh.Filename),
			})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			sendEvent(w, flusher, process.Event{
				Status:  process.StatusError,
				Message: fmt.Sprintf("failed to read %s", fh.Filename),
			})
			return
		}
		files = append(files, uploadedFile{index: i, name: fh.Filename, data: data})

		sendEvent(w, flusher, process.Event{
			Status:   process.StatusUploading,
			Message:  fmt.Sprintf("Uploading %s", fh.Filename),
			Progress: i + 1,
			Total:    total,
		})
	}

	sendEvent(w, flusher, process.Event{
		Status:  process.StatusProcessing,
		Message: "Analyzing images",
	})

	h.provider.ResetUsage()
	for ev := range h.analyze(r.Context(), files) {
		sendEvent(w, flusher, ev)
	}
	h.logUsage(jobID)

	sendEvent(w, flusher, process.Event{
		Status:  process.StatusComplete,
		Message: "Processing complete",
	})
}

// logUsage reports the tokens and cost one upload job consumed.
func (h *ProcessHandler) logUsage(jobID string) {
	usage := h.provider.GetUsage()
	if usage.InputTokens == 0 && usage.OutputTokens == 0 {
		return
	}
	log.Printf("job %s usage: %d input tokens, %d output tokens, cost $%.4f",
		jobID, usage.InputTokens, usage.OutputTokens, usage.TotalCost)
}

// analyze fans the files out over a worker pool and returns a channel of
// result events in completion order. Per-image failures are logged and
// produce no result record; the client falls back to a placeholder.
func (h *ProcessHandler) analyze(ctx context.Context, files []uploadedFile) <-chan process.Event {
	jobs := make(chan uploadedFile)
	events := make(chan process.Event, constants.EventChannelBuffer)

	var wg sync.WaitGroup
	for range h.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := range jobs {
				analysis, err := h.provider.AnalyzeImage(ctx, f.name, f.data)
				if err != nil {
					log.Printf("analysis failed for %s: %v", sanitizeForLog(f.name), err)
					continue
				}
				events <- process.Event{
					Status:       process.StatusResult,
					Message:      fmt.Sprintf("Processed %s", f.name),
					Index:        f.index,
					OriginalName: f.name,
					Result: &process.Result{
						Name:        analysis.Name,
						Tags:        analysis.Tags,
						Description: analysis.Description,
					},
				}
			}
		}()
	}

	go func() {
		for _, f := range files {
			select {
			case jobs <- f:
			case <-ctx.Done():
				close(jobs)
				wg.Wait()
				close(events)
				return
			}
		}
		close(jobs)
		wg.Wait()
		close(events)
	}()

	return events
}

// sendEvent writes one SSE data record and flushes it to the client.
func sendEvent(w http.ResponseWriter, flusher http.Flusher, ev process.Event) {
	jsonData, err := json.Marshal(ev)
	if err != nil {
		log.Printf("failed to marshal stream event: %v", err)
		return
	}
	_, _ = io.WriteString(w, "data: ")
	_, _ = io.Copy(w, bytes.NewReader(jsonData))
	_, _ = io.WriteString(w, "\n\n")
	flusher.Flush()
}
