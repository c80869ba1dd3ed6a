// Package pipeline wires the full client flow: acquisition, duplicate
// grouping, curation, streamed processing, correlation, and review.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"phototagger/internal/acquire"
	"phototagger/internal/asset"
	"phototagger/internal/correlate"
	"phototagger/internal/curation"
	"phototagger/internal/grouping"
	"phototagger/internal/process"
	"phototagger/internal/review"
	"phototagger/internal/session"
	"phototagger/internal/source"
)

// ErrAlreadyRunning is returned when Run is called while a previous run is
// still in flight.
var ErrAlreadyRunning = errors.New("pipeline already running")

// defaultGraceDelay is the pause between the end of processing and the
// start of review, giving the caller a beat to render the final progress.
const defaultGraceDelay = 800 * time.Millisecond

// Options configures one pipeline instance.
type Options struct {
	Adapter source.Adapter
	Store   *session.Store
	BaseURL string

	// Curate lets the caller edit the duplicate selection before it is
	// confirmed. Nil accepts the default mark-all-but-last selection.
	Curate func(*curation.Selection) error

	// OnProgress receives the 0-100 processing progress.
	OnProgress func(percent int, message string)
	// OnState receives acquisition state transitions.
	OnState func(acquire.State)

	// GraceDelay overrides the pre-review pause; zero means the default.
	GraceDelay time.Duration
}

// Pipeline runs the whole client flow once. At most one run may be in
// flight at a time.
type Pipeline struct {
	opts Options

	orch     *acquire.Orchestrator
	grouper  *grouping.Client
	streamer *process.Client

	mu      sync.Mutex
	running bool
}

func New(opts Options) *Pipeline {
	if opts.GraceDelay == 0 {
		opts.GraceDelay = defaultGraceDelay
	}
	orch := acquire.New(opts.Adapter, opts.Store)
	if opts.OnState != nil {
		orch.OnStateChange(opts.OnState)
	}
	return &Pipeline{
		opts:     opts,
		orch:     orch,
		grouper:  grouping.New(opts.BaseURL),
		streamer: process.New(opts.BaseURL),
	}
}

// AuthorizationURL returns the login URL when Run ended with
// acquire.ErrRedirectPending.
func (p *Pipeline) AuthorizationURL() string { return p.orch.AuthorizationURL() }

// Run executes the flow end to end and returns the review session over the
// final records. When the source needs a browser login it returns
// acquire.ErrRedirectPending; the caller opens AuthorizationURL and starts
// a fresh process with authenticated=true to resume.
func (p *Pipeline) Run(ctx context.Context, authenticated bool) (*review.Session, error) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	p.running = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	// The last-selected source survives a login redirect, but must not
	// outlive the flow itself: it is cleared again when the run reaches
	// review or the user cancels the picker.
	if err := p.opts.Store.Set(session.KeyLastSource, string(p.opts.Adapter.Provider())); err != nil {
		return nil, fmt.Errorf("could not persist last source: %w", err)
	}

	if err := p.acquireAssets(ctx, authenticated); err != nil {
		if errors.Is(err, source.ErrPickerCancelled) {
			if clearErr := p.opts.Store.Delete(session.KeyLastSource); clearErr != nil {
				return nil, fmt.Errorf("could not clear last source: %w", clearErr)
			}
		}
		return nil, err
	}

	assets := p.orch.Assets()
	kept, err := p.curate(ctx, assets)
	if err != nil {
		return nil, err
	}

	results, err := p.streamer.Run(ctx, kept, process.Callbacks{
		OnProgress: p.opts.OnProgress,
	})
	if err != nil {
		return nil, err
	}

	time.Sleep(p.opts.GraceDelay)

	if err := p.opts.Store.Delete(session.KeyLastSource); err != nil {
		return nil, fmt.Errorf("could not clear last source: %w", err)
	}

	records := correlate.ResolveAll(asset.Names(kept), results)
	return review.NewSession(records), nil
}

func (p *Pipeline) acquireAssets(ctx context.Context, authenticated bool) error {
	resumed, err := p.orch.Resume(ctx, authenticated)
	if err != nil {
		return err
	}
	if resumed {
		return nil
	}
	return p.orch.Run(ctx)
}

// curate groups the acquired assets, applies the default selection, hands
// it to the caller for edits, and confirms the kept set.
func (p *Pipeline) curate(ctx context.Context, assets []asset.Asset) ([]asset.Asset, error) {
	groups, err := p.grouper.ComputeGroups(ctx, assets)
	if err != nil {
		return nil, err
	}

	sel := curation.NewSelection(groups)
	if p.opts.Curate != nil {
		if err := p.opts.Curate(sel); err != nil {
			return nil, fmt.Errorf("curation aborted: %w", err)
		}
	}

	kept := sel.Confirm(assets)
	if len(kept) == 0 {
		return nil, errors.New("curation removed every image")
	}
	return kept, nil
}
