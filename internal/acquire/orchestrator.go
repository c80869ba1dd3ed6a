// Package acquire drives the acquisition flow for one source adapter as an
// explicit finite-state machine: auth check, login redirect, token fetch,
// picker, folder expansion, and the atomic download batch.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"phototagger/internal/asset"
	"phototagger/internal/session"
	"phototagger/internal/source"
)

// State names one node of the acquisition state machine.
type State string

const (
	StateIdle             State = "idle"
	StateCheckingAuth     State = "checking_auth"
	StateAwaitingRedirect State = "awaiting_redirect"
	StateFetchingToken    State = "fetching_token"
	StatePickerOpen       State = "picker_open"
	StateDownloading      State = "downloading"
	StateReady            State = "ready"
	StateCancelled        State = "cancelled"
	StateError            State = "error"
)

// transitions is the allowed-successor table. AwaitingRedirect and Ready
// are terminal for one process run; Error and Cancelled reset to Idle.
var transitions = map[State][]State{
	StateIdle:             {StateCheckingAuth, StateDownloading, StateError},
	StateCheckingAuth:     {StateAwaitingRedirect, StateFetchingToken, StateError},
	StateAwaitingRedirect: {},
	StateFetchingToken:    {StatePickerOpen, StateError},
	StatePickerOpen:       {StateDownloading, StateCancelled, StateError},
	StateDownloading:      {StateReady, StateError},
	StateReady:            {},
	StateCancelled:        {StateIdle},
	StateError:            {StateIdle},
}

// ErrRedirectPending is returned by Run when the user must complete a
// login in the browser. It is control flow, not a failure: the flow
// resumes in a fresh process via Resume.
var ErrRedirectPending = errors.New("login redirect pending")

// Orchestrator sequences one adapter's acquisition flow. It is meant for
// single-threaded cooperative use and is not safe for concurrent calls.
type Orchestrator struct {
	adapter source.Adapter
	store   *session.Store

	state    State
	stateErr error
	loading  bool
	assets   []asset.Asset
	authURL  string

	pendingCleared bool
	onState        func(State)
}

// New creates an orchestrator in the Idle state.
func New(adapter source.Adapter, store *session.Store) *Orchestrator {
	return &Orchestrator{
		adapter: adapter,
		store:   store,
		state:   StateIdle,
	}
}

// OnStateChange registers a callback invoked after every transition.
func (o *Orchestrator) OnStateChange(fn func(State)) { o.onState = fn }

// State returns the current state.
func (o *Orchestrator) State() State { return o.state }

// Err returns the cause recorded when the machine entered Error.
func (o *Orchestrator) Err() error { return o.stateErr }

// Loading reports whether a flow is in flight. It is guaranteed to be
// false again on every exit path, success, cancel, or error.
func (o *Orchestrator) Loading() bool { return o.loading }

// Assets returns the acquired assets once the machine reaches Ready.
func (o *Orchestrator) Assets() []asset.Asset { return o.assets }

// AuthorizationURL returns the login URL after Run hit AwaitingRedirect.
func (o *Orchestrator) AuthorizationURL() string { return o.authURL }

// Reset returns the machine to Idle from Error or Cancelled.
func (o *Orchestrator) Reset() error {
	if err := o.transition(StateIdle); err != nil {
		return err
	}
	o.stateErr = nil
	o.assets = nil
	o.authURL = ""
	return nil
}

func (o *Orchestrator) transition(to State) error {
	if !slices.Contains(transitions[o.state], to) {
		return fmt.Errorf("invalid transition %s -> %s", o.state, to)
	}
	o.state = to
	if o.onState != nil {
		o.onState(to)
	}
	return nil
}

// fail records the cause, moves to Error, and clears the loading flag so
// no caller is left stuck on an in-flight indicator.
func (o *Orchestrator) fail(err error) error {
	o.stateErr = err
	o.loading = false
	_ = o.transition(StateError)
	o.clearPendingOnce()
	return err
}

// clearPendingOnce removes the durable pending-picker flag. Guarded so
// every flow clears it at most once regardless of exit path.
func (o *Orchestrator) clearPendingOnce() {
	if o.pendingCleared {
		return
	}
	o.pendingCleared = true
	_ = o.store.Delete(session.PendingKey(string(o.adapter.Provider())))
}

// Run executes the acquisition flow from Idle. For sources that need no
// authentication it goes straight to the download batch. A return of
// ErrRedirectPending means the browser must visit AuthorizationURL and the
// flow continues in the next process via Resume. A return of
// source.ErrPickerCancelled means the user dismissed the picker; the
// machine is back at Idle and no flag is left behind.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.loading = true
	defer func() { o.loading = false }()

	if !o.adapter.RequiresAuth() {
		return o.runDownload(ctx, nil)
	}

	if err := o.transition(StateCheckingAuth); err != nil {
		return o.fail(err)
	}

	authenticated, err := o.adapter.CheckAuthenticated(ctx)
	if err != nil {
		return o.fail(fmt.Errorf("auth check failed: %w", err))
	}

	if !authenticated {
		// The adapter persists the pending flag before we hand control to
		// the browser; this process run ends here.
		url, err := o.adapter.BeginLogin(ctx)
		if err != nil {
			return o.fail(fmt.Errorf("login failed: %w", err))
		}
		o.authURL = url
		if err := o.transition(StateAwaitingRedirect); err != nil {
			return o.fail(err)
		}
		return ErrRedirectPending
	}

	if err := o.transition(StateFetchingToken); err != nil {
		return o.fail(err)
	}
	return o.continueFromToken(ctx)
}

// Resume checks the resumption protocol at process start: if the OAuth
// redirect landed with an authenticated signal and the durable pending
// flag is set, the flow auto-advances to the token fetch without a new
// user action. The pending flag is cleared exactly once, immediately,
// whether the resumed flow then succeeds, fails, or is cancelled.
// Returns false when there is nothing to resume.
func (o *Orchestrator) Resume(ctx context.Context, authenticated bool) (bool, error) {
	if !o.adapter.RequiresAuth() {
		return false, nil
	}
	if !authenticated || !o.store.GetBool(session.PendingKey(string(o.adapter.Provider()))) {
		return false, nil
	}

	o.loading = true
	defer func() { o.loading = false }()

	if err := o.transition(StateCheckingAuth); err != nil {
		return true, o.fail(err)
	}
	if err := o.transition(StateFetchingToken); err != nil {
		return true, o.fail(err)
	}
	o.clearPendingOnce()

	return true, o.continueFromToken(ctx)
}

func (o *Orchestrator) continueFromToken(ctx context.Context) error {
	token, err := o.adapter.GetAccessToken(ctx)
	if err != nil {
		return o.fail(fmt.Errorf("token fetch failed: %w", err))
	}

	if err := o.transition(StatePickerOpen); err != nil {
		return o.fail(err)
	}

	selection, err := o.adapter.OpenPicker(ctx, token)
	if errors.Is(err, source.ErrPickerCancelled) {
		return o.cancel()
	}
	if err != nil {
		return o.fail(fmt.Errorf("picker failed: %w", err))
	}

	return o.runDownload(ctx, selection)
}

// runDownload expands folders and materializes the batch. A nil selection
// lets the adapter expand its own configured set (local source).
func (o *Orchestrator) runDownload(ctx context.Context, selection []source.PickedFile) error {
	if err := o.transition(StateDownloading); err != nil {
		return o.fail(err)
	}

	files, err := o.adapter.ExpandFolders(ctx, selection)
	if err != nil {
		return o.fail(fmt.Errorf("folder expansion failed: %w", err))
	}
	if len(files) == 0 {
		return o.fail(source.ErrNoImages)
	}

	assets, err := o.adapter.DownloadAll(ctx, files)
	if err != nil {
		return o.fail(fmt.Errorf("download failed: %w", err))
	}

	o.assets = assets
	if err := o.transition(StateReady); err != nil {
		return o.fail(err)
	}
	o.clearPendingOnce()
	return nil
}

// cancel handles a picker dismissal: Cancelled, flag cleared, back to Idle.
func (o *Orchestrator) cancel() error {
	o.loading = false
	if err := o.transition(StateCancelled); err != nil {
		return o.fail(err)
	}
	o.clearPendingOnce()
	if err := o.transition(StateIdle); err != nil {
		return o.fail(err)
	}
	return source.ErrPickerCancelled
}
