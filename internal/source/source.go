// Package source normalizes heterogeneous image sources (local filesystem,
// OAuth-gated cloud drives) behind one adapter contract. Each provider owns
// its authentication and session-resumption quirks; the acquisition
// orchestrator only sees the uniform six-step flow.
package source

import (
	"context"
	"errors"

	"phototagger/internal/asset"
)

// Provider identifies an asset source.
type Provider string

const (
	ProviderLocal       Provider = "local"
	ProviderGoogleDrive Provider = "gdrive"
	ProviderOneDrive    Provider = "onedrive"
)

// Taxonomy of acquisition failures. ErrAuthRequired is a control-flow
// signal (redirect to login), not a user-facing error.
var (
	ErrAuthRequired      = errors.New("authentication required")
	ErrPickerUnavailable = errors.New("picker unavailable")
	ErrPickerCancelled   = errors.New("picker cancelled")
	ErrNoImages          = errors.New("no image files found in selection")
)

// PickedFile is one entry of a picker selection, before download.
type PickedFile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MimeType  string `json:"mimeType"`
	URL       string `json:"url,omitempty"`
	SizeBytes int64  `json:"sizeBytes,omitempty"`
	Folder    bool   `json:"folder,omitempty"`
}

// Picker presents the provider's native selection UI and returns the
// user's selection. The credential parameter is whatever the provider
// needs to open its picker (an access token or a client ID). A
// cancellation is reported as ErrPickerCancelled, never as a selection.
type Picker func(ctx context.Context, credential string) ([]PickedFile, error)

// Adapter is the uniform contract every source implements.
//
// The flow is: CheckAuthenticated -> (BeginLogin, terminal for this run) or
// GetAccessToken -> OpenPicker -> ExpandFolders -> DownloadAll. Adapters
// that need no authentication report RequiresAuth() == false and the
// orchestrator goes straight to download.
type Adapter interface {
	Provider() Provider
	RequiresAuth() bool

	// CheckAuthenticated asks the auth service whether a usable session exists.
	CheckAuthenticated(ctx context.Context) (bool, error)

	// BeginLogin obtains the authorization URL and records the
	// pending-picker flag in the durable session store, since the login
	// redirect discards all in-memory state.
	BeginLogin(ctx context.Context) (authorizationURL string, err error)

	// GetAccessToken fetches the credential OpenPicker needs.
	GetAccessToken(ctx context.Context) (string, error)

	// OpenPicker invokes the provider's native picker UI.
	OpenPicker(ctx context.Context, credential string) ([]PickedFile, error)

	// ExpandFolders flattens folder entries into image-only leaves.
	// Non-image, non-folder entries are dropped silently.
	ExpandFolders(ctx context.Context, selection []PickedFile) ([]PickedFile, error)

	// DownloadAll materializes the files into assets. The batch is
	// all-or-nothing: a single failed download fails the whole call and
	// no partial results are returned. An empty image set is ErrNoImages,
	// not an empty success.
	DownloadAll(ctx context.Context, files []PickedFile) ([]asset.Asset, error)
}
