package source

import (
	"context"
	"fmt"

	"phototagger/internal/asset"
	"phototagger/internal/session"
)

// GoogleDrive acquires images through the Google Drive picker flow backed
// by the auth/drive endpoints of the backend API.
type GoogleDrive struct {
	api    *apiClient
	store  *session.Store
	picker Picker
}

// NewGoogleDrive creates the Google Drive adapter. The picker callback is
// injected because the native picker UI lives outside this process.
func NewGoogleDrive(baseURL string, store *session.Store, picker Picker) (*GoogleDrive, error) {
	api, err := newAPIClient(baseURL)
	if err != nil {
		return nil, err
	}
	return &GoogleDrive{api: api, store: store, picker: picker}, nil
}

func (g *GoogleDrive) Provider() Provider { return ProviderGoogleDrive }
func (g *GoogleDrive) RequiresAuth() bool { return true }

func (g *GoogleDrive) CheckAuthenticated(ctx context.Context) (bool, error) {
	resp, err := getJSON[struct {
		Authenticated bool `json:"authenticated"`
	}](ctx, g.api, "api/auth/status")
	if err != nil {
		return false, fmt.Errorf("could not check auth status: %w", err)
	}
	return resp.Authenticated, nil
}

func (g *GoogleDrive) BeginLogin(ctx context.Context) (string, error) {
	resp, err := getJSON[struct {
		AuthorizationURL string `json:"authorization_url"`
	}](ctx, g.api, "api/auth/login")
	if err != nil {
		return "", fmt.Errorf("could not initiate login: %w", err)
	}

	// The redirect discards this process's state, so the resumption flag
	// must be durable before we hand out the URL.
	if err := g.store.SetBool(session.PendingKey(string(ProviderGoogleDrive)), true); err != nil {
		return "", fmt.Errorf("could not persist pending-picker flag: %w", err)
	}
	return resp.AuthorizationURL, nil
}

func (g *GoogleDrive) GetAccessToken(ctx context.Context) (string, error) {
	resp, err := getJSON[struct {
		AccessToken string `json:"access_token"`
	}](ctx, g.api, "api/auth/picker-token")
	if err != nil {
		return "", fmt.Errorf("could not get picker token: %w", err)
	}
	return resp.AccessToken, nil
}

// DeveloperKey fetches the picker SDK credential. Picker implementations
// need it in addition to the OAuth token.
func (g *GoogleDrive) DeveloperKey(ctx context.Context) (string, error) {
	resp, err := getJSON[struct {
		APIKey string `json:"api_key"`
	}](ctx, g.api, "api/auth/api-key")
	if err != nil {
		return "", fmt.Errorf("could not get API key: %w", err)
	}
	return resp.APIKey, nil
}

func (g *GoogleDrive) OpenPicker(ctx context.Context, credential string) ([]PickedFile, error) {
	if g.picker == nil {
		return nil, ErrPickerUnavailable
	}
	return g.picker(ctx, credential)
}

// ExpandFolders resolves folder entries through the backend, which lists
// image files recursively. Plain image entries pass through, anything else
// is dropped.
func (g *GoogleDrive) ExpandFolders(ctx context.Context, selection []PickedFile) ([]PickedFile, error) {
	var files []PickedFile
	for _, item := range selection {
		switch {
		case item.Folder:
			resp, err := getJSON[struct {
				Files []PickedFile `json:"files"`
			}](ctx, g.api, "api/drive/folder-images/"+item.ID)
			if err != nil {
				return nil, fmt.Errorf("could not list folder %s: %w", item.Name, err)
			}
			files = append(files, resp.Files...)
		case asset.IsImageMime(item.MimeType):
			files = append(files, item)
		}
	}
	return files, nil
}

func (g *GoogleDrive) DownloadAll(ctx context.Context, files []PickedFile) ([]asset.Asset, error) {
	return downloadAll(ctx, ProviderGoogleDrive, files, func(ctx context.Context, f PickedFile) ([]byte, error) {
		return g.api.getBlob(ctx, g.api.resolve("api/drive/download", f.ID))
	})
}
