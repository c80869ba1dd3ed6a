package source

import (
	"context"
	"fmt"

	"phototagger/internal/asset"
	"phototagger/internal/session"
)

// OneDrive acquires images through the OneDrive picker flow. Unlike Google
// Drive, the OneDrive picker wants the application client ID rather than an
// OAuth token, and selected files carry direct download URLs.
type OneDrive struct {
	api    *apiClient
	store  *session.Store
	picker Picker
}

func NewOneDrive(baseURL string, store *session.Store, picker Picker) (*OneDrive, error) {
	api, err := newAPIClient(baseURL)
	if err != nil {
		return nil, err
	}
	return &OneDrive{api: api, store: store, picker: picker}, nil
}

func (o *OneDrive) Provider() Provider { return ProviderOneDrive }
func (o *OneDrive) RequiresAuth() bool { return true }

func (o *OneDrive) CheckAuthenticated(ctx context.Context) (bool, error) {
	resp, err := getJSON[struct {
		Authenticated bool `json:"authenticated"`
	}](ctx, o.api, "api/auth/onedrive/status")
	if err != nil {
		return false, fmt.Errorf("could not check OneDrive auth status: %w", err)
	}
	return resp.Authenticated, nil
}

func (o *OneDrive) BeginLogin(ctx context.Context) (string, error) {
	resp, err := getJSON[struct {
		AuthorizationURL string `json:"authorization_url"`
	}](ctx, o.api, "api/auth/onedrive/login")
	if err != nil {
		return "", fmt.Errorf("could not initiate OneDrive login: %w", err)
	}

	if err := o.store.SetBool(session.PendingKey(string(ProviderOneDrive)), true); err != nil {
		return "", fmt.Errorf("could not persist pending-picker flag: %w", err)
	}
	return resp.AuthorizationURL, nil
}

// GetAccessToken returns the client ID the OneDrive picker needs. The
// backend also exposes a picker-token endpoint, but the picker SDK itself
// authenticates with the client ID.
func (o *OneDrive) GetAccessToken(ctx context.Context) (string, error) {
	resp, err := getJSON[struct {
		ClientID string `json:"client_id"`
	}](ctx, o.api, "api/auth/onedrive/client-id")
	if err != nil {
		return "", fmt.Errorf("could not get OneDrive client ID: %w", err)
	}
	return resp.ClientID, nil
}

func (o *OneDrive) OpenPicker(ctx context.Context, credential string) ([]PickedFile, error) {
	if o.picker == nil {
		return nil, ErrPickerUnavailable
	}
	return o.picker(ctx, credential)
}

// ExpandFolders filters the selection to image files. The OneDrive picker
// does not expand folders server-side, so folder entries are dropped along
// with non-image files.
func (o *OneDrive) ExpandFolders(ctx context.Context, selection []PickedFile) ([]PickedFile, error) {
	var files []PickedFile
	for _, item := range selection {
		if item.Folder {
			continue
		}
		if item.Name == "" || !asset.IsImageName(item.Name) {
			continue
		}
		if item.MimeType == "" {
			item.MimeType = asset.MimeTypeFromName(item.Name)
		}
		files = append(files, item)
	}
	return files, nil
}

// DownloadAll prefers the direct download URL the picker returned; files
// without one go through the backend download endpoint.
func (o *OneDrive) DownloadAll(ctx context.Context, files []PickedFile) ([]asset.Asset, error) {
	return downloadAll(ctx, ProviderOneDrive, files, func(ctx context.Context, f PickedFile) ([]byte, error) {
		if f.URL != "" {
			return o.api.getBlob(ctx, f.URL)
		}
		return o.api.getBlob(ctx, o.api.resolve("api/onedrive/download", f.ID))
	})
}
