package source

import (
	"context"
	"fmt"

	"phototagger/internal/asset"
)

// fetchFunc downloads the bytes for one picked file.
type fetchFunc func(ctx context.Context, file PickedFile) ([]byte, error)

// downloadAll issues one concurrent request per file and collects the
// results. The batch is atomic: the first failure cancels the rest and the
// whole call fails, even if some downloads already completed. Results keep
// the order of the input selection.
func downloadAll(ctx context.Context, provider Provider, files []PickedFile, fetch fetchFunc) ([]asset.Asset, error) {
	if len(files) == 0 {
		return nil, ErrNoImages
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type result struct {
		index int
		data  []byte
		err   error
	}

	results := make(chan result, len(files))
	for i, f := range files {
		go func(index int, file PickedFile) {
			data, err := fetch(ctx, file)
			if err != nil {
				results <- result{index: index, err: fmt.Errorf("failed to download %s: %w", file.Name, err)}
				return
			}
			results <- result{index: index, data: data}
		}(i, f)
	}

	assets := make([]asset.Asset, len(files))
	for range files {
		r := <-results
		if r.err != nil {
			// Atomic batch: discard everything on the first failure.
			cancel()
			return nil, r.err
		}
		f := files[r.index]
		assets[r.index] = asset.Asset{
			ID:        f.ID,
			Name:      f.Name,
			MimeType:  f.MimeType,
			SizeBytes: f.SizeBytes,
			Provider:  string(provider),
			Data:      r.data,
		}
	}

	return assets, nil
}
