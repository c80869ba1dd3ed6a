// Package correlate matches streamed analysis results back to the curated
// image list by position and original filename.
package correlate

import (
	"fmt"
	"sort"
	"strings"

	"phototagger/internal/process"
)

const defaultDescription = "No description available"

// Record is the final metadata for one curated image.
type Record struct {
	Index        int      `json:"index"`
	OriginalName string   `json:"original_name"`
	Name         string   `json:"name"`
	Tags         []string `json:"tags"`
	Description  string   `json:"description"`
}

// Resolve finds the result for one image. The primary key is
// "{index}_{originalName}"; if the server keyed the result differently the
// fallback scans for any key equal to or ending with the original name.
// Keys are scanned in sorted order so the fallback is deterministic. With
// no match at all the record keeps the original name, no tags, and a
// placeholder description.
func Resolve(index int, originalName string, results map[string]process.Result) Record {
	rec := Record{
		Index:        index,
		OriginalName: originalName,
		Name:         originalName,
		Tags:         []string{},
		Description:  defaultDescription,
	}

	key := keyFor(index, originalName)
	if r, ok := results[key]; ok {
		return fill(rec, r)
	}

	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == originalName || strings.HasSuffix(k, originalName) {
			return fill(rec, results[k])
		}
	}
	return rec
}

// ResolveAll resolves every curated image in order.
func ResolveAll(names []string, results map[string]process.Result) []Record {
	records := make([]Record, len(names))
	for i, name := range names {
		records[i] = Resolve(i, name, results)
	}
	return records
}

func keyFor(index int, originalName string) string {
	return fmt.Sprintf("%d_%s", index, originalName)
}

func fill(rec Record, r process.Result) Record {
	if r.Name != "" {
		rec.Name = r.Name
	}
	if r.Tags != nil {
		rec.Tags = r.Tags
	}
	if r.Description != "" {
		rec.Description = r.Description
	}
	return rec
}
