// Package curation holds the per-group, per-item removal marks the user
// edits between duplicate grouping and processing.
package curation

import (
	"fmt"

	"phototagger/internal/asset"
)

// Selection is the removal matrix over duplicate groups. Each cell mirrors
// one filename in one group; true means "marked for removal". The matrix
// always has exactly the shape of the groups it was created from.
type Selection struct {
	groups [][]string
	marked [][]bool
}

// NewSelection creates the selection with the default policy applied:
// within each group every item except the last is marked for removal. This
// is a heuristic starting point, the user may toggle any cell.
func NewSelection(groups [][]string) *Selection {
	marked := make([][]bool, len(groups))
	for g, group := range groups {
		marked[g] = make([]bool, len(group))
		for i := range group {
			marked[g][i] = i != len(group)-1
		}
	}
	return &Selection{groups: groups, marked: marked}
}

// Groups returns the duplicate groups backing this selection.
func (s *Selection) Groups() [][]string { return s.groups }

// Marked reports whether one cell is marked for removal.
func (s *Selection) Marked(group, item int) (bool, error) {
	if err := s.check(group, item); err != nil {
		return false, err
	}
	return s.marked[group][item], nil
}

// Toggle flips exactly one cell; no other cell changes.
func (s *Selection) Toggle(group, item int) error {
	if err := s.check(group, item); err != nil {
		return err
	}
	s.marked[group][item] = !s.marked[group][item]
	return nil
}

func (s *Selection) check(group, item int) error {
	if group < 0 || group >= len(s.groups) {
		return fmt.Errorf("group index %d out of range", group)
	}
	if item < 0 || item >= len(s.groups[group]) {
		return fmt.Errorf("item index %d out of range in group %d", item, group)
	}
	return nil
}

// RemovedNames returns the set of filenames currently marked for removal.
func (s *Selection) RemovedNames() map[string]struct{} {
	removed := make(map[string]struct{})
	for g, group := range s.groups {
		for i, name := range group {
			if s.marked[g][i] {
				removed[name] = struct{}{}
			}
		}
	}
	return removed
}

// Confirm computes the kept set: every asset whose filename is not marked
// for removal. Files in no group are unique and always kept. Removal is
// keyed by filename, which assumes filenames are unique across the
// acquisition session.
func (s *Selection) Confirm(all []asset.Asset) []asset.Asset {
	removed := s.RemovedNames()
	kept := make([]asset.Asset, 0, len(all))
	for _, a := range all {
		if _, ok := removed[a.Name]; ok {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}
