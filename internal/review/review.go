// Package review layers user edits over resolved metadata records without
// mutating the originals, so the generated values stay recoverable until
// the final export.
package review

import (
	"fmt"
	"slices"

	"phototagger/internal/correlate"
)

// overlay holds the edits for one record. Nil pointer means "not edited",
// so an empty string set by the user is distinguishable from no edit.
type overlay struct {
	name        *string
	description *string
	tags        []string
	tagsSet     bool
}

// Session wraps a resolved record list with an edit overlay per index.
type Session struct {
	base     []correlate.Record
	overlays map[int]*overlay
}

func NewSession(records []correlate.Record) *Session {
	return &Session{
		base:     records,
		overlays: make(map[int]*overlay),
	}
}

// Len returns the number of records under review.
func (s *Session) Len() int { return len(s.base) }

// Effective returns the record at index with edits applied.
func (s *Session) Effective(index int) (correlate.Record, error) {
	if index < 0 || index >= len(s.base) {
		return correlate.Record{}, fmt.Errorf("record index %d out of range", index)
	}
	rec := s.base[index]
	ov, ok := s.overlays[index]
	if !ok {
		return rec, nil
	}
	if ov.name != nil {
		rec.Name = *ov.name
	}
	if ov.description != nil {
		rec.Description = *ov.description
	}
	if ov.tagsSet {
		rec.Tags = slices.Clone(ov.tags)
	}
	return rec, nil
}

func (s *Session) edit(index int) (*overlay, error) {
	if index < 0 || index >= len(s.base) {
		return nil, fmt.Errorf("record index %d out of range", index)
	}
	ov, ok := s.overlays[index]
	if !ok {
		ov = &overlay{}
		s.overlays[index] = ov
	}
	return ov, nil
}

// SetName overrides the generated filename for one record.
func (s *Session) SetName(index int, name string) error {
	ov, err := s.edit(index)
	if err != nil {
		return err
	}
	ov.name = &name
	return nil
}

// SetDescription overrides the generated description for one record.
func (s *Session) SetDescription(index int, description string) error {
	ov, err := s.edit(index)
	if err != nil {
		return err
	}
	ov.description = &description
	return nil
}

// AddTag appends a tag to the record's effective tag list. Duplicates are
// ignored.
func (s *Session) AddTag(index int, tag string) error {
	return s.updateTags(index, func(tags []string) []string {
		if slices.Contains(tags, tag) {
			return tags
		}
		return append(tags, tag)
	})
}

// RemoveTag removes every occurrence of a tag from the effective list.
func (s *Session) RemoveTag(index int, tag string) error {
	return s.updateTags(index, func(tags []string) []string {
		return slices.DeleteFunc(tags, func(t string) bool { return t == tag })
	})
}

// RenameTag replaces a tag in place, keeping its position.
func (s *Session) RenameTag(index int, from, to string) error {
	return s.updateTags(index, func(tags []string) []string {
		for i, t := range tags {
			if t == from {
				tags[i] = to
			}
		}
		return tags
	})
}

// updateTags applies fn to the current effective tag list and commits the
// whole list back as an overlay.
func (s *Session) updateTags(index int, fn func([]string) []string) error {
	rec, err := s.Effective(index)
	if err != nil {
		return err
	}
	ov, err := s.edit(index)
	if err != nil {
		return err
	}
	ov.tags = fn(slices.Clone(rec.Tags))
	ov.tagsSet = true
	return nil
}

// Records returns the full effective record list, the final artifact of
// the pipeline.
func (s *Session) Records() []correlate.Record {
	out := make([]correlate.Record, len(s.base))
	for i := range s.base {
		rec, _ := s.Effective(i)
		out[i] = rec
	}
	return out
}
