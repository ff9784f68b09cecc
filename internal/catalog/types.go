// Package catalog defines the core types shared across the fetch,
// translation, and orchestration subsystems.
package catalog

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ProductID is the site-assigned numeric identifier of one product.
type ProductID string

// Valid reports whether the identifier is non-empty and digits only.
func (id ProductID) Valid() bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (id ProductID) String() string {
	return string(id)
}

// PageURL returns the canonical product page URL on the given origin.
func (id ProductID) PageURL(origin string) string {
	return fmt.Sprintf("%s/item/%s.html", strings.TrimSuffix(origin, "/"), id)
}

// Product is the unit of work: one identifier plus its output directory.
// The directory is created on first touch with exist-ok semantics.
type Product struct {
	ID     ProductID
	OutDir string
}

// SourcePath returns the path of the source-language description file.
func (p Product) SourcePath(lang string) string {
	return filepath.Join(p.OutDir, fmt.Sprintf("%s.%s.txt", p.ID, lang))
}

// SlidePath returns the destination path for one slide image.
func (p Product) SlidePath(slide int) string {
	return filepath.Join(p.OutDir, fmt.Sprintf("%d.jpg", slide))
}

// SlideStatus is the terminal state of one slide's download attempt.
type SlideStatus string

// Slide terminal states.
const (
	SlideDownloaded    SlideStatus = "downloaded"
	SlideNotFound      SlideStatus = "not_found"
	SlideFailed        SlideStatus = "failed"
	SlideSkippedExists SlideStatus = "skipped_existing"
)

// ImageSlide is one numbered image position on a product page.
type ImageSlide struct {
	Index  int
	URL    string
	Path   string
	Status SlideStatus
}

// DedupeIDs drops duplicate and malformed identifiers while preserving
// first-seen order.
func DedupeIDs(ids []ProductID) []ProductID {
	seen := make(map[ProductID]struct{}, len(ids))
	out := make([]ProductID, 0, len(ids))
	for _, id := range ids {
		if !id.Valid() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
