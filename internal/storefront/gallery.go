// Package storefront holds the product page widgets: image carousels,
// product routing and the WhatsApp contact hand-off.
package storefront

import (
	"errors"
	"math"
)

// MinSwipeDistance is the smallest horizontal touch travel treated as a swipe.
const MinSwipeDistance = 50

var ErrEmptyGallery = errors.New("storefront: gallery has no images")

// Gallery is one product card's carousel position.
type Gallery struct {
	Total   int `json:"total"`
	Current int `json:"current"`
}

// NewGallery creates a carousel at the first image.
func NewGallery(total int) (*Gallery, error) {
	if total <= 0 {
		return nil, ErrEmptyGallery
	}
	return &Gallery{Total: total}, nil
}

// Next moves forward, wrapping from the last image to the first.
func (g *Gallery) Next() int {
	if g.Total <= 0 {
		return g.Current
	}
	return g.GoTo((g.Current + 1) % g.Total)
}

// Previous moves back, wrapping from the first image to the last.
func (g *Gallery) Previous() int {
	if g.Total <= 0 {
		return g.Current
	}
	return g.GoTo((g.Current - 1 + g.Total) % g.Total)
}

// GoTo jumps to index; out-of-range indexes are ignored.
func (g *Gallery) GoTo(index int) int {
	if index < 0 || index >= g.Total {
		return g.Current
	}
	g.Current = index
	return g.Current
}

// Swipe handles a touch gesture of delta pixels (end - start). Right swipes
// go back, left swipes go forward.
func (g *Gallery) Swipe(delta float64) int {
	if math.Abs(delta) < MinSwipeDistance {
		return g.Current
	}
	if delta > 0 {
		return g.Previous()
	}
	return g.Next()
}

// Key applies keyboard navigation and reports whether the key was handled.
func (g *Gallery) Key(key string) (int, bool) {
	switch key {
	case "ArrowLeft":
		return g.Previous(), true
	case "ArrowRight":
		return g.Next(), true
	case "Home":
		return g.GoTo(0), true
	case "End":
		return g.GoTo(g.Total - 1), true
	}
	return g.Current, false
}

// SyncScroll updates the index after a manual scroll of the image strip.
func (g *Gallery) SyncScroll(scrollLeft, imageWidth float64) int {
	if imageWidth <= 0 {
		return g.Current
	}
	return g.GoTo(int(math.Round(scrollLeft / imageWidth)))
}

// ScrollOffset is the horizontal position that shows the current image.
func (g *Gallery) ScrollOffset(imageWidth float64) float64 {
	return float64(g.Current) * imageWidth
}

// Apply runs a named navigation action.
func (g *Gallery) Apply(action string) (int, bool) {
	switch action {
	case "next":
		return g.Next(), true
	case "prev", "previous":
		return g.Previous(), true
	case "first":
		return g.GoTo(0), true
	case "last":
		return g.GoTo(g.Total - 1), true
	}
	return g.Current, false
}
