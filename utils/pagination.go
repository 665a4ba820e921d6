// File: /utils/pagination.go
package utils

// SlidesPerView maps a viewport width to the number of feed items shown at
// once: 1 below 768px, 2 below 1024px, 3 from 1024px up.
func SlidesPerView(viewportWidth int) int {
	if viewportWidth < 768 {
		return 1
	}
	if viewportWidth < 1024 {
		return 2
	}
	return 3
}

// VisibleSlides clamps the requested slide count to the number of items that
// actually exist.
func VisibleSlides(requested, total int) int {
	if total < requested {
		return total
	}
	return requested
}

// LoopEnabled reports whether carousel wraparound is on. A single item has
// nothing to loop over.
func LoopEnabled(total int) bool {
	return total > 1
}
