// Package gallery implements the paginated view state for a user's
// uploaded images. It is a pure state machine over a fixed snapshot of
// URLs; any interactive front end can drive it.
package gallery

import "errors"

// ErrEmpty is returned when a session is created over zero URLs. The caller
// is expected to show a "no images" message instead of a gallery.
var ErrEmpty = errors.New("gallery requires at least one image")

// Session is the view state of one open gallery: a 0-based page cursor over
// an immutable snapshot of URLs. Uploads made after the session opened do
// not extend it. Sessions are driven by exactly one interaction and are not
// safe for concurrent use.
type Session struct {
	urls []string
	page int
}

// NewSession opens a gallery over a snapshot of URLs.
func NewSession(urls []string) (*Session, error) {
	if len(urls) == 0 {
		return nil, ErrEmpty
	}
	snapshot := make([]string, len(urls))
	copy(snapshot, urls)
	return &Session{urls: snapshot}, nil
}

// Current returns the URL at the current page.
func (s *Session) Current() string { return s.urls[s.page] }

// Page returns the current 0-based page index.
func (s *Session) Page() int { return s.page }

// Len returns the number of pages in the snapshot.
func (s *Session) Len() int { return len(s.urls) }

// Next steps forward one page, clamped at the last page.
// Reports whether the page changed.
func (s *Session) Next() bool {
	if s.page >= len(s.urls)-1 {
		return false
	}
	s.page++
	return true
}

// Prev steps backward one page, clamped at the first page.
// Reports whether the page changed.
func (s *Session) Prev() bool {
	if s.page <= 0 {
		return false
	}
	s.page--
	return true
}

// PrevEnabled reports whether the "previous" control should be enabled.
func (s *Session) PrevEnabled() bool { return s.page > 0 }

// NextEnabled reports whether the "next" control should be enabled.
func (s *Session) NextEnabled() bool { return s.page < len(s.urls)-1 }
