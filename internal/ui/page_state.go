package ui

import "time"

// PageState is embedded by full-screen pages: the current layout, one status
// line that may expire, and whether the page is shutting down.
type PageState struct {
	Layout   Layout
	Quitting bool

	status  string
	expires time.Time // zero: shown until replaced
	now     func() time.Time
}

// NewPageState starts a page at layout with an empty status line
func NewPageState(layout Layout) PageState {
	return PageState{Layout: layout, now: time.Now}
}

// SetStatus shows msg for ttl, or until replaced when ttl is 0
func (p *PageState) SetStatus(msg string, ttl time.Duration) {
	p.status = msg
	p.expires = time.Time{}
	if ttl > 0 {
		p.expires = p.clock().Add(ttl)
	}
}

// Status returns the status line, empty once it has expired
func (p *PageState) Status() string {
	if !p.expires.IsZero() && !p.clock().Before(p.expires) {
		return ""
	}
	return p.status
}

// Resize recomputes the layout for a terminal of width x height and reports
// whether anything changed
func (p *PageState) Resize(width, height int) bool {
	next := NewLayout(width, height)
	if next == p.Layout {
		return false
	}
	p.Layout = next
	return true
}

func (p *PageState) clock() time.Time {
	if p.now == nil {
		return time.Now()
	}
	return p.now()
}
