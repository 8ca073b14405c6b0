// Package dashboard holds the presentation logic of the dashboard header:
// identity fallbacks, avatar initials, the notification badge and search.
package dashboard

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jask/subsportal/internal/session"
)

const (
	SearchPlaceholder = "Search jobs, builders..."

	fallbackName     = "User"
	fallbackRole     = "Subcontractor"
	fallbackInitials = "U"
)

// DefaultNotifications is the badge count shown until a feed exists.
const DefaultNotifications = 3

// Initials returns the uppercased first letters of the first two words of
// name, or "U" when name has no words.
func Initials(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return fallbackInitials
	}
	if len(words) > 2 {
		words = words[:2]
	}
	var b strings.Builder
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// DisplayName is the header name for u.
func DisplayName(u *session.User) string {
	if u == nil || u.Name == "" {
		return fallbackName
	}
	return u.Name
}

// DisplayRole is the header role label for u.
func DisplayRole(u *session.User) string {
	if u == nil || u.Role == "" {
		return fallbackRole
	}
	return string(u.Role)
}

// Header is the state behind the dashboard header.
type Header struct {
	User          *session.User
	Query         string
	Notifications int
}

// NewHeader builds a header for u with the default badge.
func NewHeader(u *session.User) Header {
	return Header{User: u, Notifications: DefaultNotifications}
}

// Name is DisplayName of the header's user.
func (h Header) Name() string { return DisplayName(h.User) }

// Role is DisplayRole of the header's user.
func (h Header) Role() string { return DisplayRole(h.User) }

// Avatar returns the avatar URL when set, otherwise the user's initials.
// hasImage tells which one was returned.
func (h Header) Avatar() (value string, hasImage bool) {
	if h.User != nil && h.User.AvatarURL != "" {
		return h.User.AvatarURL, true
	}
	var name string
	if h.User != nil {
		name = h.User.Name
	}
	return Initials(name), false
}

// Badge is the notification count label. Zero hides the badge; counts above
// 99 collapse.
func (h Header) Badge() string {
	switch {
	case h.Notifications <= 0:
		return ""
	case h.Notifications > 99:
		return "99+"
	default:
		return strconv.Itoa(h.Notifications)
	}
}
