package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/subsportal/internal/dashboard"
	"github.com/jask/subsportal/internal/nav"
	"github.com/jask/subsportal/internal/session"
)

const maxResults = 8

type dashboardScreen struct {
	header dashboard.Header
	search textinput.Model
	items  []dashboard.Item
}

func newDashboardScreen(u *session.User, items []dashboard.Item) *dashboardScreen {
	return &dashboardScreen{
		header: dashboard.NewHeader(u),
		search: newInput("⌕ ", dashboard.SearchPlaceholder),
		items:  items,
	}
}

type dashboardAction int

const (
	dashboardNone dashboardAction = iota
	dashboardLogout
	dashboardQuit
)

func (s *dashboardScreen) update(msg tea.KeyMsg) (tea.Cmd, dashboardAction) {
	if s.search.Focused() {
		switch msg.String() {
		case "esc", "enter":
			s.search.Blur()
			return nil, dashboardNone
		}
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		s.header.Query = s.search.Value()
		return cmd, dashboardNone
	}
	switch msg.String() {
	case "/":
		return s.search.Focus(), dashboardNone
	case "l":
		return nil, dashboardLogout
	case "q":
		return nil, dashboardQuit
	}
	return nil, dashboardNone
}

func (s *dashboardScreen) results() []dashboard.Item {
	return dashboard.Search(s.header.Query, s.items)
}

func (s *dashboardScreen) renderHeader(width int) string {
	avatar, isURL := s.header.Avatar()
	if isURL {
		avatar = "◉"
	}
	identity := avatarStyle.Render(avatar) + " " +
		labelStyle.Render(s.header.Name()) + " " + mutedStyle.Render(s.header.Role())
	bell := "🔔"
	if badge := s.header.Badge(); badge != "" {
		bell += " " + badgeStyle.Render(badge)
	}
	right := bell + "  " + identity
	left := s.search.View()

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 2 {
		gap = 2
	}
	return headerBarStyle.Render(left + strings.Repeat(" ", gap) + right)
}

func (s *dashboardScreen) view(width int) string {
	var b strings.Builder
	b.WriteString(s.renderHeader(width))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Dashboard"))
	b.WriteString("\n\n")

	res := s.results()
	switch {
	case len(res) == 0:
		b.WriteString(mutedStyle.Render(fmt.Sprintf("No results for %q", s.header.Query)))
		b.WriteString("\n")
	default:
		if len(res) > maxResults {
			res = res[:maxResults]
		}
		for _, it := range res {
			b.WriteString(fmt.Sprintf("  %s %s\n", mutedStyle.Render(string(it.Kind)), it.Title))
		}
	}
	b.WriteString("\n")
	b.WriteString(strings.Join([]string{key("/", "Search"), key("l", "Logout"), key("q", "Quit")}, "  "))
	return b.String()
}

func renderNotFound() string {
	return titleStyle.Render("404") + "\n\n" +
		"Page not found\n\n" +
		key("enter", "Go to Dashboard") + "  " + key("q", "Quit")
}

func renderUnauthorized() string {
	return errorStyle.Render(nav.UnauthorizedMessage) + "\n\n" +
		key("l", "Logout") + "  " + key("q", "Quit")
}
