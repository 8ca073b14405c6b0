package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/subsportal/internal/auth"
)

const inputWidth = 40

func newInput(prompt, placeholder string) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.Width = inputWidth
	in.Cursor.SetMode(cursor.CursorStatic)
	return in
}

// loginScreen holds the two credential inputs.
type loginScreen struct {
	email      textinput.Model
	password   textinput.Model
	focus      int
	showPass   bool
	submitting bool
	banner     string
}

func newLoginScreen() *loginScreen {
	s := &loginScreen{
		email:    newInput("Email:    ", "you@company.com"),
		password: newInput("Password: ", "••••••"),
	}
	s.password.EchoMode = textinput.EchoPassword
	s.email.Focus()
	return s
}

type loginAction int

const (
	loginNone loginAction = iota
	loginSubmit
	loginGoSignup
)

func (s *loginScreen) setFocus(i int) {
	s.focus = i
	if i == 0 {
		s.password.Blur()
		s.email.Focus()
		return
	}
	s.email.Blur()
	s.password.Focus()
}

func (s *loginScreen) toggleShowPassword() {
	s.showPass = !s.showPass
	if s.showPass {
		s.password.EchoMode = textinput.EchoNormal
	} else {
		s.password.EchoMode = textinput.EchoPassword
	}
}

func (s *loginScreen) update(msg tea.KeyMsg) (tea.Cmd, loginAction) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		s.setFocus(1 - s.focus)
		return nil, loginNone
	case "ctrl+r":
		s.toggleShowPassword()
		return nil, loginNone
	case "ctrl+n":
		return nil, loginGoSignup
	case "enter":
		if s.focus == 0 {
			s.setFocus(1)
			return nil, loginNone
		}
		if s.submitting {
			return nil, loginNone
		}
		return nil, loginSubmit
	}
	var cmd tea.Cmd
	if s.focus == 0 {
		s.email, cmd = s.email.Update(msg)
	} else {
		s.password, cmd = s.password.Update(msg)
	}
	// typing dismisses a stale error
	if msg.Type == tea.KeyRunes || msg.Type == tea.KeyBackspace {
		s.banner = ""
	}
	return cmd, loginNone
}

func (s *loginScreen) finish(err error) {
	s.submitting = false
	s.banner = auth.Message(err)
}

func (s *loginScreen) view(devHints bool) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Login"))
	b.WriteString("\n\n")
	if s.banner != "" {
		b.WriteString(bannerStyle.Render(s.banner))
		b.WriteString("\n\n")
	}
	b.WriteString(s.email.View())
	b.WriteString("\n")
	b.WriteString(s.password.View())
	b.WriteString("\n\n")
	if s.submitting {
		b.WriteString(mutedStyle.Render("Signing in..."))
	} else {
		b.WriteString(key("enter", "Login"))
	}
	show := "Show password"
	if s.showPass {
		show = "Hide password"
	}
	b.WriteString("  " + key("ctrl+r", show))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Don't have an account? ") + key("ctrl+n", "Sign up"))
	if devHints {
		b.WriteString("\n\n")
		b.WriteString(hintStyle.Render("Demo login: " + auth.StaticEmail + " / " + auth.StaticPassword))
	}
	return b.String()
}
