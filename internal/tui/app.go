// Package tui is the terminal front end: login, the signup wizard and the
// role-gated dashboard, driven by a bubbletea update loop.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jask/subsportal/internal/auth"
	"github.com/jask/subsportal/internal/dashboard"
	"github.com/jask/subsportal/internal/nav"
	"github.com/jask/subsportal/internal/session"
	"github.com/jask/subsportal/internal/signup"
)

// Deps are the collaborators the UI drives.
type Deps struct {
	Sessions      session.Repository
	Authenticator auth.Authenticator
	Gateway       signup.Gateway
	// Items are searchable from the dashboard header. Nil means
	// dashboard.DefaultItems.
	Items    []dashboard.Item
	DevHints bool
	Log      *zap.Logger
}

// App ties together the screens.
type App struct {
	ctx      context.Context
	sessions session.Repository
	history  *nav.History
	box      *noticeBox
	auth     *auth.Service
	signup   *signup.Service
	items    []dashboard.Item
	devHints bool
	log      *zap.Logger

	route   nav.Route
	view    nav.View
	notices []signup.Notice
	status  string
	width   int
	height  int

	login     *loginScreen
	signupScr *signupScreen
	dash      *dashboardScreen
}

// New builds the program model starting at initial.
func New(ctx context.Context, initial nav.Route, deps Deps) *App {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	items := deps.Items
	if items == nil {
		items = dashboard.DefaultItems
	}
	history := nav.NewHistory(nav.Clean(initial))
	box := &noticeBox{}
	a := &App{
		ctx:      ctx,
		sessions: deps.Sessions,
		history:  history,
		box:      box,
		auth:     auth.NewService(deps.Authenticator, deps.Sessions, history, log),
		signup:   signup.NewService(deps.Gateway, box, history, log),
		items:    items,
		devHints: deps.DevHints,
		log:      log,
		route:    "",
		view:     -1,
	}
	a.sync()
	return a
}

// Route is the route currently rendered.
func (a *App) Route() nav.Route { return a.route }

// History exposes every route visited.
func (a *App) History() *nav.History { return a.history }

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if len(a.notices) > 0 {
			switch m.String() {
			case "enter", "esc", " ":
				a.notices = a.notices[1:]
			}
			return a, nil
		}
		cmd = a.handleKey(m)
	case loginDoneMsg:
		if m.err == nil {
			a.log.Debug("signed in", zap.String("name", m.user.Name))
		}
		if a.login != nil {
			a.login.finish(m.err)
		}
	case signupDoneMsg:
		a.log.Debug("signup finished", zap.Bool("ok", m.result.OK))
		if a.signupScr != nil {
			a.signupScr.finish()
		}
	case logoutDoneMsg:
		if m.err != nil {
			a.status = m.err.Error()
		}
	}
	a.sync()
	return a, cmd
}

// sync picks up notices and navigation requested by the services and
// re-resolves the current route through the role gate.
func (a *App) sync() {
	a.notices = append(a.notices, a.box.drain()...)

	requested := a.history.Current()
	route, view := nav.Resolve(requested, a.sessions.Get())
	if route != requested {
		a.history.Navigate(route)
	}
	if route == a.route && view == a.view {
		return
	}
	a.log.Debug("route", zap.String("from", string(a.route)), zap.String("to", string(route)), zap.Stringer("view", view))
	a.route, a.view = route, view
	a.status = ""
	switch view {
	case nav.ViewLogin:
		a.login = newLoginScreen()
	case nav.ViewSignup:
		a.signupScr = newSignupScreen()
	case nav.ViewMainLayout:
		a.dash = newDashboardScreen(a.sessions.Get(), a.items)
	}
}

func (a *App) handleKey(m tea.KeyMsg) tea.Cmd {
	switch a.view {
	case nav.ViewLogin:
		cmd, act := a.login.update(m)
		switch act {
		case loginSubmit:
			a.login.submitting = true
			return a.loginCmd(a.login.email.Value(), a.login.password.Value())
		case loginGoSignup:
			a.history.Navigate(nav.RouteSignup)
		}
		return cmd
	case nav.ViewSignup:
		cmd, act := a.signupScr.update(m)
		switch act {
		case signupSubmit:
			data, ok := a.signupScr.begin()
			if !ok {
				return nil
			}
			return a.signupCmd(data)
		case signupGoLogin:
			a.history.Navigate(nav.RouteLogin)
		}
		return cmd
	case nav.ViewMainLayout:
		cmd, act := a.dash.update(m)
		switch act {
		case dashboardLogout:
			return a.logoutCmd()
		case dashboardQuit:
			return tea.Quit
		}
		return cmd
	case nav.ViewUnauthorized:
		switch m.String() {
		case "l":
			return a.logoutCmd()
		case "q":
			return tea.Quit
		}
	default:
		switch m.String() {
		case "enter":
			a.history.Navigate(nav.RouteDashboard)
		case "q":
			return tea.Quit
		}
	}
	return nil
}

func (a *App) loginCmd(email, password string) tea.Cmd {
	return func() tea.Msg {
		u, err := a.auth.Login(a.ctx, email, password)
		return loginDoneMsg{user: u, err: err}
	}
}

func (a *App) signupCmd(data signup.FormData) tea.Cmd {
	return func() tea.Msg {
		return signupDoneMsg{result: a.signup.Send(a.ctx, data)}
	}
}

func (a *App) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		return logoutDoneMsg{err: a.auth.Logout(a.ctx)}
	}
}

func (a *App) View() string {
	if len(a.notices) > 0 {
		modal := renderNotice(a.notices[0])
		if a.width > 0 && a.height > 0 {
			return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
		}
		return appStyle.Render(modal)
	}

	var body string
	switch a.view {
	case nav.ViewLogin:
		body = a.login.view(a.devHints)
	case nav.ViewSignup:
		body = a.signupScr.view()
	case nav.ViewMainLayout:
		body = a.dash.view(a.width - 4)
	case nav.ViewUnauthorized:
		body = renderUnauthorized()
	default:
		body = renderNotFound()
	}
	if a.status != "" {
		body += "\n\n" + errorStyle.Render(a.status)
	}
	return appStyle.Render(body)
}
