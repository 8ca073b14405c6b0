package tui

import (
	"github.com/jask/subsportal/internal/session"
	"github.com/jask/subsportal/internal/signup"
)

// messages
type loginDoneMsg struct {
	user session.User
	err  error
}

type signupDoneMsg struct {
	result signup.Result
}

type logoutDoneMsg struct{ err error }
