package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/subsportal/internal/signup"
)

var placeholders = map[signup.Field]string{
	signup.FieldEmail:       "you@company.com",
	signup.FieldPassword:    "choose a password",
	signup.FieldFullName:    "Jane Roe",
	signup.FieldContact:     "10 digits",
	signup.FieldCompanyName: "Roe Electrical Pty Ltd",
}

// signupScreen renders the wizard. Text fields are textinputs; choice fields
// are cycled with left/right.
type signupScreen struct {
	wizard signup.Wizard
	inputs map[signup.Field]textinput.Model
	focus  int
}

func newSignupScreen() *signupScreen {
	s := &signupScreen{
		wizard: signup.NewWizard(),
		inputs: map[signup.Field]textinput.Model{},
	}
	for _, f := range signup.Fields {
		if signup.OptionsFor(f) != nil {
			continue
		}
		in := newInput("", placeholders[f])
		if f == signup.FieldPassword {
			in.EchoMode = textinput.EchoPassword
		}
		s.inputs[f] = in
	}
	s.setFocus(0)
	return s
}

type signupAction int

const (
	signupNone signupAction = iota
	signupSubmit
	signupGoLogin
)

func (s *signupScreen) fields() []signup.Field { return s.wizard.Step.Fields() }

func (s *signupScreen) focused() signup.Field {
	fs := s.fields()
	if len(fs) == 0 {
		return ""
	}
	return fs[s.focus]
}

func (s *signupScreen) setFocus(i int) {
	fs := s.fields()
	if len(fs) == 0 {
		return
	}
	s.focus = (i + len(fs)) % len(fs)
	for f, in := range s.inputs {
		if f == fs[s.focus] {
			in.Focus()
		} else {
			in.Blur()
		}
		s.inputs[f] = in
	}
}

func (s *signupScreen) update(msg tea.KeyMsg) (tea.Cmd, signupAction) {
	f := s.focused()
	opts := signup.OptionsFor(f)

	switch msg.String() {
	case "tab", "down":
		s.setFocus(s.focus + 1)
		return nil, signupNone
	case "shift+tab", "up":
		s.setFocus(s.focus - 1)
		return nil, signupNone
	case "ctrl+l":
		return nil, signupGoLogin
	case "esc":
		prev := s.wizard.Step
		s.wizard = s.wizard.Back()
		if s.wizard.Step != prev {
			s.setFocus(0)
		}
		return nil, signupNone
	case "enter":
		if s.wizard.OnLastStep() {
			if s.wizard.Submitting {
				return nil, signupNone
			}
			return nil, signupSubmit
		}
		prev := s.wizard.Step
		s.wizard = s.wizard.Next()
		if s.wizard.Step != prev {
			s.setFocus(0)
		}
		return nil, signupNone
	case "left", "right", " ":
		if opts != nil {
			cur := s.wizard.Data.Get(f)
			next := opts.Next(cur)
			if msg.String() == "left" {
				next = opts.Prev(cur)
			}
			s.wizard = s.wizard.OnFieldChange(f, next)
			return nil, signupNone
		}
	case "backspace", "delete":
		if opts != nil {
			s.wizard = s.wizard.OnFieldChange(f, "")
			return nil, signupNone
		}
	}

	in, ok := s.inputs[f]
	if !ok {
		return nil, signupNone
	}
	var cmd tea.Cmd
	in, cmd = in.Update(msg)
	s.wizard = s.wizard.OnFieldChange(f, in.Value())
	// the form keeps the cleaned contact
	if stored := s.wizard.Data.Get(f); stored != in.Value() {
		in.SetValue(stored)
	}
	s.inputs[f] = in
	return cmd, signupNone
}

// begin raises the in-flight flag. ok is false when the last page is invalid
// or a submission is already running.
func (s *signupScreen) begin() (signup.FormData, bool) {
	next, err := s.wizard.BeginSubmit()
	s.wizard = next
	if err != nil {
		return signup.FormData{}, false
	}
	return next.Data, true
}

func (s *signupScreen) finish() {
	s.wizard = s.wizard.EndSubmit()
}

func (s *signupScreen) renderStepper() string {
	parts := make([]string, 0, len(signup.Steps))
	for _, st := range signup.Steps {
		label := st.String()
		switch {
		case st == s.wizard.Step:
			parts = append(parts, stepActiveStyle.Render(label))
		case st < s.wizard.Step:
			parts = append(parts, stepDoneStyle.Render("✓ "+label))
		default:
			parts = append(parts, stepTodoStyle.Render(label))
		}
	}
	return strings.Join(parts, mutedStyle.Render(" › "))
}

func (s *signupScreen) renderField(i int, f signup.Field) string {
	label := labelStyle.Render(f.Label())
	if i == s.focus {
		label = focusStyle.Render("› " + f.Label())
	}
	var value string
	if opts := signup.OptionsFor(f); opts != nil {
		v := s.wizard.Data.Get(f)
		if v == "" {
			v = mutedStyle.Render("Select " + strings.ToLower(f.Label()))
		}
		value = "‹ " + v + " ›"
	} else {
		value = s.inputs[f].View()
	}
	line := label + "\n  " + value
	if msg := s.wizard.Errors[f]; msg != "" {
		line += "\n  " + errorStyle.Render(msg)
	}
	return line
}

func (s *signupScreen) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Create your account"))
	b.WriteString("\n\n")
	b.WriteString(s.renderStepper())
	b.WriteString("\n\n")
	for i, f := range s.fields() {
		b.WriteString(s.renderField(i, f))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	var actions []string
	if s.wizard.Step > signup.StepAccountInfo {
		actions = append(actions, key("esc", "Back"))
	}
	switch {
	case s.wizard.Submitting:
		actions = append(actions, mutedStyle.Render("Submitting..."))
	case s.wizard.OnLastStep():
		actions = append(actions, key("enter", "Submit"))
	default:
		actions = append(actions, key("enter", "Next"))
	}
	actions = append(actions, key("←/→", "Choose"), key("tab", "Next field"))
	b.WriteString(strings.Join(actions, "  "))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Already have an account? ") + key("ctrl+l", "Login"))
	return b.String()
}
