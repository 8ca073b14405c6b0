package signup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jask/subsportal/internal/apiclient"
	"github.com/jask/subsportal/internal/nav"
)

const (
	SuccessMessage  = "Signup successful!"
	RejectedMessage = "Signup failed"
	FailedMessage   = "Signup failed!"

	signupPath           = "/signup"
	contactLengthMessage = "Contact number must be exactly 10 digits"
)

// Payload is the normalised body of POST /signup.
type Payload struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	Contact         string `json:"contact"`
	CompanyName     string `json:"companyName"`
	BusinessType    string `json:"businessType"`
	TeamSize        string `json:"teamSize"`
	YearsInBusiness string `json:"yearsInBusiness"`
}

// Response is the body of a 2xx signup reply.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ValidationError is raised when the payload fails the submission-time
// re-check. It means the form state went stale between validation and submit.
type ValidationError struct {
	Field   Field
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("signup: %s: %s", e.Field, e.Message)
}

// Normalize trims the free-text fields and reduces contact to its digits. The
// password is passed through untouched.
func Normalize(d FormData) (Payload, error) {
	contact := DigitsOnly(d.Contact)
	if len(contact) != ContactLength {
		return Payload{}, &ValidationError{Field: FieldContact, Message: contactLengthMessage}
	}
	return Payload{
		FullName:        strings.TrimSpace(d.FullName),
		Email:           strings.TrimSpace(d.Email),
		Password:        d.Password,
		Contact:         contact,
		CompanyName:     strings.TrimSpace(d.CompanyName),
		BusinessType:    strings.TrimSpace(d.BusinessType),
		TeamSize:        strings.TrimSpace(d.TeamSize),
		YearsInBusiness: strings.TrimSpace(d.YearsInBusiness),
	}, nil
}

// Gateway delivers a signup payload to the backend.
type Gateway interface {
	Signup(ctx context.Context, p Payload) (Response, error)
}

// APIGateway posts payloads through the shared API client.
type APIGateway struct {
	Client *apiclient.Client
}

func (g APIGateway) Signup(ctx context.Context, p Payload) (Response, error) {
	var resp Response
	if err := g.Client.PostJSON(ctx, signupPath, p, &resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}

// NoticeKind classifies a user-facing notification.
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeFailure
)

// Notice is a blocking message for the user.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Notifier surfaces notices to the user.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Result is the outcome of one submission.
type Result struct {
	OK      bool
	Message string
	// Errors holds field messages when the last page failed validation.
	Errors FormErrors
	Err    error
}

// Service runs the submission workflow.
type Service struct {
	gateway   Gateway
	notifier  Notifier
	navigator nav.Navigator
	log       *zap.Logger
}

// NewService wires the workflow collaborators. log may be nil.
func NewService(g Gateway, n Notifier, navigator nav.Navigator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if n == nil {
		n = NotifierFunc(func(Notice) {})
	}
	if navigator == nil {
		navigator = nav.NavigatorFunc(func(nav.Route) {})
	}
	return &Service{gateway: g, notifier: n, navigator: navigator, log: log}
}

// Submit runs the whole workflow for w: re-validation, delivery and outcome.
// The returned wizard never has the in-flight flag raised.
func (s *Service) Submit(ctx context.Context, w Wizard) (out Wizard, res Result) {
	next, err := w.BeginSubmit()
	if err != nil {
		res = Result{Err: err}
		if errors.Is(err, ErrStepInvalid) {
			res.Errors = next.Errors
		}
		return next, res
	}
	defer func() { out = next.EndSubmit() }()
	return next, s.Send(ctx, next.Data)
}

// Send normalises d, makes exactly one call to the gateway and maps the reply.
// Callers that manage the in-flight flag themselves use Send directly after
// Wizard.BeginSubmit.
func (s *Service) Send(ctx context.Context, d FormData) Result {
	payload, err := Normalize(d)
	if err != nil {
		s.log.Warn("signup payload rejected", zap.Error(err))
		msg := FailedMessage
		var verr *ValidationError
		if errors.As(err, &verr) {
			msg = verr.Message
		}
		return s.fail(msg, err)
	}

	resp, err := s.gateway.Signup(ctx, payload)
	if err != nil {
		s.log.Error("signup request failed", zap.String("email", payload.Email), zap.Error(err))
		msg := apiclient.ServerMessage(err)
		if msg == "" {
			msg = FailedMessage
		}
		return s.fail(msg, err)
	}
	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = RejectedMessage
		}
		s.log.Info("signup rejected", zap.String("email", payload.Email), zap.String("message", msg))
		return s.fail(msg, nil)
	}

	s.log.Info("signup accepted", zap.String("email", payload.Email))
	s.notifier.Notify(Notice{Kind: NoticeSuccess, Message: SuccessMessage})
	s.navigator.Navigate(nav.RouteLogin)
	return Result{OK: true, Message: SuccessMessage}
}

func (s *Service) fail(msg string, err error) Result {
	s.notifier.Notify(Notice{Kind: NoticeFailure, Message: msg})
	return Result{Message: msg, Err: err}
}
