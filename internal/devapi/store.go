package devapi

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jask/subsportal/internal/signup"
)

var errDuplicateEmail = errors.New("devapi: email already exists")

// Account is a registered subcontractor.
type Account struct {
	ID              string    `json:"id"`
	FullName        string    `json:"fullName"`
	Email           string    `json:"email"`
	Contact         string    `json:"contact"`
	CompanyName     string    `json:"companyName"`
	BusinessType    string    `json:"businessType"`
	TeamSize        string    `json:"teamSize,omitempty"`
	YearsInBusiness string    `json:"yearsInBusiness,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`

	passwordHash []byte
}

// Store keeps accounts in memory keyed by lowercased email.
type Store struct {
	cost int

	mu       sync.RWMutex
	accounts map[string]Account
}

func NewStore() *Store {
	return &Store{cost: bcrypt.DefaultCost, accounts: map[string]Account{}}
}

func emailKey(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Create registers p. Emails are unique regardless of case.
func (s *Store) Create(p signup.Payload) (Account, error) {
	key := emailKey(p.Email)
	if s.exists(key) {
		return Account{}, errDuplicateEmail
	}
	pw, err := bcrypt.GenerateFromPassword([]byte(p.Password), s.cost)
	if err != nil {
		return Account{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[key]; ok {
		return Account{}, errDuplicateEmail
	}
	a := Account{
		ID:              uuid.NewString(),
		FullName:        p.FullName,
		Email:           p.Email,
		Contact:         p.Contact,
		CompanyName:     p.CompanyName,
		BusinessType:    p.BusinessType,
		TeamSize:        p.TeamSize,
		YearsInBusiness: p.YearsInBusiness,
		CreatedAt:       time.Now().UTC(),
		passwordHash:    pw,
	}
	s.accounts[key] = a
	return a, nil
}

// Check returns the account for email when password matches.
func (s *Store) Check(email, password string) (Account, bool) {
	s.mu.RLock()
	a, ok := s.accounts[emailKey(email)]
	s.mu.RUnlock()
	if !ok || bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) != nil {
		return Account{}, false
	}
	return a, true
}

func (s *Store) exists(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[key]
	return ok
}

// ByID looks an account up by its id.
func (s *Store) ByID(id string) (Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.ID == id {
			return a, true
		}
	}
	return Account{}, false
}

// Len is the number of registered accounts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}
