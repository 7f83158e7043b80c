// Package session scopes a wallet (ledger, log and sub-accounts) to one opaque session id.
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"vtuwallet/internal/auth"
	"vtuwallet/internal/ledger"
	"vtuwallet/internal/subaccount"
)

var (
	ErrNotFound    = errors.New("session not found")
	ErrPINRequired = errors.New("transaction pin required")
	ErrPINMismatch = errors.New("transaction pin does not match")
)

type Defaults struct {
	OpeningBalance int64
	OpeningPoints  int64
	Policy         ledger.PointsPolicy
}

type Referral struct {
	Name      string    `json:"name"`
	Bonus     int64     `json:"bonus"`
	EntryID   string    `json:"entry_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Session owns everything mutable for one user context. Nothing in it is shared across sessions.
type Session struct {
	ID           string
	ReferralCode string
	CreatedAt    time.Time
	Ledger       *ledger.Ledger
	Cards        *subaccount.Registry

	mu        sync.Mutex
	pinHash   string
	referrals []Referral
}

func newSession(defaults Defaults) (*Session, error) {
	id := uuid.NewString()
	l, err := ledger.New(defaults.OpeningBalance,
		ledger.WithOpeningPoints(defaults.OpeningPoints),
		ledger.WithPointsPolicy(defaults.Policy),
	)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:           id,
		ReferralCode: referralCode(),
		CreatedAt:    time.Now().UTC(),
		Ledger:       l,
		Cards:        subaccount.NewRegistry(l, id),
	}, nil
}

func (s *Session) Log() *ledger.Log {
	return s.Ledger.Log()
}

func (s *Session) HasPIN() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pinHash != ""
}

// SetPIN stores a new transaction PIN. Replacing an existing PIN requires the current one.
func (s *Session) SetPIN(current, next string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pinHash != "" && !auth.CheckPIN(s.pinHash, current) {
		return ErrPINMismatch
	}
	hash, err := auth.HashPIN(next)
	if err != nil {
		return err
	}
	s.pinHash = hash
	return nil
}

// VerifyPIN passes when no PIN has been set.
func (s *Session) VerifyPIN(pin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pinHash == "" {
		return nil
	}
	if pin == "" {
		return ErrPINRequired
	}
	if !auth.CheckPIN(s.pinHash, pin) {
		return ErrPINMismatch
	}
	return nil
}

func (s *Session) RecordReferral(referral Referral) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.referrals = append(s.referrals, referral)
}

func (s *Session) Referrals() []Referral {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Referral, len(s.referrals))
	copy(out, s.referrals)
	return out
}

func referralCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "VTU" + raw[:6]
}
