package ledger

import (
	"crypto/rand"
	"io"
	"maps"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Ledger owns one session's spendable balance and reward points. Every method that
// changes either counter appends exactly one entry to the ledger's Log while holding
// the ledger lock, so check-then-act sequences never interleave.
type Ledger struct {
	mu       sync.Mutex
	balance  int64
	points   int64
	log      *Log
	policy   PointsPolicy
	now      func() time.Time
	entropy  io.Reader
	refunded map[string]string
}

type Option func(*Ledger)

func WithPointsPolicy(policy PointsPolicy) Option {
	return func(l *Ledger) { l.policy = policy }
}

func WithOpeningPoints(points int64) Option {
	return func(l *Ledger) { l.points = points }
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func New(openingBalance int64, opts ...Option) (*Ledger, error) {
	if openingBalance < 0 {
		return nil, ErrInvalidAmount
	}
	l := &Ledger{
		balance:  openingBalance,
		policy:   DefaultPointsPolicy(),
		now:      time.Now,
		entropy:  ulid.Monotonic(rand.Reader, 0),
		refunded: make(map[string]string),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.points < 0 {
		return nil, ErrInvalidAmount
	}
	l.log = NewLog()
	return l, nil
}

// Log exposes the entry history for reads. Entries are only added by ledger operations.
func (l *Ledger) Log() *Log {
	return l.log
}

func (l *Ledger) Policy() PointsPolicy {
	return l.policy
}

func (l *Ledger) Balance() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance
}

func (l *Ledger) Points() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.points
}

// Snapshot returns balance and points read under the same lock.
func (l *Ledger) Snapshot() (balance, points int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance, l.points
}

func (l *Ledger) Credit(category Category, amount int64, metadata map[string]string) (Entry, error) {
	if !category.Valid() {
		return Entry{}, ErrUnknownCategory
	}
	if amount <= 0 {
		return Entry{}, ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if entry, ok, err := l.replay(category, amount, 0, metadata); ok || err != nil {
		return entry, err
	}
	entry, err := l.commit(Entry{Category: category, Amount: amount, Status: StatusCompleted, Metadata: metadata})
	if err != nil {
		return Entry{}, err
	}
	l.balance += amount
	return entry, nil
}

// Debit removes amount from the balance and accrues points per the ledger's policy.
func (l *Ledger) Debit(category Category, amount int64, metadata map[string]string) (Entry, error) {
	return l.debit(category, amount, metadata, StatusCompleted)
}

// Hold debits amount immediately but records the entry as pending until Settle is called.
// Held debits never earn points.
func (l *Ledger) Hold(category Category, amount int64, metadata map[string]string) (Entry, error) {
	return l.debit(category, amount, metadata, StatusPending)
}

func (l *Ledger) debit(category Category, amount int64, metadata map[string]string, status Status) (Entry, error) {
	if !category.Valid() {
		return Entry{}, ErrUnknownCategory
	}
	if amount <= 0 {
		return Entry{}, ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	var earned int64
	if status == StatusCompleted {
		earned = l.policy.PointsFor(category, amount)
	}
	if entry, ok, err := l.replay(category, -amount, earned, metadata); ok || err != nil {
		return entry, err
	}
	if amount > l.balance {
		return Entry{}, ErrInsufficientFunds
	}
	entry, err := l.commit(Entry{Category: category, Amount: -amount, Points: earned, Status: status, Metadata: metadata})
	if err != nil {
		return Entry{}, err
	}
	l.balance -= amount
	l.points += earned
	return entry, nil
}

// Settle moves a pending entry to completed or failed. A failed hold returns its amount to the balance.
func (l *Ledger) Settle(id string, to Status) (Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, err := l.log.transition(id, to)
	if err != nil {
		return Entry{}, err
	}
	if to == StatusFailed {
		l.balance -= entry.Amount
	}
	return entry, nil
}

func (l *Ledger) RedeemPoints(pointsCost, payoutAmount int64, metadata map[string]string) (Entry, error) {
	if pointsCost <= 0 || payoutAmount < 0 {
		return Entry{}, ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if entry, ok, err := l.replay(CategoryRewardRedemption, payoutAmount, -pointsCost, metadata); ok || err != nil {
		return entry, err
	}
	if pointsCost > l.points {
		return Entry{}, ErrInsufficientPoints
	}
	entry, err := l.commit(Entry{
		Category: CategoryRewardRedemption,
		Amount:   payoutAmount,
		Points:   -pointsCost,
		Status:   StatusCompleted,
		Metadata: metadata,
	})
	if err != nil {
		return Entry{}, err
	}
	l.points -= pointsCost
	l.balance += payoutAmount
	return entry, nil
}

// Refund appends an offsetting credit for a completed debit and takes back the points
// it earned. A refund fails when those points have already been spent, and debits that
// funded a sub-account are never refundable here.
func (l *Ledger) Refund(id, reason string) (Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	original, err := l.log.Get(id)
	if err != nil {
		return Entry{}, err
	}
	if original.Status != StatusCompleted || !original.IsDebit() || !original.Category.Refundable() {
		return Entry{}, ErrNotRefundable
	}
	if _, done := l.refunded[id]; done {
		return Entry{}, ErrAlreadyRefunded
	}
	if original.Points > l.points {
		return Entry{}, ErrInsufficientPoints
	}
	metadata := map[string]string{MetaRefundOf: id}
	if reason != "" {
		metadata[MetaReason] = reason
	}
	entry, err := l.commit(Entry{
		Category: original.Category,
		Amount:   -original.Amount,
		Points:   -original.Points,
		Status:   StatusCompleted,
		Metadata: metadata,
	})
	if err != nil {
		return Entry{}, err
	}
	l.balance -= original.Amount
	l.points -= original.Points
	l.refunded[id] = entry.ID
	return entry, nil
}

// replay resolves an operation whose reference was already committed.
func (l *Ledger) replay(category Category, amount, points int64, metadata map[string]string) (Entry, bool, error) {
	ref := metadata[MetaReference]
	if ref == "" {
		return Entry{}, false, nil
	}
	existing, ok := l.log.FindByReference(ref)
	if !ok {
		return Entry{}, false, nil
	}
	if existing.Category != category || existing.Amount != amount || existing.Points != points {
		return Entry{}, false, ErrReferenceConflict
	}
	return existing, true, nil
}

// commit stamps and appends an entry. Callers hold l.mu and apply counters only on success.
func (l *Ledger) commit(entry Entry) (Entry, error) {
	ts := l.now().UTC()
	if last, ok := l.log.Last(); ok && ts.Before(last) {
		ts = last
	}
	id, err := ulid.New(ulid.Timestamp(ts), l.entropy)
	if err != nil {
		return Entry{}, err
	}
	entry.ID = id.String()
	entry.Timestamp = ts
	entry.Metadata = maps.Clone(entry.Metadata)
	if err := l.log.add(entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}
