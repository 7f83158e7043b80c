package subaccount

import (
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"vtuwallet/internal/ledger"
	"vtuwallet/internal/money"
)

var (
	ErrNotFound       = errors.New("sub-account not found")
	ErrFrozen         = errors.New("virtual card is frozen")
	ErrNotVirtualCard = errors.New("sub-account is not a virtual card")
	ErrAmountTooSmall = errors.New("amount converts to less than one cent")
	ErrInvalidWallet  = errors.New("betting platform and user id are required")
)

type Kind string

const (
	KindVirtualCard   Kind = "virtual-card"
	KindBettingWallet Kind = "betting-wallet"
)

type Status string

const (
	StatusActive Status = "active"
	StatusFrozen Status = "frozen"
)

// SubAccount is a balance derived from the owning ledger. Virtual card balances are
// US cents; betting wallets hold nothing locally and only record transfers.
type SubAccount struct {
	ID             string            `json:"id"`
	Kind           Kind              `json:"kind"`
	SubBalance     int64             `json:"sub_balance"`
	Currency       string            `json:"currency"`
	Status         Status            `json:"status"`
	OwnerLedgerRef string            `json:"owner_ledger_ref"`
	Label          string            `json:"label,omitempty"`
	TotalFunded    int64             `json:"total_funded"`
	CreatedAt      time.Time         `json:"created_at"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// Funder is the slice of the ledger the registry draws from.
type Funder interface {
	Debit(category ledger.Category, amount int64, metadata map[string]string) (ledger.Entry, error)
}

// Registry holds one session's sub-accounts. Its lock is held across the ledger
// debit so a status toggle cannot land between the frozen check and the credit.
type Registry struct {
	mu       sync.Mutex
	funder   Funder
	ownerRef string
	accounts map[string]*SubAccount
	order    []string
	betting  map[string]string
	applied  map[string]bool
	now      func() time.Time
}

func NewRegistry(funder Funder, ownerRef string) *Registry {
	return &Registry{
		funder:   funder,
		ownerRef: ownerRef,
		accounts: make(map[string]*SubAccount),
		betting:  make(map[string]string),
		applied:  make(map[string]bool),
		now:      time.Now,
	}
}

// CreateVirtualCard charges the creation fee and opens an active card with a zero balance.
// Ledger errors are returned unchanged.
func (r *Registry) CreateVirtualCard(creationFee int64, label string) (SubAccount, ledger.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.NewString()
	entry, err := r.funder.Debit(ledger.CategoryCardCreation, creationFee, map[string]string{
		"card_id": id,
		"label":   label,
	})
	if err != nil {
		return SubAccount{}, ledger.Entry{}, err
	}
	account := &SubAccount{
		ID:             id,
		Kind:           KindVirtualCard,
		Currency:       "USD",
		Status:         StatusActive,
		OwnerLedgerRef: r.ownerRef,
		Label:          label,
		CreatedAt:      r.now().UTC(),
		Metadata:       map[string]string{"creation_entry": entry.ID},
	}
	r.insert(account)
	return account.snapshot(), entry, nil
}

// OpenBettingWallet registers a pass-through wallet for an external platform account.
// Opening the same platform account twice returns the existing wallet.
func (r *Registry) OpenBettingWallet(platform, platformUserID string) (SubAccount, error) {
	if platform == "" || platformUserID == "" {
		return SubAccount{}, ErrInvalidWallet
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := platform + "/" + platformUserID
	if id, ok := r.betting[key]; ok {
		return r.accounts[id].snapshot(), nil
	}
	account := &SubAccount{
		ID:             uuid.NewString(),
		Kind:           KindBettingWallet,
		Currency:       "NGN",
		Status:         StatusActive,
		OwnerLedgerRef: r.ownerRef,
		Label:          platform,
		CreatedAt:      r.now().UTC(),
		Metadata:       map[string]string{"platform": platform, "platform_user_id": platformUserID},
	}
	r.insert(account)
	r.betting[key] = account.ID
	return account.snapshot(), nil
}

// Fund debits ngnAmount from the ledger and credits the sub-account. Virtual cards gain
// floor(ngnAmount*100/rate) cents; betting wallets only record the transfer.
func (r *Registry) Fund(id string, ngnAmount int64, rate decimal.Decimal, metadata map[string]string) (SubAccount, ledger.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return SubAccount{}, ledger.Entry{}, ErrNotFound
	}
	category := ledger.CategoryBettingFunding
	var cents int64
	if account.Kind == KindVirtualCard {
		if account.Status == StatusFrozen {
			return SubAccount{}, ledger.Entry{}, ErrFrozen
		}
		if ngnAmount <= 0 {
			return SubAccount{}, ledger.Entry{}, ledger.ErrInvalidAmount
		}
		converted, err := money.ToCents(ngnAmount, rate)
		if err != nil {
			return SubAccount{}, ledger.Entry{}, err
		}
		if converted == 0 {
			return SubAccount{}, ledger.Entry{}, ErrAmountTooSmall
		}
		cents = converted
		category = ledger.CategoryCardFunding
	}
	meta := maps.Clone(metadata)
	if meta == nil {
		meta = make(map[string]string)
	}
	meta["sub_account_id"] = account.ID
	for k, v := range account.Metadata {
		if k == "platform" || k == "platform_user_id" {
			meta[k] = v
		}
	}
	if account.Kind == KindVirtualCard {
		meta["rate"] = rate.String()
	}
	entry, err := r.funder.Debit(category, ngnAmount, meta)
	if err != nil {
		return SubAccount{}, ledger.Entry{}, err
	}
	// A replayed reference hands back an entry that was already applied.
	if r.applied[entry.ID] {
		if entry.Metadata["sub_account_id"] != account.ID {
			return SubAccount{}, ledger.Entry{}, ledger.ErrReferenceConflict
		}
		return account.snapshot(), entry, nil
	}
	r.applied[entry.ID] = true
	account.SubBalance += cents
	account.TotalFunded += ngnAmount
	return account.snapshot(), entry, nil
}

// ToggleStatus flips a virtual card between active and frozen.
func (r *Registry) ToggleStatus(id string) (SubAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return SubAccount{}, ErrNotFound
	}
	if account.Kind != KindVirtualCard {
		return SubAccount{}, ErrNotVirtualCard
	}
	if account.Status == StatusActive {
		account.Status = StatusFrozen
	} else {
		account.Status = StatusActive
	}
	return account.snapshot(), nil
}

func (r *Registry) Get(id string) (SubAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return SubAccount{}, ErrNotFound
	}
	return account.snapshot(), nil
}

// List returns sub-accounts in creation order, optionally restricted to one kind.
func (r *Registry) List(kind Kind) []SubAccount {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SubAccount, 0, len(r.order))
	for _, id := range r.order {
		account := r.accounts[id]
		if kind != "" && account.Kind != kind {
			continue
		}
		out = append(out, account.snapshot())
	}
	return out
}

func (r *Registry) insert(account *SubAccount) {
	r.accounts[account.ID] = account
	r.order = append(r.order, account.ID)
}

func (a *SubAccount) snapshot() SubAccount {
	out := *a
	out.Metadata = maps.Clone(a.Metadata)
	return out
}
