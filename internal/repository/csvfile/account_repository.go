package csvfile

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"race-registry/internal/domain"
	"race-registry/internal/repository"
)

const (
	usersFileName = "users.csv"
	usersHeader   = "identity,verifier,createdAt,isAdmin"
)

// AccountRepository keeps accounts in memory, backed by an append-only users
// file. The in-memory map is rebuilt from the file on Init, so every account
// it holds has a corresponding durable row.
type AccountRepository struct {
	path string

	mu       sync.RWMutex
	accounts map[string]domain.Account
}

func NewAccountRepository(dataDir string) repository.AccountRepository {
	return &AccountRepository{
		path:     filepath.Join(dataDir, usersFileName),
		accounts: make(map[string]domain.Account),
	}
}

// Init creates the users file with its header when absent and loads every
// stored account, skipping individually malformed rows.
func (r *AccountRepository) Init(ctx context.Context) error {
	if err := ensureFile(r.path, usersHeader); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return scanRows(r.path, func(record []string) {
		account, ok := parseAccount(record)
		if !ok {
			return
		}
		r.accounts[account.Email] = account
	})
}

// Create appends the account durably and then inserts it into the in-memory
// map. The durable write comes first so a failed append leaves only the
// pre-operation state observable.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	key := strings.ToLower(account.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[key]; exists {
		return domain.ErrDuplicateEmail
	}

	stored := *account
	stored.Email = key
	if err := appendRow(r.path, accountRecord(stored)); err != nil {
		return err
	}
	r.accounts[key] = stored
	return nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	out := account
	return &out, nil
}

func accountRecord(a domain.Account) []string {
	return []string{
		a.Email,
		a.PasswordHash,
		a.CreatedAt.UTC().Format(time.RFC3339),
		strconv.FormatBool(a.IsAdmin),
	}
}

func parseAccount(record []string) (domain.Account, bool) {
	if len(record) != 4 {
		return domain.Account{}, false
	}
	email := strings.ToLower(strings.TrimSpace(record[0]))
	if email == "" {
		return domain.Account{}, false
	}
	createdAt, err := time.Parse(time.RFC3339, record[2])
	if err != nil {
		return domain.Account{}, false
	}
	isAdmin, err := strconv.ParseBool(record[3])
	if err != nil {
		return domain.Account{}, false
	}
	return domain.Account{
		Email:        email,
		PasswordHash: record[1],
		CreatedAt:    createdAt,
		IsAdmin:      isAdmin,
	}, true
}
