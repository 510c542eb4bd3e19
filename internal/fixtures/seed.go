// Package fixtures provides the demo users and accounts used by the server
// and the CLI.
package fixtures

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/domain/user"
	"github.com/amirasaad/minibank/pkg/repository"
	"github.com/shopspring/decimal"
)

//go:embed seed.csv
var seedCSV string

const seedColumns = 5

type UserRow struct {
	ID   int64
	Name string
}

type AccountRow struct {
	ID      int64
	OwnerID int64
	Balance decimal.Decimal
}

// Seed is the parsed content of a seed file, rows kept in file order.
type Seed struct {
	Users    []UserRow
	Accounts []AccountRow
}

// LoadSeedCSV loads seed rows from a CSV file or the embedded demo data.
// If path is empty, it uses the embedded CSV content.
func LoadSeedCSV(path string) (*Seed, error) {
	var r io.Reader
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	} else {
		r = strings.NewReader(seedCSV)
	}
	return parseSeedCSV(r)
}

func parseSeedCSV(r io.Reader) (*Seed, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 || len(records[0]) < seedColumns {
		return nil, errors.New("invalid CSV format: missing header")
	}

	seed := &Seed{}
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) < seedColumns {
			return nil, fmt.Errorf("line %d: expected %d columns, got %d", line, seedColumns, len(rec))
		}
		id, err := strconv.ParseInt(rec[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid id %q: %w", line, rec[1], err)
		}
		switch rec[0] {
		case "user":
			seed.Users = append(seed.Users, UserRow{ID: id, Name: rec[3]})
		case "account":
			owner, err := strconv.ParseInt(rec[2], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid owner id %q: %w", line, rec[2], err)
			}
			balance, err := decimal.NewFromString(rec[4])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid balance %q: %w", line, rec[4], err)
			}
			seed.Accounts = append(seed.Accounts, AccountRow{ID: id, OwnerID: owner, Balance: balance})
		default:
			return nil, fmt.Errorf("line %d: unknown kind %q", line, rec[0])
		}
	}
	return seed, nil
}

// Apply saves the seed users, then builds and saves their accounts.
// Accounts are associated with their owners in file order.
func (s *Seed) Apply(store repository.Store) error {
	for _, row := range s.Users {
		u, err := user.New(row.ID, row.Name)
		if err != nil {
			return fmt.Errorf("seed user %d: %w", row.ID, err)
		}
		store.SaveUser(u)
	}
	for _, row := range s.Accounts {
		owner, ok := store.GetUser(row.OwnerID)
		if !ok {
			return fmt.Errorf("seed account %d: %w", row.ID, user.ErrUserNotFound)
		}
		if _, exists := store.GetAccount(row.ID); exists {
			return fmt.Errorf("seed account %d: %w", row.ID, account.ErrAccountExists)
		}
		a, err := account.New().
			WithID(row.ID).
			WithOwner(owner).
			WithBalance(row.Balance).
			Build()
		if err != nil {
			return fmt.Errorf("seed account %d: %w", row.ID, err)
		}
		store.SaveAccount(a)
	}
	return nil
}

// SeedDemo loads the embedded demo data into store: Alice (1) owning
// accounts 101 and 102, Bob (2) owning account 201.
func SeedDemo(store repository.Store) error {
	seed, err := LoadSeedCSV("")
	if err != nil {
		return err
	}
	return seed.Apply(store)
}
