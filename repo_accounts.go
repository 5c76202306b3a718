package account

import (
	"context"
	"fmt"
	"sort"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Accounts is the bun-backed persistence surface. It satisfies Store,
// which is all the lifecycle behaviors require, while still exposing
// the full generic repository for callers that need it.
type Accounts interface {
	repository.Repository[*Account]

	FindOne(ctx context.Context, criteria Criteria) (*Account, error)
	Save(ctx context.Context, acct *Account) (*Account, error)
	Insert(ctx context.Context, acct *Account) (*Account, error)
}

type accounts struct {
	repository.Repository[*Account]
	db *bun.DB
}

var (
	_ Accounts = (*accounts)(nil)
	_ Store    = (*accounts)(nil)
)

// NewAccountsRepository returns a bun-backed Accounts repository.
func NewAccountsRepository(db *bun.DB) Accounts {
	repo := repository.NewRepository[*Account](db, repository.ModelHandlers[*Account]{
		NewRecord: func() *Account { return &Account{} },
		GetID: func(a *Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Account, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &accounts{
		Repository: repo,
		db:         db,
	}
}

// FindOne loads the single account matching every criteria entry. A nil
// criteria value matches columns that are NULL.
func (a *accounts) FindOne(ctx context.Context, criteria Criteria) (*Account, error) {
	record := &Account{}
	q := a.db.NewSelect().Model(record)

	// sort keys so generated SQL is deterministic
	columns := make([]string, 0, len(criteria))
	for column := range criteria {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	for _, column := range columns {
		if value := criteria[column]; value == nil {
			q.Where(fmt.Sprintf("?TableAlias.%s IS NULL", column))
		} else {
			q.Where(fmt.Sprintf("?TableAlias.%s = ?", column), value)
		}
	}

	err := q.Limit(1).Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"criteria": fmt.Sprintf("%v", criteria),
				})
		}
		return nil, err
	}

	return record, nil
}

// Save persists the full record by primary key. It deliberately avoids
// the generic repository update, which skips zero-valued fields and so
// could never write NULL into a cleared token or timestamp column.
func (a *accounts) Save(ctx context.Context, acct *Account) (*Account, error) {
	_, err := a.db.NewUpdate().
		Model(acct).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update account")
	}

	return acct, nil
}

// Insert creates the record, assigning an ID when missing. A duplicate
// identifier surfaces as a conflict error.
func (a *accounts) Insert(ctx context.Context, acct *Account) (*Account, error) {
	if acct.ID == uuid.Nil {
		acct.ID = uuid.New()
	}

	record, err := a.Repository.Create(ctx, acct)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, goerrors.Wrap(err, goerrors.CategoryConflict, "account already exists").
				WithCode(goerrors.CodeConflict).
				WithTextCode(TextCodeAccountConflict)
		}
		return nil, err
	}

	return record, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") ||
		strings.Contains(msg, "duplicate key value")
}
