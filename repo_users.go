package userauth

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the read-mostly store contract the auth core consumes. User rows
// are owned by the surrounding application; nothing in this package mutates
// them outside of provisioning helpers.
type Users interface {
	repository.Repository[*User]

	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error)

	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "username"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) FindByUsername(ctx context.Context, username string) (*User, error) {
	return a.findByColumn(ctx, a.db, "username", strings.TrimSpace(username))
}

func (a *users) FindByEmail(ctx context.Context, email string) (*User, error) {
	return a.findByColumn(ctx, a.db, "email", strings.TrimSpace(email))
}

// GetByIdentifier resolves an opaque identifier by trying columns in order:
// id when the value parses as a UUID, email when it contains an "@", and
// username as the final fallback. Token subjects carry the user id, so the
// same lookup serves both login forms and subject resolution.
func (a *users) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*User, error) {
	trimmed := strings.TrimSpace(identifier)

	for _, column := range identifierColumns(trimmed) {
		record, err := a.findByColumn(ctx, a.db, column, trimmed, criteria...)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				continue
			}
			return nil, err
		}
		return record, nil
	}

	return nil, repository.NewRecordNotFound().
		WithMetadata(map[string]any{
			"identifier": trimmed,
		})
}

func identifierColumns(identifier string) []string {
	columns := make([]string, 0, 3)

	if isUUID(identifier) {
		columns = append(columns, "id")
	}
	if strings.Contains(identifier, "@") {
		columns = append(columns, "email")
	}

	return append(columns, "username")
}

func isUUID(identifier string) bool {
	_, err := uuid.Parse(identifier)
	return err == nil
}

func (a *users) findByColumn(ctx context.Context, tx bun.IDB, column, value string, criteria ...repository.SelectCriteria) (*User, error) {
	record := &User{}
	q := tx.NewSelect().Model(record)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where(fmt.Sprintf("?TableAlias.%s = ?", column), value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"column":     column,
					"identifier": value,
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	return a.RegisterTx(ctx, a.db, user)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return a.Repository.CreateTx(ctx, tx, user)
}

func prepareUserDefaults(user *User) {
	if user == nil {
		return
	}
	user.EnsureStatus()
	user.EnsureRole()
	if user.Username == "" && strings.Contains(user.Email, "@") {
		user.Username = strings.Split(user.Email, "@")[0]
	}
}
