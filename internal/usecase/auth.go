package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/domain/repository"
	pkgAuth "github.com/polkiloo/orderdesk/internal/pkg/auth"
)

// AuthUseCase handles account lifecycle and token management.
type AuthUseCase struct {
	accounts repository.AccountRepository
	hasher   pkgAuth.PasswordHasher
	tokens   pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(accounts repository.AccountRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{accounts: accounts, hasher: hasher, tokens: strategy}
}

// Register creates a customer account and returns auth token.
func (u *AuthUseCase) Register(ctx context.Context, login, password, name string) (*model.Account, string, error) {
	return u.create(ctx, login, password, name, model.RoleCustomer)
}

// CreateStaff creates an operator or admin account. Only admins may call it.
func (u *AuthUseCase) CreateStaff(ctx context.Context, caller model.Identity, login, password, name string, role model.Role) (*model.Account, error) {
	if caller.Role != model.RoleAdmin {
		return nil, domainErrors.ErrForbidden
	}
	if !role.Staff() {
		verr := &domainErrors.ValidationError{}
		verr.Add("role", fmt.Sprintf("must be %q or %q", model.RoleOperator, model.RoleAdmin))
		return nil, verr
	}
	account, _, err := u.create(ctx, login, password, name, role)
	return account, err
}

// EnsureAdmin creates the admin account login unless the login is already taken.
// It reports whether an account was created.
func (u *AuthUseCase) EnsureAdmin(ctx context.Context, login, password string) (bool, error) {
	_, _, err := u.create(ctx, login, password, "", model.RoleAdmin)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		return false, nil
	default:
		return false, err
	}
}

func (u *AuthUseCase) create(ctx context.Context, login, password, name string, role model.Role) (*model.Account, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = login
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, "", err
	}

	account, err := u.accounts.Create(ctx, model.Account{Login: login, Name: name, Role: role, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, "", domainErrors.ErrAlreadyExists
		}
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(model.Identity{AccountID: account.ID, Role: account.Role})
	if err != nil {
		return nil, "", err
	}

	return account, token, nil
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, password string) (*model.Account, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	account, err := u.accounts.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(account.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(model.Identity{AccountID: account.ID, Role: account.Role})
	if err != nil {
		return nil, "", err
	}

	return account, token, nil
}

// ParseToken extracts the caller identity from provided token.
func (u *AuthUseCase) ParseToken(token string) (model.Identity, error) {
	if token == "" {
		return model.Identity{}, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches account by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id int64) (*model.Account, error) {
	return u.accounts.GetByID(ctx, id)
}

// Actor resolves identity into the actor recorded in status history.
func (u *AuthUseCase) Actor(ctx context.Context, identity model.Identity) (*model.Actor, error) {
	account, err := u.accounts.GetByID(ctx, identity.AccountID)
	if err != nil {
		return nil, err
	}
	return &model.Actor{ID: account.ID, Name: account.Name, Role: account.Role}, nil
}
