package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	ID       int64  `bun:"id,pk,autoincrement"`
	Username string `bun:"username,notnull,unique"`
	// bcrypt hash, never the raw password
	Password string `bun:"password,notnull"`
}

// Register creates a new account. The raw password is hashed before it
// touches the database; a taken username comes back as ErrDuplicateUsername.
func Register(ctx context.Context, db bun.IDB, username string, password string) (*User, error) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return nil, fmt.Errorf("Register: username is required")
	case password == "":
		return nil, fmt.Errorf("Register: password is required")
	}

	exists, err := db.NewSelect().
		Model((*User)(nil)).
		Where("username = ?", username).
		Exists(ctx)
	switch {
	case err != nil:
		return nil, fmt.Errorf("Register: can't check if username exists: %w", err)
	case exists:
		return nil, ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("Register: can't hash password: %w", err)
	}

	userModel := User{
		Username: username,
		Password: string(hash),
	}
	if _, err := db.NewInsert().
		Model(&userModel).
		Exec(ctx); err != nil {
		// two requests can race past the exists check, the unique
		// constraint is the backstop
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("Register: %w", err)
	}

	return &userModel, nil
}

// Authenticate resolves a login attempt to an account id. Unknown username
// and wrong password both come back as ErrInvalidCredentials, nothing more
// specific.
func Authenticate(ctx context.Context, db bun.IDB, username string, password string) (int64, error) {
	userModel := new(User)
	if err := db.NewSelect().
		Model(userModel).
		Where("username = ?", strings.TrimSpace(username)).
		Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrInvalidCredentials
		}
		return 0, fmt.Errorf("Authenticate: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userModel.Password), []byte(password)); err != nil {
		return 0, ErrInvalidCredentials
	}

	return userModel.ID, nil
}
