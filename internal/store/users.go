package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/erazemk/propkeeper/internal/model"
)

var userColumns = []string{"id", "username", "full_name", "password_hash", "created_at"}

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	var fullName sql.NullString
	if err := row.Scan(&u.ID, &u.Username, &fullName, &u.PasswordHash, timestamp{&u.CreatedAt}); err != nil {
		return model.User{}, err
	}
	u.FullName = stringPtr(fullName)
	return u, nil
}

// GetUsers returns all users.
func GetUsers(ctx context.Context, db *sql.DB) ([]model.User, error) {
	users, err := queryRows(ctx, db, "get_users", "users",
		psql.Select(userColumns...).From("users").OrderBy("id"),
		scanUser,
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// AddUser inserts a user and returns the stored row. A taken username yields
// an error wrapping ErrDuplicate.
func AddUser(ctx context.Context, db *sql.DB, username, passwordHash string, fullName *string) (*model.User, error) {
	u, err := queryRow(ctx, db, "add_user", "users",
		psql.Insert("users").
			Columns("username", "full_name", "password_hash").
			Values(username, fullName, passwordHash).
			Suffix("RETURNING "+strings.Join(userColumns, ", ")),
		scanUser,
	)
	if err != nil {
		return nil, fmt.Errorf("adding user: %w", err)
	}
	return u, nil
}

// GetUserByUsername returns a user by username, or nil if none exists.
func GetUserByUsername(ctx context.Context, db *sql.DB, username string) (*model.User, error) {
	u, err := queryRow(ctx, db, "get_user_by_username", "users",
		psql.Select(userColumns...).From("users").Where(sq.Eq{"username": username}),
		scanUser,
	)
	if err != nil {
		return nil, fmt.Errorf("getting user by username: %w", err)
	}
	return u, nil
}
