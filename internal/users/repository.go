package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/Ravikant96/AllSpark/internal/platform/db"
	"github.com/Ravikant96/AllSpark/internal/shared"
)

// Repository provides user and grant lookups.
type Repository interface {
	FindByEmail(ctx context.Context, accountID int64, email string) (User, error)
	FindByID(ctx context.Context, userID int64) (User, error)
	RoleGrants(ctx context.Context, accountID, userID int64) ([]shared.RoleGrant, error)
	PrivilegeGrants(ctx context.Context, accountID, userID int64) ([]shared.PrivilegeGrant, error)
	UpdatePassword(ctx context.Context, accountID, userID int64, passwordHash string) error
}

// PGRepository is the PostgreSQL-backed Repository.
type PGRepository struct {
	store *db.Store
}

// NewPGRepository constructs a PGRepository.
func NewPGRepository(store *db.Store) *PGRepository {
	return &PGRepository{store: store}
}

const userColumns = `
	u.user_id,
	u.account_id,
	u.email,
	COALESCE(u.first_name, ''),
	COALESCE(u.middle_name, ''),
	COALESCE(u.last_name, ''),
	u.password,
	COALESCE(u.ttl, 0)`

// FindByEmail loads a user by email within an account.
func (r *PGRepository) FindByEmail(ctx context.Context, accountID int64, email string) (User, error) {
	row := r.store.QueryRow(ctx, db.ModeRead, `
		SELECT`+userColumns+`
		FROM tb_users u
		WHERE u.email = $2 AND u.account_id = $1`,
		accountID, email)
	return scanUser(row)
}

// FindByID loads a user by id.
func (r *PGRepository) FindByID(ctx context.Context, userID int64) (User, error) {
	row := r.store.QueryRow(ctx, db.ModeRead, `
		SELECT`+userColumns+`
		FROM tb_users u
		WHERE u.user_id = $1`,
		userID)
	return scanUser(row)
}

// RoleGrants returns the user's category-scoped roles. Admin categories and
// roles normalize to the wildcard sentinel at load time, so the policy
// matcher never needs to know about is_admin.
func (r *PGRepository) RoleGrants(ctx context.Context, accountID, userID int64) ([]shared.RoleGrant, error) {
	rows, err := r.store.Query(ctx, db.ModeRead, `
		SELECT
			CASE WHEN c.is_admin THEN 0 ELSE ur.category_id END,
			CASE WHEN ro.is_admin THEN 0 ELSE ur.role_id END
		FROM tb_user_roles ur
		JOIN tb_users u USING (user_id)
		JOIN tb_categories c ON c.category_id = ur.category_id
		JOIN tb_roles ro ON ro.role_id = ur.role_id
		WHERE ur.user_id = $2 AND u.account_id = $1`,
		accountID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []shared.RoleGrant
	for rows.Next() {
		var grant shared.RoleGrant
		if err := rows.Scan(&grant.CategoryID, &grant.RoleID); err != nil {
			return nil, err
		}
		grants = append(grants, grant)
	}
	return grants, rows.Err()
}

// PrivilegeGrants returns the user's category-scoped privileges with the same
// admin normalization as RoleGrants.
func (r *PGRepository) PrivilegeGrants(ctx context.Context, accountID, userID int64) ([]shared.PrivilegeGrant, error) {
	rows, err := r.store.Query(ctx, db.ModeRead, `
		SELECT
			CASE WHEN p.is_admin THEN 0 ELSE up.privilege_id END,
			p.name,
			CASE WHEN c.is_admin THEN 0 ELSE up.category_id END
		FROM tb_user_privilege up
		JOIN tb_privileges p USING (privilege_id)
		JOIN tb_users u USING (user_id)
		JOIN tb_categories c ON c.category_id = up.category_id
		WHERE up.user_id = $2 AND u.account_id = $1`,
		accountID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []shared.PrivilegeGrant
	for rows.Next() {
		var grant shared.PrivilegeGrant
		if err := rows.Scan(&grant.PrivilegeID, &grant.Name, &grant.CategoryID); err != nil {
			return nil, err
		}
		grants = append(grants, grant)
	}
	return grants, rows.Err()
}

// UpdatePassword replaces the stored password hash.
func (r *PGRepository) UpdatePassword(ctx context.Context, accountID, userID int64, passwordHash string) error {
	tag, err := r.store.Exec(ctx, db.ModeWrite, `
		UPDATE tb_users SET password = $3 WHERE user_id = $2 AND account_id = $1`,
		accountID, userID, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(&user.UserID, &user.AccountID, &user.Email, &user.FirstName, &user.MiddleName, &user.LastName, &user.PasswordHash, &user.TokenTTLDays)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, shared.ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return user, nil
}
