package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	domuser "example.com/shop-core/internal/domain/user"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const mysqlErrDuplicateEntry = 1062

func (r *UserRepository) Create(ctx context.Context, u *domuser.User) (*domuser.User, error) {
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO users (name, email, password_hash, user_role_id)
        VALUES (?, ?, ?, ?)
    `, u.Name, u.Email, u.PasswordHash, u.UserRoleID)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry {
			return nil, domuser.ErrEmailAlreadyUsed
		}
		return nil, err
	}
	u.ID, _ = res.LastInsertId()
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domuser.User, error) {
	return r.getOne(ctx, `WHERE u.id = ?`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domuser.User, error) {
	return r.getOne(ctx, `WHERE u.email = ?`, email)
}

func (r *UserRepository) List(ctx context.Context, filter domuser.ListFilter) ([]*domuser.User, error) {
	query := `
        SELECT u.id, u.name, u.email, u.password_hash, u.user_role_id, ur.code
        FROM users u JOIN user_roles ur ON ur.id = u.user_role_id
    `
	var args []any
	if filter.RoleCode != nil {
		query += ` WHERE ur.code = ?`
		args = append(args, string(*filter.RoleCode))
	}
	query += ` ORDER BY u.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domuser.User
	for rows.Next() {
		var u domuser.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.UserRoleID, &u.RoleCode); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, u *domuser.User) (*domuser.User, error) {
	_, err := r.db.ExecContext(ctx, `
        UPDATE users SET name = ?, email = ?, password_hash = ?, user_role_id = ?
        WHERE id = ?
    `, u.Name, u.Email, u.PasswordHash, u.UserRoleID, u.ID)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry {
			return nil, domuser.ErrEmailAlreadyUsed
		}
		return nil, err
	}
	return r.GetByID(ctx, u.ID)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domuser.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) GetRoleIDByCode(ctx context.Context, code domuser.RoleCode) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `SELECT id FROM user_roles WHERE code = ?`, string(code)).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domuser.ErrInvalidRoleCode
		}
		return 0, err
	}
	return id, nil
}

func (r *UserRepository) getOne(ctx context.Context, where string, args ...any) (*domuser.User, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT u.id, u.name, u.email, u.password_hash, u.user_role_id, ur.code
        FROM users u JOIN user_roles ur ON ur.id = u.user_role_id
    `+where, args...)

	var u domuser.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.UserRoleID, &u.RoleCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domuser.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
