package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	domrole "example.com/shop-core/internal/domain/userrole"
)

type UserRoleRepository struct {
	db *sql.DB
}

func NewUserRoleRepository(db *sql.DB) *UserRoleRepository {
	return &UserRoleRepository{db: db}
}

func (r *UserRoleRepository) Create(ctx context.Context, role *domrole.UserRole) (*domrole.UserRole, error) {
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO user_roles (code, name, description, is_system)
        VALUES (?, ?, ?, ?)
    `, string(role.Code), role.Name, role.Description, role.IsSystem)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry {
			return nil, domrole.ErrRoleCodeExisted
		}
		return nil, err
	}
	role.ID, _ = res.LastInsertId()
	return role, nil
}

func (r *UserRoleRepository) Update(ctx context.Context, role *domrole.UserRole) (*domrole.UserRole, error) {
	_, err := r.db.ExecContext(ctx, `
        UPDATE user_roles SET name = ?, description = ? WHERE id = ?
    `, role.Name, role.Description, role.ID)
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *UserRoleRepository) Delete(ctx context.Context, id int64) error {
	var inUse int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE user_role_id = ?`, id).Scan(&inUse); err != nil {
		return err
	}
	if inUse > 0 {
		return domrole.ErrRoleInUse
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM user_roles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domrole.ErrRoleNotFound
	}
	return nil
}

func (r *UserRoleRepository) GetByID(ctx context.Context, id int64) (*domrole.UserRole, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

func (r *UserRoleRepository) GetByCode(ctx context.Context, code string) (*domrole.UserRole, error) {
	return r.getOne(ctx, `WHERE code = ?`, code)
}

func (r *UserRoleRepository) List(ctx context.Context, filter domrole.ListFilter) ([]*domrole.UserRole, error) {
	query := `SELECT id, code, name, description, is_system FROM user_roles`
	var args []any
	if filter.Query != nil && *filter.Query != "" {
		query += ` WHERE code LIKE ? OR name LIKE ?`
		like := "%" + *filter.Query + "%"
		args = append(args, like, like)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*domrole.UserRole
	for rows.Next() {
		var role domrole.UserRole
		if err := rows.Scan(&role.ID, &role.Code, &role.Name, &role.Description, &role.IsSystem); err != nil {
			return nil, err
		}
		roles = append(roles, &role)
	}
	return roles, rows.Err()
}

func (r *UserRoleRepository) getOne(ctx context.Context, where string, args ...any) (*domrole.UserRole, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, code, name, description, is_system FROM user_roles `+where, args...)

	var role domrole.UserRole
	if err := row.Scan(&role.ID, &role.Code, &role.Name, &role.Description, &role.IsSystem); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domrole.ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}
