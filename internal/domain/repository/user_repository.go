package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"thesis_hub/internal/common"
	"thesis_hub/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	DeleteByID(ctx context.Context, id int) error

	// EnsureRole returns the shared role row for the name, creating it when
	// absent. Role rows are deduplicated globally by name.
	EnsureRole(ctx context.Context, name model.Role) (*model.RoleRow, error)

	// UpdateRoles clears the user's role associations and installs the given
	// list in one transaction.
	UpdateRoles(ctx context.Context, userID int, roles []model.RoleRow) error

	// Migrate re-creates the account under a new kind: a new row copying
	// name/surname/email/password plus the given roles, then the old row is
	// deleted. The whole move runs in one transaction and the old id stops
	// resolving afterwards.
	Migrate(ctx context.Context, userID int, kind model.AccountKind, roles []model.RoleRow) (*model.User, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO users (name, surname, email, hashed_password, kind)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`
	err = tx.QueryRowContext(ctx, query, user.Name, user.Surname, user.Email, user.HashedPassword, user.Kind).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return fmt.Errorf("user with given email already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}

	if err := insertRoleLinks(ctx, tx, user.ID, user.Roles); err != nil {
		return err
	}
	if user.Kind == model.KindStudent {
		if _, err := tx.ExecContext(ctx, `INSERT INTO students (user_id) VALUES ($1)`, user.ID); err != nil {
			return fmt.Errorf("pgUserRepository.Create students row: %w", err)
		}
	}
	return tx.Commit()
}

const userColumns = `id, name, surname, email, hashed_password, kind, created_at, updated_at`

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Surname, &user.Email,
		&user.HashedPassword, &user.Kind, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id int) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("pgUserRepository.FindByID: %w", err)
	}
	if user.Roles, err = r.loadRoles(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("pgUserRepository.FindByEmail: %w", err)
	}
	if user.Roles, err = r.loadRoles(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) FindAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.FindAll: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user := model.User{}
		if err := rows.Scan(&user.ID, &user.Name, &user.Surname, &user.Email,
			&user.HashedPassword, &user.Kind, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgUserRepository.FindAll: %w", err)
		}
		if user.Roles, err = r.loadRoles(ctx, user.ID); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *pgUserRepository) DeleteByID(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgUserRepository.DeleteByID: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgUserRepository) EnsureRole(ctx context.Context, name model.Role) (*model.RoleRow, error) {
	role := &model.RoleRow{Name: name}
	err := r.db.QueryRowContext(ctx, `SELECT id FROM roles WHERE name = $1`, name).Scan(&role.ID)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pgUserRepository.EnsureRole: %w", err)
	}
	err = r.db.QueryRowContext(ctx,
		`INSERT INTO roles (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`, name).Scan(&role.ID)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.EnsureRole: %w", err)
	}
	return role, nil
}

func (r *pgUserRepository) UpdateRoles(ctx context.Context, userID int, roles []model.RoleRow) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgUserRepository.UpdateRoles: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("pgUserRepository.UpdateRoles: %w", err)
	}
	if err := insertRoleLinks(ctx, tx, userID, roles); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *pgUserRepository) Migrate(ctx context.Context, userID int, kind model.AccountKind, roles []model.RoleRow) (*model.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.Migrate: %w", err)
	}
	defer tx.Rollback()

	old := &model.User{}
	err = tx.QueryRowContext(ctx,
		`SELECT name, surname, email, hashed_password FROM users WHERE id = $1`, userID).
		Scan(&old.Name, &old.Surname, &old.Email, &old.HashedPassword)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.Migrate: %w", err)
	}

	// The old row goes first so its unique email frees up for the new one.
	// Dependent rows (submissions, bids, supervision links) cascade away;
	// the migration copies identity fields and roles only.
	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return nil, fmt.Errorf("pgUserRepository.Migrate: %w", err)
	}

	fresh := &model.User{
		Name:           old.Name,
		Surname:        old.Surname,
		Email:          old.Email,
		HashedPassword: old.HashedPassword,
		Kind:           kind,
		Roles:          roles,
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO users (name, surname, email, hashed_password, kind)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`,
		fresh.Name, fresh.Surname, fresh.Email, fresh.HashedPassword, fresh.Kind).
		Scan(&fresh.ID, &fresh.CreatedAt, &fresh.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.Migrate: %w", err)
	}

	if err := insertRoleLinks(ctx, tx, fresh.ID, roles); err != nil {
		return nil, err
	}
	if kind == model.KindStudent {
		if _, err := tx.ExecContext(ctx, `INSERT INTO students (user_id) VALUES ($1)`, fresh.ID); err != nil {
			return nil, fmt.Errorf("pgUserRepository.Migrate students row: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("pgUserRepository.Migrate: %w", err)
	}
	return fresh, nil
}

func (r *pgUserRepository) loadRoles(ctx context.Context, userID int) ([]model.RoleRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ro.id, ro.name FROM roles ro
		 JOIN user_roles ur ON ur.role_id = ro.id
		 WHERE ur.user_id = $1 ORDER BY ro.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.loadRoles: %w", err)
	}
	defer rows.Close()

	var roles []model.RoleRow
	for rows.Next() {
		role := model.RoleRow{}
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("pgUserRepository.loadRoles: %w", err)
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func insertRoleLinks(ctx context.Context, tx *sql.Tx, userID int, roles []model.RoleRow) error {
	for _, role := range roles {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`, userID, role.ID); err != nil {
			return fmt.Errorf("repository.insertRoleLinks: %w", err)
		}
	}
	return nil
}
