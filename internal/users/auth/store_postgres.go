// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pollenlabs/pollen/internal/platform/database/schema"
	"github.com/pollenlabs/pollen/internal/platform/dberr"
)

// # User Repository

type PostgresUserRepository struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepository(db *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func userSelectColumns() string {
	t := schema.UserAccount
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.Username, t.Email, t.Password, t.FirstName, t.LastName,
		t.Role, t.IsActive, t.GoogleUserID, t.LastLoginAt, t.CreatedAt, t.UpdatedAt)
}

func scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Role, &u.IsActive, &u.GoogleUserID, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (repository *PostgresUserRepository) findBy(context context.Context, column, value string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userSelectColumns(), schema.UserAccount.Table, column)

	user, err := scanUser(repository.db.QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, "find_user_by_"+column)
	}
	return user, nil
}

func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.ID, id)
}

func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.Email, email)
}

func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.Username, username)
}

func userInsertQuery() string {
	t := schema.UserAccount
	return fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s, %s
	`,
		t.Table, t.ID, t.Username, t.Email, t.Password, t.FirstName, t.LastName,
		t.Role, t.IsActive, t.GoogleUserID,
		t.CreatedAt, t.UpdatedAt)
}

func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	err := repository.db.QueryRow(context, userInsertQuery(),
		user.ID, user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.Role, user.IsActive, user.GoogleUserID,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_user")
	}
	return nil
}

func (repository *PostgresUserRepository) CreateConsumingCode(context context.Context, user *User, codeID string) error {
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_consuming_code")
	}
	defer transaction.Rollback(context)

	err = transaction.QueryRow(context, userInsertQuery(),
		user.ID, user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName,
		user.Role, user.IsActive, user.GoogleUserID,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_user_tx")
	}

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.UserVerificationCode.Table, schema.UserVerificationCode.ID)
	tag, err := transaction.Exec(context, deleteQuery, codeID)
	if err != nil {
		return dberr.Wrap(err, "consume_code_tx")
	}
	// A zero-row delete means another request consumed the code first.
	if tag.RowsAffected() == 0 {
		return ErrInvalidCode
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_create_consuming_code")
	}
	return nil
}

func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	t := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8,
			%s = NOW()
		WHERE %s = $1
	`,
		t.Table,
		t.Username, t.FirstName, t.LastName, t.Role, t.IsActive, t.GoogleUserID, t.LastLoginAt,
		t.UpdatedAt, t.ID)

	_, err := repository.db.Exec(context, query,
		user.ID, user.Username, user.FirstName, user.LastName,
		user.Role, user.IsActive, user.GoogleUserID, user.LastLoginAt)
	if err != nil {
		return dberr.Wrap(err, "update_user")
	}
	return nil
}

func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	t := schema.UserAccount
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		t.Table, t.Password, t.UpdatedAt, t.ID)

	if _, err := repository.db.Exec(context, query, userID, newHash); err != nil {
		return dberr.Wrap(err, "update_password")
	}
	return nil
}

// # Session Repository

type PostgresSessionRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSessionRepository(db *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

func (repository *PostgresSessionRepository) Create(context context.Context, session *Session) error {
	t := schema.UserSession
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s
	`,
		t.Table, t.ID, t.UserID, t.TokenHash, t.UserAgent, t.IPAddress, t.ExpiresAt, t.IsRevoked,
		t.CreatedAt)

	err := repository.db.QueryRow(context, query,
		session.ID, session.UserID, session.TokenHash, session.UserAgent,
		session.IPAddress, session.ExpiresAt, session.IsRevoked,
	).Scan(&session.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_session")
	}
	return nil
}

func (repository *PostgresSessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*Session, error) {
	t := schema.UserSession
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = FALSE AND %s > NOW()
	`,
		t.ID, t.UserID, t.TokenHash, t.UserAgent, t.IPAddress, t.ExpiresAt, t.IsRevoked, t.CreatedAt,
		t.Table,
		t.TokenHash, t.IsRevoked, t.ExpiresAt)

	s := &Session{}
	err := repository.db.QueryRow(context, query, tokenHash).Scan(
		&s.ID, &s.UserID, &s.TokenHash, &s.UserAgent, &s.IPAddress,
		&s.ExpiresAt, &s.IsRevoked, &s.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_session_by_token_hash")
	}
	return s, nil
}

func (repository *PostgresSessionRepository) Revoke(context context.Context, sessionID string) error {
	t := schema.UserSession
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1`, t.Table, t.IsRevoked, t.ID)

	if _, err := repository.db.Exec(context, query, sessionID); err != nil {
		return dberr.Wrap(err, "revoke_session")
	}
	return nil
}

func (repository *PostgresSessionRepository) RevokeAll(context context.Context, userID string) error {
	t := schema.UserSession
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1 AND %s = FALSE`,
		t.Table, t.IsRevoked, t.UserID, t.IsRevoked)

	if _, err := repository.db.Exec(context, query, userID); err != nil {
		return dberr.Wrap(err, "revoke_all_sessions")
	}
	return nil
}

func (repository *PostgresSessionRepository) DeleteExpired(context context.Context) error {
	t := schema.UserSession
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s <= NOW()`, t.Table, t.ExpiresAt)

	if _, err := repository.db.Exec(context, query); err != nil {
		return dberr.Wrap(err, "delete_expired_sessions")
	}
	return nil
}

// # Verification Code Repository

type PostgresCodeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresCodeRepository(db *pgxpool.Pool) *PostgresCodeRepository {
	return &PostgresCodeRepository{db: db}
}

func (repository *PostgresCodeRepository) Replace(context context.Context, code *VerificationCode) error {
	t := schema.UserVerificationCode

	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_replace_code")
	}
	defer transaction.Rollback(context)

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		t.Table, t.Email, t.Purpose)
	if _, err := transaction.Exec(context, deleteQuery, code.Email, code.Purpose); err != nil {
		return dberr.Wrap(err, "delete_prior_codes")
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
	`,
		t.Table, t.ID, t.Email, t.Code, t.Purpose, t.CreatedAt)
	if _, err := transaction.Exec(context, insertQuery,
		code.ID, code.Email, code.Code, code.Purpose, code.CreatedAt); err != nil {
		return dberr.Wrap(err, "insert_code")
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_replace_code")
	}
	return nil
}

func (repository *PostgresCodeRepository) FindLatest(context context.Context, email string, purpose Purpose) (*VerificationCode, error) {
	t := schema.UserVerificationCode
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2
		ORDER BY %s DESC
		LIMIT 1
	`,
		t.ID, t.Email, t.Code, t.Purpose, t.CreatedAt,
		t.Table, t.Email, t.Purpose, t.CreatedAt)

	c := &VerificationCode{}
	err := repository.db.QueryRow(context, query, email, purpose).Scan(
		&c.ID, &c.Email, &c.Code, &c.Purpose, &c.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_latest_code")
	}
	return c, nil
}

func (repository *PostgresCodeRepository) Delete(context context.Context, id string) error {
	t := schema.UserVerificationCode
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, t.Table, t.ID)

	if _, err := repository.db.Exec(context, query, id); err != nil {
		return dberr.Wrap(err, "delete_code")
	}
	return nil
}

// # Audit Event Repository

type PostgresEventRepository struct {
	db *pgxpool.Pool
}

func NewPostgresEventRepository(db *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

// encodeEventExtra renders the extra map as a JSONB payload. The column is
// NOT NULL, so an absent map must encode as the empty object — a nil []byte
// would reach the driver as SQL NULL and the insert would be rejected.
func encodeEventExtra(extra map[string]string) ([]byte, error) {
	if len(extra) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(extra)
}

func (repository *PostgresEventRepository) Create(context context.Context, event *AuthEvent) error {
	t := schema.SystemAuthEvent

	extra, err := encodeEventExtra(event.Extra)
	if err != nil {
		return fmt.Errorf("marshal event extra: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		t.Table, t.ID, t.UserID, t.Email, t.EventType, t.IPAddress, t.UserAgent, t.Extra, t.Timestamp)

	if _, err := repository.db.Exec(context, query,
		event.ID, event.UserID, event.Email, event.EventType,
		event.IPAddress, event.UserAgent, extra, event.Timestamp); err != nil {
		return dberr.Wrap(err, "create_auth_event")
	}
	return nil
}

func (repository *PostgresEventRepository) ListRecent(context context.Context, limit int) ([]AuthEvent, error) {
	t := schema.SystemAuthEvent
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		ORDER BY %s DESC
		LIMIT $1
	`,
		t.ID, t.UserID, t.Email, t.EventType, t.IPAddress, t.UserAgent, t.Extra, t.Timestamp,
		t.Table, t.Timestamp)

	rows, err := repository.db.Query(context, query, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "list_auth_events")
	}
	defer rows.Close()

	events := make([]AuthEvent, 0, limit)
	for rows.Next() {
		var event AuthEvent
		var extra []byte
		err := rows.Scan(
			&event.ID, &event.UserID, &event.Email, &event.EventType,
			&event.IPAddress, &event.UserAgent, &extra, &event.Timestamp,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_auth_event")
		}
		if len(extra) > 0 {
			if err := json.Unmarshal(extra, &event.Extra); err != nil {
				return nil, fmt.Errorf("unmarshal event extra: %w", err)
			}
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
