package storage

import (
	"context"
	"time"

	"admin-console/internal/models"

	sq "github.com/Masterminds/squirrel"
)

var userColumns = []string{"id", "name", "email", "password_hash", "created_at"}

func scanAccount(row interface{ Scan(...any) error }) (*models.Account, error) {
	var (
		a       models.Account
		created int64
	)
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &created); err != nil {
		return nil, err
	}
	a.CreatedAt = time.Unix(created, 0)
	return &a, nil
}

// CreateUser creates a new user with the given password hash.
func (db *DB) CreateUser(ctx context.Context, name, email, passwordHash string) (*models.Account, error) {
	query, args, err := db.sb.Insert("users").
		Columns("name", "email", "password_hash", "created_at").
		Values(name, email, passwordHash, time.Now().Unix()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var id int64
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return nil, err
	}
	return db.GetUserByID(ctx, id)
}

// GetUserByID retrieves a user by ID.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.Account, error) {
	return db.getUser(ctx, sq.Eq{"id": id})
}

// GetUserByEmail retrieves a user by email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.Account, error) {
	return db.getUser(ctx, sq.Eq{"email": email})
}

func (db *DB) getUser(ctx context.Context, where sq.Eq) (*models.Account, error) {
	query, args, err := db.sb.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	a, err := scanAccount(db.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// ListUsers returns all users ordered by id.
func (db *DB) ListUsers(ctx context.Context) ([]models.Account, error) {
	query, args, err := db.sb.Select(userColumns...).From("users").OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *a)
	}
	return users, rows.Err()
}

// UpdateUser updates name and email, and the password hash when one is given.
func (db *DB) UpdateUser(ctx context.Context, a *models.Account) error {
	update := db.sb.Update("users").
		Set("name", a.Name).
		Set("email", a.Email).
		Where(sq.Eq{"id": a.ID})
	if a.PasswordHash != "" {
		update = update.Set("password_hash", a.PasswordHash)
	}
	query, args, err := update.ToSql()
	if err != nil {
		return err
	}
	return affectedOne(db.conn.ExecContext(ctx, query, args...))
}

// DeleteUser removes a user by ID.
func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	query, args, err := db.sb.Delete("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	return affectedOne(db.conn.ExecContext(ctx, query, args...))
}

// UserCount returns the number of users in the database.
func (db *DB) UserCount(ctx context.Context) (int, error) {
	query, args, err := db.sb.Select("COUNT(*)").From("users").ToSql()
	if err != nil {
		return 0, err
	}
	var count int
	err = db.conn.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

var transactionColumns = []string{"id", "date", "amount", "discount", "total", "note", "created_at"}

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	var (
		t       models.Transaction
		created int64
	)
	if err := row.Scan(&t.ID, &t.Date, &t.Amount, &t.Discount, &t.Total, &t.Note, &created); err != nil {
		return nil, err
	}
	t.CreatedAt = time.Unix(created, 0)
	return &t, nil
}

// CreateTransaction inserts a transaction, computing its total.
func (db *DB) CreateTransaction(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	query, args, err := db.sb.Insert("transactions").
		Columns("date", "amount", "discount", "total", "note", "created_at").
		Values(t.Date, t.Amount, t.Discount, models.ComputeTotal(t.Amount, t.Discount), t.Note, time.Now().Unix()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var id int64
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return nil, err
	}
	return db.GetTransaction(ctx, id)
}

// GetTransaction retrieves a single transaction by ID.
func (db *DB) GetTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	query, args, err := db.sb.Select(transactionColumns...).From("transactions").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	t, err := scanTransaction(db.conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

// ListTransactions returns all transactions in insertion order.
func (db *DB) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	query, args, err := db.sb.Select(transactionColumns...).From("transactions").OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *t)
	}
	return txs, rows.Err()
}

// UpdateTransaction updates an existing transaction and recomputes its total.
func (db *DB) UpdateTransaction(ctx context.Context, t *models.Transaction) error {
	query, args, err := db.sb.Update("transactions").
		Set("date", t.Date).
		Set("amount", t.Amount).
		Set("discount", t.Discount).
		Set("total", models.ComputeTotal(t.Amount, t.Discount)).
		Set("note", t.Note).
		Where(sq.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return err
	}
	return affectedOne(db.conn.ExecContext(ctx, query, args...))
}

// DeleteTransaction removes a transaction by ID.
func (db *DB) DeleteTransaction(ctx context.Context, id int64) error {
	query, args, err := db.sb.Delete("transactions").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	return affectedOne(db.conn.ExecContext(ctx, query, args...))
}
