package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrNotFound indicates no account row exists for the user.
var ErrNotFound = errors.New("account: not found")

// Repository reads billing account rows. Implementations never write.
type Repository interface {
	FindByUserUID(ctx context.Context, userUID string) (Record, error)
}

// rowQuerier is the slice of pgxpool.Pool the repository needs.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ rowQuerier = (*pgxpool.Pool)(nil)

// PostgresRepository reads accounts from the billing database.
type PostgresRepository struct {
	db rowQuerier
}

// NewPostgresRepository builds a Postgres-backed account repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const findByUserUIDQuery = `SELECT "userUid", balance::text, deduction_balance::text
        FROM "Account" WHERE "userUid" = $1`

var _ Repository = (*PostgresRepository)(nil)

// FindByUserUID fetches the account keyed by the user's uid. Numerics are
// read as text so no precision is lost on the way to decimal. A uid that is
// not a UUID cannot match the uuid key column and reads as ErrNotFound.
func (r *PostgresRepository) FindByUserUID(ctx context.Context, userUID string) (Record, error) {
	uid, err := uuid.Parse(userUID)
	if err != nil {
		return Record{}, ErrNotFound
	}

	var (
		id        uuid.UUID
		balance   *string
		deduction *string
	)
	if err := r.db.QueryRow(ctx, findByUserUIDQuery, uid).Scan(&id, &balance, &deduction); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}

	rec := Record{UserUID: id.String()}
	if rec.Balance, err = parseNullable(balance); err != nil {
		return Record{}, fmt.Errorf("parse balance: %w", err)
	}
	if rec.DeductionBalance, err = parseNullable(deduction); err != nil {
		return Record{}, fmt.Errorf("parse deduction_balance: %w", err)
	}
	return rec, nil
}

func parseNullable(v *string) (decimal.NullDecimal, error) {
	if v == nil {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(*v)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
