package repository

import (
	"context"

	"lounge-booking/internal/domain/booking"
	"lounge-booking/internal/domain/customer"
	"lounge-booking/internal/infra"
	"lounge-booking/internal/infra/db"
	"lounge-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const customerColumns = `id, name, phone, email, custom_id, total_spend, visit_count, created_at`

type CustomerRepository struct {
	db db.DBTX
}

func NewCustomerRepository(db db.DBTX) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) FindByPhone(ctx context.Context, phone customer.Phone) (*customer.Customer, error) {
	row := r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE phone = $1`, phone.String())
	c, err := scanCustomer(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find customer by phone", err)
	}
	return c, nil
}

// FindByRef accepts either the row id or the CUS customer code.
func (r *CustomerRepository) FindByRef(ctx context.Context, ref string) (*customer.Customer, error) {
	if ref == "" {
		return nil, infra.NewRepoErr(infra.KindNotFound, "empty customer reference")
	}

	var (
		c   *customer.Customer
		err error
	)
	if id, perr := uuid.Parse(ref); perr == nil {
		c, err = scanCustomer(r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	} else {
		c, err = scanCustomer(r.db.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE custom_id = $1`, ref))
	}
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find customer", err)
	}
	return c, nil
}

// Create reports DUPLICATE_KEY with the violated constraint name, either
// customers_phone_key or customers_custom_id_key.
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO customers (id, name, phone, email, custom_id, total_spend, visit_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID(), c.Name(), c.Phone().String(), pgconv.TextFromString(c.Email()), c.CustomID(),
		pgconv.DecimalToNumeric(c.TotalSpend()), c.VisitCount(), pgconv.TimeToPgtype(c.CreatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create customer", err)
	}
	return nil
}

func (r *CustomerRepository) RecordVisit(ctx context.Context, id uuid.UUID, spend booking.Pricing) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE customers
		SET total_spend = total_spend + $2, visit_count = visit_count + 1
		WHERE id = $1`,
		id, pgconv.DecimalToNumeric(spend.FinalPrice))
	if err != nil {
		return infra.WrapRepoErr("failed to record customer visit", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "customer not found")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*customer.Customer, error) {
	var (
		id        uuid.UUID
		name      string
		phone     string
		email     pgtype.Text
		customID  string
		spend     pgtype.Numeric
		visits    int32
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &name, &phone, &email, &customID, &spend, &visits, &createdAt); err != nil {
		return nil, err
	}
	total, err := pgconv.DecimalFromNumeric(spend)
	if err != nil {
		return nil, err
	}
	return customer.ReconstructCustomer(
		id, name, customer.PhoneFromStored(phone), pgconv.StringFromPgtype(email), customID,
		total, int(visits), pgconv.TimeFromPgtype(createdAt),
	), nil
}
