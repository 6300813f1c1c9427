package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// CustomerService manages the customer directory.
type CustomerService interface {
	CreateCustomer(ctx context.Context, in NewCustomerInput, actorID int) (*Customer, error)
	GetCustomer(ctx context.Context, id int) (*Customer, error)
	GetCustomers(ctx context.Context) ([]Customer, error)
}

type customerService struct {
	pool   *pgxpool.Pool
	audit  AuditLogger
	logger *zap.Logger
}

func NewCustomerService(pool *pgxpool.Pool, opts Options) CustomerService {
	opts = opts.withDefaults()
	return &customerService{pool: pool, audit: opts.Audit, logger: opts.Logger.Named("customers")}
}

func (s *customerService) CreateCustomer(ctx context.Context, in NewCustomerInput, actorID int) (*Customer, error) {
	if err := validateCustomer(in); err != nil {
		return nil, err
	}
	c, err := insertCustomer(ctx, s.pool, in)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, AuditEvent{
		Action: AuditCustomerCreated, EntityType: "customer", EntityID: c.ID,
		ActorID: actorID, NewState: c,
	})
	return c, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id int) (*Customer, error) {
	return getCustomer(ctx, s.pool, id)
}

func (s *customerService) GetCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, email, phone, created_at FROM customers ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}
	return customers, nil
}

// insertCustomer is shared with CreateSale, which creates a customer inside
// the sale transaction.
func insertCustomer(ctx context.Context, q querier, in NewCustomerInput) (*Customer, error) {
	var c Customer
	err := q.QueryRow(ctx, `
		INSERT INTO customers (name, email, phone)
		VALUES ($1, $2, $3)
		RETURNING id, name, email, phone, created_at
	`, strings.TrimSpace(in.Name), strings.TrimSpace(in.Email), strings.TrimSpace(in.Phone)).
		Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert customer: %w", err)
	}
	return &c, nil
}

func getCustomer(ctx context.Context, q querier, id int) (*Customer, error) {
	var c Customer
	err := q.QueryRow(ctx, `SELECT id, name, email, phone, created_at FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("customer", id)
		}
		return nil, fmt.Errorf("failed to fetch customer %d: %w", id, err)
	}
	return &c, nil
}
