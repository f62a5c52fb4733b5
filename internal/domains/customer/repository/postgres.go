package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medlink-backend/internal/domains/customer"
)

type postgresCustomerRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCustomerRepository(pool *pgxpool.Pool) customer.Repository {
	return &postgresCustomerRepository{pool: pool}
}

func (r *postgresCustomerRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*customer.Customer, error) {
	query := `
		SELECT id, user_id, phone_number, alternate_phone_number,
		       date_of_birth, street, city, state, zip_code,
		       emergency_name, emergency_phone, health_conditions,
		       created_at, updated_at
		FROM customers
		WHERE user_id = $1
	`
	var c customer.Customer
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&c.ID, &c.UserID, &c.PhoneNumber, &c.AlternatePhoneNumber,
		&c.DateOfBirth, &c.DeliveryAddress.Street, &c.DeliveryAddress.City,
		&c.DeliveryAddress.State, &c.DeliveryAddress.ZipCode,
		&c.EmergencyContact.Name, &c.EmergencyContact.Phone,
		&c.HealthConditions, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get customer profile: %w", err)
	}
	return &c, nil
}

func (r *postgresCustomerRepository) Upsert(ctx context.Context, c *customer.Customer) error {
	query := `
		INSERT INTO customers (
			id, user_id, phone_number, alternate_phone_number, date_of_birth,
			street, city, state, zip_code, emergency_name, emergency_phone,
			health_conditions, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
		ON CONFLICT (user_id) DO UPDATE SET
			phone_number           = EXCLUDED.phone_number,
			alternate_phone_number = EXCLUDED.alternate_phone_number,
			date_of_birth          = EXCLUDED.date_of_birth,
			street                 = EXCLUDED.street,
			city                   = EXCLUDED.city,
			state                  = EXCLUDED.state,
			zip_code               = EXCLUDED.zip_code,
			emergency_name         = EXCLUDED.emergency_name,
			emergency_phone        = EXCLUDED.emergency_phone,
			health_conditions      = EXCLUDED.health_conditions,
			updated_at             = EXCLUDED.updated_at
	`
	_, err := r.pool.Exec(ctx, query,
		c.ID, c.UserID, c.PhoneNumber, c.AlternatePhoneNumber, c.DateOfBirth,
		c.DeliveryAddress.Street, c.DeliveryAddress.City,
		c.DeliveryAddress.State, c.DeliveryAddress.ZipCode,
		c.EmergencyContact.Name, c.EmergencyContact.Phone,
		c.HealthConditions, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert customer profile: %w", err)
	}
	return nil
}
