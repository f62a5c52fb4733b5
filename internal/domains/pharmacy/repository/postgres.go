package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"medlink-backend/internal/domains/pharmacy"
)

type postgresPharmacyRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPharmacyRepository(pool *pgxpool.Pool) pharmacy.Repository {
	return &postgresPharmacyRepository{pool: pool}
}

const pharmacyColumns = `
	id, user_id, license_number, pharmacy_name, description, phone_number,
	street, city, state, zip_code, lat, lng, open_hours, website, person_name,
	delivery, verified, rejection_message, rating_sum, ratings_count,
	created_at, updated_at
`

func scanPharmacy(row pgx.Row) (*pharmacy.Pharmacy, error) {
	var p pharmacy.Pharmacy
	var openHours []byte
	err := row.Scan(
		&p.ID, &p.UserID, &p.LicenseNumber, &p.PharmacyName, &p.Description,
		&p.PhoneNumber, &p.Address.Street, &p.Address.City, &p.Address.State,
		&p.Address.ZipCode, &p.Location.Lat, &p.Location.Lng, &openHours,
		&p.Website, &p.PersonName, &p.Delivery, &p.Verified,
		&p.RejectionMessage, &p.RatingSum, &p.RatingsCount,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(openHours) > 0 {
		if err := json.Unmarshal(openHours, &p.OpenHours); err != nil {
			return nil, fmt.Errorf("decode open_hours: %w", err)
		}
	}
	return &p, nil
}

// ===== PROFILE =====

func (r *postgresPharmacyRepository) GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*pharmacy.Pharmacy, error) {
	query := `SELECT ` + pharmacyColumns + ` FROM pharmacies WHERE user_id = $1`

	p, err := scanPharmacy(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pharmacy.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get pharmacy profile: %w", err)
	}
	return p, nil
}

func (r *postgresPharmacyRepository) UpsertProfile(ctx context.Context, p *pharmacy.Pharmacy) error {
	openHours, err := json.Marshal(p.OpenHours)
	if err != nil {
		return fmt.Errorf("encode open_hours: %w", err)
	}

	// verified, rejection_message and the rating aggregates belong to
	// other workflows and survive a profile rewrite
	query := `
		INSERT INTO pharmacies (
			id, user_id, license_number, pharmacy_name, description,
			phone_number, street, city, state, zip_code, lat, lng,
			open_hours, website, person_name, delivery, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $17)
		ON CONFLICT (user_id) DO UPDATE SET
			license_number = EXCLUDED.license_number,
			pharmacy_name  = EXCLUDED.pharmacy_name,
			description    = EXCLUDED.description,
			phone_number   = EXCLUDED.phone_number,
			street         = EXCLUDED.street,
			city           = EXCLUDED.city,
			state          = EXCLUDED.state,
			zip_code       = EXCLUDED.zip_code,
			lat            = EXCLUDED.lat,
			lng            = EXCLUDED.lng,
			open_hours     = EXCLUDED.open_hours,
			website        = EXCLUDED.website,
			person_name    = EXCLUDED.person_name,
			delivery       = EXCLUDED.delivery,
			updated_at     = EXCLUDED.updated_at
	`
	_, err = r.pool.Exec(ctx, query,
		p.ID, p.UserID, p.LicenseNumber, p.PharmacyName, p.Description,
		p.PhoneNumber, p.Address.Street, p.Address.City, p.Address.State,
		p.Address.ZipCode, p.Location.Lat, p.Location.Lng, openHours,
		p.Website, p.PersonName, p.Delivery, p.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return pharmacy.ErrLicenseConflict
		}
		return fmt.Errorf("upsert pharmacy profile: %w", err)
	}
	return nil
}

func (r *postgresPharmacyRepository) GetByID(ctx context.Context, id uuid.UUID) (*pharmacy.Pharmacy, error) {
	query := `SELECT ` + pharmacyColumns + ` FROM pharmacies WHERE id = $1`

	p, err := scanPharmacy(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pharmacy.ErrPharmacyNotFound
		}
		return nil, fmt.Errorf("get pharmacy: %w", err)
	}
	return p, nil
}

// ===== DISCOVERY =====

func (r *postgresPharmacyRepository) Find(ctx context.Context, filter pharmacy.Filter) ([]pharmacy.Pharmacy, error) {
	conditions := []string{"verified = true"}
	args := []interface{}{}
	argIndex := 1

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("pharmacy_name ILIKE '%%' || $%d || '%%'", argIndex))
		args = append(args, filter.Name)
		argIndex++
	}

	if filter.Address != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(street ILIKE '%%' || $%d || '%%' OR city ILIKE '%%' || $%d || '%%' OR state ILIKE '%%' || $%d || '%%')",
			argIndex, argIndex, argIndex))
		args = append(args, filter.Address)
		argIndex++
	}

	if filter.Location != nil {
		// spherical law of cosines distance in meters
		conditions = append(conditions, fmt.Sprintf(`
			6371000 * acos(least(1.0,
				cos(radians($%d)) * cos(radians(lat)) * cos(radians(lng) - radians($%d))
				+ sin(radians($%d)) * sin(radians(lat))
			)) <= $%d`, argIndex, argIndex+1, argIndex, argIndex+2))
		args = append(args, filter.Location.Lat, filter.Location.Lng, filter.Location.Distance)
		argIndex += 3
	}

	if filter.OpenHour != nil {
		hourConds := []string{fmt.Sprintf("h->>'day' = $%d", argIndex)}
		args = append(args, filter.OpenHour.Day)
		argIndex++

		if filter.OpenHour.Close >= 0 {
			hourConds = append(hourConds, fmt.Sprintf("(h->>'open')::int < $%d", argIndex))
			args = append(args, filter.OpenHour.Close)
			argIndex++
		}
		if filter.OpenHour.Open >= 0 {
			hourConds = append(hourConds, fmt.Sprintf("(h->>'close')::int > $%d", argIndex))
			args = append(args, filter.OpenHour.Open)
			argIndex++
		}
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM jsonb_array_elements(open_hours) h WHERE %s)",
			strings.Join(hourConds, " AND ")))
	}

	if filter.Delivery != nil {
		conditions = append(conditions, fmt.Sprintf("delivery = $%d", argIndex))
		args = append(args, *filter.Delivery)
		argIndex++
	}

	if filter.MinRating != nil {
		conditions = append(conditions, fmt.Sprintf(
			"ratings_count > 0 AND rating_sum / ratings_count >= $%d", argIndex))
		args = append(args, *filter.MinRating)
		argIndex++
	}

	query := fmt.Sprintf(`
		SELECT %s FROM pharmacies
		WHERE %s
		ORDER BY pharmacy_name
		OFFSET $%d LIMIT $%d
	`, pharmacyColumns, strings.Join(conditions, " AND "), argIndex, argIndex+1)
	args = append(args, filter.Next*pharmacy.PageSize, pharmacy.PageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find pharmacies: %w", err)
	}
	defer rows.Close()

	results := make([]pharmacy.Pharmacy, 0, pharmacy.PageSize)
	for rows.Next() {
		p, err := scanPharmacy(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pharmacy: %w", err)
		}
		results = append(results, *p)
	}
	return results, rows.Err()
}

// ===== MEDICINES =====

const medicineColumns = `
	m.id, m.pharmacy_id, m.name, m.description, m.dosage, m.form, m.category,
	m.quantity, m.price, m.batch_number, m.manufactured_date, m.expiry_date,
	m.prescription_required, m.manufacturer, m.storage_instructions,
	m.stock_threshold, m.health_conditions, m.created_at, m.updated_at
`

func scanMedicine(row pgx.Row, withPharmacyName bool) (*pharmacy.Medicine, error) {
	var m pharmacy.Medicine
	dest := []interface{}{
		&m.ID, &m.PharmacyID, &m.Name, &m.Description, &m.Dosage, &m.Form,
		&m.Category, &m.Quantity, &m.Price, &m.BatchNumber,
		&m.ManufacturedDate, &m.ExpiryDate, &m.PrescriptionRequired,
		&m.Manufacturer, &m.StorageInstructions, &m.StockThreshold,
		&m.HealthConditions, &m.CreatedAt, &m.UpdatedAt,
	}
	if withPharmacyName {
		dest = append(dest, &m.PharmacyName)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *postgresPharmacyRepository) AddMedicine(ctx context.Context, m *pharmacy.Medicine) error {
	query := `
		INSERT INTO medicines (
			id, pharmacy_id, name, description, dosage, form, category,
			quantity, price, batch_number, manufactured_date, expiry_date,
			prescription_required, manufacturer, storage_instructions,
			stock_threshold, health_conditions, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)
	`
	_, err := r.pool.Exec(ctx, query,
		m.ID, m.PharmacyID, m.Name, m.Description, m.Dosage, m.Form,
		m.Category, m.Quantity, m.Price, m.BatchNumber, m.ManufacturedDate,
		m.ExpiryDate, m.PrescriptionRequired, m.Manufacturer,
		m.StorageInstructions, m.StockThreshold, m.HealthConditions,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("add medicine: %w", err)
	}
	return nil
}

func (r *postgresPharmacyRepository) UpdateMedicine(ctx context.Context, pharmacyID uuid.UUID, m *pharmacy.Medicine) error {
	query := `
		UPDATE medicines SET
			name = $3, description = $4, dosage = $5, form = $6, category = $7,
			quantity = $8, price = $9, batch_number = $10,
			manufactured_date = $11, expiry_date = $12,
			prescription_required = $13, manufacturer = $14,
			storage_instructions = $15, stock_threshold = $16,
			health_conditions = $17, updated_at = $18
		WHERE id = $1 AND pharmacy_id = $2
	`
	tag, err := r.pool.Exec(ctx, query,
		m.ID, pharmacyID, m.Name, m.Description, m.Dosage, m.Form, m.Category,
		m.Quantity, m.Price, m.BatchNumber, m.ManufacturedDate, m.ExpiryDate,
		m.PrescriptionRequired, m.Manufacturer, m.StorageInstructions,
		m.StockThreshold, m.HealthConditions, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update medicine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pharmacy.ErrMedicineNotFound
	}
	return nil
}

func (r *postgresPharmacyRepository) DeleteMedicines(ctx context.Context, pharmacyID uuid.UUID, medicineIDs []uuid.UUID) (int64, error) {
	query := `DELETE FROM medicines WHERE pharmacy_id = $1 AND id = ANY($2)`

	tag, err := r.pool.Exec(ctx, query, pharmacyID, medicineIDs)
	if err != nil {
		return 0, fmt.Errorf("delete medicines: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresPharmacyRepository) GetMedicines(ctx context.Context, pharmacyID uuid.UUID, count, page int) ([]pharmacy.Medicine, error) {
	query := `
		SELECT ` + medicineColumns + `
		FROM medicines m
		WHERE m.pharmacy_id = $1
		ORDER BY m.name
		OFFSET $2 LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, pharmacyID, (page-1)*count, count)
	if err != nil {
		return nil, fmt.Errorf("get medicines: %w", err)
	}
	defer rows.Close()

	return collectMedicines(rows, false)
}

func (r *postgresPharmacyRepository) GetMedicine(ctx context.Context, id uuid.UUID) (*pharmacy.Medicine, error) {
	query := `
		SELECT ` + medicineColumns + `, p.pharmacy_name
		FROM medicines m
		JOIN pharmacies p ON p.id = m.pharmacy_id
		WHERE m.id = $1
	`
	m, err := scanMedicine(r.pool.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pharmacy.ErrMedicineNotFound
		}
		return nil, fmt.Errorf("get medicine: %w", err)
	}
	return m, nil
}

func (r *postgresPharmacyRepository) SearchMedicines(ctx context.Context, filter pharmacy.MedicineFilter) ([]pharmacy.Medicine, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIndex := 1

	addCondition := func(cond string, vals ...interface{}) {
		conditions = append(conditions, cond)
		args = append(args, vals...)
		argIndex += len(vals)
	}

	if filter.PharmacyID != nil {
		addCondition(fmt.Sprintf("m.pharmacy_id = $%d", argIndex), *filter.PharmacyID)
	}
	if filter.Name != "" {
		addCondition(fmt.Sprintf("m.name ILIKE '%%' || $%d || '%%'", argIndex), filter.Name)
	}
	if filter.Category != "" {
		addCondition(fmt.Sprintf("m.category = $%d", argIndex), filter.Category)
	}
	if filter.Form != "" {
		addCondition(fmt.Sprintf("m.form = $%d", argIndex), filter.Form)
	}
	if filter.Dosage != "" {
		addCondition(fmt.Sprintf("m.dosage = $%d", argIndex), filter.Dosage)
	}
	if filter.PrescriptionRequired != nil {
		addCondition(fmt.Sprintf("m.prescription_required = $%d", argIndex), *filter.PrescriptionRequired)
	}
	if filter.Manufacturer != "" {
		addCondition(fmt.Sprintf("m.manufacturer ILIKE '%%' || $%d || '%%'", argIndex), filter.Manufacturer)
	}
	if filter.PriceRange != nil {
		if filter.PriceRange.Min != nil {
			addCondition(fmt.Sprintf("m.price >= $%d", argIndex), *filter.PriceRange.Min)
		}
		if filter.PriceRange.Max != nil {
			addCondition(fmt.Sprintf("m.price <= $%d", argIndex), *filter.PriceRange.Max)
		}
	}

	switch filter.Availability {
	case pharmacy.InStock:
		conditions = append(conditions, "m.quantity > 0")
	case pharmacy.LowStock:
		conditions = append(conditions, "m.quantity > 0 AND m.quantity <= m.stock_threshold")
	case pharmacy.OutOfStock:
		conditions = append(conditions, "m.quantity = 0")
	}

	query := fmt.Sprintf(`
		SELECT %s, p.pharmacy_name
		FROM medicines m
		JOIN pharmacies p ON p.id = m.pharmacy_id
		WHERE %s
		ORDER BY m.name
		OFFSET $%d LIMIT $%d
	`, medicineColumns, strings.Join(conditions, " AND "), argIndex, argIndex+1)
	args = append(args, filter.Next*pharmacy.PageSize, pharmacy.PageSize)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search medicines: %w", err)
	}
	defer rows.Close()

	return collectMedicines(rows, true)
}

func (r *postgresPharmacyRepository) RecommendMedicines(ctx context.Context, conditions []string, count, page int) ([]pharmacy.Medicine, error) {
	query := `
		SELECT ` + medicineColumns + `, p.pharmacy_name
		FROM medicines m
		JOIN pharmacies p ON p.id = m.pharmacy_id
		WHERE m.health_conditions && $1 AND m.quantity > 0
		ORDER BY m.name
		OFFSET $2 LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, conditions, (page-1)*count, count)
	if err != nil {
		return nil, fmt.Errorf("recommend medicines: %w", err)
	}
	defer rows.Close()

	return collectMedicines(rows, true)
}

func collectMedicines(rows pgx.Rows, withPharmacyName bool) ([]pharmacy.Medicine, error) {
	results := make([]pharmacy.Medicine, 0, pharmacy.PageSize)
	for rows.Next() {
		m, err := scanMedicine(rows, withPharmacyName)
		if err != nil {
			return nil, fmt.Errorf("scan medicine: %w", err)
		}
		results = append(results, *m)
	}
	return results, rows.Err()
}
