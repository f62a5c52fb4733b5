package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"medlink-backend/internal/domains/review"
	"medlink-backend/pkg/database"
)

type postgresReviewRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresReviewRepository(pool *pgxpool.Pool) review.Repository {
	return &postgresReviewRepository{pool: pool}
}

func (r *postgresReviewRepository) FindByUserAndPharmacy(ctx context.Context, userID, pharmacyID uuid.UUID) (*review.Review, error) {
	query := `
		SELECT id, user_id, pharmacy_id, rate, content, created_at, updated_at
		FROM reviews
		WHERE user_id = $1 AND pharmacy_id = $2
	`
	var rev review.Review
	err := r.pool.QueryRow(ctx, query, userID, pharmacyID).Scan(
		&rev.ID, &rev.UserID, &rev.PharmacyID, &rev.Rate, &rev.Content,
		&rev.CreatedAt, &rev.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, review.ErrReviewNotFound
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	return &rev, nil
}

func (r *postgresReviewRepository) CreateWithAggregate(ctx context.Context, rev *review.Review) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		insert := `
			INSERT INTO reviews (id, user_id, pharmacy_id, rate, content, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $6)
		`
		_, err := tx.Exec(ctx, insert,
			rev.ID, rev.UserID, rev.PharmacyID, rev.Rate, rev.Content, rev.CreatedAt,
		)
		if err != nil {
			// unique constraint on (user_id, pharmacy_id)
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return review.ErrReviewExists
			}
			return fmt.Errorf("insert review: %w", err)
		}

		// additive delta keeps concurrent writes commutative
		update := `
			UPDATE pharmacies
			SET rating_sum = rating_sum + $2, ratings_count = ratings_count + 1
			WHERE id = $1
		`
		tag, err := tx.Exec(ctx, update, rev.PharmacyID, float64(rev.Rate))
		if err != nil {
			return fmt.Errorf("apply rating delta: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("apply rating delta: pharmacy %s vanished", rev.PharmacyID)
		}
		return nil
	})
}

func (r *postgresReviewRepository) UpdateWithAggregate(ctx context.Context, rev *review.Review) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		// the old rate is read and replaced in one statement so the
		// delta always matches the row the update actually hit
		update := `
			UPDATE reviews cur
			SET rate = $3, content = $4, updated_at = $5
			FROM reviews prev
			WHERE cur.id = prev.id
			  AND cur.user_id = $1 AND cur.pharmacy_id = $2
			RETURNING prev.rate
		`
		var oldRate int
		err := tx.QueryRow(ctx, update,
			rev.UserID, rev.PharmacyID, rev.Rate, rev.Content, rev.UpdatedAt,
		).Scan(&oldRate)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return review.ErrReviewNotFound
			}
			return fmt.Errorf("update review: %w", err)
		}

		if oldRate == rev.Rate {
			return nil
		}
		delta := `
			UPDATE pharmacies
			SET rating_sum = rating_sum + $2
			WHERE id = $1
		`
		if _, err := tx.Exec(ctx, delta, rev.PharmacyID, float64(rev.Rate-oldRate)); err != nil {
			return fmt.Errorf("apply rating delta: %w", err)
		}
		return nil
	})
}

func (r *postgresReviewRepository) DeleteWithAggregate(ctx context.Context, userID, reviewID uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		del := `
			DELETE FROM reviews
			WHERE id = $1 AND user_id = $2
			RETURNING pharmacy_id, rate
		`
		var pharmacyID uuid.UUID
		var rate int
		if err := tx.QueryRow(ctx, del, reviewID, userID).Scan(&pharmacyID, &rate); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return review.ErrReviewNotFound
			}
			return fmt.Errorf("delete review: %w", err)
		}

		delta := `
			UPDATE pharmacies
			SET rating_sum = rating_sum - $2, ratings_count = ratings_count - 1
			WHERE id = $1
		`
		if _, err := tx.Exec(ctx, delta, pharmacyID, float64(rate)); err != nil {
			return fmt.Errorf("apply rating delta: %w", err)
		}
		return nil
	})
}

func (r *postgresReviewRepository) ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID, userID *uuid.UUID, count, page int) ([]review.Review, error) {
	query := `
		SELECT r.id, r.user_id, r.pharmacy_id, r.rate, r.content,
		       r.created_at, r.updated_at, u.full_name
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.pharmacy_id = $1 AND ($2::uuid IS NULL OR r.user_id = $2)
		ORDER BY r.created_at DESC
		OFFSET $3 LIMIT $4
	`
	rows, err := r.pool.Query(ctx, query, pharmacyID, userID, (page-1)*count, count)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	results := make([]review.Review, 0, count)
	for rows.Next() {
		var rev review.Review
		err := rows.Scan(
			&rev.ID, &rev.UserID, &rev.PharmacyID, &rev.Rate, &rev.Content,
			&rev.CreatedAt, &rev.UpdatedAt, &rev.UserFullName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		results = append(results, rev)
	}
	return results, rows.Err()
}

// ===== MEDICINE REVIEWS =====

func (r *postgresReviewRepository) CreateMedicineReview(ctx context.Context, rev *review.MedicineReview) error {
	query := `
		INSERT INTO medicine_reviews (id, user_id, medicine_id, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		rev.ID, rev.UserID, rev.MedicineID, rev.Message, rev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert medicine review: %w", err)
	}
	return nil
}

func (r *postgresReviewRepository) ListByMedicine(ctx context.Context, medicineID uuid.UUID, userID *uuid.UUID, count, page int) ([]review.MedicineReview, error) {
	query := `
		SELECT r.id, r.user_id, r.medicine_id, r.message, r.created_at, u.full_name
		FROM medicine_reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.medicine_id = $1 AND ($2::uuid IS NULL OR r.user_id = $2)
		ORDER BY r.created_at DESC
		OFFSET $3 LIMIT $4
	`
	rows, err := r.pool.Query(ctx, query, medicineID, userID, (page-1)*count, count)
	if err != nil {
		return nil, fmt.Errorf("list medicine reviews: %w", err)
	}
	defer rows.Close()

	results := make([]review.MedicineReview, 0, count)
	for rows.Next() {
		var rev review.MedicineReview
		err := rows.Scan(
			&rev.ID, &rev.UserID, &rev.MedicineID, &rev.Message,
			&rev.CreatedAt, &rev.UserFullName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan medicine review: %w", err)
		}
		results = append(results, rev)
	}
	return results, rows.Err()
}

func (r *postgresReviewRepository) DeleteMedicineReviews(ctx context.Context, userID uuid.UUID, reviewIDs []uuid.UUID) (int64, error) {
	query := `DELETE FROM medicine_reviews WHERE user_id = $1 AND id = ANY($2)`

	tag, err := r.pool.Exec(ctx, query, userID, reviewIDs)
	if err != nil {
		return 0, fmt.Errorf("delete medicine reviews: %w", err)
	}
	return tag.RowsAffected(), nil
}
