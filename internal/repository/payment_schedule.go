package repository

import (
	"context"
	"database/sql"

	"product-engine/internal/domain"
)

// PaymentScheduleRepository reads installment rows. Nothing in this service
// writes them; schedule generation is owned by the amortization component.
type PaymentScheduleRepository struct {
	db *sql.DB
}

func NewPaymentScheduleRepository(db *sql.DB) *PaymentScheduleRepository {
	return &PaymentScheduleRepository{db: db}
}

func (r *PaymentScheduleRepository) ListByAgreement(ctx context.Context, agreementID int64) ([]domain.PaymentSchedule, error) {
	query := `
		SELECT
			schedule_id,
			agreement_id,
			schedule_iteration,
			payment_date,
			period_start,
			period_end,
			body_payment_amount,
			interest_payment_amount,
			payment_number,
			payment_status
		FROM payment_schedule
		WHERE agreement_id = $1
		ORDER BY schedule_iteration, payment_number`

	rows, err := r.db.QueryContext(ctx, query, agreementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PaymentSchedule
	for rows.Next() {
		var s domain.PaymentSchedule
		if err := rows.Scan(
			&s.ID,
			&s.AgreementID,
			&s.ScheduleIteration,
			&s.PaymentDate,
			&s.PeriodStart,
			&s.PeriodEnd,
			&s.BodyPaymentAmount,
			&s.InterestPaymentAmount,
			&s.PaymentNumber,
			&s.PaymentStatus,
		); err != nil {
			return nil, err
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
