package repository

import (
	"context"
	"database/sql"
	"time"

	"product-engine/internal/domain"
)

// NewAgreement carries the resolved values for one agreement insert.
type NewAgreement struct {
	ClientID          int64
	ProductID         int64
	LoadTerm          int
	PrincipalAmount   int
	Interest          float64
	OriginationAmount int
	ActivationDttm    time.Time
	AgreementStatus   string
}

type AgreementRepository struct {
	db *sql.DB
}

func NewAgreementRepository(db *sql.DB) *AgreementRepository {
	return &AgreementRepository{db: db}
}

// Create inserts an agreement and returns it with the generated id.
func (r *AgreementRepository) Create(ctx context.Context, a NewAgreement) (*domain.Agreement, error) {
	query := `
		INSERT INTO agreement (
			client_id,
			product_id,
			load_term,
			principal_amount,
			interest,
			origination_amount,
			activation_dttm,
			agreement_status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING agreement_id`

	out := domain.Agreement{
		ClientID:          a.ClientID,
		ProductID:         a.ProductID,
		LoadTerm:          a.LoadTerm,
		PrincipalAmount:   a.PrincipalAmount,
		Interest:          a.Interest,
		OriginationAmount: a.OriginationAmount,
		ActivationDttm:    a.ActivationDttm,
		AgreementStatus:   a.AgreementStatus,
	}

	err := r.db.QueryRowContext(ctx, query,
		a.ClientID,
		a.ProductID,
		a.LoadTerm,
		a.PrincipalAmount,
		a.Interest,
		a.OriginationAmount,
		a.ActivationDttm,
		a.AgreementStatus,
	).Scan(&out.ID)
	if err != nil {
		return nil, translateConstraint(err)
	}

	return &out, nil
}

// ListRegister returns the agreement register joined with client and product
// attributes, ordered by creation.
func (r *AgreementRepository) ListRegister(ctx context.Context) ([]domain.AgreementRegisterRow, error) {
	query := `
		SELECT
			a.agreement_id,
			a.load_term,
			a.principal_amount,
			a.interest,
			a.origination_amount,
			a.activation_dttm,
			a.agreement_status,

			c.name    AS client_name,
			c.surname AS client_surname,
			c.patronymic,
			c.passport,

			p.product_code,
			p.name_and_version
		FROM agreement a
		JOIN client  c ON c.client_id  = a.client_id
		JOIN product p ON p.product_id = a.product_id
		ORDER BY a.agreement_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AgreementRegisterRow
	for rows.Next() {
		var row domain.AgreementRegisterRow
		if err := rows.Scan(
			&row.AgreementID,
			&row.LoadTerm,
			&row.PrincipalAmount,
			&row.Interest,
			&row.OriginationAmount,
			&row.ActivationDttm,
			&row.AgreementStatus,

			&row.ClientName,
			&row.ClientSurname,
			&row.ClientPatronymic,
			&row.ClientPassport,

			&row.ProductCode,
			&row.ProductName,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
