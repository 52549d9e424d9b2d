package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"product-engine/internal/domain"
)

// ClientIdentity is the full applicant field set used both as the equality
// filter for lookup and as the column values for insert.
type ClientIdentity struct {
	Name          string
	Surname       string
	Patronymic    *string
	Birthday      time.Time
	Phone         string
	Email         string
	Passport      string
	MonthlyIncome int
}

type ClientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `
	client_id,
	name,
	surname,
	patronymic,
	birthday,
	phone,
	email,
	passport,
	monthly_income`

// FindByIdentity returns the first client matching every identity field, or
// nil when there is no exact match. An exact-match miss does not mean the
// unique columns (passport, phone, email) are free.
func (r *ClientRepository) FindByIdentity(ctx context.Context, id ClientIdentity) (*domain.Client, error) {
	query := `
		SELECT` + clientColumns + `
		FROM client
		WHERE name = $1
		  AND surname = $2
		  AND patronymic IS NOT DISTINCT FROM $3
		  AND birthday = $4
		  AND phone = $5
		  AND email = $6
		  AND passport = $7
		  AND monthly_income = $8
		LIMIT 1`

	var c domain.Client
	err := r.db.QueryRowContext(ctx, query,
		id.Name,
		id.Surname,
		id.Patronymic,
		id.Birthday,
		id.Phone,
		id.Email,
		id.Passport,
		id.MonthlyIncome,
	).Scan(
		&c.ID,
		&c.Name,
		&c.Surname,
		&c.Patronymic,
		&c.Birthday,
		&c.Phone,
		&c.Email,
		&c.Passport,
		&c.MonthlyIncome,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// Create inserts a new client record. A passport/phone/email collision with
// an existing record surfaces as domain.ErrConflict.
func (r *ClientRepository) Create(ctx context.Context, id ClientIdentity) (*domain.Client, error) {
	query := `
		INSERT INTO client (name, surname, patronymic, birthday, phone, email, passport, monthly_income)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING client_id`

	c := domain.Client{
		Name:          id.Name,
		Surname:       id.Surname,
		Patronymic:    id.Patronymic,
		Birthday:      id.Birthday,
		Phone:         id.Phone,
		Email:         id.Email,
		Passport:      id.Passport,
		MonthlyIncome: id.MonthlyIncome,
	}

	err := r.db.QueryRowContext(ctx, query,
		id.Name,
		id.Surname,
		id.Patronymic,
		id.Birthday,
		id.Phone,
		id.Email,
		id.Passport,
		id.MonthlyIncome,
	).Scan(&c.ID)
	if err != nil {
		return nil, translateConstraint(err)
	}

	return &c, nil
}
