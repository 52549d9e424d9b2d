package domain

import "time"

// Client is an applicant/borrower identity. Created lazily the first time a
// matching application arrives; never updated or deleted by the workflow.
type Client struct {
	ID            int64
	Name          string
	Surname       string
	Patronymic    *string
	Birthday      time.Time
	Phone         string
	Email         string
	Passport      string
	MonthlyIncome int
}
