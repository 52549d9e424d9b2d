package domain

import "time"

// AgreementStatusNew is the only status the origination workflow produces.
// Other transitions (approved/rejected/closed) live outside this service.
const AgreementStatusNew = "New"

// Agreement is one concrete loan instance linking a Client and a Product
// with resolved numeric terms. Immutable after creation.
type Agreement struct {
	ID                int64
	ClientID          int64
	ProductID         int64
	LoadTerm          int
	PrincipalAmount   int
	Interest          float64
	OriginationAmount int
	ActivationDttm    time.Time
	AgreementStatus   string
}

// AgreementRegisterRow is the joined agreement+client+product view used by
// the back-office register export.
type AgreementRegisterRow struct {
	AgreementID       int64
	LoadTerm          int
	PrincipalAmount   int
	Interest          float64
	OriginationAmount int
	ActivationDttm    time.Time
	AgreementStatus   string

	ClientName       string
	ClientSurname    string
	ClientPatronymic *string
	ClientPassport   string

	ProductCode    string
	ProductName    string
}
