package domain

import "time"

// PaymentSchedule is a per-installment breakdown of an agreement. The table
// is declared in the schema but nothing in this service generates rows yet;
// schedule generation belongs to a separate amortization component.
type PaymentSchedule struct {
	ID                    int64
	AgreementID           int64
	ScheduleIteration     int
	PaymentDate           time.Time
	PeriodStart           time.Time
	PeriodEnd             time.Time
	BodyPaymentAmount     float64
	InterestPaymentAmount float64
	PaymentNumber         int
	PaymentStatus         string
}
