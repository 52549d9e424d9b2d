package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"product-engine/internal/domain"
	"product-engine/internal/repository"
)

type ClientStore interface {
	FindByIdentity(ctx context.Context, id repository.ClientIdentity) (*domain.Client, error)
	Create(ctx context.Context, id repository.ClientIdentity) (*domain.Client, error)
}

type ProductStore interface {
	FindByCode(ctx context.Context, code string) (*domain.Product, error)
}

type AgreementStore interface {
	Create(ctx context.Context, a repository.NewAgreement) (*domain.Agreement, error)
}

// CreateAgreementCommand is the site application after syntactic validation:
// only cross-field and cross-entity rules remain to be checked.
type CreateAgreementCommand struct {
	ProductCode string

	FirstName  string
	SecondName string
	ThirdName  *string
	Birthday   time.Time
	Passport   string
	Phone      string
	Email      string
	Salary     int

	Term              int
	Interest          float64
	DisbursmentAmount int
}

// ClientIdentity maps the applicant fields onto the persistence field set.
func (cmd CreateAgreementCommand) ClientIdentity() repository.ClientIdentity {
	return repository.ClientIdentity{
		Name:          cmd.FirstName,
		Surname:       cmd.SecondName,
		Patronymic:    cmd.ThirdName,
		Birthday:      cmd.Birthday,
		Phone:         cmd.Phone,
		Email:         cmd.Email,
		Passport:      cmd.Passport,
		MonthlyIncome: cmd.Salary,
	}
}

// AgreementService reconciles an incoming application against product
// constraints, resolves or creates the client identity and persists a new
// agreement.
type AgreementService struct {
	clients    ClientStore
	products   ProductStore
	agreements AgreementStore

	now     func() time.Time
	randInt func(min, max int) int // uniform over [min, max]
}

func NewAgreementService(clients ClientStore, products ProductStore, agreements AgreementStore) *AgreementService {
	return &AgreementService{
		clients:    clients,
		products:   products,
		agreements: agreements,
		now:        time.Now,
		randInt: func(min, max int) int {
			return min + rand.Intn(max-min+1)
		},
	}
}

func outOfRange(field string, x, left, right any) *domain.BusinessError {
	return domain.NewBusinessError(fmt.Sprintf("%s = %v, must be in [%v, %v]", field, x, left, right))
}

// CreateAgreement runs the origination workflow and returns the new
// agreement id. Business-rule violations come back as
// *domain.BusinessError; any other error is a storage fault.
//
// The client record created in step one is deliberately not rolled back when
// a later step fails: a client with zero agreements is a legal state, and
// the next application from the same person will reuse the row.
func (s *AgreementService) CreateAgreement(ctx context.Context, cmd CreateAgreementCommand) (int64, error) {
	identity := cmd.ClientIdentity()

	var clientID int64

	client, err := s.clients.FindByIdentity(ctx, identity)
	if err != nil {
		return 0, fmt.Errorf("find client: %w", err)
	}

	if client != nil {
		clientID = client.ID
	} else {
		// An exact-match miss does not mean the identity is free: the
		// unique columns (passport, phone, email) may already belong to a
		// near-identical record, so the insert can still collide.
		created, err := s.clients.Create(ctx, identity)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return 0, domain.NewBusinessError("a client with this passport/phone/email already exists")
			}
			return 0, fmt.Errorf("create client: %w", err)
		}
		clientID = created.ID
	}

	product, err := s.products.FindByCode(ctx, cmd.ProductCode)
	if err != nil {
		return 0, fmt.Errorf("find product: %w", err)
	}
	if product == nil {
		return 0, domain.NewBusinessError(fmt.Sprintf("no product with code '%s'", cmd.ProductCode))
	}

	originationAmount := s.randInt(product.MinOriginationAmount, product.MaxOriginationAmount)
	principalAmount := cmd.DisbursmentAmount + originationAmount

	if cmd.Term < product.MinLoadTerm || cmd.Term > product.MaxLoadTerm {
		return 0, outOfRange("term", cmd.Term, product.MinLoadTerm, product.MaxLoadTerm)
	}
	if cmd.Interest < product.MinInterest || cmd.Interest > product.MaxInterest {
		return 0, outOfRange("interest", cmd.Interest, product.MinInterest, product.MaxInterest)
	}
	if principalAmount < product.MinPrincipalAmount || principalAmount > product.MaxPrincipalAmount {
		return 0, outOfRange("principal amount", principalAmount, product.MinPrincipalAmount, product.MaxPrincipalAmount)
	}

	agreement, err := s.agreements.Create(ctx, repository.NewAgreement{
		ClientID:          clientID,
		ProductID:         product.ID,
		LoadTerm:          cmd.Term,
		PrincipalAmount:   principalAmount,
		Interest:          cmd.Interest,
		OriginationAmount: originationAmount,
		ActivationDttm:    s.now(),
		AgreementStatus:   domain.AgreementStatusNew,
	})
	if err != nil {
		return 0, fmt.Errorf("create agreement: %w", err)
	}

	return agreement.ID, nil
}
