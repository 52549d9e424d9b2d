package rest

import (
	"log"
	"net/http"

	"product-engine/internal/domain"
	"product-engine/internal/service"
)

// ToCommand converts the validated site form into the workflow command.
func (f *SiteForm) ToCommand() service.CreateAgreementCommand {
	return service.CreateAgreementCommand{
		ProductCode:       f.ProductCode,
		FirstName:         f.FirstName,
		SecondName:        f.SecondName,
		ThirdName:         f.ThirdName,
		Birthday:          f.Birthday.Time,
		Passport:          f.PassportNumber,
		Phone:             f.Phone,
		Email:             f.Email,
		Salary:            f.Salary,
		Term:              f.Term,
		Interest:          f.Interest,
		DisbursmentAmount: f.DisbursmentAmount,
	}
}

func (h *Handler) createAgreement(w http.ResponseWriter, r *http.Request) {
	form, err := ValidateSiteForm(r)
	if err != nil {
		// unlike the catalog endpoints, the agreement endpoint names the
		// first offending field in its 400 body
		agreementFailure(w, err.Error())
		return
	}

	id, err := h.agreements.CreateAgreement(r.Context(), form.ToCommand())
	if err != nil {
		if be, ok := domain.AsBusinessError(err); ok {
			agreementFailure(w, be.Message)
			return
		}

		log.Printf("[HTTP] create agreement error: %v", err)
		writeEmpty(w, http.StatusInternalServerError)
		return
	}

	agreementCreated(w, id)
}
