package rest

import (
	"errors"
	"log"
	"net/http"

	"product-engine/internal/domain"

	"github.com/go-chi/chi/v5"
)

func (p ProductPayload) toDomain() domain.Product {
	return domain.Product{
		NameAndVersion:       p.NameAndVersion,
		ProductCode:          p.ProductCode,
		MinLoadTerm:          p.MinLoadTerm,
		MaxLoadTerm:          p.MaxLoadTerm,
		MinPrincipalAmount:   p.MinPrincipalAmount,
		MaxPrincipalAmount:   p.MaxPrincipalAmount,
		MinInterest:          p.MinInterest,
		MaxInterest:          p.MaxInterest,
		MinOriginationAmount: p.MinOriginationAmount,
		MaxOriginationAmount: p.MaxOriginationAmount,
	}
}

func productToPayload(p domain.Product) ProductPayload {
	return ProductPayload{
		NameAndVersion:       p.NameAndVersion,
		ProductCode:          p.ProductCode,
		MinLoadTerm:          p.MinLoadTerm,
		MaxLoadTerm:          p.MaxLoadTerm,
		MinPrincipalAmount:   p.MinPrincipalAmount,
		MaxPrincipalAmount:   p.MaxPrincipalAmount,
		MinInterest:          p.MinInterest,
		MaxInterest:          p.MaxInterest,
		MinOriginationAmount: p.MinOriginationAmount,
		MaxOriginationAmount: p.MaxOriginationAmount,
	}
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "product_code")

	product, err := h.products.Get(r.Context(), code)
	if errors.Is(err, domain.ErrNotFound) {
		writeEmpty(w, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[HTTP] get product %q error: %v", code, err)
		writeEmpty(w, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, productToPayload(*product))
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		log.Printf("[HTTP] list products error: %v", err)
		writeEmpty(w, http.StatusInternalServerError)
		return
	}

	payloads := make([]ProductPayload, 0, len(products))
	for _, p := range products {
		payloads = append(payloads, productToPayload(p))
	}

	writeJSON(w, http.StatusOK, payloads)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	payload, err := ValidateProductPayload(r)
	if err != nil {
		writeEmpty(w, http.StatusBadRequest)
		return
	}

	err = h.products.Create(r.Context(), payload.toDomain())
	if errors.Is(err, domain.ErrConflict) {
		writeEmpty(w, http.StatusConflict)
		return
	}
	if _, ok := domain.AsBusinessError(err); ok {
		writeEmpty(w, http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Printf("[HTTP] create product error: %v", err)
		writeEmpty(w, http.StatusInternalServerError)
		return
	}

	writeEmpty(w, http.StatusOK)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "product_code")

	if err := h.products.Delete(r.Context(), code); err != nil {
		log.Printf("[HTTP] delete product %q error: %v", code, err)
		writeEmpty(w, http.StatusInternalServerError)
		return
	}

	writeEmpty(w, http.StatusOK)
}
