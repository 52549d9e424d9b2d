package rest

import (
	"encoding/json"
	"log"
	"net/http"
)

// The public API contract is deliberately narrow: catalog endpoints answer
// failures with an empty body and a bare status code, only the agreement
// endpoint explains itself with a {"message"} body.

func writeJSON(w http.ResponseWriter, httpStatus int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[HTTP] write response error: %v", err)
	}
}

func writeEmpty(w http.ResponseWriter, httpStatus int) {
	w.WriteHeader(httpStatus)
}

// agreementFailure is the structured 400 body of the agreement endpoint.
func agreementFailure(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"message": message})
}

func agreementCreated(w http.ResponseWriter, id int64) {
	writeJSON(w, http.StatusOK, map[string]int64{"agreement_id": id})
}
