package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"product-engine/internal/domain"
	"product-engine/internal/service"
)

type fakeCatalog struct {
	products  map[string]domain.Product
	createErr error
}

func (f *fakeCatalog) Get(_ context.Context, code string) (*domain.Product, error) {
	p, ok := f.products[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (f *fakeCatalog) List(_ context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeCatalog) Create(_ context.Context, p domain.Product) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.products[p.ProductCode] = p
	return nil
}

func (f *fakeCatalog) Delete(_ context.Context, code string) error {
	delete(f.products, code)
	return nil
}

type fakeAgreements struct {
	id  int64
	err error
}

func (f *fakeAgreements) CreateAgreement(_ context.Context, _ service.CreateAgreementCommand) (int64, error) {
	return f.id, f.err
}

type fakeExporter struct {
	key string
}

func (f *fakeExporter) StartAgreementsExport(_ context.Context, _ []string) (string, error) {
	return f.key, nil
}

type fakeExportReader struct {
	statuses map[string]service.ExportStatus
}

func (f *fakeExportReader) GetExports(_ context.Context) ([]service.ExportStatus, error) {
	var out []service.ExportStatus
	for _, s := range f.statuses {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeExportReader) GetExport(_ context.Context, exportID string) (*service.ExportStatus, error) {
	s, ok := f.statuses[exportID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func newTestServer(catalog *fakeCatalog, agreements *fakeAgreements) *httptest.Server {
	if catalog == nil {
		catalog = &fakeCatalog{products: map[string]domain.Product{}}
	}
	if agreements == nil {
		agreements = &fakeAgreements{id: 1}
	}
	h := NewHandler(catalog, agreements,
		&fakeExporter{key: "exports:test"},
		&fakeExportReader{statuses: map[string]service.ExportStatus{}})
	return httptest.NewServer(h.InitRouter())
}

func testPayload() ProductPayload {
	return ProductPayload{
		NameAndVersion:       "Cash Loan v1",
		ProductCode:          "CL1",
		MinLoadTerm:          6,
		MaxLoadTerm:          36,
		MinPrincipalAmount:   1000,
		MaxPrincipalAmount:   50000,
		MinInterest:          5,
		MaxInterest:          20,
		MinOriginationAmount: 100,
		MaxOriginationAmount: 500,
	}
}

const validSiteForm = `{
	"product_code": "CL1",
	"first_name": "Ivan",
	"second_name": "Petrov",
	"birthday": "1990-04-12",
	"passport_number": "4510 123456",
	"email": "ivan@example.com",
	"phone": "+79001112233",
	"salary": 90000,
	"term": 12,
	"interest": 10.0,
	"disbursment_amount": 2000
}`

func TestGetProduct_NotFoundIsEmpty404(t *testing.T) {
	srv := newTestServer(nil, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/product/GONE")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	assertEmptyBody(t, resp)
}

func TestGetProduct_BodyOmitsGeneratedID(t *testing.T) {
	catalog := &fakeCatalog{products: map[string]domain.Product{
		"CL1": {ID: 7, ProductCode: "CL1", NameAndVersion: "Cash Loan v1",
			MinLoadTerm: 6, MaxLoadTerm: 36,
			MinPrincipalAmount: 1000, MaxPrincipalAmount: 50000,
			MinInterest: 5, MaxInterest: 20,
			MinOriginationAmount: 100, MaxOriginationAmount: 500},
	}}
	srv := newTestServer(catalog, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/product/CL1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["product_code"] != "CL1" {
		t.Fatalf("unexpected body: %v", body)
	}
	if _, ok := body["product_id"]; ok {
		t.Fatal("product_id must never appear on the wire")
	}
}

func TestListProducts_EmptyIsJSONArray(t *testing.T) {
	srv := newTestServer(nil, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/product")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := readBody(t, resp); got != "[]" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestCreateProduct_Success(t *testing.T) {
	srv := newTestServer(nil, nil)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/product", testPayload())
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	assertEmptyBody(t, resp)
}

func TestCreateProduct_DuplicateIsEmpty409(t *testing.T) {
	catalog := &fakeCatalog{products: map[string]domain.Product{}, createErr: domain.ErrConflict}
	srv := newTestServer(catalog, nil)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/product", testPayload())
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	assertEmptyBody(t, resp)
}

func TestCreateProduct_InvertedBoundsIsEmpty400(t *testing.T) {
	catalog := &fakeCatalog{
		products:  map[string]domain.Product{},
		createErr: domain.NewBusinessError("max must be greater than min for every bound pair"),
	}
	srv := newTestServer(catalog, nil)
	defer srv.Close()

	resp := postJSON(t, srv.URL+"/product", testPayload())
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	assertEmptyBody(t, resp)
}

func TestCreateProduct_MalformedBodyIsEmpty400(t *testing.T) {
	srv := newTestServer(nil, nil)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/product", "application/json", strings.NewReader(`{"product_code": 12}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	assertEmptyBody(t, resp)
}

func TestDeleteProduct_AbsentStillOK(t *testing.T) {
	srv := newTestServer(nil, nil)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/product/GONE", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	assertEmptyBody(t, resp)
}

func TestCreateAgreement_ReturnsAgreementID(t *testing.T) {
	srv := newTestServer(nil, &fakeAgreements{id: 101})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/agreement", "application/json", strings.NewReader(validSiteForm))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]int64
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["agreement_id"] != 101 {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestCreateAgreement_BusinessErrorHasMessageBody(t *testing.T) {
	srv := newTestServer(nil, &fakeAgreements{
		err: domain.NewBusinessError("no product with code 'CL1'"),
	})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/agreement", "application/json", strings.NewReader(validSiteForm))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["message"] != "no product with code 'CL1'" {
		t.Fatalf("unexpected message: %q", body["message"])
	}
}

func TestCreateAgreement_ValidationErrorNamesField(t *testing.T) {
	srv := newTestServer(nil, nil)
	defer srv.Close()

	form := strings.Replace(validSiteForm, `"term": 12`, `"term": 0`, 1)
	resp, err := http.Post(srv.URL+"/agreement", "application/json", strings.NewReader(form))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body["message"], "term") {
		t.Fatalf("expected the message to name the field, got %q", body["message"])
	}
}

func TestCreateAgreement_UnexpectedErrorIsEmpty500(t *testing.T) {
	srv := newTestServer(nil, &fakeAgreements{err: errors.New("connection reset")})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/agreement", "application/json", strings.NewReader(validSiteForm))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	assertEmptyBody(t, resp)
}

func TestExportAgreements_Accepted(t *testing.T) {
	srv := newTestServer(nil, nil)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/export/agreements", "application/json", strings.NewReader(`{"fields": []}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["export_id"] == "" {
		t.Fatalf("expected an export_id, got %v", body)
	}
}

func TestGetExport_NotFound(t *testing.T) {
	srv := newTestServer(nil, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/export/missing")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func postJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()

	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", strings.NewReader(string(raw)))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return strings.TrimSpace(string(raw))
}

func assertEmptyBody(t *testing.T, resp *http.Response) {
	t.Helper()

	buf := make([]byte, 64)
	n, _ := resp.Body.Read(buf)
	if n != 0 {
		t.Fatalf("expected empty body, got %q", buf[:n])
	}
}
