package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"medilink/internal/apotek"
	"medilink/internal/gateway"
	"medilink/internal/store"
)

// fakeRows implements RowStore over fixture maps.
type fakeRows struct {
	rows   map[string][]map[string]any
	delN   int64
	delErr error
}

func (f *fakeRows) FetchAll(_ context.Context, t store.Table) ([]map[string]any, error) {
	return f.rows[t.Name()], nil
}

func (f *fakeRows) FetchByID(_ context.Context, t store.Table, id int64) (map[string]any, error) {
	for _, r := range f.rows[t.Name()] {
		if v, ok := r["id"].(int64); ok && v == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeRows) DeleteByID(_ context.Context, _ store.Table, _ int64) (int64, error) {
	if f.delErr != nil {
		return 0, f.delErr
	}
	return f.delN, nil
}

// fakeApotekRepo implements ApotekRepo. Writes are recorded so tests can
// assert that a failed guard persisted nothing.
type fakeApotekRepo struct {
	ordersCreated  int
	supplierUpdate int64
}

func created(data map[string]any) map[string]any {
	out := map[string]any{"id": int64(1)}
	for k, v := range data {
		out[k] = v
	}
	return out
}

func (f *fakeApotekRepo) CreateObat(_ context.Context, d map[string]any) (map[string]any, error) {
	return created(d), nil
}
func (f *fakeApotekRepo) UpdateObat(_ context.Context, _ int64, _ map[string]any) (int64, error) {
	return 1, nil
}
func (f *fakeApotekRepo) ObatStock(_ context.Context, id int64) (*apotek.StockInfo, error) {
	if id == 1 {
		return &apotek.StockInfo{ID: 1, Name: "Paracetamol", Stock: 100}, nil
	}
	return nil, nil
}
func (f *fakeApotekRepo) CreateSupplier(_ context.Context, d map[string]any) (map[string]any, error) {
	return created(d), nil
}
func (f *fakeApotekRepo) UpdateSupplier(_ context.Context, _ int64, _ map[string]any) (int64, error) {
	return f.supplierUpdate, nil
}
func (f *fakeApotekRepo) CreateOrder(_ context.Context, d map[string]any) (map[string]any, error) {
	if mid, ok := d["medicine_id"].(float64); ok && mid == 9999 {
		return nil, &store.RefError{Table: apotek.TableObat, ID: 9999}
	}
	f.ordersCreated++
	return created(d), nil
}
func (f *fakeApotekRepo) UpdateOrder(_ context.Context, _ int64, _ map[string]any) (int64, error) {
	return 1, nil
}
func (f *fakeApotekRepo) CreatePurchaseHistory(_ context.Context, d map[string]any) (map[string]any, error) {
	return created(d), nil
}
func (f *fakeApotekRepo) UpdatePurchaseHistory(_ context.Context, _ int64, _ map[string]any) (int64, error) {
	return 1, nil
}

func newApotekServer(repo ApotekRepo, rows RowStore, hospitalURL string) *chi.Mux {
	if hospitalURL == "" {
		hospitalURL = "http://127.0.0.1:0"
	}
	router := NewRouter(zerolog.Nop(), "Apotek Service")
	h := &ApotekHandler{
		Repo:     repo,
		Rows:     rows,
		Hospital: gateway.NewClient(hospitalURL, "hospital service", time.Second),
		Service:  "apotek-service",
	}
	h.Register(router)
	return router
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var env Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an envelope: %v, body=%s", err, rr.Body.String())
	}
	return rr, env
}

func TestCreateObat(t *testing.T) {
	srv := newApotekServer(&fakeApotekRepo{}, &fakeRows{}, "")

	rr, env := doJSON(t, srv, http.MethodPost, "/obat",
		`{"name":"Paracetamol","stock":100,"price":15000}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body=%s", rr.Code, rr.Body.String())
	}
	if env.Status != "success" {
		t.Errorf("envelope status = %q", env.Status)
	}
	data, _ := env.Data.(map[string]any)
	if data["id"] != float64(1) || data["name"] != "Paracetamol" ||
		data["stock"] != float64(100) || data["price"] != float64(15000) {
		t.Errorf("data = %#v", data)
	}
}

func TestCreateObatMissingField(t *testing.T) {
	srv := newApotekServer(&fakeApotekRepo{}, &fakeRows{}, "")

	rr, env := doJSON(t, srv, http.MethodPost, "/obat", `{"name":"Paracetamol","stock":100}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	if env.Message != "Field 'price' is required" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestCreateObatEmptyStringField(t *testing.T) {
	srv := newApotekServer(&fakeApotekRepo{}, &fakeRows{}, "")

	rr, env := doJSON(t, srv, http.MethodPost, "/obat", `{"name":"","stock":100,"price":1}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	if env.Message != "Field 'name' is required" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestCreateOrderUnknownMedicine(t *testing.T) {
	repo := &fakeApotekRepo{}
	srv := newApotekServer(repo, &fakeRows{}, "")

	rr, env := doJSON(t, srv, http.MethodPost, "/orders",
		`{"medicine_id":9999,"supplier_id":1,"quantity":5,"order_date":"2024-01-01"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body=%s", rr.Code, rr.Body.String())
	}
	if env.Status != "error" || env.Message != "Obat with ID 9999 not found." {
		t.Errorf("envelope = %+v", env)
	}
	if repo.ordersCreated != 0 {
		t.Errorf("order was persisted despite failed guard")
	}
}

func TestDeleteObatConflict(t *testing.T) {
	rows := &fakeRows{delErr: &store.RestrictedError{Table: apotek.TableObat, Referencer: "orders"}}
	srv := newApotekServer(&fakeApotekRepo{}, rows, "")

	rr, env := doJSON(t, srv, http.MethodDelete, "/obat/1", "")
	if rr.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rr.Code)
	}
	if !strings.Contains(env.Message, "orders") {
		t.Errorf("message %q does not name the referencing relation", env.Message)
	}
}

func TestDeleteObatNotFound(t *testing.T) {
	srv := newApotekServer(&fakeApotekRepo{}, &fakeRows{delN: 0}, "")

	rr, env := doJSON(t, srv, http.MethodDelete, "/obat/77", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	if env.Message != "Record not found" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestUpdateSupplierZeroRowsIsNotFound(t *testing.T) {
	repo := &fakeApotekRepo{supplierUpdate: 0}
	srv := newApotekServer(repo, &fakeRows{}, "")

	rr, env := doJSON(t, srv, http.MethodPut, "/suppliers/42",
		`{"name":"Kimia Farma","contact":"021-555"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	if env.Message != "Record not found" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestObatStock(t *testing.T) {
	srv := newApotekServer(&fakeApotekRepo{}, &fakeRows{}, "")

	rr, env := doJSON(t, srv, http.MethodGet, "/obat/1/stock", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	data, _ := env.Data.(map[string]any)
	if data["stock"] != float64(100) || data["name"] != "Paracetamol" {
		t.Errorf("data = %#v", data)
	}

	rr, env = doJSON(t, srv, http.MethodGet, "/obat/404/stock", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	if env.Message != "Obat tidak ditemukan" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestPatientsFromHospitalProxy(t *testing.T) {
	t.Run("forwards the remote reply", func(t *testing.T) {
		remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/patients" {
				t.Errorf("path = %s", r.URL.Path)
			}
			w.Write([]byte(`{"status":"success","data":[{"id":1,"name":"Budi"}]}`))
		}))
		defer remote.Close()
		srv := newApotekServer(&fakeApotekRepo{}, &fakeRows{}, remote.URL)

		rr, env := doJSON(t, srv, http.MethodGet, "/patients-from-hospital", "")
		if rr.Code != http.StatusOK || env.Status != "success" {
			t.Fatalf("code=%d envelope=%+v", rr.Code, env)
		}
	})

	t.Run("unreachable peer is a generic 500", func(t *testing.T) {
		remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		remote.Close()
		srv := newApotekServer(&fakeApotekRepo{}, &fakeRows{}, remote.URL)

		rr, env := doJSON(t, srv, http.MethodGet, "/patients-from-hospital", "")
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d", rr.Code)
		}
		if env.Message != "Failed to fetch from hospital service" {
			t.Errorf("message = %q", env.Message)
		}
	})
}

func TestHealthAndCatchAll(t *testing.T) {
	srv := newApotekServer(&fakeApotekRepo{}, &fakeRows{}, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"UP"`) {
		t.Errorf("health: code=%d body=%s", rr.Code, rr.Body.String())
	}

	rr, env := doJSON(t, srv, http.MethodGet, "/no-such-endpoint", "")
	if rr.Code != http.StatusNotFound || env.Message != "Endpoint not found" {
		t.Errorf("catch-all: code=%d envelope=%+v", rr.Code, env)
	}
}
