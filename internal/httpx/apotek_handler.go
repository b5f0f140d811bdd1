package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"medilink/internal/apotek"
	"medilink/internal/events"
	"medilink/internal/gateway"
	kafkax "medilink/internal/kafka"
	"medilink/internal/payload"
	"medilink/internal/redisx"
)

// ApotekRepo is the typed write surface of the pharmacy store.
type ApotekRepo interface {
	CreateObat(ctx context.Context, data map[string]any) (map[string]any, error)
	UpdateObat(ctx context.Context, id int64, data map[string]any) (int64, error)
	ObatStock(ctx context.Context, id int64) (*apotek.StockInfo, error)
	CreateSupplier(ctx context.Context, data map[string]any) (map[string]any, error)
	UpdateSupplier(ctx context.Context, id int64, data map[string]any) (int64, error)
	CreateOrder(ctx context.Context, data map[string]any) (map[string]any, error)
	UpdateOrder(ctx context.Context, id int64, data map[string]any) (int64, error)
	CreatePurchaseHistory(ctx context.Context, data map[string]any) (map[string]any, error)
	UpdatePurchaseHistory(ctx context.Context, id int64, data map[string]any) (int64, error)
}

type ApotekHandler struct {
	Repo     ApotekRepo
	Rows     RowStore
	Hospital *gateway.Client
	Redis    *redis.Client
	Producer *kafkax.Producer
	Service  string
}

var (
	obatFields     = []string{"name", "stock", "price"}
	supplierFields = []string{"name", "contact"}
	orderFields    = []string{"medicine_id", "supplier_id", "quantity", "order_date"}
	// order_id is deliberately absent: purchase history updates may leave the
	// order reference untouched.
	purchaseFields = []string{"medicine_name", "quantity", "purchase_date"}
)

func (h *ApotekHandler) Register(r *chi.Mux) {
	r.Get("/obat", handleGetAll(h.Rows, apotek.TableObat))
	r.Post("/obat", handleCreate(obatFields, h.Repo.CreateObat))
	r.Get("/obat/{id}", handleGetByID(h.Rows, apotek.TableObat))
	r.Put("/obat/{id}", h.updateObat)
	r.Delete("/obat/{id}", h.deleteObat)
	r.Get("/obat/{id}/stock", h.obatStock)

	r.Get("/suppliers", handleGetAll(h.Rows, apotek.TableSuppliers))
	r.Post("/suppliers", handleCreate(supplierFields, h.Repo.CreateSupplier))
	r.Get("/suppliers/{id}", handleGetByID(h.Rows, apotek.TableSuppliers))
	r.Put("/suppliers/{id}", handleUpdate(h.Rows, apotek.TableSuppliers, supplierFields, h.Repo.UpdateSupplier))
	r.Delete("/suppliers/{id}", handleDelete(h.Rows, apotek.TableSuppliers))

	r.Get("/orders", handleGetAll(h.Rows, apotek.TableOrders))
	r.Post("/orders", h.createOrder)
	r.Get("/orders/{id}", handleGetByID(h.Rows, apotek.TableOrders))
	r.Put("/orders/{id}", handleUpdate(h.Rows, apotek.TableOrders, orderFields, h.Repo.UpdateOrder))
	r.Delete("/orders/{id}", handleDelete(h.Rows, apotek.TableOrders))

	r.Get("/purchase-history", handleGetAll(h.Rows, apotek.TablePurchaseHistory))
	r.Post("/purchase-history", handleCreate(append([]string{"order_id"}, purchaseFields...), h.Repo.CreatePurchaseHistory))
	r.Get("/purchase-history/{id}", handleGetByID(h.Rows, apotek.TablePurchaseHistory))
	r.Put("/purchase-history/{id}", handleUpdate(h.Rows, apotek.TablePurchaseHistory, purchaseFields, h.Repo.UpdatePurchaseHistory))
	r.Delete("/purchase-history/{id}", handleDelete(h.Rows, apotek.TablePurchaseHistory))

	r.Get("/patients-from-hospital", handleProxy(h.Hospital, func(*http.Request) string { return "/patients" }))
}

// createOrder is handleCreate plus the order-created event. Publishing is
// fire-and-forget; the response never waits on Kafka.
func (h *ApotekHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	data, ok := decodeAndRequire(w, r, orderFields)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()
	created, err := h.Repo.CreateOrder(ctx, data)
	if err != nil {
		writeModelErr(w, err)
		return
	}
	if h.Producer != nil {
		orderID := payload.Int(created, "id")
		ev := events.New(events.EventOrderCreated, h.Service,
			r.Header.Get("X-Request-Id"), strconv.FormatInt(orderID, 10),
			apotek.OrderCreatedPayload{
				OrderID:    orderID,
				MedicineID: payload.Int(data, "medicine_id"),
				SupplierID: payload.Int(data, "supplier_id"),
				Quantity:   payload.Int(data, "quantity"),
				OrderDate:  payload.Str(data, "order_date"),
			})
		h.Producer.Publish(events.PartitionKey(ev.CorrelationID), kafkax.MustMarshal(ev),
			kafkago.Header{Key: "x-event-type", Value: []byte(events.EventOrderCreated)},
			kafkago.Header{Key: "x-event-version", Value: []byte("1")},
		)
	}
	writeSuccess(w, http.StatusCreated, created)
}

func (h *ApotekHandler) updateObat(w http.ResponseWriter, r *http.Request) {
	handleUpdate(h.Rows, apotek.TableObat, obatFields, h.Repo.UpdateObat)(w, r)
	h.dropStockCache(r)
}

func (h *ApotekHandler) deleteObat(w http.ResponseWriter, r *http.Request) {
	handleDelete(h.Rows, apotek.TableObat)(w, r)
	h.dropStockCache(r)
}

// obatStock serves the hospital's check-stock calls, with a short-lived cache
// in front of the row. Cache errors are ignored; the row is the truth.
func (h *ApotekHandler) obatStock(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyObatStock, id)
	if h.Redis != nil {
		if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			writeRaw(w, http.StatusOK, []byte(s))
			return
		}
	}

	info, err := h.Repo.ObatStock(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if info == nil {
		writeError(w, http.StatusNotFound, "Obat tidak ditemukan")
		return
	}
	body, _ := json.Marshal(Envelope{Status: "success", Data: info})
	if h.Redis != nil {
		_ = h.Redis.Set(ctx, key, body, redisx.TTLStockCache).Err()
	}
	writeRaw(w, http.StatusOK, body)
}

func (h *ApotekHandler) dropStockCache(r *http.Request) {
	if h.Redis == nil {
		return
	}
	if id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64); err == nil {
		_ = h.Redis.Del(r.Context(), fmt.Sprintf(redisx.KeyObatStock, id)).Err()
	}
}
