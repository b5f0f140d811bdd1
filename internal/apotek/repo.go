package apotek

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medilink/internal/payload"
	"medilink/internal/store"
)

// StockInfo is the payload of GET /obat/{id}/stock, consumed by the hospital
// service's check-stock proxy.
type StockInfo struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Stock int64  `json:"stock"`
}

type Repo struct {
	Store *store.Store
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{Store: &store.Store{DB: db}}
}

func (r *Repo) CreateObat(ctx context.Context, data map[string]any) (map[string]any, error) {
	stock := payload.Int(data, "stock")
	price := payload.Num(data, "price")
	if stock < 0 || price < 0 {
		return nil, store.ErrInvalid
	}
	var id int64
	err := r.Store.DB.QueryRow(ctx,
		`INSERT INTO obat(name, stock, price) VALUES ($1,$2,$3) RETURNING id`,
		payload.Str(data, "name"), stock, price).Scan(&id)
	if err != nil {
		return nil, store.TranslateWriteErr(err)
	}
	return withID(data, id), nil
}

func (r *Repo) UpdateObat(ctx context.Context, id int64, data map[string]any) (int64, error) {
	if payload.Int(data, "stock") < 0 || payload.Num(data, "price") < 0 {
		return 0, store.ErrInvalid
	}
	ct, err := r.Store.DB.Exec(ctx,
		`UPDATE obat SET name=$1, stock=$2, price=$3 WHERE id=$4`,
		payload.Str(data, "name"), payload.Int(data, "stock"), payload.Num(data, "price"), id)
	if err != nil {
		return 0, store.TranslateWriteErr(err)
	}
	return ct.RowsAffected(), nil
}

// ObatStock returns nil when the obat does not exist.
func (r *Repo) ObatStock(ctx context.Context, id int64) (*StockInfo, error) {
	var s StockInfo
	err := r.Store.DB.QueryRow(ctx,
		`SELECT id, name, stock FROM obat WHERE id=$1`, id).Scan(&s.ID, &s.Name, &s.Stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) CreateSupplier(ctx context.Context, data map[string]any) (map[string]any, error) {
	var id int64
	err := r.Store.DB.QueryRow(ctx,
		`INSERT INTO suppliers(name, contact) VALUES ($1,$2) RETURNING id`,
		payload.Str(data, "name"), payload.Str(data, "contact")).Scan(&id)
	if err != nil {
		return nil, store.TranslateWriteErr(err)
	}
	return withID(data, id), nil
}

func (r *Repo) UpdateSupplier(ctx context.Context, id int64, data map[string]any) (int64, error) {
	ct, err := r.Store.DB.Exec(ctx,
		`UPDATE suppliers SET name=$1, contact=$2 WHERE id=$3`,
		payload.Str(data, "name"), payload.Str(data, "contact"), id)
	if err != nil {
		return 0, store.TranslateWriteErr(err)
	}
	return ct.RowsAffected(), nil
}

// CreateOrder guards both foreign keys before the insert so a missing target
// reads as "<Entity> with ID <n> not found." rather than a constraint error.
func (r *Repo) CreateOrder(ctx context.Context, data map[string]any) (map[string]any, error) {
	if payload.Int(data, "quantity") <= 0 {
		return nil, store.ErrInvalid
	}
	if err := r.Store.Guard(ctx, TableObat, payload.Int(data, "medicine_id")); err != nil {
		return nil, err
	}
	if err := r.Store.Guard(ctx, TableSuppliers, payload.Int(data, "supplier_id")); err != nil {
		return nil, err
	}
	var id int64
	err := r.Store.DB.QueryRow(ctx,
		`INSERT INTO orders(medicine_id, supplier_id, quantity, order_date) VALUES ($1,$2,$3,$4) RETURNING id`,
		payload.Int(data, "medicine_id"), payload.Int(data, "supplier_id"),
		payload.Int(data, "quantity"), payload.Str(data, "order_date")).Scan(&id)
	if err != nil {
		return nil, store.TranslateWriteErr(err)
	}
	return withID(data, id), nil
}

func (r *Repo) UpdateOrder(ctx context.Context, id int64, data map[string]any) (int64, error) {
	if payload.Int(data, "quantity") <= 0 {
		return 0, store.ErrInvalid
	}
	if payload.Has(data, "medicine_id") {
		if err := r.Store.Guard(ctx, TableObat, payload.Int(data, "medicine_id")); err != nil {
			return 0, err
		}
	}
	if payload.Has(data, "supplier_id") {
		if err := r.Store.Guard(ctx, TableSuppliers, payload.Int(data, "supplier_id")); err != nil {
			return 0, err
		}
	}
	ct, err := r.Store.DB.Exec(ctx,
		`UPDATE orders SET medicine_id=$1, supplier_id=$2, quantity=$3, order_date=$4 WHERE id=$5`,
		payload.Int(data, "medicine_id"), payload.Int(data, "supplier_id"),
		payload.Int(data, "quantity"), payload.Str(data, "order_date"), id)
	if err != nil {
		return 0, store.TranslateWriteErr(err)
	}
	return ct.RowsAffected(), nil
}

func (r *Repo) CreatePurchaseHistory(ctx context.Context, data map[string]any) (map[string]any, error) {
	if err := r.Store.Guard(ctx, TableOrders, payload.Int(data, "order_id")); err != nil {
		return nil, err
	}
	var id int64
	err := r.Store.DB.QueryRow(ctx,
		`INSERT INTO purchase_history(order_id, medicine_name, quantity, purchase_date) VALUES ($1,$2,$3,$4) RETURNING id`,
		payload.Int(data, "order_id"), payload.Str(data, "medicine_name"),
		payload.Int(data, "quantity"), payload.Str(data, "purchase_date")).Scan(&id)
	if err != nil {
		return nil, store.TranslateWriteErr(err)
	}
	return withID(data, id), nil
}

// resolveOrderRef applies the partial-update rule for the order reference: an
// order_id absent from the payload keeps the stored value and is not guarded;
// a present one must resolve.
func resolveOrderRef(ctx context.Context, guard func(context.Context, store.Table, int64) error, data map[string]any) (*int64, error) {
	if !payload.Has(data, "order_id") {
		return nil, nil
	}
	v := payload.Int(data, "order_id")
	if err := guard(ctx, TableOrders, v); err != nil {
		return nil, err
	}
	return &v, nil
}

// updatePurchaseHistorySQL leaves order_id untouched when no new reference was
// submitted (NULL from resolveOrderRef).
const updatePurchaseHistorySQL = `UPDATE purchase_history
 SET order_id=COALESCE($1, order_id), medicine_name=$2, quantity=$3, purchase_date=$4
 WHERE id=$5`

// UpdatePurchaseHistory allows order_id to be omitted; an absent reference is
// left unchanged and not validated.
func (r *Repo) UpdatePurchaseHistory(ctx context.Context, id int64, data map[string]any) (int64, error) {
	orderID, err := resolveOrderRef(ctx, r.Store.Guard, data)
	if err != nil {
		return 0, err
	}
	ct, err := r.Store.DB.Exec(ctx, updatePurchaseHistorySQL,
		orderID, payload.Str(data, "medicine_name"),
		payload.Int(data, "quantity"), payload.Str(data, "purchase_date"), id)
	if err != nil {
		return 0, store.TranslateWriteErr(err)
	}
	return ct.RowsAffected(), nil
}

func withID(data map[string]any, id int64) map[string]any {
	out := make(map[string]any, len(data)+1)
	out["id"] = id
	for k, v := range data {
		out[k] = v
	}
	return out
}
