package apotek

import "medilink/internal/store"

// Closed set of pharmacy tables. Handlers route to these constants; a table
// name never comes from a request.
var (
	TableObat            = store.NewTable("obat", "Obat")
	TableSuppliers       = store.NewTable("suppliers", "Supplier")
	TableOrders          = store.NewTable("orders", "Order")
	TablePurchaseHistory = store.NewTable("purchase_history", "Purchase history")
)

// Schema is applied at boot. RESTRICT keeps referenced rows undeletable so the
// delete path surfaces a conflict instead of cascading.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS obat (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		stock INT NOT NULL CHECK (stock >= 0),
		price NUMERIC(12,2) NOT NULL CHECK (price >= 0)
	)`,
	`CREATE TABLE IF NOT EXISTS suppliers (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		contact TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		medicine_id BIGINT NOT NULL REFERENCES obat(id) ON DELETE RESTRICT,
		supplier_id BIGINT NOT NULL REFERENCES suppliers(id) ON DELETE RESTRICT,
		quantity INT NOT NULL CHECK (quantity > 0),
		order_date DATE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS purchase_history (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE RESTRICT,
		medicine_name TEXT NOT NULL,
		quantity INT NOT NULL,
		purchase_date DATE NOT NULL
	)`,
}
