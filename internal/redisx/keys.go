package redisx

import "time"

const (
	// Cached payload of GET /obat/{id}/stock: obat_stock:{obat_id}
	KeyObatStock = "obat_stock:%d"

	// Hospital-side cache of the apotek stock proxy: stock_proxy:{obat_id}
	KeyStockProxy = "stock_proxy:%d"
)

var (
	TTLStockCache = 5 * time.Minute
	TTLProxyCache = 30 * time.Second
)
