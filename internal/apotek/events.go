package apotek

// OrderCreatedPayload rides the apotek.order.created topic.
type OrderCreatedPayload struct {
	OrderID    int64  `json:"order_id"`
	MedicineID int64  `json:"medicine_id"`
	SupplierID int64  `json:"supplier_id"`
	Quantity   int64  `json:"quantity"`
	OrderDate  string `json:"order_date"`
}
