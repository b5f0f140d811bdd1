package apotek

import (
	"context"
	"errors"
	"strings"
	"testing"

	"medilink/internal/store"
)

// recordingGuard captures which references a write tried to validate.
type recordingGuard struct {
	tables []store.Table
	ids    []int64
	err    error
}

func (g *recordingGuard) check(_ context.Context, t store.Table, id int64) error {
	g.tables = append(g.tables, t)
	g.ids = append(g.ids, id)
	return g.err
}

func TestResolveOrderRefOmittedKeepsStoredValue(t *testing.T) {
	g := &recordingGuard{}
	ref, err := resolveOrderRef(context.Background(), g.check, map[string]any{
		"medicine_name": "Paracetamol",
		"quantity":      float64(3),
		"purchase_date": "2024-02-01",
	})
	if err != nil {
		t.Fatalf("resolveOrderRef: %v", err)
	}
	if ref != nil {
		t.Fatalf("expected nil order ref for omitted order_id, got %d", *ref)
	}
	if len(g.ids) != 0 {
		t.Fatalf("guard consulted for omitted order_id: %v", g.ids)
	}
	// NULL must fall through to the stored column value.
	if !strings.Contains(updatePurchaseHistorySQL, "COALESCE($1, order_id)") {
		t.Fatalf("update statement does not preserve the stored order reference:\n%s", updatePurchaseHistorySQL)
	}
}

func TestResolveOrderRefPresentIsGuarded(t *testing.T) {
	g := &recordingGuard{}
	ref, err := resolveOrderRef(context.Background(), g.check, map[string]any{
		"order_id": float64(7),
	})
	if err != nil {
		t.Fatalf("resolveOrderRef: %v", err)
	}
	if ref == nil || *ref != 7 {
		t.Fatalf("expected order ref 7, got %v", ref)
	}
	if len(g.ids) != 1 || g.ids[0] != 7 || g.tables[0] != TableOrders {
		t.Fatalf("expected one guard call for orders id 7, got tables=%v ids=%v", g.tables, g.ids)
	}
}

func TestResolveOrderRefUnknownOrder(t *testing.T) {
	g := &recordingGuard{err: &store.RefError{Table: TableOrders, ID: 42}}
	ref, err := resolveOrderRef(context.Background(), g.check, map[string]any{
		"order_id": float64(42),
	})
	if !errors.Is(err, store.ErrRefNotFound) {
		t.Fatalf("expected ErrRefNotFound, got %v", err)
	}
	if ref != nil {
		t.Fatalf("expected nil ref on guard failure, got %v", ref)
	}
}
