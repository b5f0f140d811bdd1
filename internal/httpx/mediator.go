package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"medilink/internal/gateway"
	"medilink/internal/store"
)

const queryTimeout = 5 * time.Second

// RowStore is the generic read/delete surface both handlers share. Satisfied
// by *store.Store; faked in tests.
type RowStore interface {
	FetchAll(ctx context.Context, t store.Table) ([]map[string]any, error)
	FetchByID(ctx context.Context, t store.Table, id int64) (map[string]any, error)
	DeleteByID(ctx context.Context, t store.Table, id int64) (int64, error)
}

type createFn func(ctx context.Context, data map[string]any) (map[string]any, error)
type updateFn func(ctx context.Context, id int64, data map[string]any) (int64, error)

// idParam parses {id}; a non-numeric id is a 400, written here.
func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

// decodeAndRequire decodes the JSON body and enforces the required-field list.
// A field that is missing, null, or an empty string is rejected. On failure
// the 400 is already written and ok is false.
func decodeAndRequire(w http.ResponseWriter, r *http.Request, required []string) (map[string]any, bool) {
	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil || data == nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}
	for _, f := range required {
		v, ok := data[f]
		if !ok || v == nil || v == "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Field '%s' is required", f))
			return nil, false
		}
	}
	return data, true
}

// writeModelErr maps model-level failures onto the envelope: a failed
// referential guard is a 404, a constraint the guard raced past is a 400, a
// range check is a 400, anything else a 500.
func writeModelErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrRefNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrForeignKey):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func handleGetAll(db RowStore, t store.Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
		defer cancel()
		rows, err := db.FetchAll(ctx, t)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if rows == nil {
			rows = []map[string]any{}
		}
		writeSuccess(w, http.StatusOK, rows)
	}
}

func handleGetByID(db RowStore, t store.Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
		defer cancel()
		row, err := db.FetchByID(ctx, t, id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if row == nil {
			writeError(w, http.StatusNotFound, t.Label()+" not found")
			return
		}
		writeSuccess(w, http.StatusOK, row)
	}
}

func handleCreate(required []string, fn createFn) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, ok := decodeAndRequire(w, r, required)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
		defer cancel()
		created, err := fn(ctx, data)
		if err != nil {
			writeModelErr(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, created)
	}
}

// handleUpdate treats 0 affected rows as not-found, uniformly. The updated row
// is re-read so the response reflects what the database now holds.
func handleUpdate(db RowStore, t store.Table, required []string, fn updateFn) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		data, ok := decodeAndRequire(w, r, required)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
		defer cancel()
		affected, err := fn(ctx, id, data)
		if err != nil {
			writeModelErr(w, err)
			return
		}
		if affected == 0 {
			writeError(w, http.StatusNotFound, "Record not found")
			return
		}
		row, err := db.FetchByID(ctx, t, id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeSuccess(w, http.StatusOK, row)
	}
}

func handleDelete(db RowStore, t store.Table) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
		defer cancel()
		affected, err := db.DeleteByID(ctx, t, id)
		if errors.Is(err, store.ErrRestricted) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if affected == 0 {
			writeError(w, http.StatusNotFound, "Record not found")
			return
		}
		writeSuccessMsg(w, http.StatusOK, "Record deleted successfully")
	}
}

// handleProxy forwards a sibling service's read. A remote reply is reused
// verbatim (status and envelope); a remote error without a usable message, or
// a transport failure, becomes a generic 500 that names the service only.
func handleProxy(c *gateway.Client, path func(r *http.Request) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := c.Get(r.Context(), path(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to fetch from "+c.Name())
			return
		}
		if resp.OK() {
			writeRaw(w, resp.StatusCode, resp.Body)
			return
		}
		if msg := resp.Message(); msg != "" {
			writeError(w, resp.StatusCode, msg)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch from "+c.Name())
	}
}
