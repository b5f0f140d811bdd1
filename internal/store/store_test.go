package store

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestRefError(t *testing.T) {
	var err error = &RefError{Table: NewTable("obat", "Obat"), ID: 9999}
	if got := err.Error(); got != "Obat with ID 9999 not found." {
		t.Errorf("message = %q", got)
	}
	if !errors.Is(err, ErrRefNotFound) {
		t.Error("RefError should match ErrRefNotFound")
	}
	if errors.Is(err, ErrRestricted) {
		t.Error("RefError should not match ErrRestricted")
	}
}

func TestRestrictedError(t *testing.T) {
	var err error = &RestrictedError{Table: NewTable("obat", "Obat"), Referencer: "orders"}
	if got := err.Error(); got != "Obat is still referenced by orders" {
		t.Errorf("message = %q", got)
	}
	if !errors.Is(err, ErrRestricted) {
		t.Error("RestrictedError should match ErrRestricted")
	}

	err = &RestrictedError{Table: NewTable("obat", "Obat")}
	if got := err.(*RestrictedError).Error(); got != "Obat is still referenced by other records" {
		t.Errorf("message without referencer = %q", got)
	}
}

func TestTranslateWriteErr(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "orders_medicine_id_fkey"}
	if got := TranslateWriteErr(fk); !errors.Is(got, ErrForeignKey) {
		t.Errorf("23503 not mapped to ErrForeignKey: %v", got)
	}

	other := errors.New("connection reset")
	if got := TranslateWriteErr(other); got != other {
		t.Errorf("unrelated error was rewritten: %v", got)
	}

	notFK := &pgconn.PgError{Code: "23505"}
	if got := TranslateWriteErr(notFK); errors.Is(got, ErrForeignKey) {
		t.Error("unique violation must not map to ErrForeignKey")
	}
}
