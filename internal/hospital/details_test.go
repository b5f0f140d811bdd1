package hospital

import (
	"testing"
	"time"
)

func i64(v int64) *int64       { return &v }
func str(s string) *string     { return &s }
func date(s string) *time.Time { t, _ := time.Parse("2006-01-02", s); return &t }

func patientRow() detailRow {
	return detailRow{
		patientID:   1,
		patientName: "Budi",
		age:         34,
		address:     "Jl. Melati 5",
		phone:       "0812",
	}
}

// A diagnosis with P prescriptions and M monitorings arrives as P×M flat rows;
// the fold must recover exactly P + M leaves.
func TestFoldCrossProduct(t *testing.T) {
	base := patientRow()
	base.consultationID = i64(10)
	base.symptoms = str("demam")
	base.date = date("2024-01-10")
	base.doctorName = str("dr. Sari")
	base.diagnosisID = i64(20)
	base.diagnosisText = str("DBD")
	base.diagnosisDate = date("2024-01-10")

	var flat []detailRow
	for _, pres := range []int64{30, 31} {
		for _, mon := range []int64{40, 41} {
			r := base
			r.prescriptionID = i64(pres)
			r.medicineName = str("Paracetamol")
			r.dosage = str("3x1")
			r.monitoringID = i64(mon)
			r.kotaKejadian = str("Bandung")
			r.monitoringDate = date("2024-01-11")
			flat = append(flat, r)
		}
	}
	if len(flat) != 4 {
		t.Fatalf("setup: expected 4 flat rows, got %d", len(flat))
	}

	pd := fold(flat)
	if pd == nil {
		t.Fatal("fold returned nil")
	}
	if len(pd.History) != 1 {
		t.Fatalf("consultations = %d, want 1", len(pd.History))
	}
	dg := pd.History[0].Diagnoses
	if len(dg) != 1 {
		t.Fatalf("diagnoses = %d, want 1", len(dg))
	}
	if got := len(dg[0].Prescriptions); got != 2 {
		t.Errorf("prescriptions = %d, want 2", got)
	}
	if got := len(dg[0].Monitorings); got != 2 {
		t.Errorf("monitorings = %d, want 2", got)
	}
}

func TestFoldNestedShape(t *testing.T) {
	// Patient with 2 consultations; the first has 2 diagnoses, one of which
	// has 2 prescriptions and 1 monitoring, the other no children; the second
	// consultation has no diagnoses.
	mk := func(cid, dgid, prid, monid int64) detailRow {
		r := patientRow()
		r.consultationID = i64(cid)
		r.symptoms = str("batuk")
		r.date = date("2024-02-01")
		r.doctorName = str("dr. Sari")
		if dgid != 0 {
			r.diagnosisID = i64(dgid)
			r.diagnosisText = str("ISPA")
			r.diagnosisDate = date("2024-02-01")
		}
		if prid != 0 {
			r.prescriptionID = i64(prid)
			r.medicineName = str("OBH")
			r.dosage = str("2x1")
		}
		if monid != 0 {
			r.monitoringID = i64(monid)
			r.kotaKejadian = str("Jakarta")
			r.monitoringDate = date("2024-02-02")
		}
		return r
	}

	flat := []detailRow{
		mk(10, 20, 30, 40),
		mk(10, 20, 31, 40),
		mk(10, 21, 0, 0),
		mk(11, 0, 0, 0),
	}

	pd := fold(flat)
	if len(pd.History) != 2 {
		t.Fatalf("consultations = %d, want 2", len(pd.History))
	}
	first := pd.History[0]
	if len(first.Diagnoses) != 2 {
		t.Fatalf("first consultation diagnoses = %d, want 2", len(first.Diagnoses))
	}
	if got := len(first.Diagnoses[0].Prescriptions); got != 2 {
		t.Errorf("first diagnosis prescriptions = %d, want 2", got)
	}
	if got := len(first.Diagnoses[0].Monitorings); got != 1 {
		t.Errorf("first diagnosis monitorings = %d, want 1", got)
	}
	second := first.Diagnoses[1]
	if len(second.Prescriptions) != 0 || second.Prescriptions == nil {
		t.Errorf("second diagnosis prescriptions should be empty non-nil, got %#v", second.Prescriptions)
	}
	if len(second.Monitorings) != 0 || second.Monitorings == nil {
		t.Errorf("second diagnosis monitorings should be empty non-nil, got %#v", second.Monitorings)
	}
	if len(pd.History[1].Diagnoses) != 0 {
		t.Errorf("second consultation diagnoses = %d, want 0", len(pd.History[1].Diagnoses))
	}
}

// A patient with no consultations joins to one all-NULL row: the header is
// returned with an empty history, which is not the same as no patient at all.
func TestFoldEmptyHistory(t *testing.T) {
	pd := fold([]detailRow{patientRow()})
	if pd == nil {
		t.Fatal("fold returned nil for existing patient")
	}
	if pd.PatientName != "Budi" {
		t.Errorf("patient_name = %q", pd.PatientName)
	}
	if pd.History == nil || len(pd.History) != 0 {
		t.Errorf("history should be empty non-nil, got %#v", pd.History)
	}
}

func TestFoldNoRows(t *testing.T) {
	if pd := fold(nil); pd != nil {
		t.Fatalf("fold(nil) = %#v, want nil", pd)
	}
}

func TestFoldFirstSeenOrder(t *testing.T) {
	a, b := patientRow(), patientRow()
	a.consultationID, a.symptoms = i64(12), str("pusing")
	b.consultationID, b.symptoms = i64(11), str("mual")

	pd := fold([]detailRow{a, b, a})
	if len(pd.History) != 2 {
		t.Fatalf("consultations = %d, want 2", len(pd.History))
	}
	if pd.History[0].ConsultationID != 12 || pd.History[1].ConsultationID != 11 {
		t.Errorf("order = [%d %d], want first-seen [12 11]",
			pd.History[0].ConsultationID, pd.History[1].ConsultationID)
	}
}
