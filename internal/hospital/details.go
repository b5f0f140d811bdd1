package hospital

import (
	"context"
	"time"
)

// PatientDetails is the nested view served by GET /patients/{id}/details.
type PatientDetails struct {
	PatientID   int64               `json:"patient_id"`
	PatientName string              `json:"patient_name"`
	Age         int64               `json:"age"`
	Address     string              `json:"address"`
	Phone       string              `json:"phone"`
	History     []*ConsultationNode `json:"history"`
}

type ConsultationNode struct {
	ConsultationID   int64            `json:"consultation_id"`
	Symptoms         string           `json:"symptoms"`
	ConsultationDate *time.Time       `json:"consultation_date"`
	DoctorName       string           `json:"doctor_name"`
	Diagnoses        []*DiagnosisNode `json:"diagnoses"`
}

type DiagnosisNode struct {
	DiagnosisID   int64              `json:"diagnosis_id"`
	DiagnosisText string             `json:"diagnosis_text"`
	DiagnosisDate *time.Time         `json:"diagnosis_date"`
	Prescriptions []PrescriptionLeaf `json:"prescriptions"`
	Monitorings   []MonitoringLeaf   `json:"monitorings"`
}

type PrescriptionLeaf struct {
	PrescriptionID int64  `json:"prescription_id"`
	MedicineName   string `json:"medicine_name"`
	Dosage         string `json:"dosage"`
}

type MonitoringLeaf struct {
	MonitoringID   int64      `json:"monitoring_id"`
	KotaKejadian   string     `json:"kota_kejadian"`
	MonitoringDate *time.Time `json:"monitoring_date"`
}

// detailRow is one flat row of the outer-joined history query. Everything past
// the patient columns is nullable: a patient with no consultations produces a
// single row of NULLs, and a diagnosis with no leaves likewise.
type detailRow struct {
	patientID      int64
	patientName    string
	age            int64
	address        string
	phone          string
	consultationID *int64
	symptoms       *string
	date           *time.Time
	doctorName     *string
	diagnosisID    *int64
	diagnosisText  *string
	diagnosisDate  *time.Time
	prescriptionID *int64
	medicineName   *string
	dosage         *string
	monitoringID   *int64
	kotaKejadian   *string
	monitoringDate *time.Time
}

const detailQuery = `
SELECT p.id, p.name, p.age, p.address, p.phone,
       c.id, c.symptoms, c.date, d.name,
       dg.id, dg.diagnosis_text, dg.diagnosis_date,
       pr.id, pr.medicine_name, pr.dosage,
       hm.id, hm.kota_kejadian, hm.monitoring_date
FROM patients p
LEFT JOIN consultations c ON c.patient_id = p.id
LEFT JOIN doctors d ON d.id = c.doctor_id
LEFT JOIN diagnoses dg ON dg.consultation_id = c.id
LEFT JOIN prescriptions pr ON pr.diagnosis_id = dg.id
LEFT JOIN health_monitorings hm ON hm.diagnosis_id = dg.id
WHERE p.id = $1
ORDER BY c.id, dg.id, pr.id, hm.id`

// PatientDetails runs one joined query and folds the flat rows into the nested
// tree. Returns nil when the patient id matches nothing at all, which callers
// must distinguish from a patient with an empty history.
func (r *Repo) PatientDetails(ctx context.Context, patientID int64) (*PatientDetails, error) {
	rows, err := r.Store.DB.Query(ctx, detailQuery, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flat []detailRow
	for rows.Next() {
		var dr detailRow
		if err := rows.Scan(
			&dr.patientID, &dr.patientName, &dr.age, &dr.address, &dr.phone,
			&dr.consultationID, &dr.symptoms, &dr.date, &dr.doctorName,
			&dr.diagnosisID, &dr.diagnosisText, &dr.diagnosisDate,
			&dr.prescriptionID, &dr.medicineName, &dr.dosage,
			&dr.monitoringID, &dr.kotaKejadian, &dr.monitoringDate,
		); err != nil {
			return nil, err
		}
		flat = append(flat, dr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return fold(flat), nil
}

// fold collapses the join's row multiplicity. A diagnosis with P prescriptions
// and M monitorings arrives as P×M rows; dedup by child id recovers exactly
// P + M leaves. Parent nodes keep first-seen order.
func fold(flat []detailRow) *PatientDetails {
	if len(flat) == 0 {
		return nil
	}

	head := flat[0]
	pd := &PatientDetails{
		PatientID:   head.patientID,
		PatientName: head.patientName,
		Age:         head.age,
		Address:     head.address,
		Phone:       head.phone,
		History:     []*ConsultationNode{},
	}

	consults := map[int64]*ConsultationNode{}
	diags := map[int64]*DiagnosisNode{}
	seenPres := map[int64]struct{}{}
	seenMon := map[int64]struct{}{}

	for _, r := range flat {
		if r.consultationID == nil {
			continue // patient exists but has no history
		}
		c, ok := consults[*r.consultationID]
		if !ok {
			c = &ConsultationNode{
				ConsultationID:   *r.consultationID,
				Symptoms:         deref(r.symptoms),
				ConsultationDate: r.date,
				DoctorName:       deref(r.doctorName),
				Diagnoses:        []*DiagnosisNode{},
			}
			consults[*r.consultationID] = c
			pd.History = append(pd.History, c)
		}

		if r.diagnosisID == nil {
			continue
		}
		dg, ok := diags[*r.diagnosisID]
		if !ok {
			dg = &DiagnosisNode{
				DiagnosisID:   *r.diagnosisID,
				DiagnosisText: deref(r.diagnosisText),
				DiagnosisDate: r.diagnosisDate,
				Prescriptions: []PrescriptionLeaf{},
				Monitorings:   []MonitoringLeaf{},
			}
			diags[*r.diagnosisID] = dg
			c.Diagnoses = append(c.Diagnoses, dg)
		}

		if r.prescriptionID != nil {
			if _, dup := seenPres[*r.prescriptionID]; !dup {
				seenPres[*r.prescriptionID] = struct{}{}
				dg.Prescriptions = append(dg.Prescriptions, PrescriptionLeaf{
					PrescriptionID: *r.prescriptionID,
					MedicineName:   deref(r.medicineName),
					Dosage:         deref(r.dosage),
				})
			}
		}
		if r.monitoringID != nil {
			if _, dup := seenMon[*r.monitoringID]; !dup {
				seenMon[*r.monitoringID] = struct{}{}
				dg.Monitorings = append(dg.Monitorings, MonitoringLeaf{
					MonitoringID:   *r.monitoringID,
					KotaKejadian:   deref(r.kotaKejadian),
					MonitoringDate: r.monitoringDate,
				})
			}
		}
	}
	return pd
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
