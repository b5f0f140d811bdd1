package hospital

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medilink/internal/payload"
	"medilink/internal/store"
)

type Repo struct {
	Store *store.Store
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{Store: &store.Store{DB: db}}
}

func (r *Repo) CreatePatient(ctx context.Context, data map[string]any) (map[string]any, error) {
	var id int64
	err := r.Store.DB.QueryRow(ctx,
		`INSERT INTO patients(name, age, address, phone) VALUES ($1,$2,$3,$4) RETURNING id`,
		payload.Str(data, "name"), payload.Int(data, "age"),
		payload.Str(data, "address"), payload.Str(data, "phone")).Scan(&id)
	if err != nil {
		return nil, store.TranslateWriteErr(err)
	}
	return withID(data, id), nil
}

func (r *Repo) UpdatePatient(ctx context.Context, id int64, data map[string]any) (int64, error) {
	ct, err := r.Store.DB.Exec(ctx,
		`UPDATE patients SET name=$1, age=$2, address=$3, phone=$4 WHERE id=$5`,
		payload.Str(data, "name"), payload.Int(data, "age"),
		payload.Str(data, "address"), payload.Str(data, "phone"), id)
	if err != nil {
		return 0, store.TranslateWriteErr(err)
	}
	return ct.RowsAffected(), nil
}

func (r *Repo) CreateDoctor(ctx context.Context, data map[string]any) (map[string]any, error) {
	var id int64
	err := r.Store.DB.QueryRow(ctx,
		`INSERT INTO doctors(name, specialization) VALUES ($1,$2) RETURNING id`,
		payload.Str(data, "name"), payload.Str(data, "specialization")).Scan(&id)
	if err != nil {
		return nil, store.TranslateWriteErr(err)
	}
	return withID(data, id), nil
}

func (r *Repo) UpdateDoctor(ctx context.Context, id int64, data map[string]any) (int64, error) {
	ct, err := r.Store.DB.Exec(ctx,
		`UPDATE doctors SET name=$1, specialization=$2 WHERE id=$3`,
		payload.Str(data, "name"), payload.Str(data, "specialization"), id)
	if err != nil {
		return 0, store.TranslateWriteErr(err)
	}
	return ct.RowsAffected(), nil
}

func (r *Repo) CreateConsultation(ctx context.Context, data map[string]any) (map[string]any, error) {
	if err := r.Store.Guard(ctx, TablePatients, payload.Int(data, "patient_id")); err != nil {
		return nil, err
	}
	if err := r.Store.Guard(ctx, TableDoctors, payload.Int(data, "doctor_id")); err != nil {
		return nil, err
	}
	var id int64
	err := r.Store.DB.QueryRow(ctx,
		`INSERT INTO consultations(patient_id, doctor_id, symptoms, date) VALUES ($1,$2,$3,$4) RETURNING id`,
		payload.Int(data, "patient_id"), payload.Int(data, "doctor_id"),
		payload.Str(data, "symptoms"), payload.Str(data, "date")).Scan(&id)
	if err != nil {
		return nil, store.TranslateWriteErr(err)
	}
	return withID(data, id), nil
}

func (r *Repo) UpdateConsultation(ctx context.Context, id int64, data map[string]any) (int64, error) {
	if payload.Has(data, "patient_id") {
		if err := r.Store.Guard(ctx, TablePatients, payload.Int(data, "patient_id")); err != nil {
			return 0, err
		}
	}
	if payload.Has(data, "doctor_id") {
		if err := r.Store.Guard(ctx, TableDoctors, payload.Int(data, "doctor_id")); err != nil {
			return 0, err
		}
	}
	ct, err := r.Store.DB.Exec(ctx,
		`UPDATE consultations SET patient_id=$1, doctor_id=$2, symptoms=$3, date=$4 WHERE id=$5`,
		payload.Int(data, "patient_id"), payload.Int(data, "doctor_id"),
		payload.Str(data, "symptoms"), payload.Str(data, "date"), id)
	if err != nil {
		return 0, store.TranslateWriteErr(err)
	}
	return ct.RowsAffected(), nil
}

func (r *Repo) CreateDiagnosis(ctx context.Context, data map[string]any) (map[string]any, error) {
	if err := r.Store.Guard(ctx, TableConsultations, payload.Int(data, "consultation_id")); err != nil {
		return nil, err
	}
	var id int64
	err := r.Store.DB.QueryRow(ctx,
		`INSERT INTO diagnoses(consultation_id, diagnosis_text, diagnosis_date) VALUES ($1,$2,$3) RETURNING id`,
		payload.Int(data, "consultation_id"), payload.Str(data, "diagnosis_text"),
		payload.Str(data, "diagnosis_date")).Scan(&id)
	if err != nil {
		return nil, store.TranslateWriteErr(err)
	}
	return withID(data, id), nil
}

func (r *Repo) UpdateDiagnosis(ctx context.Context, id int64, data map[string]any) (int64, error) {
	if payload.Has(data, "consultation_id") {
		if err := r.Store.Guard(ctx, TableConsultations, payload.Int(data, "consultation_id")); err != nil {
			return 0, err
		}
	}
	ct, err := r.Store.DB.Exec(ctx,
		`UPDATE diagnoses SET consultation_id=$1, diagnosis_text=$2, diagnosis_date=$3 WHERE id=$4`,
		payload.Int(data, "consultation_id"), payload.Str(data, "diagnosis_text"),
		payload.Str(data, "diagnosis_date"), id)
	if err != nil {
		return 0, store.TranslateWriteErr(err)
	}
	return ct.RowsAffected(), nil
}

func (r *Repo) CreatePrescription(ctx context.Context, data map[string]any) (map[string]any, error) {
	if err := r.Store.Guard(ctx, TableDiagnoses, payload.Int(data, "diagnosis_id")); err != nil {
		return nil, err
	}
	var id int64
	err := r.Store.DB.QueryRow(ctx,
		`INSERT INTO prescriptions(diagnosis_id, medicine_name, dosage) VALUES ($1,$2,$3) RETURNING id`,
		payload.Int(data, "diagnosis_id"), payload.Str(data, "medicine_name"),
		payload.Str(data, "dosage")).Scan(&id)
	if err != nil {
		return nil, store.TranslateWriteErr(err)
	}
	return withID(data, id), nil
}

func (r *Repo) UpdatePrescription(ctx context.Context, id int64, data map[string]any) (int64, error) {
	if payload.Has(data, "diagnosis_id") {
		if err := r.Store.Guard(ctx, TableDiagnoses, payload.Int(data, "diagnosis_id")); err != nil {
			return 0, err
		}
	}
	ct, err := r.Store.DB.Exec(ctx,
		`UPDATE prescriptions SET diagnosis_id=$1, medicine_name=$2, dosage=$3 WHERE id=$4`,
		payload.Int(data, "diagnosis_id"), payload.Str(data, "medicine_name"),
		payload.Str(data, "dosage"), id)
	if err != nil {
		return 0, store.TranslateWriteErr(err)
	}
	return ct.RowsAffected(), nil
}

func (r *Repo) CreateHealthMonitoring(ctx context.Context, data map[string]any) (map[string]any, error) {
	if err := r.Store.Guard(ctx, TableDiagnoses, payload.Int(data, "diagnosis_id")); err != nil {
		return nil, err
	}
	var id int64
	err := r.Store.DB.QueryRow(ctx,
		`INSERT INTO health_monitorings(diagnosis_id, kota_kejadian, monitoring_date) VALUES ($1,$2,$3) RETURNING id`,
		payload.Int(data, "diagnosis_id"), payload.Str(data, "kota_kejadian"),
		payload.Str(data, "monitoring_date")).Scan(&id)
	if err != nil {
		return nil, store.TranslateWriteErr(err)
	}
	return withID(data, id), nil
}

func (r *Repo) UpdateHealthMonitoring(ctx context.Context, id int64, data map[string]any) (int64, error) {
	if payload.Has(data, "diagnosis_id") {
		if err := r.Store.Guard(ctx, TableDiagnoses, payload.Int(data, "diagnosis_id")); err != nil {
			return 0, err
		}
	}
	ct, err := r.Store.DB.Exec(ctx,
		`UPDATE health_monitorings SET diagnosis_id=$1, kota_kejadian=$2, monitoring_date=$3 WHERE id=$4`,
		payload.Int(data, "diagnosis_id"), payload.Str(data, "kota_kejadian"),
		payload.Str(data, "monitoring_date"), id)
	if err != nil {
		return 0, store.TranslateWriteErr(err)
	}
	return ct.RowsAffected(), nil
}

// DiagnosisText loads the text of a diagnosis for the statistics report.
func (r *Repo) DiagnosisText(ctx context.Context, id int64) (string, error) {
	var text string
	err := r.Store.DB.QueryRow(ctx,
		`SELECT diagnosis_text FROM diagnoses WHERE id=$1`, id).Scan(&text)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", &store.RefError{Table: TableDiagnoses, ID: id}
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

func withID(data map[string]any, id int64) map[string]any {
	out := make(map[string]any, len(data)+1)
	out["id"] = id
	for k, v := range data {
		out[k] = v
	}
	return out
}
