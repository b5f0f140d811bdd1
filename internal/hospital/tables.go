package hospital

import "medilink/internal/store"

// Closed set of hospital tables.
var (
	TablePatients          = store.NewTable("patients", "Patient")
	TableDoctors           = store.NewTable("doctors", "Doctor")
	TableConsultations     = store.NewTable("consultations", "Consultation")
	TableDiagnoses         = store.NewTable("diagnoses", "Diagnosis")
	TablePrescriptions     = store.NewTable("prescriptions", "Prescription")
	TableHealthMonitorings = store.NewTable("health_monitorings", "Health monitoring")
)

var Schema = []string{
	`CREATE TABLE IF NOT EXISTS patients (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		age INT NOT NULL,
		address TEXT NOT NULL,
		phone TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS doctors (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		specialization TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS consultations (
		id BIGSERIAL PRIMARY KEY,
		patient_id BIGINT NOT NULL REFERENCES patients(id) ON DELETE RESTRICT,
		doctor_id BIGINT NOT NULL REFERENCES doctors(id) ON DELETE RESTRICT,
		symptoms TEXT NOT NULL,
		date DATE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS diagnoses (
		id BIGSERIAL PRIMARY KEY,
		consultation_id BIGINT NOT NULL REFERENCES consultations(id) ON DELETE RESTRICT,
		diagnosis_text TEXT NOT NULL,
		diagnosis_date DATE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS prescriptions (
		id BIGSERIAL PRIMARY KEY,
		diagnosis_id BIGINT NOT NULL REFERENCES diagnoses(id) ON DELETE RESTRICT,
		medicine_name TEXT NOT NULL,
		dosage TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS health_monitorings (
		id BIGSERIAL PRIMARY KEY,
		diagnosis_id BIGINT NOT NULL REFERENCES diagnoses(id) ON DELETE RESTRICT,
		kota_kejadian TEXT NOT NULL,
		monitoring_date DATE NOT NULL
	)`,
}
