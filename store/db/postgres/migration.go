package postgres

// latestSchema is the full schema for a fresh database. Requires the
// pgvector extension for document similarity search.
const latestSchema = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS profile (
	id SERIAL PRIMARY KEY,
	lmp TEXT,
	cycle_length INTEGER,
	period_length INTEGER,
	age INTEGER,
	weight DOUBLE PRECISION,
	user_location TEXT,
	due_date TEXT
);

CREATE TABLE IF NOT EXISTS weekly_weight (
	id SERIAL PRIMARY KEY,
	week_number INTEGER NOT NULL,
	weight DOUBLE PRECISION,
	note TEXT,
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())
);

CREATE TABLE IF NOT EXISTS weekly_medicine (
	id SERIAL PRIMARY KEY,
	week_number INTEGER NOT NULL,
	name TEXT,
	dose TEXT,
	time TEXT,
	taken BOOLEAN,
	note TEXT,
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())
);

CREATE TABLE IF NOT EXISTS weekly_symptoms (
	id SERIAL PRIMARY KEY,
	week_number INTEGER NOT NULL,
	symptom TEXT,
	note TEXT,
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())
);

CREATE TABLE IF NOT EXISTS blood_pressure_logs (
	id SERIAL PRIMARY KEY,
	week_number INTEGER NOT NULL,
	systolic INTEGER,
	diastolic INTEGER,
	time TEXT,
	note TEXT,
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())
);

CREATE TABLE IF NOT EXISTS discharge_logs (
	id SERIAL PRIMARY KEY,
	week_number INTEGER NOT NULL,
	type TEXT,
	color TEXT,
	bleeding TEXT,
	note TEXT,
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())
);

CREATE TABLE IF NOT EXISTS appointment (
	id SERIAL PRIMARY KEY,
	uid TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	date TEXT NOT NULL,
	time TEXT,
	status TEXT NOT NULL DEFAULT 'upcoming',
	note TEXT,
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())
);

CREATE TABLE IF NOT EXISTS task (
	id SERIAL PRIMARY KEY,
	uid TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	due_date TEXT,
	priority TEXT NOT NULL DEFAULT 'medium',
	completed BOOLEAN NOT NULL DEFAULT FALSE,
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())
);

CREATE TABLE IF NOT EXISTS document_embedding (
	id SERIAL PRIMARY KEY,
	doc_id TEXT NOT NULL,
	collection TEXT NOT NULL,
	content TEXT NOT NULL,
	embedding vector(1536) NOT NULL,
	source TEXT,
	created_ts BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW()),
	UNIQUE(collection, doc_id)
);

CREATE INDEX IF NOT EXISTS idx_weekly_weight_week ON weekly_weight (week_number DESC);
CREATE INDEX IF NOT EXISTS idx_weekly_medicine_week ON weekly_medicine (week_number DESC);
CREATE INDEX IF NOT EXISTS idx_weekly_symptoms_week ON weekly_symptoms (week_number DESC);
CREATE INDEX IF NOT EXISTS idx_blood_pressure_created ON blood_pressure_logs (created_ts DESC);
CREATE INDEX IF NOT EXISTS idx_discharge_created ON discharge_logs (created_ts DESC);
CREATE INDEX IF NOT EXISTS idx_document_embedding_collection ON document_embedding (collection);
`
