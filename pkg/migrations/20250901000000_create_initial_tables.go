package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE quotas (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				remote_id INTEGER NOT NULL UNIQUE,
				hut_id INTEGER NOT NULL,
				date_from TEXT NOT NULL,
				date_to TEXT NOT NULL,
				title TEXT NOT NULL DEFAULT '',
				mode TEXT NOT NULL,
				capacity INTEGER NOT NULL DEFAULT 0,
				monday BOOLEAN NOT NULL DEFAULT FALSE,
				tuesday BOOLEAN NOT NULL DEFAULT FALSE,
				wednesday BOOLEAN NOT NULL DEFAULT FALSE,
				thursday BOOLEAN NOT NULL DEFAULT FALSE,
				friday BOOLEAN NOT NULL DEFAULT FALSE,
				saturday BOOLEAN NOT NULL DEFAULT FALSE,
				sunday BOOLEAN NOT NULL DEFAULT FALSE,
				recurrence_length INTEGER NOT NULL DEFAULT 0,
				series_date_from TEXT,
				series_date_to TEXT,
				is_recurring BOOLEAN NOT NULL DEFAULT FALSE
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX idx_quotas_hut_id_dates ON quotas(hut_id, date_from, date_to)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE quota_categories (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				quota_id INTEGER NOT NULL REFERENCES quotas(id) ON DELETE CASCADE,
				category_code TEXT NOT NULL,
				bed_count INTEGER NOT NULL DEFAULT 0
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX idx_quota_categories_quota_id ON quota_categories(quota_id)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE quota_languages (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				quota_id INTEGER NOT NULL REFERENCES quotas(id) ON DELETE CASCADE,
				language TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT ''
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX idx_quota_languages_quota_id ON quota_languages(quota_id)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE daily_summaries (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				hut_id INTEGER NOT NULL,
				day TEXT NOT NULL,
				arriving_guests INTEGER NOT NULL DEFAULT 0,
				total_guests INTEGER NOT NULL DEFAULT 0,
				half_board BOOLEAN NOT NULL DEFAULT FALSE,
				vegetarians INTEGER NOT NULL DEFAULT 0,
				children INTEGER NOT NULL DEFAULT 0,
				mountain_guides INTEGER NOT NULL DEFAULT 0,
				waiting_list BOOLEAN NOT NULL DEFAULT FALSE,
				UNIQUE(hut_id, day)
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE daily_summary_categories (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				daily_summary_id INTEGER NOT NULL REFERENCES daily_summaries(id) ON DELETE CASCADE,
				category_code TEXT NOT NULL,
				free_places INTEGER NOT NULL DEFAULT 0,
				assigned_guests INTEGER NOT NULL DEFAULT 0,
				occupancy_pct REAL NOT NULL DEFAULT 0
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX idx_daily_summary_categories_summary_id ON daily_summary_categories(daily_summary_id)`)
		if err != nil {
			return errors.WithStack(err)
		}

		// No UNIQUE on remote_id: locally created reservations all carry
		// remote_id = 0, so uniqueness of positive remote ids is enforced
		// by the staging merge instead.
		_, err = db.Exec(`
			CREATE TABLE reservations (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				remote_id INTEGER NOT NULL DEFAULT 0,
				hut_id INTEGER NOT NULL,
				date_from TEXT NOT NULL,
				date_to TEXT NOT NULL,
				guest_name TEXT NOT NULL DEFAULT '',
				email TEXT NOT NULL DEFAULT '',
				phone TEXT NOT NULL DEFAULT '',
				comment TEXT NOT NULL DEFAULT '',
				arrival_time TEXT NOT NULL DEFAULT '',
				half_board BOOLEAN NOT NULL DEFAULT FALSE,
				cancelled BOOLEAN NOT NULL DEFAULT FALSE,
				checked_in BOOLEAN NOT NULL DEFAULT FALSE,
				beds_dormitory INTEGER NOT NULL DEFAULT 0,
				beds_multi_bed INTEGER NOT NULL DEFAULT 0,
				beds_two_bed INTEGER NOT NULL DEFAULT 0,
				beds_special INTEGER NOT NULL DEFAULT 0
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX idx_reservations_remote_id ON reservations(remote_id)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX idx_reservations_hut_id_dates ON reservations(hut_id, date_from, date_to)`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE reservation_staging (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				remote_id INTEGER NOT NULL DEFAULT 0,
				hut_id INTEGER NOT NULL,
				date_from TEXT NOT NULL,
				date_to TEXT NOT NULL,
				guest_name TEXT NOT NULL DEFAULT '',
				email TEXT NOT NULL DEFAULT '',
				phone TEXT NOT NULL DEFAULT '',
				comment TEXT NOT NULL DEFAULT '',
				arrival_time TEXT NOT NULL DEFAULT '',
				half_board BOOLEAN NOT NULL DEFAULT FALSE,
				status TEXT NOT NULL DEFAULT '',
				beds_dormitory INTEGER NOT NULL DEFAULT 0,
				beds_multi_bed INTEGER NOT NULL DEFAULT 0,
				beds_two_bed INTEGER NOT NULL DEFAULT 0,
				beds_special INTEGER NOT NULL DEFAULT 0
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`
			CREATE TABLE jobs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at DATETIME NOT NULL,
				updated_at DATETIME NOT NULL,
				type TEXT NOT NULL,
				status TEXT NOT NULL,
				data TEXT,
				error TEXT,
				process_id TEXT
			)
		`)
		if err != nil {
			return errors.WithStack(err)
		}

		_, err = db.Exec(`CREATE INDEX idx_jobs_status ON jobs(status)`)
		if err != nil {
			return errors.WithStack(err)
		}

		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			DROP TABLE IF EXISTS jobs;
			DROP TABLE IF EXISTS reservation_staging;
			DROP TABLE IF EXISTS reservations;
			DROP TABLE IF EXISTS daily_summary_categories;
			DROP TABLE IF EXISTS daily_summaries;
			DROP TABLE IF EXISTS quota_languages;
			DROP TABLE IF EXISTS quota_categories;
			DROP TABLE IF EXISTS quotas;
		`)
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
