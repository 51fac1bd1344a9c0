package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

type DB struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"host":     poolCfg.ConnConfig.Host,
		"database": poolCfg.ConnConfig.Database,
		"max_conn": poolCfg.MaxConns,
	}).Info("Connected to database")

	return &DB{Pool: pool}, nil
}

func (db *DB) Close() {
	db.Pool.Close()
}

func (db *DB) Migrate(ctx context.Context) error {
	schema := `
		CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS refresh_tokens (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			token VARCHAR(255) UNIQUE NOT NULL,
			expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
		CREATE INDEX IF NOT EXISTS idx_refresh_tokens_token ON refresh_tokens(token);
		CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens(user_id);

		CREATE TABLE IF NOT EXISTS profiles (
			id UUID PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			username VARCHAR(32) NOT NULL DEFAULT '',
			level INT NOT NULL DEFAULT 1,
			exp INT NOT NULL DEFAULT 0,
			buddy_name VARCHAR(32) NOT NULL DEFAULT '',
			buddy_color VARCHAR(16) NOT NULL DEFAULT '#0288D1',
			theme_color VARCHAR(16) NOT NULL DEFAULT '#E0F7FA',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);

		-- Empty usernames are allowed for any number of profiles
		CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_username ON profiles(username) WHERE username <> '';

		CREATE TABLE IF NOT EXISTS dives (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			date TIMESTAMP WITH TIME ZONE NOT NULL,
			site_name VARCHAR(100) NOT NULL,
			location VARCHAR(200) NOT NULL DEFAULT '',
			depth_max DOUBLE PRECISION NOT NULL DEFAULT 0,
			depth_avg DOUBLE PRECISION NOT NULL DEFAULT 0,
			duration INT NOT NULL DEFAULT 0,
			lat DOUBLE PRECISION,
			lng DOUBLE PRECISION,
			visibility DOUBLE PRECISION NOT NULL DEFAULT 0,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_dives_user_date ON dives(user_id, date DESC);

		CREATE TABLE IF NOT EXISTS dive_details (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			dive_id UUID UNIQUE NOT NULL REFERENCES dives(id) ON DELETE CASCADE,
			tank_start INT NOT NULL DEFAULT 0,
			tank_end INT NOT NULL DEFAULT 0,
			weight DOUBLE PRECISION NOT NULL DEFAULT 0,
			suit_type VARCHAR(32) NOT NULL DEFAULT '',
			temp_surface DOUBLE PRECISION NOT NULL DEFAULT 0,
			temp_bottom DOUBLE PRECISION NOT NULL DEFAULT 0,
			weather VARCHAR(32) NOT NULL DEFAULT '',
			wind VARCHAR(32) NOT NULL DEFAULT '',
			current VARCHAR(32) NOT NULL DEFAULT '',
			tide VARCHAR(32) NOT NULL DEFAULT '',
			entry_type VARCHAR(32) NOT NULL DEFAULT '',
			dive_profile JSONB NOT NULL DEFAULT '[]'
		);

		CREATE TABLE IF NOT EXISTS marine_species (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name_kr VARCHAR(100) NOT NULL,
			name_en VARCHAR(100) NOT NULL DEFAULT '',
			scientific_name VARCHAR(150) UNIQUE NOT NULL,
			category VARCHAR(20) NOT NULL DEFAULT 'Other',
			description TEXT NOT NULL DEFAULT '',
			size_range VARCHAR(50) NOT NULL DEFAULT '',
			season VARCHAR(50) NOT NULL DEFAULT '',
			depth_range VARCHAR(50) NOT NULL DEFAULT '',
			habitat VARCHAR(100) NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			rarity VARCHAR(20) NOT NULL DEFAULT 'Common',
			is_dangerous BOOLEAN NOT NULL DEFAULT FALSE
		);

		CREATE INDEX IF NOT EXISTS idx_marine_species_category ON marine_species(category);

		CREATE TABLE IF NOT EXISTS marine_sightings (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			dive_id UUID NOT NULL REFERENCES dives(id) ON DELETE CASCADE,
			species_id UUID NOT NULL REFERENCES marine_species(id) ON DELETE CASCADE,
			count INT NOT NULL DEFAULT 1,
			photo_url TEXT,
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_marine_sightings_dive ON marine_sightings(dive_id);

		-- Diary sticker palette
		CREATE TABLE IF NOT EXISTS stickers (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			glyph VARCHAR(32) UNIQUE NOT NULL,
			label VARCHAR(64) NOT NULL DEFAULT '',
			sort_order INT NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);

		-- One diary page per user and dive
		CREATE TABLE IF NOT EXISTS diary_entries (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			dive_id UUID NOT NULL REFERENCES dives(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			elements JSONB NOT NULL DEFAULT '[]',
			background_type VARCHAR(20) NOT NULL DEFAULT 'grid',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			UNIQUE(dive_id, user_id)
		);

		CREATE INDEX IF NOT EXISTS idx_diary_entries_user ON diary_entries(user_id);
	`

	_, err := db.Pool.Exec(ctx, schema)
	return err
}
