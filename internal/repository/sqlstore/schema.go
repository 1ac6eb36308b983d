package sqlstore

// Timestamp columns are declared DATETIME on sqlite so the driver scans them into time.Time.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'USER',
		created_at DATETIME NOT NULL,
		CHECK(role IN ('USER', 'RESTAURANT', 'ADMIN'))
	)`,
	`CREATE TABLE IF NOT EXISTS restaurants (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		restaurant_name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL,
		phone TEXT NOT NULL,
		verified BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS food_listings (
		id TEXT PRIMARY KEY,
		restaurant_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		quantity INTEGER NOT NULL,
		unit TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		pickup_time TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'AVAILABLE',
		expiry_date DATETIME NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (restaurant_id) REFERENCES restaurants(id) ON DELETE CASCADE,
		CHECK(quantity >= 0),
		CHECK(status IN ('AVAILABLE', 'RESERVED'))
	)`,
	`CREATE TABLE IF NOT EXISTS food_requests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		listing_id TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'PENDING',
		pickup_date DATETIME,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
		CHECK(quantity > 0),
		CHECK(status IN ('PENDING', 'APPROVED', 'REJECTED', 'CANCELLED'))
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		type TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_food_listings_restaurant_id ON food_listings(restaurant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_food_listings_status_expiry ON food_listings(status, expiry_date)`,
	`CREATE INDEX IF NOT EXISTS idx_food_requests_user_id ON food_requests(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_food_requests_listing_id ON food_requests(listing_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_food_requests_pending ON food_requests(user_id, listing_id) WHERE status = 'PENDING'`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user_read ON notifications(user_id, is_read)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'USER' CHECK (role IN ('USER', 'RESTAURANT', 'ADMIN')),
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS restaurants (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		restaurant_name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL,
		phone TEXT NOT NULL,
		verified BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS food_listings (
		id UUID PRIMARY KEY,
		restaurant_id UUID NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		quantity INTEGER NOT NULL CHECK (quantity >= 0),
		unit TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		pickup_time TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'AVAILABLE' CHECK (status IN ('AVAILABLE', 'RESERVED')),
		expiry_date TIMESTAMPTZ NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS food_requests (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		listing_id UUID NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		message TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'APPROVED', 'REJECTED', 'CANCELLED')),
		pickup_date TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		type TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_food_listings_restaurant_id ON food_listings(restaurant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_food_listings_status_expiry ON food_listings(status, expiry_date)`,
	`CREATE INDEX IF NOT EXISTS idx_food_requests_user_id ON food_requests(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_food_requests_listing_id ON food_requests(listing_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_food_requests_pending ON food_requests(user_id, listing_id) WHERE status = 'PENDING'`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user_read ON notifications(user_id, is_read)`,
}
