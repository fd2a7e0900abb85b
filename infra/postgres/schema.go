package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS categories (
	id          UUID PRIMARY KEY,
	name        VARCHAR(255) NOT NULL,
	slug        VARCHAR(255) NOT NULL UNIQUE,
	description TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS materials (
	id          UUID PRIMARY KEY,
	name        VARCHAR(255) NOT NULL,
	description TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tags (
	id         UUID PRIMARY KEY,
	name       VARCHAR(100) NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS items (
	id             UUID PRIMARY KEY,
	name           VARCHAR(255) NOT NULL,
	sku            VARCHAR(100) NOT NULL UNIQUE,
	description    TEXT,
	price          NUMERIC(10, 2) NOT NULL CHECK (price > 0),
	currency       VARCHAR(3) NOT NULL DEFAULT 'USD',
	category_id    UUID REFERENCES categories (id) ON DELETE SET NULL,
	material_id    UUID REFERENCES materials (id) ON DELETE SET NULL,
	stock_quantity INTEGER NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
	likes          INTEGER NOT NULL DEFAULT 0 CHECK (likes >= 0),
	is_active      BOOLEAN NOT NULL DEFAULT TRUE,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS ix_items_category_id ON items (category_id);
CREATE INDEX IF NOT EXISTS ix_items_material_id ON items (material_id);
CREATE INDEX IF NOT EXISTS ix_items_is_active ON items (is_active);
CREATE INDEX IF NOT EXISTS ix_items_price ON items (price);

CREATE TABLE IF NOT EXISTS item_tags (
	item_id UUID NOT NULL REFERENCES items (id) ON DELETE CASCADE,
	tag_id  UUID NOT NULL REFERENCES tags (id) ON DELETE CASCADE,
	PRIMARY KEY (item_id, tag_id)
);

CREATE TABLE IF NOT EXISTS item_images (
	id           UUID PRIMARY KEY,
	item_id      UUID NOT NULL REFERENCES items (id) ON DELETE CASCADE,
	storage_path VARCHAR(500) NOT NULL,
	url          VARCHAR(1000) NOT NULL,
	is_primary   BOOLEAN NOT NULL DEFAULT FALSE,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS ix_item_images_item_id ON item_images (item_id, is_primary);

CREATE TABLE IF NOT EXISTS wishlists (
	id         UUID PRIMARY KEY,
	user_id    VARCHAR(255) NOT NULL,
	item_id    UUID NOT NULL REFERENCES items (id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (user_id, item_id)
);

CREATE INDEX IF NOT EXISTS ix_wishlists_user_id ON wishlists (user_id);

CREATE TABLE IF NOT EXISTS contact_messages (
	id         UUID PRIMARY KEY,
	full_name  VARCHAR(255) NOT NULL,
	email      VARCHAR(255) NOT NULL,
	phone      VARCHAR(20),
	subject    VARCHAR(50) NOT NULL,
	message    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS subscribers (
	id         UUID PRIMARY KEY,
	email      VARCHAR(255) NOT NULL UNIQUE,
	is_active  BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS blog_posts (
	id              UUID PRIMARY KEY,
	title           VARCHAR(255) NOT NULL,
	slug            VARCHAR(255) NOT NULL UNIQUE,
	excerpt         VARCHAR(500),
	content         TEXT NOT NULL,
	cover_image_url VARCHAR(500),
	author          VARCHAR(255) NOT NULL,
	read_time       VARCHAR(50) NOT NULL,
	is_published    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS blog_tags (
	id          UUID PRIMARY KEY,
	name        VARCHAR(100) NOT NULL UNIQUE,
	is_category BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS blog_post_tags (
	post_id UUID NOT NULL REFERENCES blog_posts (id) ON DELETE CASCADE,
	tag_id  UUID NOT NULL REFERENCES blog_tags (id) ON DELETE CASCADE,
	PRIMARY KEY (post_id, tag_id)
);
`

var sqliteTypes = strings.NewReplacer(
	"UUID", "TEXT",
	"TIMESTAMPTZ", "DATETIME",
	"now()", "CURRENT_TIMESTAMP",
)

// EnsureSchema creates every table and index that does not exist yet.
// Postgres gets the native column types, anything else gets the SQLite spelling.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	ddl := schema
	if db.DriverName() != "postgres" {
		ddl = sqliteTypes.Replace(ddl)
	}

	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
