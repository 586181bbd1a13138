package db

import (
	"fmt"

	"gorm.io/gorm"
)

// Statements stay within the SQL shared by PostgreSQL and SQLite so the test
// suite runs the same schema. Ids are generated by the service.
var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS rfqs (
		id UUID PRIMARY KEY,
		catalog_id UUID,
		consumer_id UUID NOT NULL,
		provider_id UUID,
		quantity NUMERIC(18,3) NOT NULL CHECK (quantity > 0),
		unit VARCHAR(64) NOT NULL,
		message TEXT,
		preferred_date DATE,
		status VARCHAR(16) NOT NULL DEFAULT 'draft'
			CHECK (status IN ('draft', 'submitted', 'responded', 'accepted', 'rejected', 'expired')),
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		CHECK (status NOT IN ('responded', 'accepted', 'rejected') OR provider_id IS NOT NULL)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_rfqs_consumer_id ON rfqs (consumer_id);`,
	`CREATE INDEX IF NOT EXISTS idx_rfqs_provider_id ON rfqs (provider_id) WHERE provider_id IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_rfqs_status ON rfqs (status);`,
	`CREATE TABLE IF NOT EXISTS quotes (
		id UUID PRIMARY KEY,
		rfq_id UUID NOT NULL REFERENCES rfqs(id) ON DELETE CASCADE,
		provider_id UUID NOT NULL,
		price NUMERIC(18,2) NOT NULL CHECK (price > 0),
		currency VARCHAR(3) NOT NULL,
		delivery_eta_days INTEGER CHECK (delivery_eta_days IS NULL OR delivery_eta_days > 0),
		notes TEXT,
		status VARCHAR(16) NOT NULL DEFAULT 'pending'
			CHECK (status IN ('pending', 'accepted', 'rejected')),
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_quotes_rfq_id ON quotes (rfq_id);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_quotes_pending_provider ON quotes (rfq_id, provider_id) WHERE status = 'pending';`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_quotes_accepted ON quotes (rfq_id) WHERE status = 'accepted';`,
	`CREATE TABLE IF NOT EXISTS rfq_status_events (
		id UUID PRIMARY KEY,
		rfq_id UUID NOT NULL REFERENCES rfqs(id) ON DELETE CASCADE,
		from_status VARCHAR(16),
		to_status VARCHAR(16) NOT NULL,
		actor_id UUID NOT NULL,
		created_at TIMESTAMP NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_rfq_status_events_rfq_id ON rfq_status_events (rfq_id, created_at);`,
}

func Migrate(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
