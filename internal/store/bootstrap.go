package store

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Bootstrap creates the schema system tables and seeds the minimum
// reference data the bridge needs to operate.
func (s *Store) Bootstrap(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, s.Dialect.SystemTablesSQL()); err != nil {
		return fmt.Errorf("bootstrap system tables: %w", err)
	}
	if err := s.seedPrimaryLocale(ctx); err != nil {
		return fmt.Errorf("seed primary locale: %w", err)
	}
	if err := s.seedAdminUser(ctx); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	return nil
}

// seedPrimaryLocale ensures at least one locale exists. Section locale
// assembly needs a primary locale to anchor URL formats on.
func (s *Store) seedPrimaryLocale(ctx context.Context) error {
	row, err := QueryRow(ctx, s.DB, "SELECT COUNT(*) AS count FROM _locales")
	if err != nil {
		return err
	}
	if count, _ := row["count"].(int64); count > 0 {
		return nil
	}

	_, err = Exec(ctx, s.DB,
		s.Dialect.Rebind("INSERT INTO _locales (id, is_primary, sort_order) VALUES ($1, $2, $3)"),
		"en", true, 0)
	return err
}

func (s *Store) seedAdminUser(ctx context.Context) error {
	row, err := QueryRow(ctx, s.DB, "SELECT COUNT(*) AS count FROM _users")
	if err != nil {
		return err
	}
	if count, _ := row["count"].(int64); count > 0 {
		return nil
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = Exec(ctx, s.DB,
		s.Dialect.Rebind(`INSERT INTO _users (id, email, password_hash, roles) VALUES ($1, $2, $3, $4)`),
		uuid.New().String(), "admin@localhost", string(hashBytes), `["admin"]`)
	if err != nil {
		return err
	}

	log.Println("WARNING: Default admin user created (admin@localhost / changeme), change the password immediately")
	return nil
}
