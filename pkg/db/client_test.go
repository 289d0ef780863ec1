package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testModel struct {
	ID   int
	Name string `gorm:"uniqueIndex"`
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	db := newTestDB(t)
	client := FromConn(db)

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{Name: "committed"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestPing(t *testing.T) {
	client := FromConn(newTestDB(t))
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}

func TestIsUniqueViolationSQLite(t *testing.T) {
	db := newTestDB(t)
	if err := db.Create(&testModel{Name: "dup"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	err := db.Create(&testModel{Name: "dup"}).Error
	if !IsUniqueViolation(err, "") {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestIsUniqueViolationPgx(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{
		Code:           "23505",
		Message:        `duplicate key value violates unique constraint "auth_credentials_email_key"`,
		ConstraintName: "auth_credentials_email_key",
	})
	if !IsUniqueViolation(err, "auth_credentials_email_key") {
		t.Fatal("expected constraint match")
	}
	if IsUniqueViolation(err, "other_constraint") {
		t.Fatal("constraint mismatch should not match")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil is not a violation")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23503"}
	if !IsForeignKeyViolation(err) {
		t.Fatal("expected foreign key violation")
	}
	if IsForeignKeyViolation(errors.New("other")) {
		t.Fatal("unexpected match")
	}
}

func TestNewRequiresDSN(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{}, nil); err == nil {
		t.Fatal("expected missing DSN error")
	}
}

func TestDriverName(t *testing.T) {
	if got := driverName(config.DBConfig{Driver: " SQLite "}); got != "sqlite" {
		t.Fatalf("expected sqlite, got %s", got)
	}
	if got := driverName(config.DBConfig{}); got != "postgres" {
		t.Fatalf("expected postgres default, got %s", got)
	}
}
