// Package testutil provides an in-memory database and seed fixtures for
// package-level tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/commercekit/salesapi/internal/domain"
)

var dbSeq atomic.Int64

// DB opens a fresh in-memory sqlite database with the full schema
// migrated. Each test gets its own uniquely named database; the shared
// cache keeps every pooled connection on the same in-memory store.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}

	// Keep one connection open for the test's lifetime so the
	// in-memory database is not dropped between pooled connections.
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(domain.Tables...); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	return db
}
