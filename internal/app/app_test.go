package app

import (
	"testing"

	"github.com/commercekit/salesapi/config"
	"github.com/commercekit/salesapi/internal/domain"
	"github.com/commercekit/salesapi/internal/testutil"
)

func TestMigrateDB(t *testing.T) {
	application := NewApplication(config.DefaultAppConfig)
	application.OverrideDB(testutil.DB(t))

	if err := application.MigrateDB(false); err != nil {
		t.Fatalf("MigrateDB: %v", err)
	}
	for _, table := range domain.Tables {
		if !application.DB().Migrator().HasTable(table) {
			t.Errorf("expected table for %T", table)
		}
	}
}

func TestSchedRevenueSummaryTask(t *testing.T) {
	application := NewApplication(config.DefaultAppConfig)
	application.OverrideDB(testutil.DB(t))

	// An empty store sums to zero; the task must complete without
	// touching anything.
	application.SchedRevenueSummaryTask()

	var count int64
	if err := application.DB().Model(&domain.Invoice{}).Count(&count).Error; err != nil {
		t.Fatalf("count invoices: %v", err)
	}
	if count != 0 {
		t.Errorf("task must be read-only, found %d invoices", count)
	}
}
