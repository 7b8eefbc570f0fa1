package db_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/mycoach-backend/internal/data/db"
	"github.com/yungbote/mycoach-backend/internal/data/repos"
	"github.com/yungbote/mycoach-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mycoach-backend/internal/domain"
)

func TestAutoMigrateAllOnSQLite(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrateAll(gdb); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	if err := db.EnsureInsightIndexes(gdb); err != nil {
		t.Fatalf("insight indexes: %v", err)
	}

	// Ids come from the application, so writes need no database defaults.
	log := testutil.Logger(t)
	users := repos.NewUserRepo(gdb, log)
	created, err := users.Create(context.Background(), nil, []*types.User{{
		Name:  "Owner",
		Email: "owner@test.local",
	}})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created[0].ID == uuid.Nil {
		t.Fatal("expected app-side id")
	}
	got, err := users.First(context.Background(), nil)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got == nil || got.ID != created[0].ID {
		t.Fatalf("unexpected user: %+v", got)
	}
}
