package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yungbote/mycoach-backend/internal/pkg/logger"
)

func testLog(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func TestLoadConfigFileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "" +
		"api_token: file-token\n" +
		"jwt_secret_key: file-secret\n" +
		"credentials_key: " + "0000000000000000000000000000000000000000000000000000000000000000" + "\n" +
		"access_token_ttl: 7200\n" +
		"scheduler_enabled: false\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("API_TOKEN", "env-token")
	for _, key := range []string{"JWT_SECRET_KEY", "CREDENTIALS_KEY", "ACCESS_TOKEN_TTL", "SCHEDULER_ENABLED"} {
		key := key
		t.Cleanup(func() { os.Unsetenv(key) })
	}

	cfg, err := LoadConfig(testLog(t))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	// Env wins over the file.
	if cfg.APIToken != "env-token" {
		t.Errorf("APIToken = %q, want env-token", cfg.APIToken)
	}
	// File fills unset keys.
	if cfg.JWTSecretKey != "file-secret" {
		t.Errorf("JWTSecretKey = %q, want file-secret", cfg.JWTSecretKey)
	}
	if cfg.AccessTokenTTL != 7200*time.Second {
		t.Errorf("AccessTokenTTL = %v, want 2h", cfg.AccessTokenTTL)
	}
	if cfg.Scheduler.Enabled {
		t.Error("Scheduler.Enabled = true, want false from file")
	}
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("API_TOKEN", "tok")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("CREDENTIALS_KEY", "")

	if _, err := LoadConfig(testLog(t)); err == nil {
		t.Fatal("expected error for missing CREDENTIALS_KEY")
	}
}

func TestLoadConfigSchedulerDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("API_TOKEN", "tok")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("CREDENTIALS_KEY", "ab")

	cfg, err := LoadConfig(testLog(t))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	sched := cfg.Scheduler
	if !sched.Enabled {
		t.Error("scheduler should default to enabled")
	}
	if sched.SyncHour != 6 || sched.BriefingHour != 7 || sched.PlanDOW != 6 || sched.PlanHour != 18 {
		t.Errorf("unexpected scheduler defaults: %+v", sched)
	}
}
