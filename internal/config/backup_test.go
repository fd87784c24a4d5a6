package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBackupFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ProjectConfigFile)

	t.Run("no config exists", func(t *testing.T) {
		backupPath, err := BackupFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if backupPath != "" {
			t.Errorf("expected empty backup path for non-existent config, got %s", backupPath)
		}
	})

	t.Run("backup existing config", func(t *testing.T) {
		testContent := "version: 1\nquery:\n  default_index: TI\n"
		if err := os.WriteFile(configPath, []byte(testContent), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		backupPath, err := BackupFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if backupPath == "" {
			t.Fatal("expected non-empty backup path")
		}

		backupContent, err := os.ReadFile(backupPath)
		if err != nil {
			t.Fatalf("failed to read backup: %v", err)
		}
		if string(backupContent) != testContent {
			t.Errorf("backup content mismatch:\ngot: %s\nwant: %s", backupContent, testContent)
		}

		if !strings.HasPrefix(filepath.Base(backupPath), ProjectConfigFile+BackupSuffix+".") {
			t.Errorf("unexpected backup name %s", filepath.Base(backupPath))
		}
	})
}

func TestBackupFile_KeepsMaxBackups(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("version: 1\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	var newest string
	for i := 0; i < MaxBackups+2; i++ {
		p, err := BackupFile(configPath)
		if err != nil {
			t.Fatalf("backup %d: %v", i, err)
		}
		newest = p
	}

	backups, err := ListBackups(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(backups) != MaxBackups {
		t.Fatalf("expected %d backups, got %d", MaxBackups, len(backups))
	}
	if backups[0] != newest {
		t.Errorf("expected newest backup first, got %s", backups[0])
	}
}

func TestListBackups_MissingDirectory(t *testing.T) {
	backups, err := ListBackups(filepath.Join(t.TempDir(), "missing", "config.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups, got %v", backups)
	}
}
