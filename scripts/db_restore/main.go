package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/garnizeh/inspections/internal/config"
	"github.com/garnizeh/inspections/internal/db"
)

// Restore checks the backup before replacing the live database. Stop the
// server first.
func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	in := flag.String("in", "", "Backup file (default <database_path>.bak)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	src := *in
	if src == "" {
		src = cfg.DatabasePath + ".bak"
	}
	dst := cfg.DatabasePath

	if err := restore(context.Background(), src, dst); err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Database %s restored from %s.\n", dst, src)
}

func restore(ctx context.Context, src, dst string) error {
	if _, err := os.Stat(src); err != nil {
		return err
	}

	backup, err := db.New(ctx, src, nil)
	if err != nil {
		return err
	}
	defer backup.Close()

	var result string
	if err := backup.QueryRow(ctx, `PRAGMA integrity_check`).Scan(&result); err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("backup is corrupt: %s", result)
	}
	var applied int
	if err := backup.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied); err != nil {
		return fmt.Errorf("backup has no migration history: %w", err)
	}

	tmp := dst + ".restore"
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return err
	}
	if _, err := backup.Exec(ctx, `VACUUM INTO ?`, tmp); err != nil {
		return fmt.Errorf("copy backup: %w", err)
	}

	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(dst + suffix); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return os.Rename(tmp, dst)
}
