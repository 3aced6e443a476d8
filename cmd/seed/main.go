// backend-go/cmd/seed/main.go
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	// Initialize database connection
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Store the database connection in the context
	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	// Close the database connection when done
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed the database with master and demo data",
		Flags: []cli.Flag{
			newDBURLFlag(),
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "Directory containing seed CSV files",
				Value:   "./data/seeds",
				EnvVars: []string{"SEED_DATA_DIR"},
			},
		},
		Before: initDB,
		After:  closeDB,
		Action: runSeeder,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

// runSeeder loads every known CSV from the data directory. Missing
// files are skipped so partial seed sets work.
func runSeeder(c *cli.Context) error {
	db := c.Context.Value(dbKey).(*sql.DB)
	dataDir := c.String("data-dir")

	seeders := []struct {
		file string
		fn   func(ctx context.Context, db *sql.DB, rows [][]string) (int, error)
	}{
		{"stores.csv", seedStores},
		{"products.csv", seedProducts},
		{"suppliers.csv", seedSuppliers},
		{"sourcing_rules.csv", seedSourcingRules},
		{"demand_forecasts.csv", seedForecasts},
	}

	for _, s := range seeders {
		path := filepath.Join(dataDir, s.file)
		rows, err := readCSV(path)
		if os.IsNotExist(err) {
			log.Printf("skipping %s: file not present", s.file)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", s.file, err)
		}

		n, err := s.fn(c.Context, db, rows)
		if err != nil {
			return fmt.Errorf("failed to seed %s: %w", s.file, err)
		}
		log.Printf("seeded %d rows from %s", n, s.file)
	}

	return nil
}

// readCSV returns all data rows, header excluded.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if _, err := reader.Read(); err == io.EOF {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// columns: tenant_id, id, name, latitude, longitude, cluster_tier, active
func seedStores(ctx context.Context, db *sql.DB, rows [][]string) (int, error) {
	query := `
		INSERT INTO stores (tenant_id, id, name, latitude, longitude, cluster_tier, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			cluster_tier = EXCLUDED.cluster_tier,
			active = EXCLUDED.active,
			updated_at = NOW()
	`
	for _, row := range rows {
		if len(row) < 7 {
			return 0, fmt.Errorf("stores row has %d columns, want 7", len(row))
		}
		if _, err := db.ExecContext(ctx, query,
			row[0], row[1], row[2], nullIfEmpty(row[3]), nullIfEmpty(row[4]), row[5], row[6]); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

// columns: tenant_id, id, sku, name, status, min_order_qty, case_pack_size, unit_cost
func seedProducts(ctx context.Context, db *sql.DB, rows [][]string) (int, error) {
	query := `
		INSERT INTO products (tenant_id, id, sku, name, status, min_order_qty, case_pack_size, unit_cost, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			sku = EXCLUDED.sku,
			name = EXCLUDED.name,
			status = EXCLUDED.status,
			min_order_qty = EXCLUDED.min_order_qty,
			case_pack_size = EXCLUDED.case_pack_size,
			unit_cost = EXCLUDED.unit_cost,
			updated_at = NOW()
	`
	for _, row := range rows {
		if len(row) < 8 {
			return 0, fmt.Errorf("products row has %d columns, want 8", len(row))
		}
		if _, err := db.ExecContext(ctx, query,
			row[0], row[1], row[2], row[3], row[4], row[5], row[6], row[7]); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

// columns: tenant_id, id, name, active
func seedSuppliers(ctx context.Context, db *sql.DB, rows [][]string) (int, error) {
	query := `
		INSERT INTO suppliers (tenant_id, id, name, active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			active = EXCLUDED.active
	`
	for _, row := range rows {
		if len(row) < 4 {
			return 0, fmt.Errorf("suppliers row has %d columns, want 4", len(row))
		}
		if _, err := db.ExecContext(ctx, query, row[0], row[1], row[2], row[3]); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

// columns: tenant_id, product_id, store_id, source_type, source_id,
// priority, lead_time_days, lead_time_std_dev, min_order_qty, cost_per_order
func seedSourcingRules(ctx context.Context, db *sql.DB, rows [][]string) (int, error) {
	query := `
		INSERT INTO sourcing_rules (tenant_id, product_id, store_id, source_type, source_id,
			priority, lead_time_days, lead_time_std_dev, min_order_qty, cost_per_order,
			active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE, NOW(), NOW())
	`
	for _, row := range rows {
		if len(row) < 10 {
			return 0, fmt.Errorf("sourcing_rules row has %d columns, want 10", len(row))
		}
		if _, err := db.ExecContext(ctx, query,
			row[0], row[1], nullIfEmpty(row[2]), row[3], row[4],
			row[5], row[6], row[7], row[8], row[9]); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

// columns: tenant_id, store_id, product_id, mean_daily, std_dev_daily, window_days
func seedForecasts(ctx context.Context, db *sql.DB, rows [][]string) (int, error) {
	query := `
		INSERT INTO demand_forecasts (tenant_id, store_id, product_id, mean_daily, std_dev_daily, window_days, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (tenant_id, store_id, product_id) DO UPDATE SET
			mean_daily = EXCLUDED.mean_daily,
			std_dev_daily = EXCLUDED.std_dev_daily,
			window_days = EXCLUDED.window_days,
			generated_at = NOW()
	`
	for _, row := range rows {
		if len(row) < 6 {
			return 0, fmt.Errorf("demand_forecasts row has %d columns, want 6", len(row))
		}
		if _, err := db.ExecContext(ctx, query,
			row[0], row[1], row[2], row[3], row[4], row[5]); err != nil {
			return 0, err
		}
	}
	return len(rows), nil
}

// nullIfEmpty returns NULL if the string is empty, otherwise returns the string
func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
