package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"wiki-quiz/internal/config"
	"wiki-quiz/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/oracle/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// Direction selects which half of the migration files to apply.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// RunMigrations applies the embedded schema for the given dialect.
func RunMigrations(ctx context.Context, db *sql.DB, dialect string, dir Direction) error {
	switch dialect {
	case config.DriverPostgres:
		return runPostgresMigrations(db, dir)
	case config.DriverOracle:
		return runOracleMigrations(ctx, db, dir)
	default:
		return fmt.Errorf("unsupported database driver %q", dialect)
	}
}

func runPostgresMigrations(db *sql.DB, dir Direction) error {
	src, err := iofs.New(migrationsFS, "migrations/postgres")
	if err != nil {
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}
	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx", driver)
	if err != nil {
		return fmt.Errorf("could not create migrator: %w", err)
	}

	if dir == Down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration %s failed: %w", dir, err)
	}

	version, dirty, _ := m.Version()
	logger.Get().Info("Migrations completed successfully",
		zap.String("driver", config.DriverPostgres),
		zap.String("direction", string(dir)),
		zap.Uint("version", version),
		zap.Bool("dirty", dirty),
	)
	return nil
}

const oracleVersionTable = "schema_migrations"

// runOracleMigrations executes the embedded .sql files statement by statement
// and records applied versions, since go-ora accepts one statement per Exec.
func runOracleMigrations(ctx context.Context, db *sql.DB, dir Direction) error {
	if err := ensureOracleVersionTable(ctx, db); err != nil {
		return err
	}
	applied, err := appliedOracleVersions(ctx, db)
	if err != nil {
		return err
	}

	files, err := migrationFiles("migrations/oracle", dir)
	if err != nil {
		return err
	}

	for _, name := range files {
		version := migrationVersion(name)
		if dir == Up && applied[version] {
			continue
		}
		if dir == Down && !applied[version] {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, path.Join("migrations/oracle", name))
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", name, err)
		}
		for _, stmt := range SplitStatements(string(content)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("could not execute migration %s: %w", name, err)
			}
		}

		if dir == Up {
			_, err = db.ExecContext(ctx, "INSERT INTO "+oracleVersionTable+" (version) VALUES (:1)", version)
		} else {
			_, err = db.ExecContext(ctx, "DELETE FROM "+oracleVersionTable+" WHERE version = :1", version)
		}
		if err != nil {
			return fmt.Errorf("could not record migration %s: %w", name, err)
		}
		logger.Get().Info("Executed migration", zap.String("file", name))
	}

	logger.Get().Info("Migrations completed successfully",
		zap.String("driver", config.DriverOracle),
		zap.String("direction", string(dir)),
	)
	return nil
}

func ensureOracleVersionTable(ctx context.Context, db *sql.DB) error {
	var count int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM user_tables WHERE table_name = UPPER(:1)", oracleVersionTable).Scan(&count)
	if err != nil {
		return fmt.Errorf("could not inspect migration table: %w", err)
	}
	if count > 0 {
		return nil
	}
	_, err = db.ExecContext(ctx, "CREATE TABLE "+oracleVersionTable+" (version VARCHAR2(255) PRIMARY KEY)")
	if err != nil {
		return fmt.Errorf("could not create migration table: %w", err)
	}
	return nil
}

func appliedOracleVersions(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM "+oracleVersionTable)
	if err != nil {
		return nil, fmt.Errorf("could not read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// migrationFiles lists files for dir, ascending for up and descending for down.
func migrationFiles(root string, dir Direction) ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, root)
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory: %w", err)
	}
	suffix := "." + string(dir) + ".sql"
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), suffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if dir == Down {
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
	}
	return names, nil
}

// migrationVersion returns the numeric prefix of a migration file name.
func migrationVersion(name string) string {
	if i := strings.Index(name, "_"); i > 0 {
		return name[:i]
	}
	return name
}

// SplitStatements splits a script on semicolons that end a line.
func SplitStatements(script string) []string {
	var (
		stmts []string
		buf   strings.Builder
	)
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		if strings.HasSuffix(trimmed, ";") {
			buf.WriteString(strings.TrimSuffix(trimmed, ";"))
			stmts = append(stmts, buf.String())
			buf.Reset()
			continue
		}
		buf.WriteString(trimmed)
		buf.WriteString("\n")
	}
	if rest := strings.TrimSpace(buf.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}
