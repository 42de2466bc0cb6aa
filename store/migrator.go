package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/mod/semver"
)

// Migration System Overview:
//
// The schema version is stored in system_setting under schema_version.
//
// Migration Flow:
// 1. preMigrate: if the database is not initialized, apply LATEST.sql and record the current version
// 2. Migrate: apply incremental migrations between the recorded version and the current version
//
// Migration Files:
// - Location: store/migration/{driver}/{minor}/NN__description.sql
// - A file NN in directory 0.2 upgrades the schema to 0.2.(NN+1)
// - LATEST.sql: Full schema for new installations

//go:embed migration
var migrationFS embed.FS

const (
	// MigrateFileNameSplit is the split character between the patch version and the description in the migration file name.
	// For example, "00__create_table.sql".
	MigrateFileNameSplit = "__"
	// LatestSchemaFileName is the name of the latest schema file.
	LatestSchemaFileName = "LATEST.sql"

	// defaultSchemaVersion is used when the schema version is not recorded.
	defaultSchemaVersion = "0.0.0"
)

func getSchemaVersionOrDefault(schemaVersion string) string {
	if schemaVersion == "" {
		return defaultSchemaVersion
	}
	return schemaVersion
}

// compareVersions compares dotted versions without the "v" prefix semver wants.
func compareVersions(a, b string) int {
	return semver.Compare("v"+a, "v"+b)
}

// shouldApplyMigration reports whether fileVersion lies in (current, target].
func shouldApplyMigration(fileVersion, currentDBVersion, targetVersion string) bool {
	return compareVersions(fileVersion, getSchemaVersionOrDefault(currentDBVersion)) > 0 &&
		compareVersions(targetVersion, fileVersion) >= 0
}

// validateMigrationFileName checks the "NN__description.sql" convention.
func validateMigrationFileName(filename string) error {
	parts := strings.SplitN(filename, MigrateFileNameSplit, 2)
	if len(parts) < 2 {
		return errors.Errorf("invalid migration filename format (missing %s): %s", MigrateFileNameSplit, filename)
	}
	if _, err := strconv.Atoi(parts[0]); err != nil {
		return errors.Errorf("migration filename must start with a number: %s", filename)
	}
	return nil
}

// Migrate migrates the database schema to the latest version.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.preMigrate(ctx); err != nil {
		return errors.Wrap(err, "failed to pre-migrate")
	}

	databaseVersion, err := s.GetSchemaVersion(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get database schema version")
	}
	currentSchemaVersion, err := s.GetCurrentSchemaVersion()
	if err != nil {
		return errors.Wrap(err, "failed to get current schema version")
	}
	if compareVersions(getSchemaVersionOrDefault(databaseVersion), currentSchemaVersion) > 0 {
		slog.Error("cannot downgrade schema version",
			slog.String("databaseVersion", databaseVersion),
			slog.String("currentVersion", currentSchemaVersion),
		)
		return errors.Errorf("cannot downgrade schema version from %s to %s", databaseVersion, currentSchemaVersion)
	}
	if compareVersions(currentSchemaVersion, getSchemaVersionOrDefault(databaseVersion)) > 0 {
		if err := s.applyMigrations(ctx, databaseVersion, currentSchemaVersion); err != nil {
			return errors.Wrap(err, "failed to apply migrations")
		}
	}
	return nil
}

// applyMigrations runs every migration between the two versions in a single transaction.
func (s *Store) applyMigrations(ctx context.Context, currentSchemaVersion, targetSchemaVersion string) error {
	filePaths, err := s.migrationFiles()
	if err != nil {
		return err
	}

	tx, err := s.driver.GetDB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()

	slog.Info("start migration",
		slog.String("currentSchemaVersion", getSchemaVersionOrDefault(currentSchemaVersion)),
		slog.String("targetSchemaVersion", targetSchemaVersion))

	migrationsApplied := 0
	for _, filePath := range filePaths {
		fileSchemaVersion, err := getSchemaVersionOfMigrateScript(filePath)
		if err != nil {
			return errors.Wrap(err, "failed to get schema version of migrate script")
		}
		if !shouldApplyMigration(fileSchemaVersion, currentSchemaVersion, targetSchemaVersion) {
			continue
		}

		slog.Info("applying migration",
			slog.String("file", filePath),
			slog.String("version", fileSchemaVersion))
		bytes, err := migrationFS.ReadFile(filePath)
		if err != nil {
			return errors.Wrapf(err, "failed to read migration file: %s", filePath)
		}
		if err := s.execute(ctx, tx, string(bytes)); err != nil {
			return errors.Wrapf(err, "failed to execute migration %s", filePath)
		}
		migrationsApplied++
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit migration transaction")
	}
	slog.Info("migration completed", slog.Int("migrationsApplied", migrationsApplied))

	return s.updateSchemaVersion(ctx, targetSchemaVersion)
}

// preMigrate applies the latest schema to an empty database.
func (s *Store) preMigrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check if database is initialized")
	}
	if initialized {
		return nil
	}

	filePath := s.getMigrationBasePath() + LatestSchemaFileName
	bytes, err := migrationFS.ReadFile(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema file %s", filePath)
	}
	tx, err := s.driver.GetDB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()
	slog.Info("initializing new database with latest schema", slog.String("file", filePath))
	if err := s.execute(ctx, tx, string(bytes)); err != nil {
		return errors.Wrapf(err, "failed to execute SQL file %s", filePath)
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	schemaVersion, err := s.GetCurrentSchemaVersion()
	if err != nil {
		return errors.Wrap(err, "failed to get current schema version")
	}
	slog.Info("database initialized successfully", slog.String("schemaVersion", schemaVersion))
	return s.updateSchemaVersion(ctx, schemaVersion)
}

func (s *Store) getMigrationBasePath() string {
	return fmt.Sprintf("migration/%s/", s.profile.Driver)
}

// migrationFiles lists the incremental migrations of the driver in version order.
func (s *Store) migrationFiles() ([]string, error) {
	filePaths, err := fs.Glob(migrationFS, s.getMigrationBasePath()+"*/*.sql")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read migration files")
	}
	for _, filePath := range filePaths {
		if err := validateMigrationFileName(filepath.Base(filePath)); err != nil {
			return nil, err
		}
	}
	sort.Slice(filePaths, func(i, j int) bool {
		vi, _ := getSchemaVersionOfMigrateScript(filePaths[i])
		vj, _ := getSchemaVersionOfMigrateScript(filePaths[j])
		return compareVersions(vi, vj) < 0
	})
	return filePaths, nil
}

// GetCurrentSchemaVersion returns the version LATEST.sql corresponds to,
// which is the version of the newest migration file.
func (s *Store) GetCurrentSchemaVersion() (string, error) {
	filePaths, err := s.migrationFiles()
	if err != nil {
		return "", err
	}
	if len(filePaths) == 0 {
		return "0.1.0", nil
	}
	return getSchemaVersionOfMigrateScript(filePaths[len(filePaths)-1])
}

// GetSchemaVersion returns the version recorded in the database.
func (s *Store) GetSchemaVersion(ctx context.Context) (string, error) {
	setting, err := s.GetSystemSetting(ctx, &FindSystemSetting{Name: SystemSettingSchemaVersion})
	if err != nil {
		return "", err
	}
	if setting == nil {
		return "", nil
	}
	return setting.Value, nil
}

// getSchemaVersionOfMigrateScript maps ".../0.2/01__x.sql" to "0.2.2".
func getSchemaVersionOfMigrateScript(filePath string) (string, error) {
	elements := strings.Split(filepath.ToSlash(filePath), "/")
	if len(elements) < 2 {
		return "", errors.Errorf("invalid file path: %s", filePath)
	}
	minorVersion := elements[len(elements)-2]
	rawPatchVersion := strings.Split(elements[len(elements)-1], MigrateFileNameSplit)[0]
	patchVersion, err := strconv.Atoi(rawPatchVersion)
	if err != nil {
		return "", errors.Wrapf(err, "failed to convert patch version to int: %s", rawPatchVersion)
	}
	return fmt.Sprintf("%s.%d", minorVersion, patchVersion+1), nil
}

// execute runs a SQL script inside tx. PostgreSQL gets one statement per call.
func (s *Store) execute(ctx context.Context, tx *sql.Tx, script string) error {
	if s.profile.Driver != "postgres" {
		if _, err := tx.ExecContext(ctx, script); err != nil {
			return errors.Wrap(err, "failed to execute statement")
		}
		return nil
	}
	for i, stmt := range splitSQL(script) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "failed to execute statement %d: %s", i+1, stmt)
		}
	}
	return nil
}

// splitSQL splits a script on semicolons that are outside quotes and comments.
func splitSQL(script string) []string {
	var (
		statements []string
		current    strings.Builder
		inQuote    bool
		inLine     bool
		inBlock    bool
	)
	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}
	for i := 0; i < len(script); i++ {
		ch := script[i]
		switch {
		case inLine:
			if ch == '\n' {
				inLine = false
				current.WriteByte(ch)
			}
		case inBlock:
			if ch == '*' && i+1 < len(script) && script[i+1] == '/' {
				inBlock = false
				i++
			}
		case inQuote:
			current.WriteByte(ch)
			if ch == '\'' {
				inQuote = false
			}
		case ch == '\'':
			inQuote = true
			current.WriteByte(ch)
		case ch == '-' && i+1 < len(script) && script[i+1] == '-':
			inLine = true
			i++
		case ch == '/' && i+1 < len(script) && script[i+1] == '*':
			inBlock = true
			i++
		case ch == ';':
			flush()
		default:
			current.WriteByte(ch)
		}
	}
	flush()
	return statements
}

func (s *Store) updateSchemaVersion(ctx context.Context, schemaVersion string) error {
	if _, err := s.UpsertSystemSetting(ctx, &SystemSetting{
		Name:        SystemSettingSchemaVersion,
		Value:       schemaVersion,
		Description: "database schema version",
	}); err != nil {
		return errors.Wrap(err, "failed to upsert schema version")
	}
	return nil
}
