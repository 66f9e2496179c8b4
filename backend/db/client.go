package db

import (
	"database/sql"
	"embed"
	"fmt"
	_ "github.com/lib/pq"
	"io"
	"os"
	"satchel/backend/logging"
	"satchel/backend/utils"
	"sort"
	"strconv"
	"strings"
	"time"
)

var db *sql.DB

//go:embed scripts/migrations/*.sql
var migrationScripts embed.FS

const migrationDir = "scripts/migrations"

// Init connects to Postgres using the SATCHEL_DB_* variables and brings the
// schema up to date.
func Init() error {
	var (
		host     = utils.GetEnvVar("SATCHEL_DB_HOST", "localhost")
		port     = utils.GetEnvVar("SATCHEL_DB_PORT", "5432")
		user     = utils.GetEnvVar("SATCHEL_DB_USER", "postgres")
		password = utils.GetEnvVar("SATCHEL_DB_PASS", "")
		dbname   = utils.GetEnvVar("SATCHEL_DB_NAME", "satchel")
		cert     = utils.GetEnvVar("SATCHEL_DB_CERT", "")
	)

	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		user,
		password,
		host,
		port,
		dbname)

	if len(cert) > 0 {
		cert = strings.ReplaceAll(cert, "\\n", "\n")

		certFile, err := os.CreateTemp("", ".*")
		if err != nil {
			return fmt.Errorf("error creating tmp file for db cert: %w", err)
		}

		if _, err = certFile.WriteString(cert); err != nil {
			return fmt.Errorf("unable to write tmp CA cert file: %w", err)
		}

		if err = certFile.Close(); err != nil {
			return fmt.Errorf("unable to close tmp CA cert file: %w", err)
		}

		connStr += fmt.Sprintf(
			"?sslmode=verify-full&sslrootcert=%s",
			certFile.Name())
	} else {
		connStr += "?sslmode=disable"
	}

	var err error
	db, err = sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("unable to open database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}

	return runMigrations()
}

func runMigrations() error {
	version, err := getMigrationVersion()
	if err != nil {
		version = -1
	}

	dir, err := migrationScripts.ReadDir(migrationDir)
	if err != nil {
		return err
	}

	sort.Slice(dir, func(i, j int) bool {
		return getScriptVersion(dir[i].Name()) < getScriptVersion(dir[j].Name())
	})

	for _, file := range dir {
		scriptVersion := getScriptVersion(file.Name())
		if scriptVersion <= version {
			continue
		}

		logging.Log.Infof("Running script: %s", file.Name())

		script, err := migrationScripts.Open(fmt.Sprintf("%s/%s", migrationDir, file.Name()))
		if err != nil {
			return err
		}

		scriptBytes, err := io.ReadAll(script)
		_ = script.Close()
		if err != nil {
			return err
		}

		if _, err = db.Exec(string(scriptBytes)); err != nil {
			return fmt.Errorf("migration %s: %w", file.Name(), err)
		}

		if err = setMigrationVersion(scriptVersion); err != nil {
			return err
		}

		version = scriptVersion
	}

	return nil
}

func getScriptVersion(name string) int {
	scriptVersionStr := strings.Split(name, "_")[0]
	scriptVersion, _ := strconv.Atoi(scriptVersionStr)
	return scriptVersion
}

// Ping reports whether the database is reachable
func Ping() error {
	if db == nil {
		return sql.ErrConnDone
	}

	return db.Ping()
}

func Close() {
	logging.Log.Info("Closing DB connection")
	if err := db.Close(); err != nil {
		logging.Log.Errorf("Error closing DB connection: %v", err)
	}
}

func getMigrationVersion() (int, error) {
	var version int
	s := `SELECT version FROM migrations ORDER BY version DESC LIMIT 1`
	err := db.QueryRow(s).Scan(&version)
	return version, err
}

func setMigrationVersion(version int) error {
	s := `INSERT INTO migrations (version, date) VALUES ($1, $2)`
	_, err := db.Exec(s, version, time.Now().UTC())
	return err
}
