package persistence

import (
	"database/sql"
	"errors"
	"os"
	"strings"
)

type DatabaseConfig struct {
	DriverType string
	DriverArgs string
}

// ParseDatabaseConfigFromEnv DATABASE_DRIVER, DATABASE_URL
func ParseDatabaseConfigFromEnv() (*DatabaseConfig, error) {
	driver := os.Getenv("DATABASE_DRIVER")
	if driver == "" {
		driver = "mysql"
	}
	args := os.Getenv("DATABASE_URL")
	if args == "" {
		return nil, errors.New("environment variable DATABASE_URL is not set")
	}
	return &DatabaseConfig{DriverType: driver, DriverArgs: args}, nil
}

// PrepareMysqlDatabase creates the database of the DSN when it does not exist yet.
func PrepareMysqlDatabase(driverArgs string) error {
	idx := strings.LastIndex(driverArgs, "/")
	if idx < 0 {
		return errors.New("invalid mysql DSN: " + driverArgs)
	}
	serverArgs := driverArgs[0 : idx+1]
	databaseName := driverArgs[idx+1:]
	if qIdx := strings.Index(databaseName, "?"); qIdx >= 0 {
		databaseName = databaseName[0:qIdx]
	}
	if databaseName == "" {
		return errors.New("database name is missing in DSN")
	}

	db, err := sql.Open("mysql", serverArgs)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec("CREATE DATABASE IF NOT EXISTS " + databaseName +
		" DEFAULT CHARACTER SET utf8mb4 DEFAULT COLLATE utf8mb4_unicode_ci")
	return err
}
