package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"shop-admin/pkg/config"
	"shop-admin/pkg/store"
)

// Open connects to the configured SQL database and runs migrations.
func Open(cfg config.Database) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "mysql":
		db, err = OpenMySQL(cfg)
	case "sqlite":
		db, err = OpenSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported sql driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		closeDB(db)
		return nil, err
	}
	return db, nil
}

// migrate is swapped in tests.
var migrate = Migrate

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
}

// OpenMySQL connects to MySQL, creating the database when it is missing.
func OpenMySQL(cfg config.Database) (*gorm.DB, error) {
	dsn := cfg.MySQLDataSource()
	db, err := gorm.Open(mysql.Open(dsn), gormConfig())
	if err != nil {
		if !strings.Contains(err.Error(), "Unknown database") {
			return nil, err
		}
		if cerr := createDatabase(cfg); cerr != nil {
			return nil, fmt.Errorf("create database failed: %w", cerr)
		}
		db, err = gorm.Open(mysql.Open(dsn), gormConfig())
		if err != nil {
			return nil, err
		}
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	return db, nil
}

// OpenSQLite opens a file database through the pure Go sqlite driver.
func OpenSQLite(path string) (*gorm.DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate creates or updates every table the store uses.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(store.Models()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func createDatabase(cfg config.Database) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/", cfg.MySQLUser, cfg.MySQLPass, cfg.MySQLHost, cfg.MySQLPort)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	_, err = db.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` DEFAULT CHARACTER SET utf8mb4", cfg.MySQLDB))
	return err
}
