package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	DB *sql.DB

	AppPort             string
	JWTSecret           string
	ImportMaxRows       int
	AttendanceBatchSize int
}

var AppConfig *Config

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("Ignoring invalid %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

// Load reads .env (if present), opens the database and builds the global
// application config. The program fails fast when the database is
// unreachable.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	psqlInfo := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getenv("DB_HOST", "localhost"),
		getenv("DB_PORT", "5432"),
		getenv("DB_USER", "postgres"),
		getenv("DB_PASSWORD", ""),
		getenv("DB_NAME", "abis_edu"),
		getenv("DB_SSLMODE", "disable"),
	)

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		log.Fatal("Failed to open database connection:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err = db.Ping(); err != nil {
		log.Fatal("Cannot establish database connection: ", err)
	}
	log.Println("Database connected successfully")

	AppConfig = &Config{
		DB:                  db,
		AppPort:             getenv("APP_PORT", "8080"),
		JWTSecret:           getenv("JWT_SECRET", ""),
		ImportMaxRows:       getenvInt("IMPORT_MAX_ROWS", 1000),
		AttendanceBatchSize: getenvInt("ATTENDANCE_BATCH_SIZE", 50),
	}
	return AppConfig
}

func GetDB() *sql.DB {
	return AppConfig.DB
}
