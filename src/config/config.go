package config

import (
	"fmt"
	"os"
	"strconv"
)

// CallEventsExchange is the fanout exchange lifecycle notifications are
// published to.
const CallEventsExchange = "call_events"

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	host     string
	port     int32
	user     string
	password string
	dbName   string
}

func (d DatabaseConfig) GetHost() string     { return d.host }
func (d DatabaseConfig) GetPort() int32      { return d.port }
func (d DatabaseConfig) GetUser() string     { return d.user }
func (d DatabaseConfig) GetPassword() string { return d.password }
func (d DatabaseConfig) GetDBName() string   { return d.dbName }

type GlobalConfig struct {
	LogLevel            string
	RabbitHost          string
	RabbitPort          int32
	RabbitUser          string
	RabbitPass          string
	AnalyzerServiceAddr string
	UseMockAnalyzer     bool
	Host                string
	Port                string

	database DatabaseConfig
}

// GetDatabaseConfig returns the database connection settings.
func (c *GlobalConfig) GetDatabaseConfig() DatabaseConfig {
	return c.database
}

// RabbitURL builds the AMQP connection URL from the configured parts.
func (c *GlobalConfig) RabbitURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", c.RabbitUser, c.RabbitPass, c.RabbitHost, c.RabbitPort)
}

func NewConfig() (GlobalConfig, error) {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		return GlobalConfig{}, fmt.Errorf("LOG_LEVEL environment variable is required")
	}

	host := os.Getenv("HOST")
	if host == "" {
		return GlobalConfig{}, fmt.Errorf("HOST environment variable is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		return GlobalConfig{}, fmt.Errorf("PORT environment variable is required")
	}

	dbHost := os.Getenv("DB_HOST")
	if dbHost == "" {
		return GlobalConfig{}, fmt.Errorf("DB_HOST environment variable is required")
	}

	dbPortStr := os.Getenv("DB_PORT")
	if dbPortStr == "" {
		return GlobalConfig{}, fmt.Errorf("DB_PORT environment variable is required")
	}
	dbPort, err := strconv.ParseInt(dbPortStr, 10, 32)
	if err != nil {
		return GlobalConfig{}, fmt.Errorf("DB_PORT must be a valid integer: %w", err)
	}

	dbUser := os.Getenv("DB_USER")
	if dbUser == "" {
		return GlobalConfig{}, fmt.Errorf("DB_USER environment variable is required")
	}

	dbPass := os.Getenv("DB_PASSWORD")
	if dbPass == "" {
		return GlobalConfig{}, fmt.Errorf("DB_PASSWORD environment variable is required")
	}

	dbName := os.Getenv("DB_NAME")
	if dbName == "" {
		return GlobalConfig{}, fmt.Errorf("DB_NAME environment variable is required")
	}

	rabbitHost := os.Getenv("RABBITMQ_HOST")
	if rabbitHost == "" {
		return GlobalConfig{}, fmt.Errorf("RABBITMQ_HOST environment variable is required")
	}

	rabbitPortStr := os.Getenv("RABBITMQ_PORT")
	if rabbitPortStr == "" {
		return GlobalConfig{}, fmt.Errorf("RABBITMQ_PORT environment variable is required")
	}
	rabbitPort, err := strconv.ParseInt(rabbitPortStr, 10, 32)
	if err != nil {
		return GlobalConfig{}, fmt.Errorf("RABBITMQ_PORT must be a valid integer: %w", err)
	}

	rabbitUser := os.Getenv("RABBITMQ_USER")
	if rabbitUser == "" {
		return GlobalConfig{}, fmt.Errorf("RABBITMQ_USER environment variable is required")
	}

	rabbitPass := os.Getenv("RABBITMQ_PASS")
	if rabbitPass == "" {
		return GlobalConfig{}, fmt.Errorf("RABBITMQ_PASS environment variable is required")
	}

	// The analyzer address is only required when the mock is not in use.
	useMock := os.Getenv("USE_MOCK_ANALYZER") == "true"
	analyzerAddr := os.Getenv("ANALYZER_SERVICE_ADDR")
	if analyzerAddr == "" && !useMock {
		return GlobalConfig{}, fmt.Errorf("ANALYZER_SERVICE_ADDR environment variable is required")
	}

	return GlobalConfig{
		LogLevel:            logLevel,
		RabbitHost:          rabbitHost,
		RabbitPort:          int32(rabbitPort),
		RabbitUser:          rabbitUser,
		RabbitPass:          rabbitPass,
		AnalyzerServiceAddr: analyzerAddr,
		UseMockAnalyzer:     useMock,
		Host:                host,
		Port:                port,
		database: DatabaseConfig{
			host:     dbHost,
			port:     int32(dbPort),
			user:     dbUser,
			password: dbPass,
			dbName:   dbName,
		},
	}, nil
}
