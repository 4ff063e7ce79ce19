package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Invoice   InvoiceConfig   `mapstructure:"invoice"`
	Business  BusinessInfo    `mapstructure:"business"`
	Converter ConverterConfig `mapstructure:"converter"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// StorageConfig holds the paths of the two backing stores
type StorageConfig struct {
	ClientsPath     string        `mapstructure:"clients_path"`
	InvoicesDBPath  string        `mapstructure:"invoices_db_path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// InvoiceConfig holds invoice generation configuration
type InvoiceConfig struct {
	TemplatePath string `mapstructure:"template_path"`
	OutputDir    string `mapstructure:"output_dir"`
}

// BusinessInfo is the issuing business printed on every invoice
type BusinessInfo struct {
	Name    string `mapstructure:"name"`
	Email   string `mapstructure:"email"`
	Phone   string `mapstructure:"phone"`
	Address string `mapstructure:"address"`
}

// ConverterConfig holds external document converter configuration
type ConverterConfig struct {
	Binary  string        `mapstructure:"binary"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Storage defaults
	viper.SetDefault("storage.clients_path", "data/clients.json")
	viper.SetDefault("storage.invoices_db_path", "data/invoices.db")
	viper.SetDefault("storage.max_open_conns", 1)
	viper.SetDefault("storage.max_idle_conns", 1)
	viper.SetDefault("storage.conn_max_lifetime", 5*time.Minute)

	// Invoice defaults
	viper.SetDefault("invoice.template_path", "templates/invoice_template.docx")
	viper.SetDefault("invoice.output_dir", "generated_invoices")

	// Business defaults
	viper.SetDefault("business.name", "Your Business Name")
	viper.SetDefault("business.email", "business@example.com")
	viper.SetDefault("business.phone", "+123 456 7890")
	viper.SetDefault("business.address", "123 Business St, City, Country")

	// Converter defaults
	viper.SetDefault("converter.binary", "soffice")
	viper.SetDefault("converter.timeout", 60*time.Second)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	viper.BindEnv("storage.clients_path", "INVOICEDESK_CLIENTS_PATH")
	viper.BindEnv("storage.invoices_db_path", "INVOICEDESK_INVOICES_DB")
	viper.BindEnv("invoice.template_path", "INVOICEDESK_TEMPLATE_PATH")
	viper.BindEnv("converter.binary", "INVOICEDESK_CONVERTER_BINARY")
}

// Validate checks the configuration for required values
func (c *Config) Validate() error {
	if c.Storage.ClientsPath == "" {
		return fmt.Errorf("storage.clients_path is required")
	}
	if c.Storage.InvoicesDBPath == "" {
		return fmt.Errorf("storage.invoices_db_path is required")
	}
	if c.Invoice.TemplatePath == "" {
		return fmt.Errorf("invoice.template_path is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	return nil
}
