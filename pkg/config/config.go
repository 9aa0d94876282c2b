package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Payment  PaymentConfig
}

type ServerConfig struct {
	Port          string
	PublicBaseURL string
}

type DatabaseConfig struct {
	URL string
}

type JWTConfig struct {
	Secret string
}

type PaymentConfig struct {
	Provider        string
	MaxInstallments int
	MonthlyRate     float64
}

func Load() *Config {
	godotenv.Load() // carrega o .env se existir

	return &Config{
		Server: ServerConfig{
			Port:          getEnv("PORT", "3000"),
			PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "dentalsites-dev-secret"),
		},
		Payment: PaymentConfig{
			Provider:        getEnv("PAYMENT_PROVIDER", "mercadopago"),
			MaxInstallments: MaxInstallments(),
			MonthlyRate:     InstallmentRate(),
		},
	}
}

// InstallmentRate é a taxa mensal de parcelamento. Política comercial,
// configurável; não é invariante técnica.
func InstallmentRate() float64 {
	if v := os.Getenv("INSTALLMENT_MONTHLY_RATE"); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil && rate >= 0 {
			return rate
		}
	}
	return 0.025
}

// MaxInstallments é o teto de parcelas ofertado no checkout.
func MaxInstallments() int {
	if v := os.Getenv("INSTALLMENT_MAX"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 12
}

// PublicBaseURL é a base pública usada nas URLs de retorno e webhook.
func PublicBaseURL() string {
	return getEnv("PUBLIC_BASE_URL", "http://localhost:3000")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
