package config

import (
	"log"
	"os"
	"time"

	"github.com/jkamau254/dukapay/payments"
	"github.com/joho/godotenv"
)

func Config(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	return os.Getenv(key)
}

// LoadMpesaConfig assembles the gateway configuration once so the rest of
// the code never touches the environment for provider credentials.
func LoadMpesaConfig() payments.Config {
	baseURL := Config("MPESA_BASE_URL")
	if baseURL == "" {
		baseURL = "https://sandbox.safaricom.co.ke"
	}

	return payments.Config{
		ConsumerKey:    Config("MPESA_CONSUMER_KEY"),
		ConsumerSecret: Config("MPESA_CONSUMER_SECRET"),
		ShortCode:      Config("MPESA_BUSINESS_SHORT_CODE"),
		Passkey:        Config("MPESA_PASSKEY"),
		CallbackURL:    Config("MPESA_CALLBACK_URL"),
		BaseURL:        baseURL,
		Timeout:        10 * time.Second,
	}
}
