package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	JWTSecret      string
	ServerPort     string
	UploadDir      string
	CertificateDir string
	SMTPHost       string
	SMTPPort       string
	EmailSender    string
	EmailPassword  string
	EmailEnabled   bool
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     getEnv("DB_PASSWORD", "postgres"),
		DBName:         getEnv("DB_NAME", "training_db"),
		JWTSecret:      getEnv("JWT_SECRET", "secret"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		CertificateDir: getEnv("CERTIFICATE_DIR", "./uploads/certificates"),
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		EmailSender:    getEnv("EMAIL_SENDER", ""),
		EmailPassword:  getEnv("EMAIL_PASSWORD", ""),
		EmailEnabled:   getEnv("EMAIL_ENABLED", "false") == "true",
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
