package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	MediaDir string // root directory for generated artifacts (certificate PDFs)

	EmailSender    string
	SendgridApiKey string
	SMTPHost       string
	SMTPPort       string
	SMTPPassword   string

	SimulationApiURL string // external simulation platform
	SimulationApiKey string

	// Progress policy. The weighting constants changed between historical
	// schema revisions, so they stay configurable instead of hard-coded.
	ContentWeightSim float64 // content weight for courses with a simulation
	SimulationWeight float64
	TestWeightSim    float64
	ContentWeight    float64 // content weight for courses without a simulation
	TestWeight       float64
	PassThreshold    float64
	CompletionFloor  float64 // percentages at or above this are stored as 100
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		MediaDir: getEnv("MEDIA_DIR", "./media"),

		EmailSender:    getEnv("EMAIL_SENDER", "noreply@globalqhse.example.com"),
		SendgridApiKey: getEnv("SENDGRID_API_KEY", ""),
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),

		SimulationApiURL: getEnv("SIMULATION_API_URL", "https://simulator.globalqhse.example.com/api/"),
		SimulationApiKey: getEnv("SIMULATION_API_KEY", ""),

		ContentWeightSim: getEnvFloat("CONTENT_WEIGHT_SIM", 0.5),
		SimulationWeight: getEnvFloat("SIMULATION_WEIGHT", 0.3),
		TestWeightSim:    getEnvFloat("TEST_WEIGHT_SIM", 0.2),
		ContentWeight:    getEnvFloat("CONTENT_WEIGHT", 0.8),
		TestWeight:       getEnvFloat("TEST_WEIGHT", 0.2),
		PassThreshold:    getEnvFloat("PASS_THRESHOLD", 60),
		CompletionFloor:  getEnvFloat("COMPLETION_FLOOR", 99),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.SendgridApiKey == "" && AppConfig.SMTPPassword == "" {
		log.Println("Warning: No email credentials configured. Outbound mail will fail.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

// getEnvFloat retrieves an environment variable as a float or returns the default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Error converting environment variable %s to float: %v", key, err)
		return defaultValue
	}
	return floatValue
}
