package service

import (
	"bankdash-api/config"
	"bankdash-api/logger"
	"os"
	"testing"
)

// TestMain runs setup before any tests in this package are executed.
func TestMain(m *testing.M) {
	logger.Init()

	// The services read these straight from the global config.
	config.AppConfig.JWT.SecretKey = "test-secret-key"
	config.AppConfig.JWT.ExpiryHours = 1
	config.AppConfig.OTP.Length = 6
	config.AppConfig.OTP.ExpiryMinutes = 5
	config.AppConfig.OTP.MaxAttempts = 3

	os.Exit(m.Run())
}
