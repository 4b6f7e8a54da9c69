package logger

import "go.uber.org/zap"

// Component-specific logger functions

// Classify returns a logger for classification operations
func Classify() *zap.Logger {
	return WithField("component", "classify")
}

// Store returns a logger for store operations
func Store() *zap.Logger {
	return WithField("component", "store")
}

// Pipeline returns a logger for pipeline operations
func Pipeline() *zap.Logger {
	return WithField("component", "pipeline")
}

// CLI returns a logger for CLI operations
func CLI() *zap.Logger {
	return WithField("component", "cli")
}

// DB returns a logger for database operations
func DB() *zap.Logger {
	return WithField("component", "db")
}
