package output

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file.
// PORTFOLIO_LOG_FILE wins; otherwise ~/.portfolio/logs/portfolio.log.
func GetLogFilePath() string {
	if customPath := os.Getenv("PORTFOLIO_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "portfolio.log"
	}
	return filepath.Join(homeDir, ".portfolio", "logs", "portfolio.log")
}
