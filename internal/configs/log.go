package config

import (
	log "github.com/sirupsen/logrus"
)

// SetupLogging configures the global logger for mode: coloured text at
// debug level in DEV, JSON at info level in PROD.
func SetupLogging(mode string) error {
	switch mode {
	case ModeDev:
		log.SetLevel(log.DebugLevel)
		log.SetFormatter(&log.TextFormatter{
			ForceColors: true,
		})
	case ModeProd:
		log.SetLevel(log.InfoLevel)
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return invalid("unknown mode %q", mode)
	}
	return nil
}
