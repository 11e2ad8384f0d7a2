package session

import (
	"time"

	"admin-console/internal/config"
)

func configFor(store string) config.SessionConfig {
	return config.SessionConfig{Store: store, Duration: time.Hour}
}
