package deps

import (
	"time"

	"github.com/xolan/logbook/internal/logger"
	"github.com/xolan/logbook/internal/service"
)

// Deps is what the HTTP handlers need from the rest of the program.
type Deps struct {
	Entry  *service.EntryService
	Logger logger.Logger

	StartTime time.Time
	Version   string
	GoVersion string
}
