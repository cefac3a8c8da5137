package tasksrepobridge

import (
	"github.com/jrazmi/flowdesk/core/repositories/tasksrepo"
	"github.com/jrazmi/flowdesk/sdk/logger"
)

// bridge provides HTTP handlers for task operations. Every handler acts as
// the user Authenticate put in the context.
type bridge struct {
	log             *logger.Logger
	tasksRepository *tasksrepo.Repository
}

func newBridge(log *logger.Logger, tasksRepository *tasksrepo.Repository) *bridge {
	return &bridge{
		log:             log,
		tasksRepository: tasksRepository,
	}
}
