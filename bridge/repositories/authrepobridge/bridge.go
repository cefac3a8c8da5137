package authrepobridge

import (
	"github.com/jrazmi/flowdesk/core/repositories/authrepo"
	"github.com/jrazmi/flowdesk/core/repositories/sessionsrepo"
	"github.com/jrazmi/flowdesk/sdk/logger"
)

type bridge struct {
	log            *logger.Logger
	authRepository *authrepo.Repository
	sessions       *sessionsrepo.Repository
}

func newBridge(log *logger.Logger, authRepository *authrepo.Repository, sessions *sessionsrepo.Repository) *bridge {
	return &bridge{
		log:            log,
		authRepository: authRepository,
		sessions:       sessions,
	}
}
