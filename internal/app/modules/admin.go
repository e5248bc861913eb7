package modules

import (
	"context"

	"github.com/riverqueue/river"

	"storecast.io/notifier/internal/api/handlers"
	"storecast.io/notifier/internal/service"
)

// AdminModule wires account management and the self-service preference
// editor.
type AdminModule struct {
	users       *service.UserService
	preferences *service.PreferenceService
}

func NewAdminModule(infra *Infrastructure) *AdminModule {
	return &AdminModule{
		users:       service.NewUserService(infra.Store),
		preferences: service.NewPreferenceService(infra.Store.Preferences()),
	}
}

func (m *AdminModule) Name() string { return "admin" }

func (m *AdminModule) ContributeServerDeps(deps *handlers.ServerDeps) {
	if deps == nil {
		return
	}
	deps.Users = m.users
	deps.Preferences = m.preferences
}

func (m *AdminModule) RegisterWorkers(_ *river.Workers) error { return nil }

func (m *AdminModule) Shutdown(context.Context) error { return nil }
