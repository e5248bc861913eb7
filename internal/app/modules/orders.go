package modules

import (
	"context"

	"github.com/riverqueue/river"

	"storecast.io/notifier/internal/api/handlers"
	"storecast.io/notifier/internal/service"
	"storecast.io/notifier/internal/usecase"
)

// OrderModule wires the product catalog, order placement and status
// changes. Order events go out on infra.Events.
type OrderModule struct {
	orders   *usecase.OrderUseCase
	products *service.ProductService
}

func NewOrderModule(infra *Infrastructure) *OrderModule {
	return &OrderModule{
		orders:   usecase.NewOrderUseCase(infra.Store, infra.Events),
		products: service.NewProductService(infra.Store),
	}
}

func (m *OrderModule) Name() string { return "orders" }

func (m *OrderModule) ContributeServerDeps(deps *handlers.ServerDeps) {
	if deps == nil {
		return
	}
	deps.Orders = m.orders
	deps.Products = m.products
}

func (m *OrderModule) RegisterWorkers(_ *river.Workers) error { return nil }

func (m *OrderModule) Shutdown(context.Context) error { return nil }
