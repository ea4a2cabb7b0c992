//go:build wireinject

package ioc

import (
	"github.com/ecodeclub/mall/internal/audit"
	"github.com/ecodeclub/mall/internal/cart"
	"github.com/ecodeclub/mall/internal/product"
	"github.com/ecodeclub/mall/internal/trade"
	"github.com/google/wire"
)

var BaseSet = wire.NewSet(InitDB, InitCache, InitRedis, InitMQ)

func InitApp() (*App, error) {
	wire.Build(wire.Struct(new(App), "*"),
		BaseSet,
		product.InitModule,
		wire.FieldsOf(new(*product.Module), "Hdl"),
		cart.InitModule,
		wire.FieldsOf(new(*cart.Module), "Hdl"),
		audit.InitModule,
		InitTradeModule,
		wire.FieldsOf(new(*trade.Module), "Hdl", "SellerHdl", "AdminHdl", "WebhookHdl", "CloseJob"),
		InitSession,
		initGinxServer,
		InitAdminServer,
		initCronJobs)
	return new(App), nil
}
