// Copyright 2024 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build wireinject

package trade

import (
	"sync"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/mall/internal/audit"
	"github.com/ecodeclub/mall/internal/cart"
	"github.com/ecodeclub/mall/internal/pkg/sequencenumber"
	"github.com/ecodeclub/mall/internal/pkg/snowflake"
	"github.com/ecodeclub/mall/internal/product"
	"github.com/ecodeclub/mall/internal/trade/internal/event"
	"github.com/ecodeclub/mall/internal/trade/internal/job"
	"github.com/ecodeclub/mall/internal/trade/internal/repository"
	"github.com/ecodeclub/mall/internal/trade/internal/repository/dao"
	"github.com/ecodeclub/mall/internal/trade/internal/service"
	"github.com/ecodeclub/mall/internal/trade/internal/web"
	"github.com/ecodeclub/mq-api"
	"github.com/ego-component/egorm"
	"github.com/google/wire"
)

func InitModule(db *egorm.Component,
	ec ecache.Cache,
	q mq.MQ,
	cartModule *cart.Module,
	productModule *product.Module,
	auditModule *audit.Module,
	cfg Config) (*Module, error) {
	wire.Build(
		InitTablesOnce,
		dao.NewPaymentGORMDAO,
		dao.NewRefundGORMDAO,
		repository.NewOrderRepository,
		repository.NewPaymentRepository,
		repository.NewRefundRepository,
		sequencenumber.NewGenerator,
		initSnowFlake,
		initOrderPaidEventProducer,
		initRefundCompletedEventProducer,
		initOrderService,
		initPaymentService,
		initRefundService,
		initCloseExpiredOrdersJob,
		web.NewHandler,
		web.NewSellerHandler,
		web.NewAdminHandler,
		web.NewWebhookHandler,
		wire.FieldsOf(new(*cart.Module), "Svc"),
		wire.FieldsOf(new(*product.Module), "Svc"),
		wire.FieldsOf(new(*audit.Module), "Svc"),
		wire.Struct(new(Module), "*"))
	return new(Module), nil
}

func initSnowFlake() snowflake.SnowFlake {
	// node 0, 业务域0=订单 1=子订单
	sf, err := snowflake.NewCustomSnowFlake(0, 2)
	if err != nil {
		panic(err)
	}
	return sf
}

func initOrderPaidEventProducer(q mq.MQ) event.OrderPaidEventProducer {
	producer, err := event.NewOrderPaidEventProducer(q)
	if err != nil {
		panic(err)
	}
	return producer
}

func initRefundCompletedEventProducer(q mq.MQ) event.RefundCompletedEventProducer {
	producer, err := event.NewRefundCompletedEventProducer(q)
	if err != nil {
		panic(err)
	}
	return producer
}

func initOrderService(repo repository.OrderRepository,
	cartSvc cart.Service,
	productSvc product.Service,
	snGenerator *sequencenumber.Generator,
	idGenerator snowflake.SnowFlake) service.OrderService {
	return service.NewOrderService(repo, cartSvc, productSvc, snGenerator, idGenerator)
}

func initPaymentService(repo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	producer event.OrderPaidEventProducer,
	cfg Config) service.PaymentService {
	return service.NewPaymentService(repo, orderRepo, producer, cfg.WebhookSecret)
}

func initRefundService(repo repository.RefundRepository,
	orderRepo repository.OrderRepository,
	auditSvc audit.Service,
	producer event.RefundCompletedEventProducer,
	cfg Config) service.RefundService {
	return service.NewRefundService(repo, orderRepo, auditSvc, producer, cfg.RefundWindow)
}

func initCloseExpiredOrdersJob(svc service.OrderService, cfg Config) *job.CloseExpiredOrdersJob {
	return job.NewCloseExpiredOrdersJob(svc, cfg.CloseExpiredLimit, cfg.CloseExpiredMinutes)
}

var once = &sync.Once{}

func InitTablesOnce(db *egorm.Component) dao.OrderDAO {
	once.Do(func() {
		_ = dao.InitTables(db)
	})
	return dao.NewOrderGORMDAO(db)
}
