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

package ioc

import (
	"time"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/mall/internal/audit"
	"github.com/ecodeclub/mall/internal/cart"
	"github.com/ecodeclub/mall/internal/product"
	"github.com/ecodeclub/mall/internal/trade"
	"github.com/ecodeclub/mq-api"
	"github.com/ego-component/egorm"
	"github.com/gotomicro/ego/core/econf"
)

func InitTradeModule(db *egorm.Component,
	ec ecache.Cache,
	q mq.MQ,
	cartModule *cart.Module,
	productModule *product.Module,
	auditModule *audit.Module) *trade.Module {
	type TradeConfig struct {
		WebhookSecret       string `yaml:"webhookSecret"`
		RefundWindowDays    int    `yaml:"refundWindowDays"`
		CloseExpiredLimit   int    `yaml:"closeExpiredLimit"`
		CloseExpiredMinutes int64  `yaml:"closeExpiredMinutes"`
	}
	var cfg TradeConfig
	err := econf.UnmarshalKey("trade", &cfg)
	if err != nil {
		panic(err)
	}
	res, err := trade.InitModule(db, ec, q, cartModule, productModule, auditModule, trade.Config{
		WebhookSecret:       cfg.WebhookSecret,
		RefundWindow:        time.Duration(cfg.RefundWindowDays) * 24 * time.Hour,
		CloseExpiredLimit:   cfg.CloseExpiredLimit,
		CloseExpiredMinutes: cfg.CloseExpiredMinutes,
	})
	if err != nil {
		panic(err)
	}
	return res
}
