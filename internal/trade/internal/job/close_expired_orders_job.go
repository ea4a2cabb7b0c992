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

package job

import (
	"context"
	"fmt"
	"time"

	"github.com/ecodeclub/mall/internal/trade/internal/service"
	"github.com/gotomicro/ego/task/ecron"
)

var _ ecron.NamedJob = (*CloseExpiredOrdersJob)(nil)

// CloseExpiredOrdersJob 定时取消超时仍未支付的订单
type CloseExpiredOrdersJob struct {
	svc     service.OrderService
	limit   int
	minutes int64
}

func NewCloseExpiredOrdersJob(svc service.OrderService, limit int, minutes int64) *CloseExpiredOrdersJob {
	return &CloseExpiredOrdersJob{svc: svc, limit: limit, minutes: minutes}
}

func (c *CloseExpiredOrdersJob) Name() string {
	return "CloseExpiredOrdersJob"
}

func (c *CloseExpiredOrdersJob) Run(ctx context.Context) error {
	// 冗余10秒, 避免和支付通知贴边竞争
	ctime := time.Now().Add(time.Duration(-c.minutes)*time.Minute + 10*time.Second).UnixMilli()
	if err := c.svc.CloseExpiredOrders(ctx, c.limit, ctime); err != nil {
		return fmt.Errorf("关闭过期订单失败: %w", err)
	}
	return nil
}
