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

package domain

// Log 交易敏感操作的审计记录, 买家申请、卖家审批和管理员旁路操作都会落一条
type Log struct {
	ID         int64
	OperatorID int64
	// Action 操作名, 比如 request_refund、force_refund
	Action string
	// Biz 操作对象所属业务, 比如 refund
	Biz   string
	BizID int64
	// Detail JSON 序列化后的操作上下文
	Detail string
	Ctime  int64
}
