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

package dao

import (
	"context"
	"time"

	"github.com/ego-component/egorm"
)

type AuditDAO interface {
	Create(ctx context.Context, l AuditLog) (int64, error)
	ListByBiz(ctx context.Context, biz string, bizID int64) ([]AuditLog, error)
}

func InitTables(db *egorm.Component) error {
	return db.WithContext(context.Background()).AutoMigrate(&AuditLog{})
}

func NewAuditGORMDAO(db *egorm.Component) AuditDAO {
	return &auditGORMDAO{db: db}
}

type auditGORMDAO struct {
	db *egorm.Component
}

func (g *auditGORMDAO) Create(ctx context.Context, l AuditLog) (int64, error) {
	l.Ctime = time.Now().UnixMilli()
	err := g.db.WithContext(ctx).Create(&l).Error
	return l.Id, err
}

func (g *auditGORMDAO) ListByBiz(ctx context.Context, biz string, bizID int64) ([]AuditLog, error) {
	var logs []AuditLog
	err := g.db.WithContext(ctx).
		Where("biz = ? AND biz_id = ?", biz, bizID).
		Order("id DESC").
		Find(&logs).Error
	return logs, err
}

type AuditLog struct {
	Id         int64  `gorm:"primaryKey,autoIncrement;comment:审计记录自增ID"`
	OperatorId int64  `gorm:"index:idx_operator_id;comment:管理员ID"`
	Action     string `gorm:"type:varchar(64);not null;comment:操作名"`
	Biz        string `gorm:"type:varchar(64);index:idx_biz;comment:业务名"`
	BizId      int64  `gorm:"index:idx_biz;comment:业务内唯一ID"`
	Detail     string `gorm:"type:text;comment:JSON序列化的操作上下文"`
	Ctime      int64
}
