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
	"errors"
	"time"

	"github.com/ego-component/egorm"
	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("商品未找到")

type ProductDAO interface {
	FindBySN(ctx context.Context, sn string) (Product, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Product, error)
	Save(ctx context.Context, p Product) (int64, error)
	UpdateStatus(ctx context.Context, id, sellerID int64, status uint8) error
	ListBySellerID(ctx context.Context, offset, limit int, sellerID int64) ([]Product, error)
}

func InitTables(db *egorm.Component) error {
	return db.AutoMigrate(&Product{})
}

type productGORMDAO struct {
	db *egorm.Component
}

func NewProductGORMDAO(db *egorm.Component) ProductDAO {
	return &productGORMDAO{db: db}
}

func (g *productGORMDAO) FindBySN(ctx context.Context, sn string) (Product, error) {
	var p Product
	err := g.db.WithContext(ctx).First(&p, "sn = ?", sn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Product{}, ErrProductNotFound
	}
	return p, err
}

func (g *productGORMDAO) FindByIDs(ctx context.Context, ids []int64) ([]Product, error) {
	var ps []Product
	err := g.db.WithContext(ctx).Find(&ps, "id IN ?", ids).Error
	return ps, err
}

func (g *productGORMDAO) Save(ctx context.Context, p Product) (int64, error) {
	now := time.Now().UnixMilli()
	p.Utime = now
	if p.Id == 0 {
		p.Ctime = now
		err := g.db.WithContext(ctx).Create(&p).Error
		return p.Id, err
	}
	// 卖家只能改自己的商品
	res := g.db.WithContext(ctx).Model(&Product{}).
		Where("id = ? AND seller_id = ?", p.Id, p.SellerId).
		Updates(map[string]any{
			"name":        p.Name,
			"description": p.Description,
			"price":       p.Price,
			"stock":       p.Stock,
			"utime":       now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrProductNotFound
	}
	return p.Id, nil
}

func (g *productGORMDAO) UpdateStatus(ctx context.Context, id, sellerID int64, status uint8) error {
	res := g.db.WithContext(ctx).Model(&Product{}).
		Where("id = ? AND seller_id = ?", id, sellerID).
		Updates(map[string]any{
			"status": status,
			"utime":  time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (g *productGORMDAO) ListBySellerID(ctx context.Context, offset, limit int, sellerID int64) ([]Product, error) {
	var ps []Product
	err := g.db.WithContext(ctx).Where("seller_id = ?", sellerID).
		Order("ctime DESC").Offset(offset).Limit(limit).Find(&ps).Error
	return ps, err
}

type Product struct {
	Id          int64  `gorm:"primaryKey;autoIncrement;comment:商品自增ID"`
	SN          string `gorm:"type:varchar(255);not null;uniqueIndex:uniq_product_sn;comment:商品序列号"`
	SellerId    int64  `gorm:"not null;index:idx_seller_id;comment:卖家ID"`
	Name        string `gorm:"type:varchar(255);not null;comment:商品名称"`
	Description string `gorm:"not null;comment:商品描述"`
	Price       int64  `gorm:"not null;comment:在售单价, 单位为分"`
	Stock       int64  `gorm:"not null;comment:库存数量, 扣减只走条件更新"`
	Status      uint8  `gorm:"type:tinyint unsigned;not null;default:2;comment:商品状态 1=下架 2=上架"`
	Ctime       int64
	Utime       int64
}
