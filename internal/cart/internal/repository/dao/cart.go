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
	"gorm.io/gorm/clause"
)

var (
	ErrCartItemNotFound = errors.New("购物车条目未找到")
)

type CartDAO interface {
	// AddItem 同一买家同一商品重复加购时累加数量
	AddItem(ctx context.Context, item CartItem) error
	UpdateQuantity(ctx context.Context, buyerID, productID, quantity int64) error
	RemoveItem(ctx context.Context, buyerID, productID int64) error
	ListByBuyerID(ctx context.Context, buyerID int64) ([]CartItem, error)
	Clear(ctx context.Context, buyerID int64) error
}

func InitTables(db *egorm.Component) error {
	return db.WithContext(context.Background()).AutoMigrate(&CartItem{})
}

func NewCartGORMDAO(db *egorm.Component) CartDAO {
	return &cartGORMDAO{db: db}
}

type cartGORMDAO struct {
	db *egorm.Component
}

func (g *cartGORMDAO) AddItem(ctx context.Context, item CartItem) error {
	now := time.Now().UnixMilli()
	item.Ctime = now
	item.Utime = now
	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "buyer_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("quantity + ?", item.Quantity),
				"utime":    now,
			}),
		}).Create(&item).Error
}

func (g *cartGORMDAO) UpdateQuantity(ctx context.Context, buyerID, productID, quantity int64) error {
	res := g.db.WithContext(ctx).Model(&CartItem{}).
		Where("buyer_id = ? AND product_id = ?", buyerID, productID).
		Updates(map[string]any{
			"quantity": quantity,
			"utime":    time.Now().UnixMilli(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (g *cartGORMDAO) RemoveItem(ctx context.Context, buyerID, productID int64) error {
	res := g.db.WithContext(ctx).
		Where("buyer_id = ? AND product_id = ?", buyerID, productID).
		Delete(&CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (g *cartGORMDAO) ListByBuyerID(ctx context.Context, buyerID int64) ([]CartItem, error) {
	var items []CartItem
	err := g.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (g *cartGORMDAO) Clear(ctx context.Context, buyerID int64) error {
	return g.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Delete(&CartItem{}).Error
}

// CartItem 下单成功后交易模块会在同一事务里清空买家的购物车
type CartItem struct {
	Id        int64 `gorm:"primaryKey,autoIncrement;comment:购物车条目自增ID"`
	BuyerId   int64 `gorm:"uniqueIndex:uniq_buyer_product;comment:买家ID"`
	ProductId int64 `gorm:"uniqueIndex:uniq_buyer_product;comment:商品ID"`
	Quantity  int64 `gorm:"not null;comment:加购数量"`
	Ctime     int64
	Utime     int64
}
