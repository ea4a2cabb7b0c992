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

package repository

import (
	"context"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/mall/internal/product/internal/domain"
	"github.com/ecodeclub/mall/internal/product/internal/repository/cache"
	"github.com/ecodeclub/mall/internal/product/internal/repository/dao"
	"github.com/gotomicro/ego/core/elog"
)

type ProductRepository interface {
	FindBySN(ctx context.Context, sn string) (domain.Product, error)
	// FindByIDs 交易侧校验用, 不走缓存
	FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error)
	Save(ctx context.Context, p domain.Product) (int64, error)
	UpdateStatus(ctx context.Context, id, sellerID int64, status domain.Status) error
	ListBySellerID(ctx context.Context, offset, limit int, sellerID int64) ([]domain.Product, error)
}

func NewProductRepository(d dao.ProductDAO, c cache.ProductCache) ProductRepository {
	return &productRepository{
		d:      d,
		c:      c,
		logger: elog.DefaultLogger,
	}
}

type productRepository struct {
	d      dao.ProductDAO
	c      cache.ProductCache
	logger *elog.Component
}

func (p *productRepository) FindBySN(ctx context.Context, sn string) (domain.Product, error) {
	if cached, err := p.c.GetProduct(ctx, sn); err == nil {
		return cached, nil
	}
	res, err := p.d.FindBySN(ctx, sn)
	if err != nil {
		return domain.Product{}, err
	}
	product := p.toDomain(res)
	if err := p.c.SetProduct(ctx, product); err != nil {
		p.logger.Warn("缓存商品失败", elog.FieldErr(err), elog.String("sn", sn))
	}
	return product, nil
}

func (p *productRepository) FindByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	ps, err := p.d.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return slice.Map(ps, func(idx int, src dao.Product) domain.Product {
		return p.toDomain(src)
	}), nil
}

func (p *productRepository) Save(ctx context.Context, product domain.Product) (int64, error) {
	id, err := p.d.Save(ctx, p.toEntity(product))
	if err != nil {
		return 0, err
	}
	if err := p.c.DelProduct(ctx, product.SN); err != nil {
		p.logger.Warn("删除商品缓存失败", elog.FieldErr(err), elog.String("sn", product.SN))
	}
	return id, nil
}

func (p *productRepository) UpdateStatus(ctx context.Context, id, sellerID int64, status domain.Status) error {
	if err := p.d.UpdateStatus(ctx, id, sellerID, status.ToUint8()); err != nil {
		return err
	}
	// 上下架立即对按SN的读生效
	ps, err := p.d.FindByIDs(ctx, []int64{id})
	if err != nil || len(ps) == 0 {
		p.logger.Warn("删除商品缓存失败", elog.FieldErr(err), elog.Int64("id", id))
		return nil
	}
	if err := p.c.DelProduct(ctx, ps[0].SN); err != nil {
		p.logger.Warn("删除商品缓存失败", elog.FieldErr(err), elog.String("sn", ps[0].SN))
	}
	return nil
}

func (p *productRepository) ListBySellerID(ctx context.Context, offset, limit int, sellerID int64) ([]domain.Product, error) {
	ps, err := p.d.ListBySellerID(ctx, offset, limit, sellerID)
	if err != nil {
		return nil, err
	}
	return slice.Map(ps, func(idx int, src dao.Product) domain.Product {
		return p.toDomain(src)
	}), nil
}

func (p *productRepository) toDomain(src dao.Product) domain.Product {
	return domain.Product{
		ID:          src.Id,
		SN:          src.SN,
		SellerID:    src.SellerId,
		Name:        src.Name,
		Description: src.Description,
		Price:       src.Price,
		Stock:       src.Stock,
		Status:      domain.Status(src.Status),
		Ctime:       src.Ctime,
		Utime:       src.Utime,
	}
}

func (p *productRepository) toEntity(src domain.Product) dao.Product {
	return dao.Product{
		Id:          src.ID,
		SN:          src.SN,
		SellerId:    src.SellerID,
		Name:        src.Name,
		Description: src.Description,
		Price:       src.Price,
		Stock:       src.Stock,
		Status:      src.Status.ToUint8(),
	}
}
