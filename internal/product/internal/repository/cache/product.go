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

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ecodeclub/ecache"
	"github.com/ecodeclub/mall/internal/product/internal/domain"
	"github.com/pkg/errors"
)

var ErrProductNotCached = errors.New("商品不在缓存中")

const expiration = 10 * time.Minute

type ProductCache interface {
	SetProduct(ctx context.Context, p domain.Product) error
	GetProduct(ctx context.Context, sn string) (domain.Product, error)
	DelProduct(ctx context.Context, sn string) error
}

// ProductECache 只缓存商品详情页的展示读, 交易侧的价格与库存校验一律直达数据库
type ProductECache struct {
	ec ecache.Cache
}

func NewProductECache(ec ecache.Cache) ProductCache {
	return &ProductECache{
		ec: &ecache.NamespaceCache{
			Namespace: "product:",
			C:         ec,
		},
	}
}

func (p *ProductECache) SetProduct(ctx context.Context, product domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return errors.Wrap(err, "序列化商品失败")
	}
	return p.ec.Set(ctx, p.productKey(product.SN), string(data), expiration)
}

func (p *ProductECache) GetProduct(ctx context.Context, sn string) (domain.Product, error) {
	val := p.ec.Get(ctx, p.productKey(sn))
	if val.KeyNotFound() {
		return domain.Product{}, ErrProductNotCached
	}
	if val.Err != nil {
		return domain.Product{}, errors.Wrap(val.Err, "查询商品缓存出错")
	}
	var product domain.Product
	if err := json.Unmarshal([]byte(val.Val.(string)), &product); err != nil {
		return domain.Product{}, errors.Wrap(err, "反序列化商品失败")
	}
	return product, nil
}

func (p *ProductECache) DelProduct(ctx context.Context, sn string) error {
	_, err := p.ec.Delete(ctx, p.productKey(sn))
	return err
}

func (p *ProductECache) productKey(sn string) string {
	return fmt.Sprintf("sn:%s", sn)
}
