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

//go:build e2e

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ecodeclub/mall/internal/product"
	testioc "github.com/ecodeclub/mall/internal/test/ioc"
	"github.com/ego-component/egorm"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const testSellerID = int64(21)

func TestProductModule(t *testing.T) {
	suite.Run(t, new(ProductModuleTestSuite))
}

type ProductModuleTestSuite struct {
	suite.Suite
	db  *egorm.Component
	mod *product.Module
}

func (s *ProductModuleTestSuite) SetupSuite() {
	s.db = testioc.InitDB()
	s.mod = product.InitModule(s.db, testioc.InitCache())
}

func (s *ProductModuleTestSuite) TearDownTest() {
	require.NoError(s.T(), s.db.Exec("TRUNCATE TABLE `products`").Error)
}

func (s *ProductModuleTestSuite) seedProduct(price, stock int64) (int64, string) {
	t := s.T()
	sn := fmt.Sprintf("SN-%d-%d", testSellerID, time.Now().UnixNano())
	id, err := s.mod.Svc.Save(context.Background(), product.Product{
		SN:       sn,
		SellerID: testSellerID,
		Name:     "测试商品",
		Price:    price,
		Stock:    stock,
		Status:   product.StatusOnShelf,
	})
	require.NoError(t, err)
	return id, sn
}

func (s *ProductModuleTestSuite) TestFindBySN_CacheFollowsStatusChange() {
	t := s.T()
	ctx := context.Background()
	id, sn := s.seedProduct(990, 10)

	// 预热缓存
	p, err := s.mod.Svc.FindBySN(ctx, sn)
	require.NoError(t, err)
	require.Equal(t, product.StatusOnShelf, p.Status)

	// 下架后按SN读不能再返回在售
	require.NoError(t, s.mod.Svc.UpdateStatus(ctx, id, testSellerID, product.StatusOffShelf))
	p, err = s.mod.Svc.FindBySN(ctx, sn)
	require.NoError(t, err)
	require.Equal(t, product.StatusOffShelf, p.Status)

	// 重新上架同样立即可见
	require.NoError(t, s.mod.Svc.UpdateStatus(ctx, id, testSellerID, product.StatusOnShelf))
	p, err = s.mod.Svc.FindBySN(ctx, sn)
	require.NoError(t, err)
	require.Equal(t, product.StatusOnShelf, p.Status)
}

func (s *ProductModuleTestSuite) TestFindBySN_CacheFollowsSave() {
	t := s.T()
	ctx := context.Background()
	id, sn := s.seedProduct(990, 10)

	p, err := s.mod.Svc.FindBySN(ctx, sn)
	require.NoError(t, err)
	require.Equal(t, int64(990), p.Price)

	p.ID = id
	p.Price = 1290
	_, err = s.mod.Svc.Save(ctx, p)
	require.NoError(t, err)

	p, err = s.mod.Svc.FindBySN(ctx, sn)
	require.NoError(t, err)
	require.Equal(t, int64(1290), p.Price)
}
