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

package web

import (
	"errors"

	"github.com/ecodeclub/ekit/slice"
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/ginx/session"
	"github.com/ecodeclub/mall/internal/product/internal/domain"
	"github.com/ecodeclub/mall/internal/product/internal/repository/dao"
	"github.com/ecodeclub/mall/internal/product/internal/service"
	"github.com/gin-gonic/gin"
)

var _ ginx.Handler = &Handler{}

type Handler struct {
	svc service.Service
}

func NewHandler(svc service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) PrivateRoutes(server *gin.Engine) {
	g := server.Group("/product")
	g.POST("/detail", ginx.BS[SNReq](h.RetrieveProductDetail))
	// 卖家侧商品管理
	g.POST("/save", ginx.BS[ProductSaveReq](h.Save))
	g.POST("/status", ginx.BS[ProductStatusReq](h.UpdateStatus))
	g.POST("/list", ginx.BS[ProductListReq](h.List))
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

func (h *Handler) RetrieveProductDetail(ctx *ginx.Context, req SNReq, _ session.Session) (ginx.Result, error) {
	p, err := h.svc.FindBySN(ctx.Request.Context(), req.SN)
	if errors.Is(err, dao.ErrProductNotFound) {
		return productNotFoundResult, err
	}
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: newProduct(p),
	}, nil
}

func (h *Handler) Save(ctx *ginx.Context, req ProductSaveReq, sess session.Session) (ginx.Result, error) {
	id, err := h.svc.Save(ctx.Request.Context(), req.Product.newDomainProduct(sess.Claims().Uid))
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: ProductSaveResp{ID: id},
	}, nil
}

func (h *Handler) UpdateStatus(ctx *ginx.Context, req ProductStatusReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.UpdateStatus(ctx.Request.Context(), req.ID, sess.Claims().Uid, domain.Status(req.Status))
	if errors.Is(err, dao.ErrProductNotFound) {
		return productNotFoundResult, err
	}
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *Handler) List(ctx *ginx.Context, req ProductListReq, sess session.Session) (ginx.Result, error) {
	ps, err := h.svc.ListBySellerID(ctx.Request.Context(), req.Offset, req.Limit, sess.Claims().Uid)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: ProductListResp{
			Products: slice.Map(ps, func(idx int, src domain.Product) Product {
				return newProduct(src)
			}),
		},
	}, nil
}
