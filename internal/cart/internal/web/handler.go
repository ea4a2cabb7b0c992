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
	"github.com/ecodeclub/mall/internal/cart/internal/domain"
	"github.com/ecodeclub/mall/internal/cart/internal/repository/dao"
	"github.com/ecodeclub/mall/internal/cart/internal/service"
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
	g := server.Group("/cart")
	g.POST("/add", ginx.BS[AddItemReq](h.AddItem))
	g.POST("/update", ginx.BS[UpdateQuantityReq](h.UpdateQuantity))
	g.POST("/remove", ginx.BS[RemoveItemReq](h.RemoveItem))
	g.POST("/list", ginx.S(h.List))
}

func (h *Handler) PublicRoutes(_ *gin.Engine) {}

func (h *Handler) AddItem(ctx *ginx.Context, req AddItemReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.AddItem(ctx.Request.Context(), domain.CartItem{
		BuyerID:   sess.Claims().Uid,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if errors.Is(err, service.ErrInvalidQuantity) {
		return invalidQuantityResult, err
	}
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *Handler) UpdateQuantity(ctx *ginx.Context, req UpdateQuantityReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.UpdateQuantity(ctx.Request.Context(), sess.Claims().Uid, req.ProductID, req.Quantity)
	switch {
	case errors.Is(err, service.ErrInvalidQuantity):
		return invalidQuantityResult, err
	case errors.Is(err, dao.ErrCartItemNotFound):
		return itemNotFoundResult, err
	case err != nil:
		return systemErrorResult, err
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *Handler) RemoveItem(ctx *ginx.Context, req RemoveItemReq, sess session.Session) (ginx.Result, error) {
	err := h.svc.RemoveItem(ctx.Request.Context(), sess.Claims().Uid, req.ProductID)
	if errors.Is(err, dao.ErrCartItemNotFound) {
		return itemNotFoundResult, err
	}
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{Msg: "OK"}, nil
}

func (h *Handler) List(ctx *ginx.Context, sess session.Session) (ginx.Result, error) {
	items, err := h.svc.ListByBuyerID(ctx.Request.Context(), sess.Claims().Uid)
	if err != nil {
		return systemErrorResult, err
	}
	return ginx.Result{
		Data: ListResp{
			Items: slice.Map(items, func(idx int, src domain.CartItem) CartItem {
				return CartItem{
					ProductID: src.ProductID,
					Quantity:  src.Quantity,
				}
			}),
		},
	}, nil
}
