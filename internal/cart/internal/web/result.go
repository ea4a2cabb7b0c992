package web

import (
	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/mall/internal/cart/internal/errs"
)

var (
	systemErrorResult = ginx.Result{
		Code: errs.SystemError.Code,
		Msg:  errs.SystemError.Msg,
	}
	invalidQuantityResult = ginx.Result{
		Code: errs.InvalidQuantity.Code,
		Msg:  errs.InvalidQuantity.Msg,
	}
	itemNotFoundResult = ginx.Result{
		Code: errs.ItemNotFound.Code,
		Msg:  errs.ItemNotFound.Msg,
	}
)
