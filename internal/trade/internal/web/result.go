package web

import (
	"errors"

	"github.com/ecodeclub/ginx"
	"github.com/ecodeclub/mall/internal/trade/internal/domain"
	"github.com/ecodeclub/mall/internal/trade/internal/errs"
	"github.com/ecodeclub/mall/internal/trade/internal/repository"
	"github.com/ecodeclub/mall/internal/trade/internal/service"
)

var (
	systemErrorResult = ginx.Result{
		Code: errs.SystemError.Code,
		Msg:  errs.SystemError.Msg,
	}
	orderNotFoundResult = ginx.Result{
		Code: errs.OrderNotFound.Code,
		Msg:  errs.OrderNotFound.Msg,
	}
	permissionDeniedResult = ginx.Result{
		Code: errs.PermissionDenied.Code,
		Msg:  errs.PermissionDenied.Msg,
	}
	invalidSignatureResult = ginx.Result{
		Code: errs.InvalidSignature.Code,
		Msg:  errs.InvalidSignature.Msg,
	}
)

// errResult 把核心错误按规约映射为稳定的错误码, 冲突类错误带上具体原因
func errResult(err error) ginx.Result {
	switch {
	case errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrSubOrderNotFound),
		errors.Is(err, repository.ErrRefundNotFound):
		return orderNotFoundResult
	case errors.Is(err, service.ErrPermissionDenied):
		return permissionDeniedResult
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInactiveProduct),
		errors.Is(err, service.ErrInvalidQuantity):
		return ginx.Result{Code: errs.CheckoutConflict.Code, Msg: err.Error()}
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, repository.ErrInsufficientStock):
		return ginx.Result{Code: errs.InsufficientStock.Code, Msg: err.Error()}
	case errors.Is(err, domain.ErrInvalidStatusTransition),
		errors.Is(err, repository.ErrRecordChangedConcurrently):
		return ginx.Result{Code: errs.TransitionConflict.Code, Msg: err.Error()}
	case errors.Is(err, repository.ErrDuplicateRefund),
		errors.Is(err, repository.ErrRefundNotPending),
		errors.Is(err, service.ErrInvalidRefundAmount):
		return ginx.Result{Code: errs.RefundConflict.Code, Msg: err.Error()}
	case errors.Is(err, service.ErrRefundWindowExpired):
		return ginx.Result{Code: errs.RefundWindowExpired.Code, Msg: errs.RefundWindowExpired.Msg}
	case errors.Is(err, service.ErrInvalidTransactionID),
		errors.Is(err, service.ErrInvalidNotification),
		errors.Is(err, service.ErrUnknownPaymentStatus):
		return ginx.Result{Code: errs.InvalidInput.Code, Msg: err.Error()}
	default:
		return systemErrorResult
	}
}
