package errs

var (
	SystemError         = ErrorCode{Code: 502001, Msg: "系统错误"}
	OrderNotFound       = ErrorCode{Code: 502002, Msg: "订单不存在"}
	PermissionDenied    = ErrorCode{Code: 502003, Msg: "无权操作该资源"}
	CheckoutConflict    = ErrorCode{Code: 502004, Msg: "结算校验失败"}
	TransitionConflict  = ErrorCode{Code: 502005, Msg: "状态流转冲突"}
	RefundConflict      = ErrorCode{Code: 502006, Msg: "退款申请冲突"}
	InvalidInput        = ErrorCode{Code: 502007, Msg: "输入非法"}
	InvalidSignature    = ErrorCode{Code: 502008, Msg: "签名校验失败"}
	InsufficientStock   = ErrorCode{Code: 502009, Msg: "库存不足"}
	RefundWindowExpired = ErrorCode{Code: 502010, Msg: "已过退款窗口期"}
)

type ErrorCode struct {
	Code int
	Msg  string
}
