package errs

var (
	SystemError     = ErrorCode{Code: 505001, Msg: "系统错误"}
	InvalidQuantity = ErrorCode{Code: 505002, Msg: "加购数量非法"}
	ItemNotFound    = ErrorCode{Code: 505003, Msg: "购物车条目不存在"}
)

type ErrorCode struct {
	Code int
	Msg  string
}
