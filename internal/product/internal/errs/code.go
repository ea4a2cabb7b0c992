package errs

var (
	SystemError     = ErrorCode{Code: 504001, Msg: "系统错误"}
	ProductNotFound = ErrorCode{Code: 504002, Msg: "商品不存在"}
)

type ErrorCode struct {
	Code int
	Msg  string
}
