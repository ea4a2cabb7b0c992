package ioc

import (
	"net/http"
	"strings"

	"github.com/ecodeclub/mall/internal/cart"

	"github.com/ecodeclub/mall/internal/pkg/middleware"
	"github.com/ecodeclub/mall/internal/product"

	"github.com/ecodeclub/mall/internal/trade"

	"github.com/gin-gonic/gin"

	"github.com/ecodeclub/ginx/session"
	"github.com/gin-contrib/cors"
	"github.com/gotomicro/ego/server/egin"
)

func initGinxServer(sp session.Provider,
	webhookHdl *trade.WebhookHandler,
	tradeHdl *trade.Handler,
	sellerHdl *trade.SellerHandler,
	cartHdl *cart.Handler,
	productHdl *product.Handler,
) *egin.Component {
	session.SetDefaultProvider(sp)
	res := egin.Load("web").Build()
	res.Use(cors.New(cors.Config{
		ExposeHeaders:    []string{"X-Refresh-Token", "X-Access-Token"},
		AllowCredentials: true,
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowOriginFunc: func(origin string) bool {
			if strings.HasPrefix(origin, "http://localhost") {
				return true
			}
			// 只允许我的域名过来的
			return strings.Contains(origin, "meoying.com")
		},
	}))
	res.Use(middleware.NewMetricsBuilder().Build())
	res.GET("/hello", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "hello, world!")
	})
	// 支付网关回调不走登录态，靠签名校验
	webhookHdl.PublicRoutes(res.Engine)
	// 登录校验
	res.Use(session.CheckLoginMiddleware())
	tradeHdl.PrivateRoutes(res.Engine)
	sellerHdl.PrivateRoutes(res.Engine)
	cartHdl.PrivateRoutes(res.Engine)
	productHdl.PrivateRoutes(res.Engine)
	return res
}
