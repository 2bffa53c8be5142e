package cmd

import (
	"context"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/net/ghttp"
	"github.com/gogf/gf/v2/os/gcmd"
)

var (
	Main = gcmd.Command{
		Name:  "main",
		Usage: "main",
		Brief: "start http server",
		Func: func(ctx context.Context, parser *gcmd.Parser) (err error) {
			controller, err := bootstrap(ctx)
			if err != nil {
				g.Log().Fatalf(ctx, "bootstrap failed: %v", err)
			}

			s := g.Server()

			// 问答入口和健康检查挂在根路径且不做统一包装，
			// 管理接口（检索调试、索引、日志）在/api下走统一包装
			s.Group("/", func(group *ghttp.RouterGroup) {
				group.Middleware(MiddlewareHandlerResponse, ghttp.MiddlewareCORS)
				group.Bind(controller)
			})

			s.Run()
			return nil
		},
	}
)
