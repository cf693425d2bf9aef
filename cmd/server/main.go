package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/user/dramahub/internal/config"
	"github.com/user/dramahub/internal/handler"
	"github.com/user/dramahub/internal/logger"
	"github.com/user/dramahub/internal/router"
	"github.com/user/dramahub/internal/service"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// app 各子命令共用的启动结果
type app struct {
	cfg  *config.Config
	log  *zap.Logger
	svcs *service.Services
}

// bootstrap 加载 .env 与配置，初始化日志和服务
func bootstrap() (*app, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}

	log := logger.New(cfg.LogLevel, !cfg.IsProduction())
	if envErr != nil {
		log.Debug("未找到 .env 文件，使用系统环境变量")
	}

	svcs, err := service.NewServices(cfg, log)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, svcs: svcs}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "dramahub",
		Short:        "短剧聚合服务",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "启动 HTTP 服务",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe()
			},
		},
		newEpisodeCmd(),
		newSearchCmd(),
		newHomeCmd(),
	)
	return root
}

func runServe() error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = a.log.Sync() }()

	h := handler.NewHandler(a.svcs, a.log.Named("handler"))
	r := router.New(h, a.log.Named("http"), a.cfg.IsProduction())

	// 配置 HTTP 服务器
	// 首页要等所有上游返回，写超时放宽
	srv := &http.Server{
		Addr:           ":" + a.cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("服务器启动", zap.String("addr", "http://localhost:"+a.cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		a.log.Error("服务器启动失败", zap.Error(err))
		return err
	case <-quit:
	}
	a.log.Info("正在关闭服务器...")

	// 5 秒超时上下文用于关闭过程
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		a.log.Error("服务器强制关闭", zap.Error(err))
		return err
	}

	a.log.Info("服务器已退出")
	return nil
}
