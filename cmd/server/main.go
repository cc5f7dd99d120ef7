package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/magnusgiverin/timeplaner/config"
	"github.com/magnusgiverin/timeplaner/internal/api/handler"
	"github.com/magnusgiverin/timeplaner/internal/api/router"
	"github.com/magnusgiverin/timeplaner/internal/repository"
	"github.com/magnusgiverin/timeplaner/internal/service"
	"github.com/magnusgiverin/timeplaner/internal/upstream"
	"github.com/magnusgiverin/timeplaner/pkg/database"
	applogger "github.com/magnusgiverin/timeplaner/pkg/logger"
	"github.com/magnusgiverin/timeplaner/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，课表缓存与选课会话不可用）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，课表缓存与选课会话功能将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 依赖注入: Repository → Upstream → Service → Handler
	repo := repository.NewRepository(db)
	client := upstream.NewClient(&cfg.Upstream, logger)
	svc := service.NewService(cfg, repo, client, rdb, logger)
	h := handler.NewHandler(svc)

	// 6. 目录种子数据（CSV 缺失时静默跳过）
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := svc.Catalog.SeedFromCSV(seedCtx); err != nil {
		logger.Warn("目录种子数据加载失败", zap.Error(err))
	}
	seedCancel()

	// 7. 定时同步课程目录
	var scheduler *cron.Cron
	if cfg.Catalog.SyncCron != "" && cfg.Upstream.CourseListURL != "" {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(cfg.Catalog.SyncCron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := svc.Catalog.SyncFromUpstream(ctx); err != nil {
				logger.Error("定时目录同步失败", zap.Error(err))
			}
		})
		if err != nil {
			logger.Fatal("注册目录同步任务失败", zap.String("cron", cfg.Catalog.SyncCron), zap.Error(err))
		}
		scheduler.Start()
		logger.Info("目录同步任务已注册", zap.String("cron", cfg.Catalog.SyncCron))
	}

	// 8. 初始化路由
	engine := router.Setup(cfg, h, rdb, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	if scheduler != nil {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
