package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"placement-portal/backend/config"
	"placement-portal/backend/internal/api/handler"
	"placement-portal/backend/internal/api/router"
	"placement-portal/backend/internal/repository"
	"placement-portal/backend/internal/repository/memory"
	"placement-portal/backend/internal/service"
	"placement-portal/backend/pkg/database"
	"placement-portal/backend/pkg/jwt"
	applogger "placement-portal/backend/pkg/logger"
	"placement-portal/backend/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("PLACEMENT_CONFIG"))
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

	loc, err := cfg.Placement.Location()
	if err != nil {
		logger.Fatal("无效的时区配置", zap.String("timezone", cfg.Placement.Timezone), zap.Error(err))
	}

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("timezone", loc.String()),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 存储层
	var (
		repo  *repository.Repository
		store *memory.Store
		db    *gorm.DB
	)
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err = database.NewDB(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			logger.Fatal("数据库连接失败", zap.Error(err))
		}
		logger.Info("数据库连接成功")

		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("数据库迁移失败", zap.Error(err))
		}
		repo = repository.NewRepository(db)

	default:
		store = memory.NewStore()
		loaded, err := store.Load(cfg.Storage.SnapshotPath)
		if err != nil {
			logger.Fatal("加载快照失败", zap.String("path", cfg.Storage.SnapshotPath), zap.Error(err))
		}
		if loaded {
			logger.Info("已从快照恢复数据", zap.String("path", cfg.Storage.SnapshotPath))
		}
		if cfg.Storage.SeedDemoData {
			seeded, err := store.SeedDemo(loc)
			if err != nil {
				logger.Fatal("写入演示数据失败", zap.Error(err))
			}
			if seeded {
				logger.Info("已写入演示数据")
			}
		}
		repo = memory.NewRepository(store)
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 不可用，Token 黑名单、限流与通知推送将降级", zap.Error(err))
		rdb = nil
	}

	// 5. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. 依赖注入: Repository → Service → Handler
	svc := service.NewService(cfg, repo, jwtMgr, rdb, service.SystemClock(loc), logger)
	h := handler.NewHandler(svc)

	// 7. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
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

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 请求已全部结束，落盘内存数据
	if store != nil {
		if err := store.Save(cfg.Storage.SnapshotPath); err != nil {
			logger.Error("保存快照失败", zap.String("path", cfg.Storage.SnapshotPath), zap.Error(err))
		} else {
			logger.Info("快照已保存", zap.String("path", cfg.Storage.SnapshotPath))
		}
	}

	if db != nil {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			sqlDB.Close()
		}
	}

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
