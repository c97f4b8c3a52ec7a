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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/config"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/api/handler"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/api/router"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/policy"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/repository"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/internal/service"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/pkg/database"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/pkg/jwt"
	applogger "github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/pkg/logger"
	"github.com/rijallullabib07-design/sistem-absensi-pt-jasakulapurwaluhur/pkg/redis"
)

func main() {
	// 0. 本地开发时从 .env 注入环境变量（文件不存在则忽略）
	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("ATT_CONFIG_FILE"))
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
		zap.String("timezone", cfg.Attendance.Timezone),
	)

	// 3. 考勤策略
	pol, err := policy.FromConfig(&cfg.Attendance)
	if err != nil {
		logger.Fatal("考勤策略配置无效", zap.Error(err))
	}

	// 4. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 4.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 5. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var (
		notifier  service.Notifier
		blacklist handler.TokenBlacklist
	)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单、限流与考勤变更通知将不可用", zap.Error(err))
		rdb = nil
	} else {
		notifier = service.NewPubSubNotifier(rdb, cfg.Redis.Channel)
		blacklist = rdb
	}

	// 6. 初始化 JWT 管理器（仅校验外部签发的令牌）
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 7. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, pol, notifier, time.Now, logger)
	h := handler.NewHandler(svc, blacklist, logger)

	// 8. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, rdb, db, logger)

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	if err := sqlDB.Close(); err != nil {
		logger.Error("关闭数据库连接失败", zap.Error(err))
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
