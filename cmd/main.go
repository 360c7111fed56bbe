package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"taiwan-lottery-bot/internal/cache"
	"taiwan-lottery-bot/internal/config"
	"taiwan-lottery-bot/internal/crawler"
	"taiwan-lottery-bot/internal/engine"
	"taiwan-lottery-bot/internal/game"
	"taiwan-lottery-bot/internal/logger"
	"taiwan-lottery-bot/internal/store"
	"taiwan-lottery-bot/internal/telegram"

	"github.com/robfig/cron/v3"
)

// App 应用程序主结构
type App struct {
	config      *config.Config
	registry    *game.Registry
	store       *store.MySQLStore
	cache       *cache.Cache
	crawler     *crawler.Client
	engine      *engine.Engine
	telegramBot *telegram.Bot
	scheduler   *cron.Cron
}

// NewApp 创建应用程序实例
func NewApp(configPath string) (*App, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %v", err)
	}

	logger.InitLogger(cfg.App.LogLevel)
	fmt.Println("🚀 启动台彩多游戏预测机器人...")

	mysqlStore, err := store.NewMySQLStore(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %v", err)
	}
	fmt.Println("✅ 数据库连接成功，表结构初始化完成")

	registry := game.DefaultRegistry()
	fmt.Printf("✅ 游戏目录加载完成，共 %d 个游戏\n", len(registry.List()))

	eng, err := engine.NewEngine(registry, mysqlStore, mysqlStore,
		cfg.App.FrequencyWeight, cfg.App.PatternWeight)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize engine: %v", err)
	}

	crawlerClient := crawler.NewClient(&cfg.Crawler)
	dataCache := cache.New(mysqlStore, cfg.App.CacheTTL)

	telegramBot, err := telegram.NewBot(&cfg.Telegram, &cfg.App, eng, dataCache)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telegram bot: %v", err)
	}
	fmt.Println("✅ Telegram机器人连接成功")

	app := &App{
		config:      cfg,
		registry:    registry,
		store:       mysqlStore,
		cache:       dataCache,
		crawler:     crawlerClient,
		engine:      eng,
		telegramBot: telegramBot,
		scheduler:   cron.New(),
	}

	fmt.Println("🎯 应用程序初始化完成")
	return app, nil
}

// Start 启动应用程序
func (a *App) Start() error {
	fmt.Println("🔄 启动所有服务...")

	// 启动时先同步一轮历史数据
	if err := a.syncAllGames(); err != nil {
		logger.Warnf("Initial draw sync failed: %v", err)
	}

	a.telegramBot.Start()

	// 开奖后定时抓取
	if _, err := a.scheduler.AddFunc(a.config.Crawler.Schedule, func() {
		if err := a.syncAllGames(); err != nil {
			logger.Errorf("Scheduled draw sync failed: %v", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule crawler: %v", err)
	}
	a.scheduler.Start()

	fmt.Println("✅ 所有服务启动完成")
	fmt.Printf("⏰ 抓取排程: %s\n", a.config.Crawler.Schedule)
	fmt.Println("🔔 机器人仅在私聊中提供服务")
	fmt.Println("💡 按 Ctrl+C 停止程序")
	return nil
}

// Stop 停止应用程序
func (a *App) Stop() error {
	fmt.Println("🛑 正在停止应用程序...")

	ctx := a.scheduler.Stop()
	<-ctx.Done()

	a.telegramBot.Stop()

	if err := a.store.Close(); err != nil {
		logger.Errorf("Failed to close store: %v", err)
	}

	fmt.Println("✅ 应用程序已安全停止")
	return nil
}

// syncAllGames 抓取所有基础游戏的最新开奖并验证历史预测
// 衍生游戏不抓取，预测时由引擎基于基础游戏数据换算
func (a *App) syncAllGames() error {
	var lastErr error
	for _, summary := range a.registry.List() {
		if summary.DerivedFrom != "" {
			continue
		}
		if err := a.syncGame(summary.ID); err != nil {
			logger.Errorf("Failed to sync game %s: %v", summary.ID, err)
			lastErr = err
		}
	}
	return lastErr
}

// syncGame 抓取单个游戏的开奖数据入库
func (a *App) syncGame(gameID string) error {
	rows, err := a.crawler.FetchDraws(gameID, engine.MaxWindowSize)
	if err != nil {
		return err
	}

	saved := 0
	for _, raw := range rows {
		row := &store.DrawRow{
			GameID:   gameID,
			Period:   raw.Period,
			DrawDate: raw.Date,
			Numbers:  store.FormatNumbers(raw.Numbers),
			Special:  raw.Special,
		}
		if err := a.store.SaveDraw(row); err != nil {
			logger.Warnf("Failed to save draw %s/%s: %v", gameID, raw.Period, err)
			continue
		}
		saved++
	}

	// 用最新一期对照未验证的预测
	if latest, err := a.store.GetLatestDraw(gameID); err == nil && latest != nil {
		if verified, err := a.store.VerifyPredictions(gameID, latest); err != nil {
			logger.Warnf("Failed to verify predictions for %s: %v", gameID, err)
		} else if verified > 0 {
			logger.Infof("Verified %d predictions for %s", verified, gameID)
		}
	}

	a.cache.InvalidateGame(gameID)
	logger.Infof("Synced %d draws for %s", saved, gameID)
	return nil
}

func main() {
	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	app, err := NewApp(configPath)
	if err != nil {
		fmt.Printf("❌ 初始化失败: %v\n", err)
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		fmt.Printf("❌ 启动失败: %v\n", err)
		os.Exit(1)
	}

	// 等待退出信号
	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, syscall.SIGINT, syscall.SIGTERM)
	<-sigChannel

	if err := app.Stop(); err != nil {
		fmt.Printf("❌ 停止失败: %v\n", err)
		os.Exit(1)
	}
}
