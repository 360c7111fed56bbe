package telegram

import (
	"fmt"
	"strings"

	"taiwan-lottery-bot/internal/cache"
	"taiwan-lottery-bot/internal/config"
	"taiwan-lottery-bot/internal/engine"
	"taiwan-lottery-bot/internal/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot Telegram机器人，多游戏预测的查询入口
type Bot struct {
	api            *tgbotapi.BotAPI
	engine         *engine.Engine
	cache          *cache.Cache
	defaultPeriods int
	minConfidence  float64
	updateChannel  tgbotapi.UpdatesChannel
	stopChannel    chan bool
}

// NewBot 创建新的Telegram机器人
func NewBot(cfg *config.Telegram, appCfg *config.App, eng *engine.Engine, c *cache.Cache) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %v", err)
	}

	bot.Debug = false
	logger.Infof("Telegram bot authorized on account: %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(cfg.Timeout.Seconds())
	updates := bot.GetUpdatesChan(u)

	return &Bot{
		api:            bot,
		engine:         eng,
		cache:          c,
		defaultPeriods: appCfg.DefaultPeriods,
		minConfidence:  appCfg.MinConfidence,
		updateChannel:  updates,
		stopChannel:    make(chan bool),
	}, nil
}

// Start 启动机器人
func (b *Bot) Start() {
	logger.Info("Starting Telegram bot...")
	go b.handleUpdates()
	logger.Info("Telegram bot started successfully")
}

// Stop 停止机器人
func (b *Bot) Stop() {
	logger.Info("Stopping Telegram bot...")
	b.stopChannel <- true
	b.api.StopReceivingUpdates()
	logger.Info("Telegram bot stopped")
}

// handleUpdates 处理更新
func (b *Bot) handleUpdates() {
	for {
		select {
		case update := <-b.updateChannel:
			if update.Message != nil {
				// 只处理私聊消息，忽略群组消息
				if update.Message.Chat.IsPrivate() {
					go b.handleMessage(update.Message)
				}
			}
		case <-b.stopChannel:
			return
		}
	}
}

// handleMessage 处理消息
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	if !message.Chat.IsPrivate() {
		return
	}
	if !message.IsCommand() {
		b.sendMessage(message.Chat.ID, "Type /help to view available commands.")
		return
	}

	command := message.Command()
	args := strings.Fields(message.CommandArguments())
	chatID := message.Chat.ID

	logger.Debugf("Received private command: %s %v from user: %d", command, args, chatID)

	switch command {
	case "start":
		b.handleStartCommand(chatID)
	case "help":
		b.handleHelpCommand(chatID)
	case "games":
		b.handleGamesCommand(chatID)
	case "predict":
		b.handlePredictCommand(chatID, args)
	case "latest":
		b.handleLatestCommand(chatID, args)
	case "stats":
		b.handleStatsCommand(chatID, args)
	default:
		b.sendMessage(chatID, "Unknown command. Type /help to view available commands.")
	}
}

// handleStartCommand 处理开始命令
func (b *Bot) handleStartCommand(chatID int64) {
	b.sendMessage(chatID, welcomeText)
}

// handleHelpCommand 处理帮助命令
func (b *Bot) handleHelpCommand(chatID int64) {
	b.sendMessage(chatID, helpText)
}

// handleGamesCommand 列出支持的游戏
func (b *Bot) handleGamesCommand(chatID int64) {
	b.sendMarkdown(chatID, formatGamesMessage(b.engine.ListGames()))
}

// handlePredictCommand 执行预测：/predict <game> [method] [periods]
func (b *Bot) handlePredictCommand(chatID int64, args []string) {
	if len(args) == 0 {
		b.sendMessage(chatID, "Usage: /predict <game> [frequency|pattern|hybrid|ml] [periods]")
		return
	}

	req := engine.Request{
		GameID:        args[0],
		Periods:       b.defaultPeriods,
		MinConfidence: b.minConfidence,
	}
	if len(args) > 1 {
		req.Method = args[1]
	}
	if len(args) > 2 {
		if _, err := fmt.Sscanf(args[2], "%d", &req.Periods); err != nil {
			b.sendMessage(chatID, fmt.Sprintf("Invalid periods: %s", args[2]))
			return
		}
	}

	result, err := b.engine.Predict(req)
	if err != nil {
		b.sendMessage(chatID, predictionErrorText(err))
		return
	}

	b.sendMarkdown(chatID, formatPredictionMessage(req.GameID, result))

	if result.Record != nil && b.cache != nil {
		b.cache.InvalidateGame(req.GameID)
	}
}

// handleLatestCommand 查询最新开奖：/latest <game>
func (b *Bot) handleLatestCommand(chatID int64, args []string) {
	if len(args) == 0 {
		b.sendMessage(chatID, "Usage: /latest <game>")
		return
	}
	gameID := args[0]

	draw, err := b.cache.LatestDraw(gameID)
	if err != nil {
		b.sendMessage(chatID, fmt.Sprintf("No draw data available for %s", gameID))
		return
	}

	predictions, err := b.cache.LatestPredictions(gameID, 1)
	if err != nil {
		logger.Warnf("Failed to load latest prediction for %s: %v", gameID, err)
	}
	b.sendMarkdown(chatID, formatLatestMessage(draw, predictions))
}

// handleStatsCommand 查询预测统计：/stats <game>
func (b *Bot) handleStatsCommand(chatID int64, args []string) {
	if len(args) == 0 {
		b.sendMessage(chatID, "Usage: /stats <game>")
		return
	}
	gameID := args[0]

	stats, err := b.cache.Stats(gameID)
	if err != nil {
		b.sendMessage(chatID, fmt.Sprintf("No statistics available for %s", gameID))
		return
	}
	b.sendMarkdown(chatID, formatStatsMessage(stats))
}

// sendMessage 发送纯文本消息
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		logger.Errorf("Failed to send message to %d: %v", chatID, err)
	}
}

// sendMarkdown 发送Markdown格式消息
func (b *Bot) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		logger.Errorf("Failed to send message to %d: %v", chatID, err)
	}
}
