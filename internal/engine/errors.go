package engine

import (
	"errors"

	"taiwan-lottery-bot/internal/game"
)

// 预测请求级错误，调用方用errors.Is判别
var (
	// ErrUnknownGame 未注册的游戏ID
	ErrUnknownGame = game.ErrUnknownGame

	// ErrInsufficientHistory 过滤后的有效历史数据低于下限
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrInvalidMethod 无法识别的预测方法
	ErrInvalidMethod = errors.New("invalid prediction method")

	// ErrModelUnavailable 模型预测器不可用，编排器会自动降级到hybrid
	ErrModelUnavailable = errors.New("model predictor unavailable")
)
