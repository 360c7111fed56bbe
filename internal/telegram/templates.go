package telegram

import (
	"errors"
	"fmt"
	"strings"

	"taiwan-lottery-bot/internal/engine"
	"taiwan-lottery-bot/internal/game"
	"taiwan-lottery-bot/internal/store"
)

const welcomeText = `🎮 Welcome to Taiwan Lottery Prediction Bot!

🤖 I analyze historical draw data across all Taiwan lottery games:
• 📊 Latest draw results
• 🔮 Number predictions (frequency / pattern / hybrid / ml)
• 📈 Prediction history and hit statistics

📝 Available commands:
/games - List supported games
/predict <game> [method] - Generate a prediction
/latest <game> - Latest draw result
/stats <game> - Prediction statistics
/help - Help information

⚠️ Predictions are statistical summaries, not guarantees
🔔 This bot only provides services in private chats`

const helpText = `📖 Command Help:

/games - List all supported games with their rules
/predict <game> [method] [periods]
    method: frequency, pattern, hybrid (default), ml
    periods: history window size, 5-100
/latest <game> - Show the most recent draw
/stats <game> - Show prediction accuracy statistics
/help - Show this help information

💡 Example: /predict lotto649 hybrid 30`

// predictionErrorText 把引擎错误转成用户可读的提示
func predictionErrorText(err error) string {
	switch {
	case errors.Is(err, engine.ErrUnknownGame):
		return "Unknown game. Use /games to list supported games."
	case errors.Is(err, engine.ErrInvalidMethod):
		return "Unknown method. Choose one of: frequency, pattern, hybrid, ml."
	case errors.Is(err, engine.ErrInsufficientHistory):
		return "Not enough valid draw history for this game. Try again after more draws are collected."
	default:
		return fmt.Sprintf("Prediction failed: %v", err)
	}
}

// formatGamesMessage 格式化游戏列表
func formatGamesMessage(games []game.Summary) string {
	var builder strings.Builder
	builder.WriteString("🎲 *Supported Games*\n\n")

	for _, g := range games {
		builder.WriteString(fmt.Sprintf("*%s* (%s)\n", g.ID, g.Name))
		switch {
		case g.IsDigitGame:
			builder.WriteString(fmt.Sprintf("   %d digit slots, 0-9 each\n", g.PickCount))
		case g.DerivedFrom != "":
			builder.WriteString(fmt.Sprintf("   pick %d of %d, derived from %s\n",
				g.PickCount, g.PoolSize, g.DerivedFrom))
		default:
			builder.WriteString(fmt.Sprintf("   pick %d of %d", g.PickCount, g.PoolSize))
			if g.HasSpecial {
				builder.WriteString(" + special")
			}
			builder.WriteString("\n")
		}
	}

	builder.WriteString("\n💡 Use /predict <game> to generate a prediction")
	return builder.String()
}

// formatPredictionMessage 格式化预测结果
func formatPredictionMessage(gameID string, result *engine.Result) string {
	var builder strings.Builder

	if result.BelowThreshold {
		builder.WriteString("🔕 *Prediction Suppressed*\n\n")
		builder.WriteString(fmt.Sprintf("Game: `%s`\n", gameID))
		builder.WriteString(fmt.Sprintf("Confidence `%.1f%%` is below the configured threshold.\n",
			result.Confidence*100))
		builder.WriteString("No numbers are reported for low-confidence predictions.")
		return builder.String()
	}

	record := result.Record
	builder.WriteString("🔮 *Prediction Result*\n\n")
	builder.WriteString(fmt.Sprintf("Game: `%s`\n", record.GameID))
	builder.WriteString(fmt.Sprintf("Numbers: `%s`\n", store.FormatNumbers(record.PredictedNumbers)))
	if record.PredictedSpecial != nil {
		builder.WriteString(fmt.Sprintf("Special: `%d`\n", *record.PredictedSpecial))
	}
	builder.WriteString(fmt.Sprintf("Method: `%s`\n", record.Method))
	builder.WriteString(fmt.Sprintf("Confidence: `%.1f%%`\n", record.Confidence*100))
	builder.WriteString(fmt.Sprintf("Window: `%d` draws", record.WindowSize))
	if result.Warnings > 0 {
		builder.WriteString(fmt.Sprintf(" (`%d` malformed rows dropped)", result.Warnings))
	}
	builder.WriteString("\n\n💡 *Tips*: Predictions are for reference only, please be rational")
	return builder.String()
}

// formatLatestMessage 格式化最新开奖与预测对照
func formatLatestMessage(draw *store.DrawRow, predictions []store.PredictionRow) string {
	var builder strings.Builder

	builder.WriteString("📊 *Latest Draw Information*\n\n")
	builder.WriteString(fmt.Sprintf("Game: `%s`\n", draw.GameID))
	builder.WriteString(fmt.Sprintf("Period: `%s`\n", draw.Period))
	builder.WriteString(fmt.Sprintf("Numbers: `%s`\n", draw.Numbers))
	if draw.Special != nil {
		builder.WriteString(fmt.Sprintf("Special: `%d`\n", *draw.Special))
	}
	builder.WriteString(fmt.Sprintf("Date: `%s`\n", draw.DrawDate))

	if len(predictions) > 0 {
		p := predictions[0]
		builder.WriteString("\n🔮 *Latest Prediction*\n")
		builder.WriteString(fmt.Sprintf("Numbers: `%s`\n", p.PredictedNumbers))
		builder.WriteString(fmt.Sprintf("Method: `%s`\n", p.Method))
		if p.HitCount != nil {
			builder.WriteString(fmt.Sprintf("Hits: `%d`\n", *p.HitCount))
		}
	}
	return builder.String()
}

// formatStatsMessage 格式化预测统计
func formatStatsMessage(stats *store.PredictionStats) string {
	var builder strings.Builder

	builder.WriteString("📈 *Prediction Statistics*\n\n")
	builder.WriteString(fmt.Sprintf("Game: `%s`\n", stats.GameID))
	builder.WriteString(fmt.Sprintf("Total Predictions: `%d`\n", stats.TotalPredictions))
	builder.WriteString(fmt.Sprintf("Verified: `%d`\n", stats.Verified))
	builder.WriteString(fmt.Sprintf("Average Hits: `%.2f`\n", stats.AverageHits))
	builder.WriteString(fmt.Sprintf("Average Confidence: `%.1f%%`", stats.AverageConfidence*100))
	return builder.String()
}
