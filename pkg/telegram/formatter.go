package telegram

import (
	"fmt"
	"strings"
	"time"

	"golang-chart-predictor/internal/entity"
	"golang-chart-predictor/internal/predictor/dto"
)

// FormatPredictionMessage formats an actionable prediction as a Markdown
// Telegram message.
func FormatPredictionMessage(result *dto.PredictionResult) string {
	var sb strings.Builder

	var actionIcon string
	switch strings.ToLower(result.Recommendation.Action) {
	case "buy":
		actionIcon = "🟢"
	case "sell":
		actionIcon = "🔴"
	default:
		actionIcon = "🟡"
	}

	sb.WriteString(fmt.Sprintf("📊 **Chart Prediction: %s**\n", result.Observation.Filename))
	sb.WriteString(fmt.Sprintf("%s Action: **%s** (%s)\n\n", actionIcon, strings.ToUpper(result.Recommendation.Action), result.Direction))

	sb.WriteString("💡 **Recommendation:**\n")
	sb.WriteString(fmt.Sprintf("• 💵 Entry: $%.2f\n", result.Recommendation.EntryPrice))
	if result.Recommendation.TakeProfit > 0 {
		sb.WriteString(fmt.Sprintf("• 🎯 Take Profit: $%.2f\n", result.Recommendation.TakeProfit))
	} else {
		sb.WriteString("• 🎯 Take Profit: no opposing level\n")
	}
	sb.WriteString(fmt.Sprintf("• 🛡 Stop Loss: $%.2f\n", result.Recommendation.StopLoss))
	sb.WriteString(fmt.Sprintf("• 📏 Position Size: %s\n", result.Recommendation.PositionSize))
	sb.WriteString(fmt.Sprintf("• 📊 Confidence: %.0f%%\n\n", result.Confidence*100))

	sb.WriteString("🗳 **Votes:**\n")
	for _, v := range result.Votes {
		sb.WriteString(fmt.Sprintf("• %s: %s (%.0f%%)\n", v.Method, v.Direction, v.Confidence*100))
	}
	sb.WriteString(fmt.Sprintf("• Consensus: %s over %d similar setups\n\n", result.Quality.ConsensusRatio, result.SimilarCount))

	if len(result.RiskFactors) > 0 {
		sb.WriteString("⚠️ **Risk Factors:**\n")
		for _, factor := range result.RiskFactors {
			sb.WriteString(fmt.Sprintf("• %s\n", factor))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("📅 _Analyzed: %s_\n", result.AnalysisDate.Format("2006-01-02 15:04:05")))

	return sb.String()
}

// FormatErrorAlertMessage formats an operational error alert.
func FormatErrorAlertMessage(t time.Time, errType string, errMsg string, data string) string {
	return fmt.Sprintf(`📛 [ERROR ALERT]
%s
🔧 %s
⚠️ %s

📄 Data: %s
`, t.Format("2006-01-02 15:04:05"), errType, errMsg, data)
}

// FormatPendingValidationMessage formats the daily digest of predictions
// waiting for an outcome.
func FormatPendingValidationMessage(feedbacks []entity.PredictionFeedback) string {
	if len(feedbacks) == 0 {
		return "✅ No predictions are waiting for outcome validation."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⏳ **%d predictions awaiting outcome validation:**\n\n", len(feedbacks)))
	for _, f := range feedbacks {
		sb.WriteString(fmt.Sprintf("• #%d %s %s @ $%.2f (%.0f%%), validate after %s\n",
			f.ObservationID, strings.ToUpper(f.Action), f.Direction, f.EntryPrice,
			f.Confidence*100, f.ValidateAfter.Format("2006-01-02 15:04")))
	}
	sb.WriteString("\nAttach outcomes via POST /api/v1/observations/{id}/outcome.")
	return sb.String()
}
