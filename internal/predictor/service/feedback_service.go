package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang-chart-predictor/internal/entity"
	"golang-chart-predictor/internal/predictor/config"
	"golang-chart-predictor/internal/predictor/dto"
	"golang-chart-predictor/internal/predictor/repository"
	"golang-chart-predictor/pkg/common"
	"golang-chart-predictor/pkg/logger"
	"golang-chart-predictor/pkg/telegram"
	"golang-chart-predictor/pkg/utils"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
)

// FeedbackService consumes the prediction feedback stream and persists each
// prediction so it can be validated against the realized outcome later.
type FeedbackService interface {
	ProcessTask(ctx context.Context)
	ProcessRetries(ctx context.Context)
}

type feedbackService struct {
	cfg          *config.Config
	log          *logger.Logger
	redisClient  *redis.Client
	feedbackRepo repository.PredictionFeedbackRepository
	telegramBot  telegram.Notifier
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(cfg *config.Config, log *logger.Logger,
	redisClient *redis.Client,
	feedbackRepo repository.PredictionFeedbackRepository,
	telegramBot telegram.Notifier) FeedbackService {
	return &feedbackService{
		cfg:          cfg,
		log:          log,
		redisClient:  redisClient,
		feedbackRepo: feedbackRepo,
		telegramBot:  telegramBot,
	}
}

func (s *feedbackService) ProcessTask(ctx context.Context) {
	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamPredictionFeedback, ">"}, // ">" means only new messages
		Count:    1,
		Block:    2 * time.Second, // Block for 2 seconds to allow graceful shutdown
	}).Result()
	if err != nil {
		// Ignore context cancellation and timeout errors, as they are expected during shutdown or idle periods.
		if err == context.Canceled || err == redis.Nil {
			return
		}
		s.log.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}

	message := streams[0].Messages[0]

	// The feedback data is expected to be a JSON string in the 'payload' field.
	taskData, ok := message.Values["payload"].(string)
	if !ok {
		s.log.Error("field 'payload' not found or not a string in stream message", logger.Field("message_id", message.ID))
		return
	}

	var streamData dto.StreamDataPredictionFeedback
	if err := json.Unmarshal([]byte(taskData), &streamData); err != nil {
		s.log.Error("Failed to unmarshal feedback data", logger.ErrorField(err), logger.Field("message_id", message.ID))
		return
	}

	s.log.Debug("Processing prediction feedback", logger.Field("observation_id", streamData.ObservationID), logger.StringField("action", streamData.Action))

	if err := s.persist(ctx, streamData); err != nil {
		s.log.Error("Failed to persist prediction feedback", logger.ErrorField(err), logger.Field("message_id", message.ID), logger.Field("observation_id", streamData.ObservationID))
		return
	}

	if err := s.AckNDel(ctx, common.RedisStreamPredictionFeedback, message.ID); err != nil {
		s.log.Error("Failed to acknowledge and delete prediction feedback", logger.ErrorField(err), logger.Field("message_id", message.ID))
		return
	}

	s.log.Debug("Prediction feedback processed successfully", logger.Field("observation_id", streamData.ObservationID))
}

func (s *feedbackService) persist(ctx context.Context, streamData dto.StreamDataPredictionFeedback) error {
	conditionsJSON, err := json.Marshal(streamData.Conditions)
	if err != nil {
		return fmt.Errorf("failed to marshal prediction conditions: %w", err)
	}

	return s.feedbackRepo.Create(ctx, &entity.PredictionFeedback{
		ObservationID:  streamData.ObservationID,
		Direction:      streamData.Direction,
		Confidence:     streamData.Confidence,
		Action:         streamData.Action,
		EntryPrice:     streamData.EntryPrice,
		TargetPrice:    streamData.TargetPrice,
		StopLoss:       streamData.StopLoss,
		Timeframe:      streamData.Timeframe,
		PatternCount:   streamData.PatternCount,
		SimilarCount:   streamData.SimilarCount,
		ConsensusRatio: streamData.ConsensusRatio,
		Conditions:     datatypes.JSON(conditionsJSON),
		ValidateAfter:  streamData.ValidateAfter,
	})
}

func (s *feedbackService) AckNDel(ctx context.Context, streamName string, messageID string) error {
	if err := s.redisClient.XAck(ctx, streamName, common.RedisStreamGroup, messageID).Err(); err != nil {
		s.log.Error("Failed to acknowledge prediction feedback", logger.ErrorField(err), logger.Field("message_id", messageID))
		return err
	}
	if err := s.redisClient.XDel(ctx, streamName, messageID).Err(); err != nil {
		s.log.Error("Failed to delete prediction feedback", logger.ErrorField(err), logger.Field("message_id", messageID))
		return err
	}
	return nil
}

func (s *feedbackService) ProcessRetries(ctx context.Context) {
	msgs, _, err := s.redisClient.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   common.RedisStreamPredictionFeedback,
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer + "-retry",
		MinIdle:  s.cfg.Predictor.RedisStreamFeedbackMaxIdleDuration,
		Start:    "0",
		Count:    1,
	}).Result()

	if err != nil {
		s.log.Error("Failed to claim prediction feedback on retry", logger.ErrorField(err))
		return
	}

	if len(msgs) == 0 {
		s.log.Debug("Retry No pending messages found", logger.StringField("stream", common.RedisStreamPredictionFeedback))
		return
	}

	pendingInfo, err := s.redisClient.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: common.RedisStreamPredictionFeedback,
		Group:  common.RedisStreamGroup,
		Start:  msgs[0].ID,
		End:    msgs[0].ID,
		Count:  1,
	}).Result()

	if err != nil {
		s.log.Error("Failed to get pending info", logger.ErrorField(err))
		return
	}

	if len(pendingInfo) == 0 {
		s.log.Warn("pending msg not found, but exist on xautoclaim",
			logger.StringField("stream", common.RedisStreamPredictionFeedback),
			logger.StringField("message_id", msgs[0].ID))
		return
	}

	msg := msgs[0]
	taskData, ok := msg.Values["payload"].(string)
	if !ok {
		s.log.Error("field 'payload' not found or not a string in stream message", logger.Field("message_id", msg.ID))
		return
	}

	var streamData dto.StreamDataPredictionFeedback
	if err := json.Unmarshal([]byte(taskData), &streamData); err != nil {
		s.log.Error("Failed to unmarshal feedback data", logger.ErrorField(err), logger.Field("message_id", msg.ID))
		return
	}

	if pendingInfo[0].RetryCount >= int64(s.cfg.Predictor.RedisStreamFeedbackMaxRetry) {
		s.log.Error("pending msg retry count exceeded",
			logger.StringField("stream", common.RedisStreamPredictionFeedback),
			logger.StringField("message_id", msg.ID),
			logger.Field("observation_id", streamData.ObservationID),
			logger.IntField("retry_count", int(pendingInfo[0].RetryCount)),
			logger.IntField("max_retry", s.cfg.Predictor.RedisStreamFeedbackMaxRetry),
		)
		msgTelegram := telegram.FormatErrorAlertMessage(utils.TimeNowET(), "prediction feedback",
			fmt.Sprintf("feedback for observation %d exceeded the retry limit", streamData.ObservationID),
			taskData)
		if err := s.telegramBot.SendMessage(msgTelegram); err != nil {
			s.log.Error("Failed to send telegram message retry exceeded", logger.ErrorField(err), logger.Field("observation_id", streamData.ObservationID))
		}
		if err := s.AckNDel(ctx, common.RedisStreamPredictionFeedback, msg.ID); err != nil {
			s.log.Error("Failed to acknowledge and delete prediction feedback", logger.ErrorField(err), logger.Field("message_id", msg.ID))
		}
		return
	}

	if err := s.persist(ctx, streamData); err != nil {
		s.log.Error("Failed to persist prediction feedback", logger.ErrorField(err), logger.Field("message_id", msg.ID), logger.Field("observation_id", streamData.ObservationID))
		return
	}

	if err := s.AckNDel(ctx, common.RedisStreamPredictionFeedback, msg.ID); err != nil {
		s.log.Error("Failed to acknowledge and delete prediction feedback", logger.ErrorField(err), logger.Field("message_id", msg.ID))
		return
	}
	s.log.Info("Retry prediction feedback processed successfully", logger.Field("observation_id", streamData.ObservationID))
}
