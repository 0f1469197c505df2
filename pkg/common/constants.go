package common

const (
	RedisStreamPredictionFeedback = "prediction.feedback"

	RedisStreamGroup    = "predictor-group"
	RedisStreamConsumer = "predictor-consumer"
)
