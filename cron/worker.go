package cron

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/jabezgenics-alt/ezzo-sales/config"
	enquiryRepo "github.com/jabezgenics-alt/ezzo-sales/database/repository/enquiry"
	"github.com/jabezgenics-alt/ezzo-sales/models"
	"github.com/jabezgenics-alt/ezzo-sales/services/tasks"
	"github.com/jabezgenics-alt/ezzo-sales/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitDeliveryWorker runs the async quote delivery worker in background.
func InitDeliveryWorker(enquiries enquiryRepo.EnquiryRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDeliveryDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeQuoteDeliver, handleDeliveryTask(enquiries))

	go monitorRedisConnection()

	go func() {
		logger := utils.GetLogger()
		logger.Info("starting quote delivery worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("delivery worker failed to start",
					zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))

				if attempts == maxAttempts {
					logger.Fatal("delivery worker exhausted retries")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleDeliveryTask records the delivery on the enquiry conversation. Email
// or messaging integrations hang off this handler; the audit trail on the
// quote itself was already written when the status flipped.
func handleDeliveryTask(enquiries enquiryRepo.EnquiryRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.DeliveryPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			utils.GetLogger().Error("invalid delivery payload", zap.Error(err))
			return err
		}

		logger := utils.GetLogger()
		logger.Info("delivering quote",
			zap.String("quoteId", p.QuoteID),
			zap.String("enquiryId", p.EnquiryID),
			zap.String("customerId", p.CustomerID),
			zap.Float64("total", p.TotalPrice))

		msg := &models.EnquiryMessage{
			ID:        p.QuoteID + ":delivery",
			EnquiryID: p.EnquiryID,
			Role:      "assistant",
			Content:   "Your quote is ready. Total: " + formatMoney(p.TotalPrice),
			CreatedAt: time.Now(),
		}
		if err := enquiries.AppendMessage(ctx, msg); err != nil {
			logger.Error("failed to record quote delivery", zap.String("quoteId", p.QuoteID), zap.Error(err))
			return err
		}
		return nil
	}
}

func formatMoney(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', 2, 64)
}

// monitorRedisConnection pings Redis periodically to detect failures at
// runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDeliveryDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			utils.GetLogger().Warn("delivery queue redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
