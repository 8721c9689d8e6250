//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/journey-planner/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Публикует серию статусов выдуманного провайдера: воркер аудита должен
// залогировать деградацию, открытие breaker'а и восстановление.
func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	providerID := flag.String("provider", "", "provider id, random if empty")
	flag.Parse()

	if *providerID == "" {
		*providerID = "test-" + uuid.NewString()[:8]
	}

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	sequence := []domain.ProviderCallStatus{
		domain.CallOK,
		domain.CallTimeout,
		domain.CallOther,
		domain.CallCircuitOpen,
		domain.CallOK,
	}

	for i, status := range sequence {
		event := domain.ProviderStatusEvent{
			ProviderID: *providerID,
			Kind:       domain.ProviderBikeShare,
			Status:     status,
			LatencyMS:  int64(50 * (i + 1)),
			At:         time.Now().UTC(),
		}

		data, err := json.Marshal(event)
		if err != nil {
			log.Fatalf("Failed to marshal event: %v", err)
		}

		id, err := client.XAdd(ctx, &redis.XAddArgs{
			Stream: domain.StreamProviderStatus,
			Values: map[string]interface{}{
				"data": string(data),
			},
		}).Result()
		if err != nil {
			log.Fatalf("Failed to publish event: %v", err)
		}

		fmt.Printf("published %-12s %s id=%s\n", status, *providerID, id)
	}

	fmt.Printf("\nStream: %s\n", domain.StreamProviderStatus)
	fmt.Println("Check the worker logs for provider status transitions")
}
