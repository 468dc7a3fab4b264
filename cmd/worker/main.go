package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"campus/internal/attendance"
	"campus/internal/config"
	"campus/internal/queue"
	"campus/internal/store"
)

// Worker consumes attendance events and keeps the Redis counters behind
// the analytics endpoint warm: a global present/total pair plus per-student
// pairs.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "campus:attendance")
	}

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		if msg.Type != "attendance.recorded" {
			continue
		}

		// Body is "studentID|STATUS".
		parts := strings.SplitN(string(msg.Body), "|", 2)
		if len(parts) != 2 {
			log.Printf("malformed attendance event %q", msg.Body)
			continue
		}
		studentID, status := parts[0], parts[1]

		if err := redisClient.Client.Incr(ctx, "campus:attendance:total").Err(); err != nil {
			log.Printf("counter update failed: %v", err)
			continue
		}
		_ = redisClient.Client.Incr(ctx, "campus:attendance:total:"+studentID).Err()
		if status == string(attendance.StatusPresent) {
			_ = redisClient.Client.Incr(ctx, "campus:attendance:present").Err()
			_ = redisClient.Client.Incr(ctx, "campus:attendance:present:"+studentID).Err()
		}
		log.Printf("counted %s mark for student %s", status, studentID)
	}

	log.Println("worker stopped")
}
