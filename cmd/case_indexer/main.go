package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/oksasatya/health-referral-api/config"
	"github.com/oksasatya/health-referral-api/internal/domain/entity"
	"github.com/oksasatya/health-referral-api/internal/domain/event"
	"github.com/oksasatya/health-referral-api/internal/infrastructure/search"
	"github.com/oksasatya/health-referral-api/pkg/helpers"
)

type caseIndexer interface {
	IndexCase(ctx context.Context, c *entity.Case) error
}

// outcome tells the consume loop what to do with a delivery.
type outcome int

const (
	ack outcome = iota
	drop
	retry
)

// handle decodes one case.created message and indexes it.
// Undecodable or foreign messages are dropped; index failures are requeued.
func handle(ctx context.Context, idx caseIndexer, body []byte) outcome {
	var ev event.CaseCreated
	if err := json.Unmarshal(body, &ev); err != nil {
		log.Printf("bad message: %v", err)
		return drop
	}
	if ev.Type != event.CaseCreatedType || ev.CaseID == "" {
		log.Printf("skipping event type=%q case_id=%q", ev.Type, ev.CaseID)
		return drop
	}

	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := idx.IndexCase(c, ev.Case()); err != nil {
		log.Printf("index case %s failed: %v", ev.CaseID, err)
		return retry
	}
	return ack
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.RabbitMQURL == "" || cfg.RabbitMQCaseQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Fatalf("elasticsearch: %v", err)
	}
	if es == nil {
		log.Fatal("Elasticsearch not configured")
	}
	idx := search.NewCaseIndex(es, cfg.ESCasesIndex)
	if err := idx.EnsureIndex(context.Background()); err != nil {
		log.Fatalf("ensure index: %v", err)
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch across indexer replicas
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	if err := helpers.DeclareQueue(ch, cfg.RabbitMQCaseQueue); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQCaseQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx := context.Background()
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			switch handle(ctx, idx, msg.Body) {
			case ack:
				_ = msg.Ack(false)
			case drop:
				_ = msg.Nack(false, false)
			case retry:
				_ = msg.Nack(false, true)
			}
		}
		close(done)
	}()

	log.Printf("case indexer listening on queue=%s index=%s", cfg.RabbitMQCaseQueue, cfg.ESCasesIndex)
	<-stop
	log.Printf("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
