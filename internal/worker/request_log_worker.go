package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"partyup-network/internal/model"
)

type RequestLogStore interface {
	Create(entry *model.RequestLog) error
}

// Delivery is the part of an amqp.Delivery the worker needs.
type Delivery interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// RequestLogWorker consumes request records from RabbitMQ and stores them.
// Undecodable or unstorable messages are dropped without requeue.
type RequestLogWorker struct {
	conn      *amqp.Connection
	store     RequestLogStore
	queueName string
	log       *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRequestLogWorker(conn *amqp.Connection, store RequestLogStore, queueName string, log *zap.Logger) *RequestLogWorker {
	return &RequestLogWorker{
		conn:      conn,
		store:     store,
		queueName: queueName,
		log:       log,
	}
}

func (w *RequestLogWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					w.log.Warn("request log deliveries closed", zap.String("queue", w.queueName))
					return
				}
				w.handle(d.Body, &d)
			}
		}
	}()

	w.log.Info("request log worker started", zap.String("queue", w.queueName))
	return nil
}

func (w *RequestLogWorker) handle(body []byte, d Delivery) {
	var entry model.RequestLog
	if err := json.Unmarshal(body, &entry); err != nil {
		w.log.Error("decode request log failed", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}
	entry.ID = 0

	if err := w.store.Create(&entry); err != nil {
		w.log.Error("persist request log failed", zap.String("request_id", entry.RequestID), zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	_ = d.Ack(false)
}

func (w *RequestLogWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
