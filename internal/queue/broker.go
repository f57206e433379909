package queue

import (
	"context"
)

type Broker interface {
	Publish(ctx context.Context, queueName string, message []byte) error
	Subscribe(ctx context.Context, queueName string, handler MessageHandler) error
	Ping() error
	Close() error
}

type MessageHandler func(ctx context.Context, message []byte) error

const (
	QueueCatalogImport    = "catalog-import"
	QueueOrderStatus      = "order-status"
	QueueCatalogImportDLQ = "catalog-import-dlq"
	QueueOrderStatusDLQ   = "order-status-dlq"
)

var Queues = []string{
	QueueCatalogImport,
	QueueOrderStatus,
	QueueCatalogImportDLQ,
	QueueOrderStatusDLQ,
}

func dlqName(queueName string) string {
	return queueName + "-dlq"
}
