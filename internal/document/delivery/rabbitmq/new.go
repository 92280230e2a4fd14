package rabbitmq

import (
	"goodwish-chatbot/internal/document"
	pkgLog "goodwish-chatbot/pkg/log"
	pkgRabbit "goodwish-chatbot/pkg/rabbitmq"
)

// IngestMessage is the body of an ingest job.
type IngestMessage struct {
	Paths    []string `json:"paths"`
	Recreate bool     `json:"recreate"`
}

type Consumer struct {
	l  pkgLog.Logger
	uc document.UseCase
}

func NewConsumer(l pkgLog.Logger, uc document.UseCase) *Consumer {
	return &Consumer{l: l, uc: uc}
}

// Producer enqueues ingest jobs.
type Producer struct {
	pub *pkgRabbit.Publisher
}

func NewProducer(pub *pkgRabbit.Publisher) *Producer {
	return &Producer{pub: pub}
}
