package repository

import (
	"context"

	"EquitySight/internal/domain/models"
	domrepo "EquitySight/internal/domain/repository"
	pkgkafka "EquitySight/pkg/kafka"
)

// KafkaFeatureHistory publishes assembled vectors to a topic for downstream
// training pipelines. Delivery is at-least-once; consumers dedupe on
// (symbol, interval, asof).
type KafkaFeatureHistory struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaFeatureHistory(producer *pkgkafka.Producer, topic string) domrepo.FeatureHistory {
	return &KafkaFeatureHistory{producer: producer, topic: topic}
}

func (s *KafkaFeatureHistory) Init(ctx context.Context) error { return nil }

func (s *KafkaFeatureHistory) Append(ctx context.Context, v *models.FeatureVector) error {
	return s.producer.Publish(ctx, s.topic, []byte(v.Symbol), v)
}

func (s *KafkaFeatureHistory) Close() error {
	return s.producer.Close()
}
