package health

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// KafkaChecker checks that a broker is reachable and, when a topic is set,
// that the broker knows the topic.
type KafkaChecker struct {
	brokers []string
	topic   string
}

func NewKafkaChecker(brokers []string, topic string) *KafkaChecker {
	return &KafkaChecker{brokers: brokers, topic: topic}
}

func (c *KafkaChecker) Name() string {
	return "kafka"
}

func (c *KafkaChecker) Check(ctx context.Context) Result {
	var lastErr error
	for _, broker := range c.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		defer func() { _ = conn.Close() }()

		if c.topic == "" {
			return Up()
		}
		partitions, err := conn.ReadPartitions(c.topic)
		if err != nil {
			return Down(fmt.Sprintf("topic %s: %v", c.topic, err))
		}
		if len(partitions) == 0 {
			return Down(fmt.Sprintf("topic %s has no partitions", c.topic))
		}
		return Up()
	}
	if lastErr != nil {
		return Down("all brokers unreachable: " + lastErr.Error())
	}
	return Down("no brokers configured")
}
