package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ReportsExchange carries one routing key per report mutation kind.
const (
	ReportsExchange   = "reports"
	KeyReportCreated  = "report.created"
	KeyReportUpdated  = "report.updated"
)

func ConnectRabbitMQ(uri string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return conn, ch, nil
}

// DeclareReportsExchange sets up the durable direct exchange every
// report event flows through.
func DeclareReportsExchange(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(ReportsExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	return nil
}

// BindQueue declares a durable queue and binds it to the reports exchange
// for each of the given routing keys.
func BindQueue(ch *amqp.Channel, queueName string, keys ...string) (string, error) {
	q, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return "", fmt.Errorf("failed to declare queue: %w", err)
	}
	for _, key := range keys {
		if err := ch.QueueBind(q.Name, key, ReportsExchange, false, nil); err != nil {
			return "", fmt.Errorf("failed to bind queue: %w", err)
		}
	}
	return q.Name, nil
}
