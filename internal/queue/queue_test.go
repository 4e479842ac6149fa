package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/gigboard-dev/gigboard/internal/domain"
)

func startBroker(t *testing.T) *amqp.Channel {
	t.Helper()
	if testing.Short() {
		t.Skip("needs docker, skipped in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "rabbitmq:3-alpine",
			ExposedPorts: []string{"5672/tcp"},
			WaitingFor:   wait.ForLog("Server startup complete").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	addr, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	conn, err := amqp.Dial("amqp://guest:guest@" + addr + "/")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
	})

	ch, err := conn.Channel()
	require.NoError(t, err)
	return ch
}

func TestPublishedEventIsConsumed(t *testing.T) {
	ch := startBroker(t)

	q, err := Declare(ch, "event_queue")
	require.NoError(t, err)
	_, err = Declare(ch, "event_queue")
	require.NoError(t, err, "declaring twice must succeed")

	p := NewPublisher(ch, q.Name, 5*time.Second)
	event := domain.Event{
		Type: domain.EventApplicationStatus,
		To:   "worker@example.com",
		Data: domain.ApplicationStatusEventData{WorkerName: "Wanda Worker", JobTitle: "Piano move", Status: "accepted"},
	}
	require.NoError(t, p.Publish(context.Background(), event))

	msgs, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	require.NoError(t, err)

	select {
	case msg := <-msgs:
		assert.Equal(t, "application/json", msg.ContentType)
		assert.Equal(t, amqp.Persistent, msg.DeliveryMode)

		var got struct {
			Type string                            `json:"type"`
			To   string                            `json:"to"`
			Data domain.ApplicationStatusEventData `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg.Body, &got))
		assert.Equal(t, event.Type, got.Type)
		assert.Equal(t, event.To, got.To)
		assert.Equal(t, "accepted", got.Data.Status)
		require.NoError(t, msg.Ack(false))
	case <-time.After(10 * time.Second):
		t.Fatal("no message delivered")
	}
}
