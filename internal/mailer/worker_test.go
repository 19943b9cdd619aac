package mailer

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/feedpulse/backend/internal/queue"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	delivered chan EmailTask
}

func (s *fakeSender) Send(task EmailTask) error {
	s.delivered <- task
	return nil
}

func startWorker(t *testing.T, pubSub message.Subscriber, sender Sender) {
	t.Helper()
	w, err := NewWorker(pubSub, sender, watermill.NopLogger{}, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = w.Close()
	})
	go func() {
		_ = w.Run(ctx)
	}()
	select {
	case <-w.router.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not start")
	}
}

func TestWorkerDeliversQueuedTask(t *testing.T) {
	pubSub := queue.NewGoChannelPubSub(watermill.NopLogger{})
	sender := &fakeSender{delivered: make(chan EmailTask, 1)}
	startWorker(t, pubSub, sender)

	q := queue.NewWatermillQueue(pubSub)
	want := EmailTask{To: "alice@example.com", Subject: "New like", Body: "bob liked your post."}
	require.NoError(t, q.Enqueue(TaskSendEmail, want))

	select {
	case got := <-sender.delivered:
		assert.Equal(t, want, got)
	case <-time.After(5 * time.Second):
		t.Fatal("email task was not delivered")
	}
}

func TestWorkerDropsMalformedPayload(t *testing.T) {
	pubSub := queue.NewGoChannelPubSub(watermill.NopLogger{})
	sender := &fakeSender{delivered: make(chan EmailTask, 2)}
	startWorker(t, pubSub, sender)

	bad := message.NewMessage(watermill.NewUUID(), []byte("{not json"))
	require.NoError(t, pubSub.Publish(TaskSendEmail, bad))

	// A valid task behind the malformed one still goes through, proving the
	// bad message was acked rather than stuck in retries.
	q := queue.NewWatermillQueue(pubSub)
	want := EmailTask{To: "carol@example.com", Subject: "New follower", Body: "dave started following you."}
	require.NoError(t, q.Enqueue(TaskSendEmail, want))

	select {
	case got := <-sender.delivered:
		assert.Equal(t, want, got)
	case <-time.After(5 * time.Second):
		t.Fatal("email task was not delivered")
	}
	assert.Empty(t, sender.delivered)
}
