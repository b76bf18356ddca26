package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/movie-catalog/kafka"
)

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) Send(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func TestHandleUserRegistered(t *testing.T) {
	sender := &fakeSender{}
	handler := NewHandler(sender)

	err := handler.HandleUserRegistered(context.Background(), kafka.UserRegisteredEvent{
		EventID:  "evt-1",
		UserID:   1,
		Username: "alice",
		Email:    "alice@example.com",
	})

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "alice@example.com", sender.sent[0])
}

func TestHandleUserRegistered_SendFailureRetries(t *testing.T) {
	sender := &fakeSender{err: errors.New("relay down")}
	handler := NewHandler(sender)

	err := handler.HandleUserRegistered(context.Background(), kafka.UserRegisteredEvent{
		EventID: "evt-1",
		UserID:  1,
		Email:   "alice@example.com",
	})

	assert.Error(t, err)
}

func TestHandleUserRegistered_MissingEmailSkipped(t *testing.T) {
	sender := &fakeSender{}
	handler := NewHandler(sender)

	err := handler.HandleUserRegistered(context.Background(), kafka.UserRegisteredEvent{
		EventID: "evt-1",
		UserID:  1,
	})

	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}
