package otp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockKafkaWriter mocks KafkaWriter interface
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestKafkaDeliverer_Deliver(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	topic := "test-otp-notifications"
	ctx := context.Background()

	t.Run("SuccessfulDelivery", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		deliverer := &KafkaDeliverer{
			logger: logger,
			writer: mockWriter,
			topic:  topic,
		}

		accountID := "12345"
		code := "123456"

		mockWriter.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
			if len(msgs) != 1 {
				return false
			}
			msg := msgs[0]
			if string(msg.Key) != accountID {
				return false
			}
			var n notification
			if err := json.Unmarshal(msg.Value, &n); err != nil {
				return false
			}
			return n.AccountID == accountID && n.Code == code && !n.IssuedAt.IsZero()
		})).Return(nil).Once()

		err := deliverer.Deliver(ctx, accountID, code)
		require.NoError(t, err)
		mockWriter.AssertExpectations(t)
	})

	t.Run("DeliverReturnsErrorOnWriterError", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		deliverer := &KafkaDeliverer{
			logger: logger,
			writer: mockWriter,
			topic:  topic,
		}

		writerError := errors.New("kafka write error")
		mockWriter.On("WriteMessages", ctx, mock.AnythingOfType("[]kafka.Message")).Return(writerError).Once()

		err := deliverer.Deliver(ctx, "12345", "123456")
		require.Error(t, err)
		assert.True(t, errors.Is(err, writerError) || strings.Contains(err.Error(), writerError.Error()))
		mockWriter.AssertExpectations(t)
	})
}

func TestKafkaDeliverer_Close(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	t.Run("SuccessfulClose", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		deliverer := &KafkaDeliverer{logger: logger, writer: mockWriter, topic: "t"}

		mockWriter.On("Close").Return(nil).Once()

		err := deliverer.Close()
		require.NoError(t, err)
		mockWriter.AssertExpectations(t)
	})

	t.Run("CloseReturnsErrorOnWriterError", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		deliverer := &KafkaDeliverer{logger: logger, writer: mockWriter, topic: "t"}

		closeErr := errors.New("close error")
		mockWriter.On("Close").Return(closeErr).Once()

		err := deliverer.Close()
		require.Error(t, err)
		assert.ErrorIs(t, err, closeErr)
		mockWriter.AssertExpectations(t)
	})
}
