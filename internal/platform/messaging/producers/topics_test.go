package producers

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/fiat-wallet-ledger/internal/config"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockTopicAdmin struct {
	mock.Mock
}

func (m *MockTopicAdmin) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	args := m.Called(topics)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kafka.Partition), args.Error(1)
}

func (m *MockTopicAdmin) CreateTopics(topics ...kafka.TopicConfig) error {
	args := m.Called(topics)
	return args.Error(0)
}

func TestTopicConfigFor(t *testing.T) {
	tc := topicConfigFor(&config.KafkaConfig{NumPartitions: 6, ReplicationFactor: 3}, "wallet.push")
	assert.Equal(t, kafka.TopicConfig{Topic: "wallet.push", NumPartitions: 6, ReplicationFactor: 3}, tc)

	tc = topicConfigFor(&config.KafkaConfig{}, "wallet.email")
	assert.Equal(t, 1, tc.NumPartitions)
	assert.Equal(t, 1, tc.ReplicationFactor)
}

func TestEnsureTopic(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tc := kafka.TopicConfig{Topic: "wallet.status-updates", NumPartitions: 3, ReplicationFactor: 1}
	unknownTopic := errors.New("unknown topic or partition")

	tests := []struct {
		name          string
		setupMocks    func(admin *MockTopicAdmin)
		errorContains string
	}{
		{
			name: "topic exists",
			setupMocks: func(admin *MockTopicAdmin) {
				admin.On("ReadPartitions", []string{tc.Topic}).Return([]kafka.Partition{{Topic: tc.Topic, ID: 0}}, nil).Once()
			},
		},
		{
			name: "exists after a failed read",
			setupMocks: func(admin *MockTopicAdmin) {
				admin.On("ReadPartitions", []string{tc.Topic}).Return(nil, unknownTopic).Once()
				admin.On("ReadPartitions", []string{tc.Topic}).Return([]kafka.Partition{{Topic: tc.Topic, ID: 0}}, nil).Once()
			},
		},
		{
			name: "missing topic is created",
			setupMocks: func(admin *MockTopicAdmin) {
				admin.On("ReadPartitions", []string{tc.Topic}).Return(nil, unknownTopic).Times(3)
				admin.On("CreateTopics", []kafka.TopicConfig{tc}).Return(nil).Once()
			},
		},
		{
			name: "creation fails",
			setupMocks: func(admin *MockTopicAdmin) {
				admin.On("ReadPartitions", []string{tc.Topic}).Return(nil, unknownTopic).Times(3)
				admin.On("CreateTopics", []kafka.TopicConfig{tc}).Return(errors.New("not authorized")).Once()
			},
			errorContains: "failed to create kafka topic wallet.status-updates",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			admin := &MockTopicAdmin{}
			tt.setupMocks(admin)

			err := ensureTopic(admin, tc, 3, 0, logger)

			if tt.errorContains != "" {
				assert.ErrorContains(t, err, tt.errorContains)
			} else {
				assert.NoError(t, err)
			}
			admin.AssertExpectations(t)
		})
	}
}
