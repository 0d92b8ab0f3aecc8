package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_HappyPath(t *testing.T) {
	tempDir := t.TempDir()

	tempConfigsSubDir := filepath.Join(tempDir, "configs")
	require.NoError(t, os.Mkdir(tempConfigsSubDir, 0755))

	testAppName := "TestEngine"
	testPort := 9090
	testLogLevel := "debug"
	testKafkaBrokers := "kafka1:9092,kafka2:9092"

	envContent := fmt.Sprintf(
		"APP_NAME=%s\nSERVER_PORT=%d\nLOG_LEVEL=%s\nKAFKA_BROKERS=%s\nLOCK_BACKEND=memory\nNOTIFICATION_EMAIL_TRANSACTION_TYPES=deposit, refund ,\n",
		testAppName, testPort, testLogLevel, testKafkaBrokers,
	)
	envFilePath := filepath.Join(tempConfigsSubDir, "test_happy.env")
	require.NoError(t, os.WriteFile(envFilePath, []byte(envContent), 0644))

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	defer func() {
		_ = os.Chdir(originalWD)
	}()
	require.NoError(t, os.Chdir(tempDir))

	cfg, err := LoadConfig("test_happy")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, testAppName, cfg.Application.Name)
	assert.Equal(t, testPort, cfg.Server.Port)
	assert.Equal(t, testLogLevel, cfg.Logging.Level)
	assert.Equal(t, testKafkaBrokers, cfg.Kafka.Brokers)
	assert.Equal(t, LockBackendMemory, cfg.Lock.Backend)
	assert.Equal(t, []string{"DEPOSIT", "REFUND"}, cfg.Notification.EmailTransactionTypes)

	assert.Equal(t, "development", cfg.Application.Env)
	assert.Equal(t, "ledger_status_updates", cfg.Kafka.StatusTopic)
	assert.Equal(t, "NGN", cfg.Review.ReconciliationCurrency)
	assert.Equal(t, "NGN", cfg.Notification.PrimaryCurrency)
	assert.Equal(t, 10*time.Second, cfg.Lock.WaitTimeout)
	assert.Equal(t, 10, cfg.WorkerPool.Size)

	cfgWithName, err := LoadConfigWithName("configs/test_happy")
	require.NoError(t, err)
	assert.Equal(t, testAppName, cfgWithName.Application.Name)

	cfgWithNameAndType, err := LoadConfigWithNameAndType("configs/test_happy", "env")
	require.NoError(t, err)
	assert.Equal(t, testAppName, cfgWithNameAndType.Application.Name)
}

func TestConfig_Validate_Defaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := buildConfig(v)
	assert.NoError(t, cfg.validate(), "Default config should be valid")
}

func TestConfig_Validate_Errors(t *testing.T) {
	testCases := []struct {
		name          string
		mutate        func(c *Config)
		expectedError string
	}{
		{
			name:          "UnknownLockBackend",
			mutate:        func(c *Config) { c.Lock.Backend = "zookeeper" },
			expectedError: "LOCK_BACKEND must be one of redis, memory",
		},
		{
			name:          "RedisBackendWithoutAddr",
			mutate:        func(c *Config) { c.Redis.Addr = "" },
			expectedError: "REDIS_ADDR is required when LOCK_BACKEND is redis",
		},
		{
			name: "MemoryBackendIgnoresRedis",
			mutate: func(c *Config) {
				c.Lock.Backend = LockBackendMemory
				c.Redis.Addr = ""
			},
		},
		{
			name:          "BadReconciliationCurrency",
			mutate:        func(c *Config) { c.Review.ReconciliationCurrency = "NAIRA" },
			expectedError: "REVIEW_RECONCILIATION_CURRENCY must be a 3-letter code",
		},
		{
			name:          "MissingStatusTopic",
			mutate:        func(c *Config) { c.Kafka.StatusTopic = "" },
			expectedError: "KAFKA_STATUS_TOPIC is required",
		},
		{
			name:          "ZeroLockWait",
			mutate:        func(c *Config) { c.Lock.WaitTimeout = 0 },
			expectedError: "LOCK_WAIT_TIMEOUT must be greater than 0",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := viper.New()
			setDefaults(v)
			cfg := buildConfig(v)
			tc.mutate(cfg)

			err := cfg.validate()
			if tc.expectedError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectedError)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"DEPOSIT", "WITHDRAWAL"}, splitList(" deposit,WITHDRAWAL ,,"))
	assert.Nil(t, splitList(""))
}
