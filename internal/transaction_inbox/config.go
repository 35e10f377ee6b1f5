package transaction_inbox

import (
	"fmt"

	"github.com/caarlos0/env"
)

type Config struct {
	KafkaTransactionsTopic                  string `json:"kafka_transactions_topic" env:"KAFKA_TRANSACTIONS_TOPIC" envDefault:"transactions"`
	KafkaTransactionsGroupID                string `json:"kafka_transactions_group_id" env:"KAFKA_TRANSACTIONS_GROUP_ID" envDefault:"transactions_inbox_consumer_group"`
	KafkaTransactionsPartitionWatchInterval int    `json:"kafka_transactions_partition_watch_interval" env:"KAFKA_TRANSACTIONS_PARTITION_WATCH_INTERVAL" envDefault:"50000"`
	KafkaTransactionsMaxWaitInterval        int    `json:"kafka_transactions_max_wait_interval" env:"KAFKA_TRANSACTIONS_MAX_WAIT_INTERVAL" envDefault:"250"`
}

func NewConfig() (*Config, error) {
	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("transaction_inbox: parse environment error %w", err)
	}

	return c, nil
}
