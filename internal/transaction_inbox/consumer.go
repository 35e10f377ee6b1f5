package transaction_inbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/vysogota0399/transactions_api/internal/config"
	"github.com/vysogota0399/transactions_api/internal/logging"
	"github.com/vysogota0399/transactions_api/internal/models"
	"github.com/vysogota0399/transactions_api/internal/transactions"
)

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Ingester interface {
	Ingest(ctx context.Context, in *transactions.NewTransaction) (*models.Transaction, error)
}

// Consumer reads transaction payloads from a topic and ingests them the same
// way the HTTP endpoint does. Every fetched message is committed, whether it
// was stored or rejected.
type Consumer struct {
	lg       *logging.ZapLogger
	reader   MessageReader
	ingester Ingester

	cancaller context.CancelFunc
	done      chan struct{}
}

func NewConsumer(
	lc fx.Lifecycle,
	lg *logging.ZapLogger,
	cfg *Config,
	globalCFG *config.Config,
	errLogger *logging.KafkaErrorLogger,
	logger *logging.KafkaLogger,
	ingester Ingester,
) *Consumer {
	lg.DebugCtx(
		context.Background(),
		"start transactions consumer",
		zap.String("consumer_group", cfg.KafkaTransactionsGroupID),
		zap.Any("config", cfg),
	)

	r := kafka.NewReader(kafka.ReaderConfig{
		GroupID:                cfg.KafkaTransactionsGroupID,
		PartitionWatchInterval: time.Duration(cfg.KafkaTransactionsPartitionWatchInterval) * time.Millisecond,
		Brokers:                globalCFG.KafkaBrokers,
		Topic:                  cfg.KafkaTransactionsTopic,
		MinBytes:               10e2, // 1KB
		MaxBytes:               10e6, // 10MB
		ErrorLogger:            errLogger,
		MaxWait:                time.Duration(cfg.KafkaTransactionsMaxWaitInterval) * time.Millisecond,
		Logger:                 logger,
	})

	cns := newConsumer(r, ingester, lg)

	lc.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				cns.Start()
				return nil
			},
			OnStop: func(ctx context.Context) error {
				return cns.Stop()
			},
		},
	)

	return cns
}

func newConsumer(reader MessageReader, ingester Ingester, lg *logging.ZapLogger) *Consumer {
	return &Consumer{
		lg:       lg,
		reader:   reader,
		ingester: ingester,
	}
}

func (cns *Consumer) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	cns.cancaller = cancel
	cns.done = make(chan struct{})
	ctx = cns.lg.WithContextFields(ctx, zap.String("name", "transactions_consumer"))

	go cns.consume(ctx)
}

func (cns *Consumer) Stop() error {
	if cns.cancaller != nil {
		cns.cancaller()
		<-cns.done
	}

	return cns.reader.Close()
}

func (cns *Consumer) consume(ctx context.Context) {
	defer close(cns.done)

	for {
		if err := cns.processMessage(ctx); err != nil {
			if ctx.Err() != nil {
				cns.lg.DebugCtx(ctx, "consumer graceful shutdown")
				return
			}

			cns.lg.ErrorCtx(ctx, "process message error", zap.Error(err))
		}
	}
}

// processMessage handles a single message. Only fetch and commit failures are
// returned; rejected payloads are logged and committed.
func (cns *Consumer) processMessage(ctx context.Context) error {
	m, err := cns.reader.FetchMessage(ctx)
	if err != nil {
		return fmt.Errorf("transaction_inbox/consumer: fetch message error %w", err)
	}

	mctx := cns.lg.WithContextFields(
		ctx,
		zap.Int("partition", m.Partition),
		zap.Int64("offset", m.Offset),
	)

	if err := cns.ingest(mctx, m.Value); err != nil {
		cns.lg.ErrorCtx(mctx, "message rejected", zap.Error(err))
	}

	if err := cns.reader.CommitMessages(ctx, m); err != nil {
		return fmt.Errorf("transaction_inbox/consumer: failed to commit messages %w", err)
	}

	return nil
}

func (cns *Consumer) ingest(ctx context.Context, value []byte) error {
	body, err := DecodePayload(value)
	if err != nil {
		return err
	}

	in, err := transactions.ParseNewTransaction(body)
	if err != nil {
		return fmt.Errorf("transaction_inbox/consumer: invalid payload %w", err)
	}

	tx, err := cns.ingester.Ingest(ctx, in)
	if err != nil {
		return err
	}

	cns.lg.InfoCtx(ctx, "consumed message", zap.String("transaction_id", tx.ID))

	return nil
}

// DecodePayload turns a protobuf Struct message into the JSON object accepted
// by transactions.ParseNewTransaction.
func DecodePayload(value []byte) ([]byte, error) {
	if len(value) == 0 {
		return nil, errors.New("transaction_inbox/consumer: empty message")
	}

	payload := structpb.Struct{}
	if err := proto.Unmarshal(value, &payload); err != nil {
		return nil, fmt.Errorf("transaction_inbox/consumer: unmarshal message error %w", err)
	}

	body, err := protojson.Marshal(&payload)
	if err != nil {
		return nil, fmt.Errorf("transaction_inbox/consumer: marshal payload error %w", err)
	}

	return body, nil
}
