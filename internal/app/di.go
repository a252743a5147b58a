package app

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/99designs/keyring"
	"github.com/IBM/sarama"
	"github.com/go-chi/chi/v5"

	"github.com/you-humble/merchant-payout/internal/client/biometric"
	payoutclient "github.com/you-humble/merchant-payout/internal/client/http/payout"
	"github.com/you-humble/merchant-payout/internal/config"
	envconfig "github.com/you-humble/merchant-payout/internal/config/env"
	"github.com/you-humble/merchant-payout/internal/converter"
	"github.com/you-humble/merchant-payout/internal/model"
	repository "github.com/you-humble/merchant-payout/internal/repository/device"
	payoutconsumer "github.com/you-humble/merchant-payout/internal/service/consumer/payout"
	"github.com/you-humble/merchant-payout/internal/service/payout"
	payoutproducer "github.com/you-humble/merchant-payout/internal/service/producer/payout"
	"github.com/you-humble/merchant-payout/internal/service/sandbox"
	"github.com/you-humble/merchant-payout/internal/service/submission"
	"github.com/you-humble/merchant-payout/internal/transport/cli"
	thttp "github.com/you-humble/merchant-payout/internal/transport/http/sandbox/v1"
	"github.com/you-humble/merchant-payout/platform/closer"
	"github.com/you-humble/merchant-payout/platform/kafka"
	"github.com/you-humble/merchant-payout/platform/kafka/consumer"
	"github.com/you-humble/merchant-payout/platform/kafka/middleware"
	"github.com/you-humble/merchant-payout/platform/kafka/producer"
	"github.com/you-humble/merchant-payout/platform/logger"
)

type Converter interface {
	PayoutCreatedToPayload(m model.PayoutCreated) ([]byte, error)
	PayloadToPayoutCreated(data []byte) (model.PayoutCreated, error)
}

type PayoutConsumer interface {
	RunPayoutCreatedConsume(ctx context.Context) error
}

type SandboxService interface {
	thttp.SandboxService
	payoutconsumer.Service
}

type Console interface {
	Run(ctx context.Context) error
}

type SandboxHandler interface {
	CreatePayout(w http.ResponseWriter, r *http.Request)
	Activity(w http.ResponseWriter, r *http.Request)
}

type di struct {
	keyring          keyring.Keyring
	deviceRepository payout.DeviceIDProvider

	payoutClient  submission.Gateway
	authenticator payout.Authenticator

	syncProducer          sarama.SyncProducer
	payoutCreatedProducer kafka.Producer
	payoutProducer        submission.PayoutCreatedSender

	consumerGroup         sarama.ConsumerGroup
	payoutCreatedConsumer kafka.Consumer
	payoutConsumer        PayoutConsumer

	conv Converter

	tracker *submission.Tracker
	flow    *payout.Flow
	console Console

	sandboxService SandboxService
	sandboxHandler SandboxHandler

	router *chi.Mux
}

func NewDI() *di { return &di{} }

func (d *di) Keyring(_ context.Context) keyring.Keyring {
	if d.keyring == nil {
		kr, err := repository.OpenKeyring(config.C().Device)
		if err != nil {
			panic(fmt.Sprintf("failed to open device keyring: %v\n", err))
		}

		d.keyring = kr
	}

	return d.keyring
}

func (d *di) DeviceRepository(ctx context.Context) payout.DeviceIDProvider {
	if d.deviceRepository == nil {
		d.deviceRepository = repository.NewDeviceRepository(d.Keyring(ctx))
	}

	return d.deviceRepository
}

func (d *di) PayoutClient(_ context.Context) submission.Gateway {
	if d.payoutClient == nil {
		cfg := config.C()

		httpClient := payoutclient.NewHTTPClient(cfg.Gateway.Timeout())
		closer.AddNamed("Payout API client", func(ctx context.Context) error {
			httpClient.CloseIdleConnections()
			return nil
		})

		d.payoutClient = payoutclient.NewClient(cfg.Gateway.BaseURL(), httpClient)
	}

	return d.payoutClient
}

func (d *di) Authenticator(_ context.Context) payout.Authenticator {
	if d.authenticator == nil {
		cfg := config.C()

		switch cfg.Biometric.Mode() {
		case envconfig.BiometricModeFallback:
			d.authenticator = biometric.NewFallback()
		default:
			d.authenticator = biometric.NewPrompt(
				biometric.NewStdTerminal(os.Stdin, os.Stdout),
				cfg.Biometric.Passcode(),
			)
		}
	}

	return d.authenticator
}

func (d *di) KafkaConverter(_ context.Context) Converter {
	if d.conv == nil {
		d.conv = converter.NewKafkaConverter()
	}

	return d.conv
}

func (d *di) SyncProducer(_ context.Context) sarama.SyncProducer {
	if d.syncProducer == nil {
		cfg := config.C()

		p, err := sarama.NewSyncProducer(
			cfg.Kafka.Brokers(),
			cfg.Kafka.PayoutCreatedProducerConfig(),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create sync producer: %s\n", err.Error()))
		}
		closer.AddNamed("Kafka sync producer", func(ctx context.Context) error {
			return p.Close()
		})

		d.syncProducer = p
	}

	return d.syncProducer
}

func (d *di) PayoutCreatedProducer(ctx context.Context) kafka.Producer {
	if d.payoutCreatedProducer == nil {
		cfg := config.C()

		if !cfg.Kafka.Enabled() {
			logger.Info(ctx, "kafka brokers are not configured, payout events are disabled")
			d.payoutCreatedProducer = kafka.NopProducer{}
			return d.payoutCreatedProducer
		}

		d.payoutCreatedProducer = producer.NewProducer(
			d.SyncProducer(ctx),
			cfg.Kafka.PayoutCreatedTopic(),
			logger.L(),
		)
	}

	return d.payoutCreatedProducer
}

func (d *di) PayoutProducer(ctx context.Context) submission.PayoutCreatedSender {
	if d.payoutProducer == nil {
		d.payoutProducer = payoutproducer.NewPayoutProducer(
			d.PayoutCreatedProducer(ctx),
			d.KafkaConverter(ctx),
		)
	}

	return d.payoutProducer
}

func (d *di) ConsumerGroup(_ context.Context) sarama.ConsumerGroup {
	if d.consumerGroup == nil {
		cfg := config.C()

		consumerGroup, err := sarama.NewConsumerGroup(
			cfg.Kafka.Brokers(),
			cfg.Kafka.ConsumerGroupID(),
			cfg.Kafka.PayoutCreatedConsumerConfig(),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create consumer group: %s\n", err.Error()))
		}
		closer.AddNamed("Kafka consumer group", func(ctx context.Context) error {
			return consumerGroup.Close()
		})

		d.consumerGroup = consumerGroup
	}

	return d.consumerGroup
}

func (d *di) PayoutCreatedConsumer(ctx context.Context) kafka.Consumer {
	if d.payoutCreatedConsumer == nil {
		d.payoutCreatedConsumer = consumer.NewConsumer(
			d.ConsumerGroup(ctx),
			[]string{
				config.C().Kafka.PayoutCreatedTopic(),
			},
			logger.L(),
			middleware.Recovery(logger.L()),
			middleware.Logging(logger.L()),
		)
	}

	return d.payoutCreatedConsumer
}

func (d *di) PayoutConsumer(ctx context.Context) PayoutConsumer {
	if d.payoutConsumer == nil {
		d.payoutConsumer = payoutconsumer.NewPayoutConsumer(
			d.PayoutCreatedConsumer(ctx),
			d.KafkaConverter(ctx),
			d.SandboxService(ctx),
		)
	}

	return d.payoutConsumer
}

func (d *di) SubmissionTracker(ctx context.Context) *submission.Tracker {
	if d.tracker == nil {
		d.tracker = submission.NewTracker(
			d.PayoutClient(ctx),
			d.PayoutProducer(ctx),
		)
	}

	return d.tracker
}

func (d *di) PayoutFlow(ctx context.Context) *payout.Flow {
	if d.flow == nil {
		d.flow = payout.NewFlow(
			d.Authenticator(ctx),
			d.DeviceRepository(ctx),
			d.SubmissionTracker(ctx),
		)

		closer.AddNamed("Payout flow", func(ctx context.Context) error {
			d.flow.Close()
			return nil
		})
	}

	return d.flow
}

func (d *di) Console(ctx context.Context) Console {
	if d.console == nil {
		d.console = cli.NewConsole(d.PayoutFlow(ctx), os.Stdin, os.Stdout)
	}

	return d.console
}

func (d *di) SandboxService(_ context.Context) SandboxService {
	if d.sandboxService == nil {
		d.sandboxService = sandbox.NewSandboxService()
	}

	return d.sandboxService
}

func (d *di) SandboxHandler(ctx context.Context) SandboxHandler {
	if d.sandboxHandler == nil {
		d.sandboxHandler = thttp.NewSandboxHandler(d.SandboxService(ctx))
	}

	return d.sandboxHandler
}

func (d *di) Router(_ context.Context) *chi.Mux {
	if d.router == nil {
		d.router = chi.NewRouter()
	}

	return d.router
}
