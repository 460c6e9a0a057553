package cmd

import (
	"log/slog"

	"gorm.io/gorm"

	httpin "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/in/payment"
	"orderflow/internal/adapters/out/delivery"
	"orderflow/internal/adapters/out/inventory"
	outkafka "orderflow/internal/adapters/out/kafka"
	"orderflow/internal/adapters/out/notify"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/jobs"
)

// CompositionRoot wires adapters into application handlers. All shared
// out-adapters (publisher, notifier, clients) are created once and reused
// by every handler that needs them.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	publisher   *outkafka.OrderChangedPublisher
	notifier    *notify.KafkaNotifier
	inventory   *inventory.Client
	coordinator *delivery.Client
	policy      services.ReturnPolicy
}

// NewCompositionRoot creates the root. The return policy window comes from
// configuration and is validated here; an invalid window is a startup error.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	policy, err := services.NewReturnPolicy(config.ReturnWindow)
	if err != nil {
		return CompositionRoot{}, err
	}

	brokers := []string{config.KafkaHost}

	return CompositionRoot{
		config:      config,
		gormDB:      gormDB,
		uowFactory:  *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:      logger,
		publisher:   outkafka.NewOrderChangedPublisher(brokers, config.KafkaOrderChangedTopic, logger),
		notifier:    notify.NewKafkaNotifier(brokers, config.KafkaNotificationsTopic, logger),
		inventory:   inventory.NewClient(config.InventoryServiceURL, config.HTTPClientTimeout),
		coordinator: delivery.NewClient(config.DeliveryServiceURL, config.HTTPClientTimeout),
		policy:      policy,
	}, nil
}

// Close releases the root's kafka producers.
func (c *CompositionRoot) Close() error {
	if err := c.publisher.Close(); err != nil {
		return err
	}

	return c.notifier.Close()
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateConfirmPaymentCommandHandler() commands.ConfirmPaymentCommandHandler {
	return commands.NewConfirmPaymentCommandHandler(
		c.orderUoWFactory(), c.publisher, c.inventory, c.notifier, c.logger,
	)
}

func (c *CompositionRoot) CreateFailPaymentCommandHandler() commands.FailPaymentCommandHandler {
	return commands.NewFailPaymentCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateRetryPaymentCommandHandler() commands.RetryPaymentCommandHandler {
	return commands.NewRetryPaymentCommandHandler(
		c.orderUoWFactory(), c.publisher, c.config.MaxPaymentAttempts,
	)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(
		c.orderUoWFactory(), c.publisher, c.inventory, c.notifier, c.logger,
	)
}

func (c *CompositionRoot) CreateStartPreparingCommandHandler() commands.StartPreparingCommandHandler {
	return commands.NewStartPreparingCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreatePutOnHoldCommandHandler() commands.PutOnHoldCommandHandler {
	return commands.NewPutOnHoldCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateReleaseHoldCommandHandler() commands.ReleaseHoldCommandHandler {
	return commands.NewReleaseHoldCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateMarkReadyForPickupCommandHandler() commands.MarkReadyForPickupCommandHandler {
	return commands.NewMarkReadyForPickupCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateAssignDeliveryCommandHandler() commands.AssignDeliveryCommandHandler {
	return commands.NewAssignDeliveryCommandHandler(c.orderUoWFactory(), c.publisher, c.coordinator)
}

func (c *CompositionRoot) CreateRecordDeliveryAttemptCommandHandler() commands.RecordDeliveryAttemptCommandHandler {
	return commands.NewRecordDeliveryAttemptCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateRetryDeliveryCommandHandler() commands.RetryDeliveryCommandHandler {
	return commands.NewRetryDeliveryCommandHandler(
		c.orderUoWFactory(), c.publisher, c.coordinator, c.config.MaxDeliveryAttempts,
	)
}

func (c *CompositionRoot) CreateMarkDeliveredCommandHandler() commands.MarkDeliveredCommandHandler {
	return commands.NewMarkDeliveredCommandHandler(
		c.orderUoWFactory(), c.publisher, c.notifier, c.logger,
	)
}

func (c *CompositionRoot) CreateRequestReturnCommandHandler() commands.RequestReturnCommandHandler {
	return commands.NewRequestReturnCommandHandler(c.orderUoWFactory(), c.publisher, &c.policy)
}

func (c *CompositionRoot) CreateApproveReturnCommandHandler() commands.ApproveReturnCommandHandler {
	return commands.NewApproveReturnCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateRejectReturnCommandHandler() commands.RejectReturnCommandHandler {
	return commands.NewRejectReturnCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateScheduleReturnPickupCommandHandler() commands.ScheduleReturnPickupCommandHandler {
	return commands.NewScheduleReturnPickupCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateMarkReturnInTransitCommandHandler() commands.MarkReturnInTransitCommandHandler {
	return commands.NewMarkReturnInTransitCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateCompleteReturnCommandHandler() commands.CompleteReturnCommandHandler {
	return commands.NewCompleteReturnCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateInitiateRefundCommandHandler() commands.InitiateRefundCommandHandler {
	return commands.NewInitiateRefundCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateCompleteRefundCommandHandler() commands.CompleteRefundCommandHandler {
	return commands.NewCompleteRefundCommandHandler(
		c.orderUoWFactory(), c.publisher, c.inventory, c.notifier, c.logger,
	)
}

func (c *CompositionRoot) CreateContactCustomerCommandHandler() commands.ContactCustomerCommandHandler {
	return commands.NewContactCustomerCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateUpdateDeliveryInstructionsCommandHandler() commands.UpdateDeliveryInstructionsCommandHandler {
	return commands.NewUpdateDeliveryInstructionsCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateSweepStalePaymentsCommandHandler() commands.SweepStalePaymentsCommandHandler {
	return commands.NewSweepStalePaymentsCommandHandler(
		c.orderUoWFactory(),
		c.CreateFailPaymentCommandHandler(),
		c.config.PaymentProcessingTimeout,
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.gormDB)
}

// CreateHTTPServer wires every command and query handler into the REST server.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateOrder:                c.CreateCreateOrderCommandHandler(),
		RetryPayment:               c.CreateRetryPaymentCommandHandler(),
		CancelOrder:                c.CreateCancelOrderCommandHandler(),
		StartPreparing:             c.CreateStartPreparingCommandHandler(),
		PutOnHold:                  c.CreatePutOnHoldCommandHandler(),
		ReleaseHold:                c.CreateReleaseHoldCommandHandler(),
		MarkReadyForPickup:         c.CreateMarkReadyForPickupCommandHandler(),
		AssignDelivery:             c.CreateAssignDeliveryCommandHandler(),
		RecordDeliveryAttempt:      c.CreateRecordDeliveryAttemptCommandHandler(),
		RetryDelivery:              c.CreateRetryDeliveryCommandHandler(),
		MarkDelivered:              c.CreateMarkDeliveredCommandHandler(),
		RequestReturn:              c.CreateRequestReturnCommandHandler(),
		ApproveReturn:              c.CreateApproveReturnCommandHandler(),
		RejectReturn:               c.CreateRejectReturnCommandHandler(),
		ScheduleReturnPickup:       c.CreateScheduleReturnPickupCommandHandler(),
		MarkReturnInTransit:        c.CreateMarkReturnInTransitCommandHandler(),
		CompleteReturn:             c.CreateCompleteReturnCommandHandler(),
		InitiateRefund:             c.CreateInitiateRefundCommandHandler(),
		CompleteRefund:             c.CreateCompleteRefundCommandHandler(),
		ContactCustomer:            c.CreateContactCustomerCommandHandler(),
		UpdateDeliveryInstructions: c.CreateUpdateDeliveryInstructionsCommandHandler(),
		GetOrder:                   c.CreateGetOrderQueryHandler(),
		GetOrderHistory:            c.CreateGetOrderHistoryQueryHandler(),
	})
}

// CreatePaymentEventConsumer wires the gateway event consumer.
func (c *CompositionRoot) CreatePaymentEventConsumer() *payment.EventConsumer {
	return payment.NewEventConsumer(
		[]string{c.config.KafkaHost},
		c.config.KafkaPaymentEventsTopic,
		c.config.KafkaConsumerGroup,
		c.CreateConfirmPaymentCommandHandler(),
		c.CreateFailPaymentCommandHandler(),
		c.logger,
	)
}

// CreateJobManager wires the scheduled jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateSweepStalePaymentsCommandHandler(),
		c.config.PaymentSweepSchedule,
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
