// Package http exposes the order lifecycle over a JSON REST API.
package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
)

// Server routes HTTP requests to the application layer. It owns no
// business logic: every endpoint builds a command or query, dispatches
// it and renders the result.
type Server struct {
	createOrder                commands.CreateOrderCommandHandler
	retryPayment               commands.RetryPaymentCommandHandler
	cancelOrder                commands.CancelOrderCommandHandler
	startPreparing             commands.StartPreparingCommandHandler
	putOnHold                  commands.PutOnHoldCommandHandler
	releaseHold                commands.ReleaseHoldCommandHandler
	markReadyForPickup         commands.MarkReadyForPickupCommandHandler
	assignDelivery             commands.AssignDeliveryCommandHandler
	recordDeliveryAttempt      commands.RecordDeliveryAttemptCommandHandler
	retryDelivery              commands.RetryDeliveryCommandHandler
	markDelivered              commands.MarkDeliveredCommandHandler
	requestReturn              commands.RequestReturnCommandHandler
	approveReturn              commands.ApproveReturnCommandHandler
	rejectReturn               commands.RejectReturnCommandHandler
	scheduleReturnPickup       commands.ScheduleReturnPickupCommandHandler
	markReturnInTransit        commands.MarkReturnInTransitCommandHandler
	completeReturn             commands.CompleteReturnCommandHandler
	initiateRefund             commands.InitiateRefundCommandHandler
	completeRefund             commands.CompleteRefundCommandHandler
	contactCustomer            commands.ContactCustomerCommandHandler
	updateDeliveryInstructions commands.UpdateDeliveryInstructionsCommandHandler

	getOrder        queries.GetOrderQueryHandler
	getOrderHistory queries.GetOrderHistoryQueryHandler
}

// Handlers bundles the application handlers the server dispatches to.
type Handlers struct {
	CreateOrder                commands.CreateOrderCommandHandler
	RetryPayment               commands.RetryPaymentCommandHandler
	CancelOrder                commands.CancelOrderCommandHandler
	StartPreparing             commands.StartPreparingCommandHandler
	PutOnHold                  commands.PutOnHoldCommandHandler
	ReleaseHold                commands.ReleaseHoldCommandHandler
	MarkReadyForPickup         commands.MarkReadyForPickupCommandHandler
	AssignDelivery             commands.AssignDeliveryCommandHandler
	RecordDeliveryAttempt      commands.RecordDeliveryAttemptCommandHandler
	RetryDelivery              commands.RetryDeliveryCommandHandler
	MarkDelivered              commands.MarkDeliveredCommandHandler
	RequestReturn              commands.RequestReturnCommandHandler
	ApproveReturn              commands.ApproveReturnCommandHandler
	RejectReturn               commands.RejectReturnCommandHandler
	ScheduleReturnPickup       commands.ScheduleReturnPickupCommandHandler
	MarkReturnInTransit        commands.MarkReturnInTransitCommandHandler
	CompleteReturn             commands.CompleteReturnCommandHandler
	InitiateRefund             commands.InitiateRefundCommandHandler
	CompleteRefund             commands.CompleteRefundCommandHandler
	ContactCustomer            commands.ContactCustomerCommandHandler
	UpdateDeliveryInstructions commands.UpdateDeliveryInstructionsCommandHandler

	GetOrder        queries.GetOrderQueryHandler
	GetOrderHistory queries.GetOrderHistoryQueryHandler
}

// NewServer creates a Server dispatching to the given handlers.
func NewServer(h Handlers) *Server {
	return &Server{
		createOrder:                h.CreateOrder,
		retryPayment:               h.RetryPayment,
		cancelOrder:                h.CancelOrder,
		startPreparing:             h.StartPreparing,
		putOnHold:                  h.PutOnHold,
		releaseHold:                h.ReleaseHold,
		markReadyForPickup:         h.MarkReadyForPickup,
		assignDelivery:             h.AssignDelivery,
		recordDeliveryAttempt:      h.RecordDeliveryAttempt,
		retryDelivery:              h.RetryDelivery,
		markDelivered:              h.MarkDelivered,
		requestReturn:              h.RequestReturn,
		approveReturn:              h.ApproveReturn,
		rejectReturn:               h.RejectReturn,
		scheduleReturnPickup:       h.ScheduleReturnPickup,
		markReturnInTransit:        h.MarkReturnInTransit,
		completeReturn:             h.CompleteReturn,
		initiateRefund:             h.InitiateRefund,
		completeRefund:             h.CompleteRefund,
		contactCustomer:            h.ContactCustomer,
		updateDeliveryInstructions: h.UpdateDeliveryInstructions,
		getOrder:                   h.GetOrder,
		getOrderHistory:            h.GetOrderHistory,
	}
}

// RegisterRoutes mounts all order endpoints under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.handleCreateOrder)
	api.GET("/orders/:id", s.handleGetOrder)
	api.GET("/orders/:id/history", s.handleGetOrderHistory)

	api.POST("/orders/:id/cancel", s.handleCancelOrder)
	api.POST("/orders/:id/prepare", s.handleStartPreparing)
	api.POST("/orders/:id/ready", s.handleMarkReadyForPickup)
	api.POST("/orders/:id/hold", s.handlePutOnHold)
	api.POST("/orders/:id/release", s.handleReleaseHold)

	api.POST("/orders/:id/payment/retry", s.handleRetryPayment)

	api.POST("/orders/:id/delivery/assign", s.handleAssignDelivery)
	api.POST("/orders/:id/delivery/attempts", s.handleRecordDeliveryAttempt)
	api.POST("/orders/:id/delivery/retry", s.handleRetryDelivery)
	api.POST("/orders/:id/delivery/delivered", s.handleMarkDelivered)
	api.PUT("/orders/:id/delivery/instructions", s.handleUpdateDeliveryInstructions)

	api.POST("/orders/:id/return/request", s.handleRequestReturn)
	api.POST("/orders/:id/return/approve", s.handleApproveReturn)
	api.POST("/orders/:id/return/reject", s.handleRejectReturn)
	api.POST("/orders/:id/return/pickup", s.handleScheduleReturnPickup)
	api.POST("/orders/:id/return/in-transit", s.handleMarkReturnInTransit)
	api.POST("/orders/:id/return/complete", s.handleCompleteReturn)

	api.POST("/orders/:id/refund/initiate", s.handleInitiateRefund)
	api.POST("/orders/:id/refund/complete", s.handleCompleteRefund)

	api.POST("/orders/:id/contacts", s.handleContactCustomer)

	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
}
