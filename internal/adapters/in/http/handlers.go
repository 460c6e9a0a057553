package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
)

func orderIDFromPath(c echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(c.Param("id"))
}

func (s *Server) handleCreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, err)
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return writeBadRequest(c, err)
	}

	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return writeBadRequest(c, err)
	}

	method, err := order.PaymentMethodFromString(req.PaymentMethod)
	if err != nil {
		return writeBadRequest(c, err)
	}

	items := make([]order.Item, 0, len(req.Items))

	for _, itemReq := range req.Items {
		productID, err := kernel.UUIDFromString(itemReq.ProductID)
		if err != nil {
			return writeBadRequest(c, err)
		}

		item, err := order.NewItem(productID, itemReq.Name, itemReq.Quantity, itemReq.UnitPrice)
		if err != nil {
			return writeBadRequest(c, err)
		}

		items = append(items, item)
	}

	charges := order.Charges{
		Subtotal:    req.Subtotal,
		Tax:         req.Tax,
		DeliveryFee: req.DeliveryFee,
		Discount:    req.Discount,
	}

	cmd, err := commands.NewCreateOrderCommand(orderID, req.Number, customerID, method, items, charges)
	if err != nil {
		return writeBadRequest(c, err)
	}

	aggregate, err := s.createOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, fromAggregate(aggregate))
}

func (s *Server) handleGetOrder(c echo.Context) error {
	orderID, err := orderIDFromPath(c)
	if err != nil {
		return writeBadRequest(c, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return writeBadRequest(c, err)
	}

	result, err := s.getOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	items := make([]orderItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, orderItemResponse{
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	return c.JSON(http.StatusOK, orderResponse{
		ID:                   result.ID.String(),
		Number:               result.Number,
		CustomerID:           result.CustomerID.String(),
		Status:               result.Status,
		PaymentStatus:        result.PaymentStatus,
		PaymentMethod:        result.PaymentMethod,
		Version:              result.Version,
		Total:                result.Total,
		TotalPaid:            result.TotalPaid,
		TotalRefunded:        result.TotalRefunded,
		DeliveryAttempts:     result.DeliveryAttempts,
		DeliveryInstructions: result.DeliveryInstructions,
		HoldReason:           result.HoldReason,
		ReturnReason:         result.ReturnReason,
		RefundAmount:         result.RefundAmount,
		CreatedAt:            result.CreatedAt,
		Items:                items,
	})
}

func (s *Server) handleGetOrderHistory(c echo.Context) error {
	orderID, err := orderIDFromPath(c)
	if err != nil {
		return writeBadRequest(c, err)
	}

	query, err := queries.NewGetOrderHistoryQuery(orderID)
	if err != nil {
		return writeBadRequest(c, err)
	}

	entries, err := s.getOrderHistory.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	response := make([]historyEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, historyEntryResponse{
			ActionType: entry.ActionType,
			OldValue:   entry.OldValue,
			NewValue:   entry.NewValue,
			Reason:     entry.Reason,
			Actor:      entry.Actor,
			CreatedAt:  entry.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, response)
}

func (s *Server) handleCancelOrder(c echo.Context) error {
	orderID, err := orderIDFromPath(c)
	if err != nil {
		return writeBadRequest(c, err)
	}

	var req cancelOrderRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, err)
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, req.Reason, req.Actor, req.AdminOverride, req.Version)
	if err != nil {
		return writeBadRequest(c, err)
	}

	result, err := s.cancelOrder.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

func (s *Server) handleStartPreparing(c echo.Context) error {
	orderID, err := orderIDFromPath(c)
	if err != nil {
		return writeBadRequest(c, err)
	}

	var req actorRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, err)
	}

	cmd, err := commands.NewStartPreparingCommand(orderID, req.Actor, req.Version)
	if err != nil {
		return writeBadRequest(c, err)
	}

	result, err := s.startPreparing.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

func (s *Server) handleMarkReadyForPickup(c echo.Context) error {
	orderID, err := orderIDFromPath(c)
	if err != nil {
		return writeBadRequest(c, err)
	}

	var req actorRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, err)
	}

	cmd, err := commands.NewMarkReadyForPickupCommand(orderID, req.Actor, req.Version)
	if err != nil {
		return writeBadRequest(c, err)
	}

	result, err := s.markReadyForPickup.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

func (s *Server) handlePutOnHold(c echo.Context) error {
	orderID, err := orderIDFromPath(c)
	if err != nil {
		return writeBadRequest(c, err)
	}

	var req reasonRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, err)
	}

	cmd, err := commands.NewPutOnHoldCommand(orderID, req.Reason, req.Actor, req.Version)
	if err != nil {
		return writeBadRequest(c, err)
	}

	result, err := s.putOnHold.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

func (s *Server) handleReleaseHold(c echo.Context) error {
	orderID, err := orderIDFromPath(c)
	if err != nil {
		return writeBadRequest(c, err)
	}

	var req actorRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, err)
	}

	cmd, err := commands.NewReleaseHoldCommand(orderID, req.Actor, req.Version)
	if err != nil {
		return writeBadRequest(c, err)
	}

	result, err := s.releaseHold.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

func (s *Server) handleRetryPayment(c echo.Context) error {
	orderID, err := orderIDFromPath(c)
	if err != nil {
		return writeBadRequest(c, err)
	}

	var req retryPaymentRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, err)
	}

	cmd, err := commands.NewRetryPaymentCommand(orderID, req.Actor, req.Version)
	if err != nil {
		return writeBadRequest(c, err)
	}

	result, err := s.retryPayment.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

func (s *Server) handleAssignDelivery(c echo.Context) error {
	orderID, err := orderIDFromPath(c)
	if err != nil {
		return writeBadRequest(c, err)
	}

	var req assignDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, err)
	}

	personnelID, err := kernel.UUIDFromString(req.PersonnelID)
	if err != nil {
		return writeBadRequest(c, err)
	}

	cmd, err := commands.NewAssignDeliveryCommand(orderID, personnelID, req.Actor, req.Version)
	if err != nil {
		return writeBadRequest(c, err)
	}

	result, err := s.assignDelivery.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

func (s *Server) handleRecordDeliveryAttempt(c echo.Context) error {
	orderID, err := orderIDFromPath(c)
	if err != nil {
		return writeBadRequest(c, err)
	}

	var req deliveryAttemptRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, err)
	}

	cmd, err := commands.NewRecordDeliveryAttemptCommand(orderID, req.Reason, req.Notes, req.Actor, req.Version)
	if err != nil {
		return writeBadRequest(c, err)
	}

	result, err := s.recordDeliveryAttempt.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

func (s *Server) handleRetryDelivery(c echo.Context) error {
	orderID, err := orderIDFromPath(c)
	if err != nil {
		return writeBadRequest(c, err)
	}

	var req retryDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, err)
	}

	var personnelID *kernel.UUID

	if req.PersonnelID != nil {
		parsed, err := kernel.UUIDFromString(*req.PersonnelID)
		if err != nil {
			return writeBadRequest(c, err)
		}

		personnelID = &parsed
	}

	cmd, err := commands.NewRetryDeliveryCommand(orderID, req.NewTime, personnelID, req.Actor, req.Version)
	if err != nil {
		return writeBadRequest(c, err)
	}

	result, err := s.retryDelivery.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

func (s *Server) handleMarkDelivered(c echo.Context) error {
	orderID, err := orderIDFromPath(c)
	if err != nil {
		return writeBadRequest(c, err)
	}

	var req markDeliveredRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, err)
	}

	var deliveredAt time.Time
	if req.DeliveredAt != nil {
		deliveredAt = *req.DeliveredAt
	}

	cmd, err := commands.NewMarkDeliveredCommand(orderID, deliveredAt, req.Actor, req.Version)
	if err != nil {
		return writeBadRequest(c, err)
	}

	result, err := s.markDelivered.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

func (s *Server) handleUpdateDeliveryInstructions(c echo.Context) error {
	orderID, err := orderIDFromPath(c)
	if err != nil {
		return writeBadRequest(c, err)
	}

	var req deliveryInstructionsRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, err)
	}

	cmd, err := commands.NewUpdateDeliveryInstructionsCommand(orderID, req.Text, req.Actor, req.Version)
	if err != nil {
		return writeBadRequest(c, err)
	}

	result, err := s.updateDeliveryInstructions.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

func (s *Server) handleRequestReturn(c echo.Context) error {
	orderID, err := orderIDFromPath(c)
	if err != nil {
		return writeBadRequest(c, err)
	}

	var req reasonRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, err)
	}

	cmd, err := commands.NewRequestReturnCommand(orderID, req.Reason, req.Actor, req.Version)
	if err != nil {
		return writeBadRequest(c, err)
	}

	result, err := s.requestReturn.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

func (s *Server) handleApproveReturn(c echo.Context) error {
	orderID, err := orderIDFromPath(c)
	if err != nil {
		return writeBadRequest(c, err)
	}

	var req approveReturnRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, err)
	}

	cmd, err := commands.NewApproveReturnCommand(orderID, req.Notes, req.Restock, req.Actor, req.Version)
	if err != nil {
		return writeBadRequest(c, err)
	}

	result, err := s.approveReturn.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

func (s *Server) handleRejectReturn(c echo.Context) error {
	orderID, err := orderIDFromPath(c)
	if err != nil {
		return writeBadRequest(c, err)
	}

	var req reasonRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, err)
	}

	cmd, err := commands.NewRejectReturnCommand(orderID, req.Reason, req.Actor, req.Version)
	if err != nil {
		return writeBadRequest(c, err)
	}

	result, err := s.rejectReturn.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

func (s *Server) handleScheduleReturnPickup(c echo.Context) error {
	orderID, err := orderIDFromPath(c)
	if err != nil {
		return writeBadRequest(c, err)
	}

	var req scheduleReturnPickupRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, err)
	}

	cmd, err := commands.NewScheduleReturnPickupCommand(orderID, req.PickupAt, req.Actor, req.Version)
	if err != nil {
		return writeBadRequest(c, err)
	}

	result, err := s.scheduleReturnPickup.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

func (s *Server) handleMarkReturnInTransit(c echo.Context) error {
	orderID, err := orderIDFromPath(c)
	if err != nil {
		return writeBadRequest(c, err)
	}

	var req actorRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, err)
	}

	cmd, err := commands.NewMarkReturnInTransitCommand(orderID, req.Actor, req.Version)
	if err != nil {
		return writeBadRequest(c, err)
	}

	result, err := s.markReturnInTransit.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

func (s *Server) handleCompleteReturn(c echo.Context) error {
	orderID, err := orderIDFromPath(c)
	if err != nil {
		return writeBadRequest(c, err)
	}

	var req completeReturnRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, err)
	}

	cmd, err := commands.NewCompleteReturnCommand(orderID, req.Restock, req.Actor, req.Version)
	if err != nil {
		return writeBadRequest(c, err)
	}

	result, err := s.completeReturn.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

func (s *Server) handleInitiateRefund(c echo.Context) error {
	orderID, err := orderIDFromPath(c)
	if err != nil {
		return writeBadRequest(c, err)
	}

	var req initiateRefundRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, err)
	}

	cmd, err := commands.NewInitiateRefundCommand(orderID, req.Amount, req.Actor, req.Version)
	if err != nil {
		return writeBadRequest(c, err)
	}

	result, err := s.initiateRefund.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

func (s *Server) handleCompleteRefund(c echo.Context) error {
	orderID, err := orderIDFromPath(c)
	if err != nil {
		return writeBadRequest(c, err)
	}

	var req completeRefundRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, err)
	}

	cmd, err := commands.NewCompleteRefundCommand(orderID, req.Reference, req.Actor, req.Version)
	if err != nil {
		return writeBadRequest(c, err)
	}

	result, err := s.completeRefund.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

func (s *Server) handleContactCustomer(c echo.Context) error {
	orderID, err := orderIDFromPath(c)
	if err != nil {
		return writeBadRequest(c, err)
	}

	var req contactCustomerRequest
	if err := c.Bind(&req); err != nil {
		return writeBadRequest(c, err)
	}

	cmd, err := commands.NewContactCustomerCommand(orderID, req.Method, req.Message, req.Actor, req.Version)
	if err != nil {
		return writeBadRequest(c, err)
	}

	result, err := s.contactCustomer.Handle(c.Request().Context(), cmd)
	return s.respond(c, result, err)
}

// respond renders the mutated aggregate or the mapped error.
func (s *Server) respond(c echo.Context, aggregate *order.Order, err error) error {
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, fromAggregate(aggregate))
}
