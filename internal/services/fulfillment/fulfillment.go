// Package fulfillment implements the supplemented transfer and serial number
// state machines (SPEC_FULL.md "Supplemented features" 1-2). Unlike the
// command package these aggregates have no CAS/outbox requirement of their
// own, so events are published directly to the bus on a best-effort basis
// after the repository write commits — there is no durability guarantee
// equivalent to the ProductStock outbox for these event types.
package fulfillment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/paklog/inventory-ledger/internal/apperr"
	"github.com/paklog/inventory-ledger/internal/domain/assembly"
	"github.com/paklog/inventory-ledger/internal/domain/container"
	"github.com/paklog/inventory-ledger/internal/domain/event"
	"github.com/paklog/inventory-ledger/internal/domain/serial"
	"github.com/paklog/inventory-ledger/internal/domain/transfer"
	"github.com/paklog/inventory-ledger/internal/ports"
	"github.com/paklog/inventory-ledger/internal/services/command"
	"github.com/paklog/inventory-ledger/pkg/mlog"
)

// Service drives the transfer, serial number, and assembly order lifecycles.
type Service struct {
	transfers ports.TransferRepository
	serials   ports.SerialNumberRepository
	containers ports.ContainerRepository
	orders    ports.AssemblyOrderRepository
	cmd       *command.Service
	bus       ports.BusPublisher
	exchange  string
	prefix    string
	log       mlog.Logger
}

// New builds a fulfillment Service. cmd is used by StartAssemblyOrder to
// allocate each component against its own ProductStock aggregate.
// exchange/routingPrefix mirror the outbox publisher's own (spec §6.2: every
// event type, regardless of origin, is published under the same exchange
// namespace).
func New(transfers ports.TransferRepository, serials ports.SerialNumberRepository, containers ports.ContainerRepository, orders ports.AssemblyOrderRepository, cmd *command.Service, bus ports.BusPublisher, exchange, routingPrefix string, log mlog.Logger) *Service {
	if log == nil {
		log = mlog.NopLogger{}
	}

	return &Service{transfers: transfers, serials: serials, containers: containers, orders: orders, cmd: cmd, bus: bus, exchange: exchange, prefix: routingPrefix, log: log}
}

func (s *Service) publish(ctx context.Context, t event.Type, subject string, data any) {
	if s.bus == nil {
		return
	}

	env := event.NewEnvelope(uuid.New(), t, subject, time.Now(), data)

	body, err := json.Marshal(env)
	if err != nil {
		s.log.Warnf("fulfillment: marshal %s failed: %v", t, err)
		return
	}

	routingKey := s.prefix + "." + string(t)
	if err := s.bus.Publish(ctx, s.exchange, routingKey, body); err != nil {
		s.log.Warnf("fulfillment: publish %s failed: %v", t, err)
	}
}

// InitiateTransfer creates a new transfer in INITIATED state and persists it.
func (s *Service) InitiateTransfer(ctx context.Context, sku, fromLocation, toLocation string, plannedQuantity int64) (*transfer.Transfer, error) {
	t, err := transfer.Initiate(sku, fromLocation, toLocation, plannedQuantity)
	if err != nil {
		return nil, err
	}

	if err := s.transfers.Save(ctx, t); err != nil {
		return nil, err
	}

	s.publish(ctx, event.TypeStockTransferInitiated, t.SKU, event.StockTransferInitiatedPayload{
		TransferID:      t.ID.String(),
		SKU:             t.SKU,
		FromLocation:    t.FromLocation,
		ToLocation:      t.ToLocation,
		PlannedQuantity: t.PlannedQuantity,
	})

	return t, nil
}

// AssignContainer attaches lpn to a transfer in INITIATED state, updating the
// container's movement record to track the transfer's planned quantity and
// destination (SPEC_FULL.md supplemented feature 3: "a transfer can
// reference a container").
func (s *Service) AssignContainer(ctx context.Context, transferID, lpn string) (*transfer.Transfer, error) {
	t, err := s.loadTransfer(ctx, transferID)
	if err != nil {
		return nil, err
	}

	if t.Status != transfer.StatusInitiated {
		return nil, apperr.New(apperr.KindInvalidQuantity, "transfer %s: cannot assign container from status %s", t.ID, t.Status)
	}

	c, err := s.containers.FindByLPN(ctx, lpn)
	if err != nil {
		return nil, err
	}

	if c == nil {
		c = &container.Container{LPN: lpn}
	}

	c.CurrentSKU = &t.SKU
	c.Quantity = t.PlannedQuantity
	c.Location = t.FromLocation
	c.LastMovedAt = time.Now()

	if err := s.containers.Save(ctx, c); err != nil {
		return nil, err
	}

	t.ContainerID = &lpn

	if err := s.transfers.Save(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

// DispatchTransfer transitions a transfer INITIATED -> IN_TRANSIT.
func (s *Service) DispatchTransfer(ctx context.Context, id string) (*transfer.Transfer, error) {
	t, err := s.loadTransfer(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := t.Dispatch(); err != nil {
		return nil, err
	}

	if err := s.transfers.Save(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

// CompleteTransfer transitions a transfer IN_TRANSIT -> COMPLETED, recording
// shrinkage as planned - actual (spec §4.6).
func (s *Service) CompleteTransfer(ctx context.Context, id string, actualQuantityReceived int64) (*transfer.Transfer, error) {
	t, err := s.loadTransfer(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := t.Complete(actualQuantityReceived); err != nil {
		return nil, err
	}

	if err := s.transfers.Save(ctx, t); err != nil {
		return nil, err
	}

	s.publish(ctx, event.TypeStockTransferCompleted, t.SKU, event.StockTransferCompletedPayload{
		TransferID:             t.ID.String(),
		SKU:                    t.SKU,
		PlannedQuantity:        t.PlannedQuantity,
		ActualQuantityReceived: t.ActualQuantityReceived,
		Shrinkage:              t.Shrinkage,
	})

	return t, nil
}

// CancelTransfer transitions any non-terminal transfer to CANCELLED.
func (s *Service) CancelTransfer(ctx context.Context, id string) (*transfer.Transfer, error) {
	t, err := s.loadTransfer(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := t.Cancel(); err != nil {
		return nil, err
	}

	if err := s.transfers.Save(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) loadTransfer(ctx context.Context, id string) (*transfer.Transfer, error) {
	t, err := s.transfers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if t == nil {
		return nil, apperr.New(apperr.KindProductStockNotFound, "transfer %s not found", id)
	}

	return t, nil
}

// ReceiveSerialNumber creates a serial number in RECEIVED state.
func (s *Service) ReceiveSerialNumber(ctx context.Context, sku, number string) (*serial.SerialNumber, error) {
	sn := serial.Receive(sku, number)

	if err := s.serials.Save(ctx, &sn); err != nil {
		return nil, err
	}

	s.publish(ctx, event.TypeSerialNumberReceived, sku, event.SerialNumberEventPayload{SKU: sku, SerialNumber: number})

	return &sn, nil
}

// AllocateSerialNumber transitions RECEIVED -> ALLOCATED for orderID.
func (s *Service) AllocateSerialNumber(ctx context.Context, sku, number, orderID string) (*serial.SerialNumber, error) {
	sn, err := s.loadSerial(ctx, sku, number)
	if err != nil {
		return nil, err
	}

	if err := sn.Allocate(orderID); err != nil {
		return nil, err
	}

	if err := s.serials.Save(ctx, sn); err != nil {
		return nil, err
	}

	s.publish(ctx, event.TypeSerialNumberAllocated, sku, event.SerialNumberEventPayload{SKU: sku, SerialNumber: number, OrderID: &orderID})

	return sn, nil
}

// ShipSerialNumber transitions ALLOCATED -> SHIPPED.
func (s *Service) ShipSerialNumber(ctx context.Context, sku, number string) (*serial.SerialNumber, error) {
	sn, err := s.loadSerial(ctx, sku, number)
	if err != nil {
		return nil, err
	}

	if err := sn.Ship(); err != nil {
		return nil, err
	}

	if err := s.serials.Save(ctx, sn); err != nil {
		return nil, err
	}

	s.publish(ctx, event.TypeSerialNumberShipped, sku, event.SerialNumberEventPayload{SKU: sku, SerialNumber: number})

	return sn, nil
}

func (s *Service) loadSerial(ctx context.Context, sku, number string) (*serial.SerialNumber, error) {
	sn, err := s.serials.FindByNumber(ctx, sku, number)
	if err != nil {
		return nil, err
	}

	if sn == nil {
		return nil, apperr.New(apperr.KindProductStockNotFound, "serial number %s/%s not found", sku, number)
	}

	return sn, nil
}

// CreateAssemblyOrder creates a new assembly order in CREATED state.
func (s *Service) CreateAssemblyOrder(ctx context.Context, sku string, plannedQuantity int64, components []assembly.Component) (*assembly.Order, error) {
	o, err := assembly.New(sku, plannedQuantity, components)
	if err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

// StartAssemblyOrder allocates every component against its own ProductStock
// aggregate via the command service, then transitions CREATED -> IN_PROGRESS
// (spec §4.6 start(): "requires every component to already be allocated").
// A component allocation failure leaves the order in CREATED with whichever
// prior components succeeded marked allocated, so a retry only allocates the
// remainder.
func (s *Service) StartAssemblyOrder(ctx context.Context, id, operatorID string) (*assembly.Order, error) {
	o, err := s.loadAssemblyOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	for i := range o.Components {
		if o.Components[i].Allocated {
			continue
		}

		if _, err := s.cmd.Allocate(ctx, o.Components[i].SKU, o.Components[i].Quantity, o.ID.String(), operatorID); err != nil {
			if saveErr := s.orders.Save(ctx, o); saveErr != nil {
				s.log.Warnf("fulfillment: persist partial component allocation for order %s: %v", o.ID, saveErr)
			}

			return nil, err
		}

		o.Components[i].Allocated = true
	}

	if err := o.Start(); err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

// CompleteAssemblyOrder transitions IN_PROGRESS -> COMPLETED and receives
// actualQty of the produced SKU into AVAILABLE stock.
func (s *Service) CompleteAssemblyOrder(ctx context.Context, id, operatorID string, actualQty int64) (*assembly.Order, error) {
	o, err := s.loadAssemblyOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := o.Complete(actualQty); err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}

	if actualQty > 0 {
		if _, err := s.cmd.ReceiveStock(ctx, o.SKU, actualQty, o.ID.String(), operatorID); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// CancelAssemblyOrder transitions CREATED or IN_PROGRESS to CANCELLED.
func (s *Service) CancelAssemblyOrder(ctx context.Context, id string) (*assembly.Order, error) {
	o, err := s.loadAssemblyOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := o.Cancel(); err != nil {
		return nil, err
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}

	return o, nil
}

func (s *Service) loadAssemblyOrder(ctx context.Context, id string) (*assembly.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if o == nil {
		return nil, apperr.New(apperr.KindProductStockNotFound, "assembly order %s not found", id)
	}

	return o, nil
}
