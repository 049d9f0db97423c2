package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/cargobooking/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.ShipmentEvent) error {
	fmt.Printf("notify shipment %s: %s (%s) at %s\n", event.RefID, event.Type, event.Status, event.Location)
	return nil
}
