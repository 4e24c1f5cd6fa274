package dashboard

import (
	"context"
	"strings"

	"github.com/atinyakov/shipdash/internal/authz"
	"github.com/atinyakov/shipdash/internal/client/storage"
	"github.com/atinyakov/shipdash/internal/models"
	"github.com/atinyakov/shipdash/internal/shipping"
)

// ListUSPSOrders returns the registered USPS orders.
func (s *Service) ListUSPSOrders(user *models.Identity) ([]shipping.USPSOrder, error) {
	if err := s.authorize(user, authz.USPSRegister); err != nil {
		return nil, err
	}
	return readList[shipping.USPSOrder](s, storage.KeyUSPSOrders), nil
}

// AddUSPSOrder records a USPS order and its postage balance.
func (s *Service) AddUSPSOrder(ctx context.Context, user *models.Identity, in shipping.USPSInput) (shipping.USPSOrder, error) {
	if err := s.authorize(user, authz.USPSRegister); err != nil {
		return shipping.USPSOrder{}, err
	}
	in.Invoice = strings.TrimSpace(in.Invoice)
	if in.Invoice == "" {
		return shipping.USPSOrder{}, invalid("invoice is required")
	}
	if in.Weight < 0 || in.AddedFund < 0 || in.Cost < 0 || in.ArizonaExpenditure < 0 {
		return shipping.USPSOrder{}, invalid("amounts must be >= 0")
	}

	orders, err := loadList[shipping.USPSOrder](s, storage.KeyUSPSOrders)
	if err != nil {
		return shipping.USPSOrder{}, err
	}
	order := shipping.NewUSPSOrder(in, s.now())
	if err := storage.Set(s.store, storage.KeyUSPSOrders, append(orders, order)); err != nil {
		return shipping.USPSOrder{}, err
	}
	s.push(ctx, "add usps order")
	return order, nil
}
