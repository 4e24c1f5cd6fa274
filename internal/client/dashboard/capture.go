package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/shipdash/internal/authz"
	"github.com/atinyakov/shipdash/internal/client/storage"
	"github.com/atinyakov/shipdash/internal/inventory"
	"github.com/atinyakov/shipdash/internal/models"
	"github.com/atinyakov/shipdash/internal/shipping"
)

// LineInput is what the operator enters for one Fedex line.
type LineInput struct {
	// Order is the invoice number, usually taken from ExtractInvoice.
	Order          string
	FinishedGood   string
	Observation    string
	TrackingNumber string
	ShippingDate   string
}

func (s *Service) entries() ([]shipping.Entry, error) {
	return loadList[shipping.Entry](s, storage.KeyEntries)
}

func (s *Service) saveEntries(es []shipping.Entry) error {
	if es == nil {
		es = []shipping.Entry{}
	}
	return storage.Set(s.store, storage.KeyEntries, es)
}

// ListLines returns the captured Fedex lines.
func (s *Service) ListLines(user *models.Identity) ([]shipping.Entry, error) {
	if err := s.authorize(user, authz.FedexCapture); err != nil {
		return nil, err
	}
	return readList[shipping.Entry](s, storage.KeyEntries), nil
}

// ExtractInvoice pulls the invoice number out of a scanned label.
func (s *Service) ExtractInvoice(scan string) string {
	return shipping.ExtractInvoice(scan)
}

// AddLine captures a Fedex line and consumes the finished good's BOM from
// materials stock. The line and the deduction are committed together: when
// the deducted stock cannot be saved the line is discarded again.
func (s *Service) AddLine(ctx context.Context, user *models.Identity, in LineInput) (shipping.Entry, error) {
	if err := s.authorize(user, authz.FedexCapture); err != nil {
		return shipping.Entry{}, err
	}
	in.Order = strings.TrimSpace(in.Order)
	if in.Order == "" {
		return shipping.Entry{}, invalid("invoice is required before adding a line")
	}
	fgs := readList[inventory.FinishedGood](s, finishedGoodKeys...)
	i := inventory.FindFinishedGood(fgs, strings.TrimSpace(in.FinishedGood))
	if i < 0 {
		return shipping.Entry{}, invalid("select a valid finished good")
	}
	fg := fgs[i]

	// оба набора читаем до первой записи
	prev, err := s.entries()
	if err != nil {
		return shipping.Entry{}, err
	}
	ms, err := s.materials()
	if err != nil {
		return shipping.Entry{}, err
	}

	es := shipping.Append(prev, shipping.Entry{
		Order:              in.Order,
		FinishedGood:       fg.FinishedGood,
		FinishedGoodObject: &fg,
		Observation:        in.Observation,
		TrackingNumber:     in.TrackingNumber,
		ShippingDate:       in.ShippingDate,
		CaptureTime:        s.now().UTC().Format(time.RFC3339),
	})
	if err := s.saveEntries(es); err != nil {
		return shipping.Entry{}, err
	}

	if err := s.saveMaterials(inventory.Deduct(ms, fg.BOM)); err != nil {
		line := es[len(es)-1].LineNumber
		if rbErr := s.saveEntries(prev); rbErr != nil {
			s.log.Error("line rollback failed", zap.Int("line", line), zap.Error(rbErr))
			return shipping.Entry{}, fmt.Errorf("line %d saved but stock not deducted: %w", line, err)
		}
		// materialsBOM may already hold the deducted stock
		if rbErr := s.saveMaterials(ms); rbErr != nil {
			s.log.Error("materials rollback failed", zap.Error(rbErr))
		}
		return shipping.Entry{}, fmt.Errorf("stock not deducted, line discarded: %w", err)
	}
	s.log.Debug("stock deducted", zap.String("finishedGood", fg.FinishedGood), zap.Int("lines", len(fg.BOM)))

	s.push(ctx, "capture line")
	return es[len(es)-1], nil
}

// RemoveLine deletes line n and renumbers the remaining lines densely.
func (s *Service) RemoveLine(ctx context.Context, user *models.Identity, n int) error {
	if err := s.authorize(user, authz.FedexCapture); err != nil {
		return err
	}
	es, err := s.entries()
	if err != nil {
		return err
	}
	es, removed := shipping.Remove(es, n)
	if !removed {
		return notFound("line", strconv.Itoa(n))
	}
	if err := s.saveEntries(es); err != nil {
		return err
	}
	s.push(ctx, "remove line")
	return nil
}
