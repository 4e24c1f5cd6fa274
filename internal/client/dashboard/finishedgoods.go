package dashboard

import (
	"context"
	"strings"

	"github.com/atinyakov/shipdash/internal/authz"
	"github.com/atinyakov/shipdash/internal/client/storage"
	"github.com/atinyakov/shipdash/internal/inventory"
	"github.com/atinyakov/shipdash/internal/models"
)

var finishedGoodKeys = []string{storage.KeyFinishedGoods, storage.KeyCustomFinishedGoods}

func (s *Service) finishedGoods() ([]inventory.FinishedGood, error) {
	return loadList[inventory.FinishedGood](s, finishedGoodKeys...)
}

func (s *Service) saveFinishedGoods(fgs []inventory.FinishedGood) error {
	if fgs == nil {
		fgs = []inventory.FinishedGood{}
	}
	return s.writeAll(fgs, finishedGoodKeys...)
}

// ListFinishedGoods returns the finished goods with their resolved BOMs.
func (s *Service) ListFinishedGoods(user *models.Identity) ([]inventory.FinishedGood, error) {
	if err := s.authorize(user, authz.FinishedGoodManage); err != nil {
		return nil, err
	}
	return readList[inventory.FinishedGood](s, finishedGoodKeys...), nil
}

// AddFinishedGood validates and appends a finished good. BOM slots without a
// material or with a non-positive quantity are dropped, and line names are
// filled in from the materials collection.
func (s *Service) AddFinishedGood(ctx context.Context, user *models.Identity, fg inventory.FinishedGood) error {
	if err := s.authorize(user, authz.FinishedGoodManage); err != nil {
		return err
	}
	fg.FinishedGood = strings.TrimSpace(fg.FinishedGood)
	fg.BOM = fg.UsableLines()
	switch {
	case fg.FinishedGood == "":
		return invalid("finished good name is required")
	case !inventory.ValidType(fg.Type):
		return invalid("type must be %s or %s", inventory.TypeFront, inventory.TypeRear)
	case !inventory.ValidVehicleType(fg.VehicleType):
		return invalid("vehicle type must be %s, %s or %s", inventory.VehiclePickup, inventory.VehicleSedan, inventory.VehicleSUV)
	case len(fg.BOM) == 0:
		return invalid("at least one BOM line with a material and quantity is required")
	case len(fg.BOM) > inventory.MaxBOMLines:
		return invalid("a BOM holds at most %d lines", inventory.MaxBOMLines)
	}

	fgs, err := s.finishedGoods()
	if err != nil {
		return err
	}
	if inventory.FindFinishedGood(fgs, fg.FinishedGood) >= 0 {
		return duplicate("finished good", fg.FinishedGood)
	}

	ms := readList[inventory.Material](s, materialKeys...)
	for i, l := range fg.BOM {
		if l.Name != "" {
			continue
		}
		if j := inventory.FindMaterial(ms, l.MaterialID); j >= 0 {
			fg.BOM[i].Name = ms[j].Name
		}
	}

	if err := s.saveFinishedGoods(append(fgs, fg)); err != nil {
		return err
	}
	s.push(ctx, "add finished good")
	return nil
}

// RemoveFinishedGood deletes the finished good named name.
func (s *Service) RemoveFinishedGood(ctx context.Context, user *models.Identity, name string) error {
	if err := s.authorize(user, authz.FinishedGoodManage); err != nil {
		return err
	}
	fgs, err := s.finishedGoods()
	if err != nil {
		return err
	}
	i := inventory.FindFinishedGood(fgs, name)
	if i < 0 {
		return notFound("finished good", name)
	}
	if err := s.saveFinishedGoods(append(fgs[:i], fgs[i+1:]...)); err != nil {
		return err
	}
	s.push(ctx, "remove finished good")
	return nil
}
