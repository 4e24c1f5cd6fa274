package dashboard

import (
	"context"
	"strings"

	"github.com/atinyakov/shipdash/internal/authz"
	"github.com/atinyakov/shipdash/internal/client/storage"
	"github.com/atinyakov/shipdash/internal/inventory"
	"github.com/atinyakov/shipdash/internal/models"
)

var materialKeys = []string{storage.KeyMaterialsBOM, storage.KeyMaterials}

func (s *Service) materials() ([]inventory.Material, error) {
	return loadList[inventory.Material](s, materialKeys...)
}

func (s *Service) saveMaterials(ms []inventory.Material) error {
	if ms == nil {
		ms = []inventory.Material{}
	}
	return s.writeAll(ms, materialKeys...)
}

// ListMaterials returns the materials collection.
func (s *Service) ListMaterials(user *models.Identity) ([]inventory.Material, error) {
	if err := s.authorize(user, authz.MaterialManage); err != nil {
		return nil, err
	}
	return readList[inventory.Material](s, materialKeys...), nil
}

func validateMaterial(m *inventory.Material) error {
	m.MaterialID = strings.TrimSpace(m.MaterialID)
	m.Name = strings.TrimSpace(m.Name)
	if m.MaterialID == "" || m.Name == "" {
		return invalid("material id and name are required")
	}
	if m.Stock < 0 {
		return invalid("stock must be >= 0")
	}
	return nil
}

// AddMaterial appends a new material with a unique materialId.
func (s *Service) AddMaterial(ctx context.Context, user *models.Identity, m inventory.Material) error {
	if err := s.authorize(user, authz.MaterialManage); err != nil {
		return err
	}
	if err := validateMaterial(&m); err != nil {
		return err
	}
	ms, err := s.materials()
	if err != nil {
		return err
	}
	if inventory.FindMaterial(ms, m.MaterialID) >= 0 {
		return duplicate("material", m.MaterialID)
	}
	if err := s.saveMaterials(append(ms, m)); err != nil {
		return err
	}
	s.push(ctx, "add material")
	return nil
}

// UpdateMaterial replaces the material identified by id. The id itself may
// change as long as it stays unique.
func (s *Service) UpdateMaterial(ctx context.Context, user *models.Identity, id string, m inventory.Material) error {
	if err := s.authorize(user, authz.MaterialManage); err != nil {
		return err
	}
	if err := validateMaterial(&m); err != nil {
		return err
	}
	ms, err := s.materials()
	if err != nil {
		return err
	}
	i := inventory.FindMaterial(ms, id)
	if i < 0 {
		return notFound("material", id)
	}
	if j := inventory.FindMaterial(ms, m.MaterialID); j >= 0 && j != i {
		return duplicate("material", m.MaterialID)
	}
	ms[i] = m
	if err := s.saveMaterials(ms); err != nil {
		return err
	}
	s.push(ctx, "update material")
	return nil
}

// RemoveMaterial deletes the material identified by id.
func (s *Service) RemoveMaterial(ctx context.Context, user *models.Identity, id string) error {
	if err := s.authorize(user, authz.MaterialManage); err != nil {
		return err
	}
	ms, err := s.materials()
	if err != nil {
		return err
	}
	i := inventory.FindMaterial(ms, id)
	if i < 0 {
		return notFound("material", id)
	}
	ms = append(ms[:i], ms[i+1:]...)
	if err := s.saveMaterials(ms); err != nil {
		return err
	}
	s.push(ctx, "remove material")
	return nil
}
