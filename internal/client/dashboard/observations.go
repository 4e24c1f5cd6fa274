package dashboard

import (
	"context"
	"strings"

	"github.com/atinyakov/shipdash/internal/authz"
	"github.com/atinyakov/shipdash/internal/client/storage"
	"github.com/atinyakov/shipdash/internal/inventory"
	"github.com/atinyakov/shipdash/internal/models"
)

var observationKeys = []string{storage.KeyObservations, storage.KeyCustomObservations}

func (s *Service) observations() ([]inventory.Observation, error) {
	return loadList[inventory.Observation](s, observationKeys...)
}

// ListObservations returns the canned observations. Anyone who can capture
// lines may read them; changing them is admin-only.
func (s *Service) ListObservations(user *models.Identity) ([]inventory.Observation, error) {
	if err := s.authorize(user, authz.FedexCapture); err != nil {
		return nil, err
	}
	return readList[inventory.Observation](s, observationKeys...), nil
}

// AddObservation appends text unless an observation with the same text
// (ignoring case) exists.
func (s *Service) AddObservation(ctx context.Context, user *models.Identity, text string) error {
	if err := s.authorize(user, authz.ObservationManage); err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return invalid("observation text is required")
	}
	obs, err := s.observations()
	if err != nil {
		return err
	}
	if inventory.FindObservation(obs, text) >= 0 {
		return duplicate("observation", text)
	}
	if err := s.writeAll(append(obs, inventory.Observation{Text: text}), observationKeys...); err != nil {
		return err
	}
	s.push(ctx, "add observation")
	return nil
}

// RemoveObservation deletes the observation whose text matches.
func (s *Service) RemoveObservation(ctx context.Context, user *models.Identity, text string) error {
	if err := s.authorize(user, authz.ObservationManage); err != nil {
		return err
	}
	obs, err := s.observations()
	if err != nil {
		return err
	}
	i := inventory.FindObservation(obs, strings.TrimSpace(text))
	if i < 0 {
		return notFound("observation", text)
	}
	obs = append(obs[:i], obs[i+1:]...)
	if obs == nil {
		obs = []inventory.Observation{}
	}
	if err := s.writeAll(obs, observationKeys...); err != nil {
		return err
	}
	s.push(ctx, "remove observation")
	return nil
}
