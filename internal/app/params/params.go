// Package params manages key/value configuration parameters. The ledger
// reads the payment_account parameter through Lookup.
package params

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/hearth-ledger/hearth/internal/domain"
	"github.com/hearth-ledger/hearth/internal/infra/logging"
)

// Service manages parameters.
type Service struct {
	store domain.ParameterStore
	log   *zap.Logger
}

// New creates a parameter service.
func New(store domain.ParameterStore, log *zap.Logger) *Service {
	return &Service{store: store, log: logging.OrNop(log).Named("params")}
}

// Insert creates an active parameter. A duplicate name is a conflict.
func (s *Service) Insert(ctx context.Context, name, value string) (domain.Parameter, error) {
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)
	if err := domain.ValidateParameter(name, value); err != nil {
		return domain.Parameter{}, err
	}
	p, err := s.store.InsertParameter(ctx, domain.Parameter{
		ParameterName:  name,
		ParameterValue: value,
		ActiveStatus:   true,
	})
	if err != nil {
		return domain.Parameter{}, err
	}
	s.log.Info("parameter inserted", zap.String("name", name))
	return p, nil
}

// FindByName returns a parameter whether or not it is active.
func (s *Service) FindByName(ctx context.Context, name string) (domain.Parameter, error) {
	return s.store.GetParameter(ctx, strings.TrimSpace(name))
}

// Lookup returns the value of an active parameter, or a not-found error.
func (s *Service) Lookup(ctx context.Context, name string) (string, error) {
	p, err := s.store.GetParameter(ctx, name)
	if err != nil {
		return "", err
	}
	if !p.ActiveStatus {
		return "", domain.NotFoundf("parameter", "parameter %q is not active", name)
	}
	return p.ParameterValue, nil
}

// ListActive returns active parameters ordered by name.
func (s *Service) ListActive(ctx context.Context) ([]domain.Parameter, error) {
	return s.store.ListParameters(ctx, true)
}

// Update replaces a parameter's value.
func (s *Service) Update(ctx context.Context, name, value string) (domain.Parameter, error) {
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)
	if err := domain.ValidateParameter(name, value); err != nil {
		return domain.Parameter{}, err
	}
	p, err := s.store.UpdateParameter(ctx, name, value)
	if err != nil {
		return domain.Parameter{}, err
	}
	s.log.Info("parameter updated", zap.String("name", name))
	return p, nil
}

// Delete removes a parameter.
func (s *Service) Delete(ctx context.Context, name string) (domain.Parameter, error) {
	p, err := s.store.DeleteParameter(ctx, strings.TrimSpace(name))
	if err != nil {
		return domain.Parameter{}, err
	}
	s.log.Info("parameter deleted", zap.String("name", p.ParameterName))
	return p, nil
}
