package cart

import (
	"context"
	"fmt"
	"strings"

	pkgerrors "github.com/GiacomoGonzales/shopifree-v2-sub002/pkg/errors"
)

// Service exposes the cart operations used by the storefront API and the
// checkout engine. All mutations load, mutate and persist the session's
// state; totals stay pure derivations over the line list.
type Service interface {
	Get(ctx context.Context, sessionID string) (*State, error)
	Add(ctx context.Context, sessionID string, product Product, extras *Extras) (*State, error)
	UpdateQuantity(ctx context.Context, sessionID, lineID string, quantity int) (*State, error)
	Remove(ctx context.Context, sessionID, lineID string) (*State, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	storeID string
	store   Store
}

// NewService builds a cart service for the configured storefront.
func NewService(storeID string, store Store) (Service, error) {
	if strings.TrimSpace(storeID) == "" {
		return nil, fmt.Errorf("store id required")
	}
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	return &service{storeID: storeID, store: store}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*State, error) {
	if err := validSession(sessionID); err != nil {
		return nil, err
	}
	return s.store.Load(ctx, s.storeID, sessionID)
}

func (s *service) Add(ctx context.Context, sessionID string, product Product, extras *Extras) (*State, error) {
	if err := validSession(sessionID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(product.ID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}

	state, err := s.store.Load(ctx, s.storeID, sessionID)
	if err != nil {
		return nil, err
	}
	state.Add(product, extras)
	if err := s.store.Save(ctx, s.storeID, sessionID, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID, lineID string, quantity int) (*State, error) {
	if err := validSession(sessionID); err != nil {
		return nil, err
	}
	state, err := s.store.Load(ctx, s.storeID, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Find(lineID) == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	state.UpdateQuantity(lineID, quantity)
	if err := s.store.Save(ctx, s.storeID, sessionID, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *service) Remove(ctx context.Context, sessionID, lineID string) (*State, error) {
	if err := validSession(sessionID); err != nil {
		return nil, err
	}
	state, err := s.store.Load(ctx, s.storeID, sessionID)
	if err != nil {
		return nil, err
	}
	if state.Find(lineID) == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	state.Remove(lineID)
	if err := s.store.Save(ctx, s.storeID, sessionID, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := validSession(sessionID); err != nil {
		return err
	}
	return s.store.Delete(ctx, s.storeID, sessionID)
}

func validSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	return nil
}
