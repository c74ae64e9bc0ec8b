package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookrackapp/bookrack-server/internal/domain"
	"github.com/bookrackapp/bookrack-server/internal/id"
)

var (
	// instanceKey is the singleton key for the instance record.
	instanceKey = []byte("instance:config")

	// ErrInstanceNotFound is returned when no instance record exists.
	ErrInstanceNotFound = errors.New("instance not found")
)

// GetInstance retrieves the singleton instance record.
// Returns ErrInstanceNotFound if the server has never been initialized.
func (s *Store) GetInstance(_ context.Context) (*domain.Instance, error) {
	var instance domain.Instance

	err := s.get(instanceKey, &instance)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrInstanceNotFound
		}
		return nil, fmt.Errorf("failed to get instance: %w", err)
	}

	return &instance, nil
}

// EnsureInstance returns the instance record, creating it on first boot.
func (s *Store) EnsureInstance(ctx context.Context, version string) (*domain.Instance, error) {
	found, err := s.exists(instanceKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check instance existence: %w", err)
	}

	if found {
		instance, err := s.GetInstance(ctx)
		if err != nil {
			return nil, err
		}

		// Record version upgrades across restarts.
		if instance.Version != version {
			instance.Version = version
			instance.UpdatedAt = time.Now()
			if err := s.set(instanceKey, instance); err != nil {
				return nil, fmt.Errorf("failed to update instance: %w", err)
			}
		}

		return instance, nil
	}

	instanceID, err := id.Generate("instance")
	if err != nil {
		return nil, fmt.Errorf("failed to generate instance ID: %w", err)
	}

	now := time.Now()
	instance := &domain.Instance{
		ID:        instanceID,
		Version:   version,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.set(instanceKey, instance); err != nil {
		return nil, fmt.Errorf("failed to create instance: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Instance record created", "id", instance.ID, "version", instance.Version)
	}

	return instance, nil
}
