package memory

import (
	"context"
	"sort"

	"github.com/beabot/beatoken/internal/core/domain"
	"github.com/beabot/beatoken/internal/core/service"
	"github.com/beabot/beatoken/pkg/cmap"
)

var _ service.DeploymentRepository = (*DeploymentStore)(nil)

// DeploymentStore keeps deployments in a sharded map keyed by id.
//
// Deployments are independent of each other, so unlike Store there is no
// cross-key invariant and per-shard locking is enough.
type DeploymentStore struct {
	deployments *cmap.Map[string, *domain.Deployment]
}

// NewDeploymentStore creates an empty deployment store.
func NewDeploymentStore() *DeploymentStore {
	return &DeploymentStore{
		deployments: cmap.New[string, *domain.Deployment](),
	}
}

// Create stores a new deployment.
func (s *DeploymentStore) Create(_ context.Context, d *domain.Deployment) error {
	if !s.deployments.SetIfAbsent(d.ID, d.Clone()) {
		return domain.ErrDeploymentValidation.WithDetails("duplicate deployment id " + d.ID)
	}
	return nil
}

// Get retrieves a deployment by id.
func (s *DeploymentStore) Get(_ context.Context, id string) (*domain.Deployment, error) {
	d, ok := s.deployments.Get(id)
	if !ok {
		return nil, domain.ErrDeploymentNotFound
	}
	return d.Clone(), nil
}

// Update applies fn to the stored deployment atomically.
func (s *DeploymentStore) Update(_ context.Context, id string, fn func(*domain.Deployment) error) (*domain.Deployment, error) {
	updated, ok, err := s.deployments.Modify(id, func(cur *domain.Deployment) (*domain.Deployment, error) {
		next := cur.Clone()
		if err := fn(next); err != nil {
			return nil, err
		}
		return next, nil
	})
	if !ok {
		return nil, domain.ErrDeploymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}

// Delete removes a deployment and returns it.
func (s *DeploymentStore) Delete(_ context.Context, id string) (*domain.Deployment, error) {
	d, ok := s.deployments.Pop(id)
	if !ok {
		return nil, domain.ErrDeploymentNotFound
	}
	return d, nil
}

// List returns the deployments matching filter, oldest first.
func (s *DeploymentStore) List(_ context.Context, filter service.DeploymentFilter) ([]*domain.Deployment, error) {
	env := ""
	if filter.Environment != "" {
		env = domain.NormalizeEnvironment(filter.Environment)
	}

	var out []*domain.Deployment
	for _, d := range s.deployments.Values() {
		if filter.AgentName != "" && d.AgentName != filter.AgentName {
			continue
		}
		if env != "" && domain.NormalizeEnvironment(d.Environment) != env {
			continue
		}
		out = append(out, d.Clone())
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
