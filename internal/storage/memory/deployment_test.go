package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/beabot/beatoken/internal/core/domain"
	"github.com/beabot/beatoken/internal/core/service"
)

func newDeployment(t *testing.T, agent, env string) *domain.Deployment {
	t.Helper()
	id, err := domain.GenerateDeploymentID()
	if err != nil {
		t.Fatalf("GenerateDeploymentID: %v", err)
	}
	return &domain.Deployment{
		ID:          id,
		AgentName:   agent,
		Environment: env,
		Provider:    domain.ProviderAWS,
		Region:      "us-east-1",
		Status:      domain.DeploymentActive,
		CreatedAt:   time.Now().UTC(),
		Metadata:    map[string]string{"k": "v"},
	}
}

func TestDeploymentStore_CRUD(t *testing.T) {
	store := NewDeploymentStore()
	ctx := context.Background()

	d := newDeployment(t, "support", "staging")
	if err := store.Create(ctx, d); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Create(ctx, d); !errors.Is(err, domain.ErrDeploymentValidation) {
		t.Fatalf("duplicate Create = %v, want ErrDeploymentValidation", err)
	}

	got, err := store.Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	got.Metadata["k"] = "changed"
	if again, _ := store.Get(ctx, d.ID); again.Metadata["k"] != "v" {
		t.Fatal("Get returned shared memory")
	}

	updated, err := store.Update(ctx, d.ID, func(d *domain.Deployment) error {
		d.Status = domain.DeploymentStopped
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != domain.DeploymentStopped {
		t.Fatalf("Status = %s, want stopped", updated.Status)
	}

	if _, err := store.Delete(ctx, d.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, d.ID); !errors.Is(err, domain.ErrDeploymentNotFound) {
		t.Fatalf("Get after Delete = %v, want ErrDeploymentNotFound", err)
	}
	if _, err := store.Delete(ctx, d.ID); !errors.Is(err, domain.ErrDeploymentNotFound) {
		t.Fatalf("second Delete = %v, want ErrDeploymentNotFound", err)
	}
}

func TestDeploymentStore_UpdateErrorKeepsValue(t *testing.T) {
	store := NewDeploymentStore()
	ctx := context.Background()

	d := newDeployment(t, "support", "staging")
	_ = store.Create(ctx, d)

	_, err := store.Update(ctx, d.ID, func(d *domain.Deployment) error {
		d.Status = domain.DeploymentFailed
		return domain.ErrDeploymentState
	})
	if !errors.Is(err, domain.ErrDeploymentState) {
		t.Fatalf("Update = %v, want ErrDeploymentState", err)
	}
	if got, _ := store.Get(ctx, d.ID); got.Status != domain.DeploymentActive {
		t.Fatalf("Status = %s, want active", got.Status)
	}

	if _, err := store.Update(ctx, "dep_missing", func(*domain.Deployment) error { return nil }); !errors.Is(err, domain.ErrDeploymentNotFound) {
		t.Fatalf("Update(missing) = %v, want ErrDeploymentNotFound", err)
	}
}

func TestDeploymentStore_List(t *testing.T) {
	store := NewDeploymentStore()
	ctx := context.Background()

	a := newDeployment(t, "support", "production")
	b := newDeployment(t, "support", "staging")
	c := newDeployment(t, "sales", "Production")
	for _, d := range []*domain.Deployment{a, b, c} {
		_ = store.Create(ctx, d)
	}

	byAgent, _ := store.List(ctx, service.DeploymentFilter{AgentName: "support"})
	if len(byAgent) != 2 || byAgent[0].ID != a.ID || byAgent[1].ID != b.ID {
		t.Fatalf("List(agent) = %d deployments", len(byAgent))
	}

	byEnv, _ := store.List(ctx, service.DeploymentFilter{Environment: "prod"})
	if len(byEnv) != 2 {
		t.Fatalf("List(env) = %d deployments, want 2", len(byEnv))
	}

	all, _ := store.List(ctx, service.DeploymentFilter{})
	if len(all) != 3 {
		t.Fatalf("List(all) = %d deployments, want 3", len(all))
	}
}
