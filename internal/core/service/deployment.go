package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/beabot/beatoken/internal/core/domain"
	"github.com/beabot/beatoken/internal/telemetry/logger"
	"github.com/beabot/beatoken/internal/telemetry/metric"
)

// DeploymentRepository stores deployments.
type DeploymentRepository interface {
	Create(ctx context.Context, d *domain.Deployment) error
	Get(ctx context.Context, id string) (*domain.Deployment, error)

	// Update applies fn to a copy of the stored deployment and stores the
	// result atomically. An error from fn leaves the deployment unchanged.
	Update(ctx context.Context, id string, fn func(*domain.Deployment) error) (*domain.Deployment, error)

	Delete(ctx context.Context, id string) (*domain.Deployment, error)
	List(ctx context.Context, filter DeploymentFilter) ([]*domain.Deployment, error)
}

// DeploymentFilter selects deployments. Empty fields match everything.
type DeploymentFilter struct {
	AgentName   string
	Environment string // matched by normalized name
}

// DeploymentServiceConfig wires a DeploymentService.
type DeploymentServiceConfig struct {
	Logger  logger.Logger
	Metrics *metric.Registry
	Clock   func() time.Time
}

// DeploymentService rolls agents out to environments and mints the
// deployment tokens they authenticate with.
type DeploymentService struct {
	repo    DeploymentRepository
	tokens  *TokenService
	logger  logger.Logger
	metrics *metric.Registry
	clock   func() time.Time
}

// NewDeploymentService creates a deployment service. tokens may be nil, in
// which case deployments never carry a token.
func NewDeploymentService(repo DeploymentRepository, tokens *TokenService, cfg DeploymentServiceConfig) *DeploymentService {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &DeploymentService{
		repo:    repo,
		tokens:  tokens,
		logger:  log.With("component", "deployment_service"),
		metrics: cfg.Metrics,
		clock:   clock,
	}
}

// DeployRequest describes a deployment.
type DeployRequest struct {
	AgentName   string // Required, DNS label
	Environment string // Required
	Provider    string // Required, see domain.ParseProvider
	Region      string // Required

	// Domain overrides the endpoint host derived from the environment.
	Domain string

	// IssueToken mints a non-expiring deployment token for the agent.
	IssueToken bool

	Metadata map[string]string
}

// Deploy creates a deployment and drives it to active.
//
// The deployment is stored as pending first; a failure after that point
// leaves it in the failed state rather than removing it.
func (s *DeploymentService) Deploy(ctx context.Context, req *DeployRequest) (*domain.Deployment, error) {
	if req == nil {
		return nil, domain.ErrDeploymentValidation.WithDetails("request is required")
	}
	provider, err := domain.ParseProvider(req.Provider)
	if err != nil {
		return nil, err
	}

	id, err := domain.GenerateDeploymentID()
	if err != nil {
		return nil, err
	}

	now := s.clock().UTC()
	d := &domain.Deployment{
		ID:          id,
		AgentName:   req.AgentName,
		Environment: req.Environment,
		Provider:    provider,
		Region:      req.Region,
		Status:      domain.DeploymentPending,
		Endpoint:    endpoint(req),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if len(req.Metadata) > 0 {
		d.Metadata = make(map[string]string, len(req.Metadata)+1)
		for k, v := range req.Metadata {
			d.Metadata[k] = v
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	log := s.logger.WithContext(ctx).With("deployment_id", id, "agent", d.AgentName, "environment", d.Environment)
	log.Debug("deployment created", "provider", string(provider), "region", d.Region)

	if _, err := s.setStatus(ctx, id, domain.DeploymentDeploying); err != nil {
		return nil, err
	}

	var token, tokenID string
	if req.IssueToken && s.tokens != nil {
		resp, err := s.tokens.Issue(ctx, &IssueTokenRequest{
			Kind:        domain.KindDeployment,
			Environment: req.Environment,
			AgentID:     req.AgentName,
		})
		if err != nil {
			log.Error("deployment token issuance failed", "error", err)
			_, _ = s.setStatus(ctx, id, domain.DeploymentFailed)
			return nil, err
		}
		token, tokenID = resp.Token, resp.Record.ID
	}

	d, err = s.repo.Update(ctx, id, func(cur *domain.Deployment) error {
		cur.Status = domain.DeploymentActive
		cur.UpdatedAt = s.clock().UTC()
		if tokenID != "" {
			cur.TokenID = tokenID
			if cur.Metadata == nil {
				cur.Metadata = make(map[string]string, 1)
			}
			cur.Metadata[domain.MetadataToken] = token
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.Deployed(string(provider))
	log.Info("deployment active", "endpoint", d.Endpoint, "token_id", tokenID)
	return d, nil
}

func endpoint(req *DeployRequest) string {
	if host := strings.TrimSpace(req.Domain); host != "" {
		return "https://" + host
	}
	return "https://" + domain.ParseEnvironment(req.Environment).Host(req.AgentName)
}

func (s *DeploymentService) setStatus(ctx context.Context, id string, status domain.DeploymentStatus) (*domain.Deployment, error) {
	return s.repo.Update(ctx, id, func(cur *domain.Deployment) error {
		cur.Status = status
		cur.UpdatedAt = s.clock().UTC()
		return nil
	})
}

// Get returns the deployment with id.
func (s *DeploymentService) Get(ctx context.Context, id string) (*domain.Deployment, error) {
	return s.repo.Get(ctx, id)
}

// ListByAgent returns the deployments of agent, oldest first.
func (s *DeploymentService) ListByAgent(ctx context.Context, agent string) ([]*domain.Deployment, error) {
	if agent == "" {
		return []*domain.Deployment{}, nil
	}
	return s.repo.List(ctx, DeploymentFilter{AgentName: agent})
}

// ListByEnvironment returns the deployments in env, oldest first.
func (s *DeploymentService) ListByEnvironment(ctx context.Context, env string) ([]*domain.Deployment, error) {
	if env == "" {
		return []*domain.Deployment{}, nil
	}
	return s.repo.List(ctx, DeploymentFilter{Environment: env})
}

// List returns the deployments matching filter, oldest first. An empty
// filter matches every deployment.
func (s *DeploymentService) List(ctx context.Context, filter DeploymentFilter) ([]*domain.Deployment, error) {
	return s.repo.List(ctx, filter)
}

// Stop moves an active deployment to stopped. Its token stays valid until
// the deployment is deleted.
func (s *DeploymentService) Stop(ctx context.Context, id string) (*domain.Deployment, error) {
	d, err := s.repo.Update(ctx, id, func(cur *domain.Deployment) error {
		if cur.Status != domain.DeploymentActive {
			return domain.ErrDeploymentState.WithDetails("cannot stop a " + string(cur.Status) + " deployment")
		}
		cur.Status = domain.DeploymentStopped
		cur.UpdatedAt = s.clock().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithContext(ctx).Info("deployment stopped", "deployment_id", id)
	return d, nil
}

// Delete removes a deployment and revokes its token.
func (s *DeploymentService) Delete(ctx context.Context, id string) (*domain.Deployment, error) {
	d, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	if d.TokenID != "" && s.tokens != nil {
		if _, err := s.tokens.Revoke(ctx, d.TokenID); err != nil && !errors.Is(err, domain.ErrTokenNotFound) {
			return d, err
		}
	}

	s.logger.WithContext(ctx).Info("deployment deleted", "deployment_id", id, "token_id", d.TokenID)
	return d, nil
}
