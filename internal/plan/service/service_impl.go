package service

import (
	"context"
	"sync"

	plandomain "github.com/smallbiznis/megaline/internal/plan/domain"
	"github.com/smallbiznis/megaline/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Catalog struct {
	db  *gorm.DB
	log *zap.Logger

	accountRepo repository.Repository[plandomain.Account]
	planRepo    repository.Repository[plandomain.Plan]

	mu       sync.RWMutex
	accounts map[int64]plandomain.Account
	plans    map[string]plandomain.Plan
	loaded   bool
}

type CatalogParam struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

func NewCatalog(p CatalogParam) plandomain.Catalog {
	return &Catalog{
		db:  p.DB,
		log: p.Log.Named("plan.catalog"),

		accountRepo: repository.ProvideStore[plandomain.Account](p.DB),
		planRepo:    repository.ProvideStore[plandomain.Plan](p.DB),
	}
}

// Resolve looks up the account and plan for a user. Reference data is
// loaded once and cached; the tables never change during a batch.
func (c *Catalog) Resolve(ctx context.Context, userID int64) (plandomain.Resolution, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return plandomain.Resolution{}, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	account, ok := c.accounts[userID]
	if !ok {
		return plandomain.Resolution{Fault: plandomain.ErrUnknownUser}, nil
	}

	plan, ok := c.plans[account.PlanID]
	if !ok {
		return plandomain.Resolution{Account: account, Fault: plandomain.ErrUnknownPlan}, nil
	}

	return plandomain.Resolution{Matched: true, Account: account, Plan: plan}, nil
}

func (c *Catalog) Plans(ctx context.Context) ([]plandomain.Plan, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]plandomain.Plan, 0, len(c.plans))
	for _, plan := range c.plans {
		out = append(out, plan)
	}
	return out, nil
}

func (c *Catalog) ensureLoaded(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return nil
	}

	accounts, err := c.accountRepo.Find(ctx, &plandomain.Account{})
	if err != nil {
		return err
	}
	plans, err := c.planRepo.Find(ctx, &plandomain.Plan{})
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		return plandomain.ErrNoPlans
	}

	c.accounts = make(map[int64]plandomain.Account, len(accounts))
	for _, account := range accounts {
		c.accounts[account.UserID] = *account
	}
	c.plans = make(map[string]plandomain.Plan, len(plans))
	for _, plan := range plans {
		c.plans[plan.PlanID] = *plan
	}

	c.log.Info("plan catalog loaded",
		zap.Int("accounts", len(accounts)),
		zap.Int("plans", len(plans)),
	)

	c.loaded = true
	return nil
}
