package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"travel-ticketing-platform/internal/models"
	"travel-ticketing-platform/internal/repositories"

	"github.com/redis/go-redis/v9"
)

const revenueCacheTTL = 30 * time.Second

// RevenueService reads aggregates off the append-only transaction ledger.
// Aggregates are cached briefly in Redis; the cache is best-effort and every
// cache failure falls through to the database.
type RevenueService struct {
	transactions TransactionRepository
	authorizer   *Authorizer
	cache        *redis.Client
}

// NewRevenueService creates a new revenue service. cache may be nil.
func NewRevenueService(transactions TransactionRepository, authorizer *Authorizer, cache *redis.Client) *RevenueService {
	return &RevenueService{
		transactions: transactions,
		authorizer:   authorizer,
		cache:        cache,
	}
}

// Report returns revenue aggregates for the caller's scope: admins see the
// whole marketplace, vendors only revenue earned by their own tickets.
func (s *RevenueService) Report(ctx context.Context, user *models.User, filters repositories.RevenueFilters) (*models.RevenueSummary, error) {
	if err := s.authorizer.Authorize(user, ActionViewRevenue, user.ID); err != nil {
		return nil, err
	}

	// Vendors are pinned to their own revenue regardless of the filter
	// they asked for.
	if s.authorizer.ResolveRole(user) != models.RoleAdmin {
		filters.VendorID = user.ID
	}

	key := cacheKey(filters)
	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	summary, err := s.transactions.Summary(filters)
	if err != nil {
		return nil, err
	}

	byVendor, err := s.transactions.ByVendor(filters)
	if err != nil {
		return nil, err
	}
	summary.ByVendor = byVendor

	byTicket, err := s.transactions.ByTicket(filters)
	if err != nil {
		return nil, err
	}
	summary.ByTicket = byTicket

	s.toCache(ctx, key, summary)
	return summary, nil
}

func cacheKey(filters repositories.RevenueFilters) string {
	var from, to int64
	if filters.From != nil {
		from = filters.From.Unix()
	}
	if filters.To != nil {
		to = filters.To.Unix()
	}
	return fmt.Sprintf("revenue:v%d:t%d:%d:%d", filters.VendorID, filters.TicketID, from, to)
}

func (s *RevenueService) fromCache(ctx context.Context, key string) *models.RevenueSummary {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("revenue: cache read failed: %v", err)
		}
		return nil
	}
	var summary models.RevenueSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil
	}
	return &summary
}

func (s *RevenueService) toCache(ctx context.Context, key string, summary *models.RevenueSummary) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, revenueCacheTTL).Err(); err != nil {
		log.Printf("revenue: cache write failed: %v", err)
	}
}
