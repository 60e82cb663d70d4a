package service

import (
	"sort"
	"sync"

	"github.com/quietstorm/adserver/internal/models"
)

// RankCampaigns orders eligible, targeting-matched campaigns into the serve
// order: priority ascending (1 first), then remaining budget fraction
// descending so campaigns proportionally further from exhaustion are
// preferred, then campaign id ascending as the final deterministic tie-break.
// The input slice is not modified.
func RankCampaigns(campaigns []models.Campaign) []models.Campaign {
	ranked := make([]models.Campaign, len(campaigns))
	copy(ranked, campaigns)

	sort.Slice(ranked, func(i, j int) bool {
		a, b := &ranked[i], &ranked[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		af, bf := a.RemainingFraction(), b.RemainingFraction()
		if af != bf {
			return af > bf
		}
		return a.ID < b.ID
	})

	return ranked
}

// creativeRotation picks creatives round-robin within a campaign. The
// counter is in-process only; across replicas rotation is approximate,
// which is acceptable for fair creative distribution.
type creativeRotation struct {
	mu       sync.Mutex
	counters map[string]int
}

func newCreativeRotation() *creativeRotation {
	return &creativeRotation{counters: make(map[string]int)}
}

// next returns the next creative in rotation for the campaign. Creatives
// must be in the store's stable order for the rotation to be meaningful.
func (cr *creativeRotation) next(campaignID string, creatives []models.Creative) *models.Creative {
	if len(creatives) == 0 {
		return nil
	}

	cr.mu.Lock()
	idx := cr.counters[campaignID] % len(creatives)
	cr.counters[campaignID]++
	cr.mu.Unlock()

	return &creatives[idx]
}
