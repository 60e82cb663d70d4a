package service

import (
	"testing"

	"github.com/quietstorm/adserver/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRankCampaigns_PriorityAscending(t *testing.T) {
	campaigns := []models.Campaign{
		{ID: "low", Priority: 5, ImpressionBudget: 100},
		{ID: "high", Priority: 1, ImpressionBudget: 100},
		{ID: "mid", Priority: 3, ImpressionBudget: 100},
	}

	ranked := RankCampaigns(campaigns)

	assert.Equal(t, "high", ranked[0].ID)
	assert.Equal(t, "mid", ranked[1].ID)
	assert.Equal(t, "low", ranked[2].ID)
}

func TestRankCampaigns_RemainingFractionBreaksPriorityTies(t *testing.T) {
	campaigns := []models.Campaign{
		{ID: "half-spent", Priority: 2, ImpressionBudget: 100, ImpressionsServed: 50},
		{ID: "fresh", Priority: 2, ImpressionBudget: 100, ImpressionsServed: 0},
		{ID: "nearly-done", Priority: 2, ImpressionBudget: 100, ImpressionsServed: 90},
	}

	ranked := RankCampaigns(campaigns)

	assert.Equal(t, "fresh", ranked[0].ID)
	assert.Equal(t, "half-spent", ranked[1].ID)
	assert.Equal(t, "nearly-done", ranked[2].ID)
}

func TestRankCampaigns_FractionNotAbsoluteRemaining(t *testing.T) {
	// 500 of 1000 left (0.5) ranks below 8 of 10 left (0.8)
	campaigns := []models.Campaign{
		{ID: "big", Priority: 1, ImpressionBudget: 1000, ImpressionsServed: 500},
		{ID: "small", Priority: 1, ImpressionBudget: 10, ImpressionsServed: 2},
	}

	ranked := RankCampaigns(campaigns)

	assert.Equal(t, "small", ranked[0].ID)
	assert.Equal(t, "big", ranked[1].ID)
}

func TestRankCampaigns_IDIsFinalTieBreak(t *testing.T) {
	campaigns := []models.Campaign{
		{ID: "bbb", Priority: 1, ImpressionBudget: 100},
		{ID: "aaa", Priority: 1, ImpressionBudget: 100},
	}

	ranked := RankCampaigns(campaigns)

	assert.Equal(t, "aaa", ranked[0].ID)
	assert.Equal(t, "bbb", ranked[1].ID)
}

func TestRankCampaigns_Deterministic(t *testing.T) {
	campaigns := []models.Campaign{
		{ID: "c", Priority: 2, ImpressionBudget: 50, ImpressionsServed: 10},
		{ID: "a", Priority: 1, ImpressionBudget: 100},
		{ID: "b", Priority: 2, ImpressionBudget: 100, ImpressionsServed: 20},
	}

	first := RankCampaigns(campaigns)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, RankCampaigns(campaigns))
	}

	// Input order must not leak into the result
	reversed := []models.Campaign{campaigns[2], campaigns[1], campaigns[0]}
	assert.Equal(t, first, RankCampaigns(reversed))
}

func TestRankCampaigns_DoesNotMutateInput(t *testing.T) {
	campaigns := []models.Campaign{
		{ID: "z", Priority: 5},
		{ID: "a", Priority: 1},
	}

	RankCampaigns(campaigns)

	assert.Equal(t, "z", campaigns[0].ID)
	assert.Equal(t, "a", campaigns[1].ID)
}

func TestCreativeRotation_RoundRobin(t *testing.T) {
	rotation := newCreativeRotation()
	creatives := []models.Creative{
		{ID: "cr-1"},
		{ID: "cr-2"},
		{ID: "cr-3"},
	}

	var picked []string
	for i := 0; i < 6; i++ {
		picked = append(picked, rotation.next("camp-1", creatives).ID)
	}

	assert.Equal(t, []string{"cr-1", "cr-2", "cr-3", "cr-1", "cr-2", "cr-3"}, picked)
}

func TestCreativeRotation_PerCampaignCounters(t *testing.T) {
	rotation := newCreativeRotation()
	creatives := []models.Creative{{ID: "cr-1"}, {ID: "cr-2"}}

	assert.Equal(t, "cr-1", rotation.next("camp-a", creatives).ID)
	assert.Equal(t, "cr-1", rotation.next("camp-b", creatives).ID)
	assert.Equal(t, "cr-2", rotation.next("camp-a", creatives).ID)
}

func TestCreativeRotation_Empty(t *testing.T) {
	rotation := newCreativeRotation()
	assert.Nil(t, rotation.next("camp-1", nil))
	assert.Nil(t, rotation.next("camp-1", []models.Creative{}))
}
