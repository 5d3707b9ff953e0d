package parlay

import (
	"errors"
	"testing"

	"github.com/pickduel/backend/internal/models"
)

func TestComputeSettlementPerfect(t *testing.T) {
	tests := []struct {
		name       string
		stake      float64
		statuses   []string
		wantPayout float64
		wantProfit float64
		wantPush   bool
	}{
		{
			name:       "3-pick all hit",
			stake:      20,
			statuses:   []string{models.PickHit, models.PickHit, models.PickHit},
			wantPayout: 100,
			wantProfit: 80,
		},
		{
			name:       "one miss pays nothing",
			stake:      20,
			statuses:   []string{models.PickHit, models.PickHit, models.PickMissed},
			wantPayout: 0,
			wantProfit: -20,
		},
		{
			name:       "void shrinks to 2-pick table",
			stake:      10,
			statuses:   []string{models.PickHit, models.PickHit, models.PickTie},
			wantPayout: 30,
			wantProfit: 20,
		},
		{
			name:       "voids below floor push",
			stake:      15,
			statuses:   []string{models.PickHit, models.PickTie, models.PickDidNotPlay},
			wantPayout: 15,
			wantPush:   true,
		},
		{
			name:       "all voided pushes",
			stake:      25,
			statuses:   []string{models.PickTie, models.PickDidNotPlay},
			wantPayout: 25,
			wantPush:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeSettlement(models.ParlayTypePerfect, tt.stake, tt.statuses)
			if err != nil {
				t.Fatalf("ComputeSettlement: %v", err)
			}
			if got.Payout != tt.wantPayout {
				t.Errorf("payout = %v, want %v", got.Payout, tt.wantPayout)
			}
			if got.Profit != tt.wantProfit {
				t.Errorf("profit = %v, want %v", got.Profit, tt.wantProfit)
			}
			if got.Push != tt.wantPush {
				t.Errorf("push = %v, want %v", got.Push, tt.wantPush)
			}
		})
	}
}

func TestComputeSettlementFlex(t *testing.T) {
	tests := []struct {
		name       string
		stake      float64
		statuses   []string
		wantPayout float64
		wantProfit float64
		wantPush   bool
	}{
		{
			name:  "5-pick with tie settles as 4-pick",
			stake: 10,
			statuses: []string{
				models.PickHit, models.PickHit, models.PickHit,
				models.PickTie, models.PickMissed,
			},
			wantPayout: 15,
			wantProfit: 5,
		},
		{
			name:  "4-pick with void settles as 3-pick",
			stake: 10,
			statuses: []string{
				models.PickHit, models.PickHit, models.PickMissed,
				models.PickDidNotPlay,
			},
			wantPayout: 12.5,
			wantProfit: 2.5,
		},
		{
			name:  "half hits pay nothing",
			stake: 10,
			statuses: []string{
				models.PickHit, models.PickHit,
				models.PickMissed, models.PickMissed,
			},
			wantPayout: 0,
			wantProfit: -10,
		},
		{
			name:  "voids below flex floor push",
			stake: 40,
			statuses: []string{
				models.PickHit, models.PickMissed,
				models.PickTie, models.PickDidNotPlay,
			},
			wantPayout: 40,
			wantPush:   true,
		},
		{
			name:  "5-pick three hits partial payout",
			stake: 10,
			statuses: []string{
				models.PickHit, models.PickHit, models.PickHit,
				models.PickMissed, models.PickMissed,
			},
			wantPayout: 4,
			wantProfit: -6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeSettlement(models.ParlayTypeFlex, tt.stake, tt.statuses)
			if err != nil {
				t.Fatalf("ComputeSettlement: %v", err)
			}
			if got.Payout != tt.wantPayout {
				t.Errorf("payout = %v, want %v", got.Payout, tt.wantPayout)
			}
			if got.Profit != tt.wantProfit {
				t.Errorf("profit = %v, want %v", got.Profit, tt.wantProfit)
			}
			if got.Push != tt.wantPush {
				t.Errorf("push = %v, want %v", got.Push, tt.wantPush)
			}
		})
	}
}

func TestComputeSettlementUnresolvedPick(t *testing.T) {
	_, err := ComputeSettlement(models.ParlayTypeFlex, 10, []string{
		models.PickHit, models.PickHit, models.PickNotResolved,
	})
	if !errors.Is(err, ErrPickUnresolved) {
		t.Errorf("want ErrPickUnresolved, got %v", err)
	}
}

// A parlay with voided picks must settle identically to one placed at the
// reduced size.
func TestComputeSettlementVoidEquivalence(t *testing.T) {
	withVoid, err := ComputeSettlement(models.ParlayTypeFlex, 10, []string{
		models.PickHit, models.PickHit, models.PickHit,
		models.PickMissed, models.PickTie,
	})
	if err != nil {
		t.Fatalf("ComputeSettlement: %v", err)
	}
	reduced, err := ComputeSettlement(models.ParlayTypeFlex, 10, []string{
		models.PickHit, models.PickHit, models.PickHit, models.PickMissed,
	})
	if err != nil {
		t.Fatalf("ComputeSettlement: %v", err)
	}
	if withVoid.Payout != reduced.Payout || withVoid.Multiplier != reduced.Multiplier {
		t.Errorf("voided settlement %+v differs from reduced %+v", withVoid, reduced)
	}
}

func TestComputeSettlementUnknownType(t *testing.T) {
	if _, err := ComputeSettlement("roundrobin", 10, []string{models.PickHit, models.PickHit, models.PickHit}); err == nil {
		t.Error("want error for unknown parlay type")
	}
}
