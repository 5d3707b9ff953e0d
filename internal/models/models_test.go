package models

import "testing"

func TestValidateParlayShape(t *testing.T) {
	tests := []struct {
		name       string
		parlayType string
		pickCount  int
		wantErr    bool
	}{
		{"perfect minimum", ParlayTypePerfect, 2, false},
		{"perfect maximum", ParlayTypePerfect, 6, false},
		{"perfect too small", ParlayTypePerfect, 1, true},
		{"flex minimum", ParlayTypeFlex, 3, false},
		{"flex maximum", ParlayTypeFlex, 6, false},
		{"flex too small", ParlayTypeFlex, 2, true},
		{"too many picks", ParlayTypePerfect, 7, true},
		{"unknown type", "teaser", 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateParlayShape(tt.parlayType, tt.pickCount)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateParlayShape(%q, %d) error = %v, wantErr %v",
					tt.parlayType, tt.pickCount, err, tt.wantErr)
			}
		})
	}
}

func TestPickVoided(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{PickTie, true},
		{PickDidNotPlay, true},
		{PickHit, false},
		{PickMissed, false},
		{PickNotResolved, false},
	}

	for _, tt := range tests {
		p := Pick{Status: tt.status}
		if got := p.Voided(); got != tt.want {
			t.Errorf("Voided(%s) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestParlayProfit(t *testing.T) {
	unresolved := Parlay{Stake: 20, Payout: 0, Resolved: false}
	if got := unresolved.Profit(); got != 0 {
		t.Errorf("unresolved profit = %v, want 0", got)
	}

	won := Parlay{Stake: 20, Payout: 100, Resolved: true}
	if got := won.Profit(); got != 80 {
		t.Errorf("won profit = %v, want 80", got)
	}

	lost := Parlay{Stake: 20, Payout: 0, Resolved: true}
	if got := lost.Profit(); got != -20 {
		t.Errorf("lost profit = %v, want -20", got)
	}
}
