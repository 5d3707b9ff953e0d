package parlay

import (
	"context"
	"errors"
	"testing"

	"github.com/pickduel/backend/internal/config"
	"github.com/pickduel/backend/internal/models"
)

// Shape and choice validation runs before any database work, so a nil db
// is fine here.
func TestPlaceValidation(t *testing.T) {
	e := NewEngine(nil, &config.Config{MinStakePct: 0.2}, nil)

	tests := []struct {
		name    string
		req     PlaceRequest
		wantErr error
	}{
		{
			name: "duplicate prop rejected",
			req: PlaceRequest{
				Type:  models.ParlayTypeFlex,
				Stake: 40,
				Picks: []PickRequest{
					{PropID: 1, Choice: models.ChoiceOver},
					{PropID: 2, Choice: models.ChoiceUnder},
					{PropID: 1, Choice: models.ChoiceUnder},
				},
			},
			wantErr: ErrDuplicateProp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Place(context.Background(), "user-a", 1, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Place error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	t.Run("invalid choice rejected", func(t *testing.T) {
		_, err := e.Place(context.Background(), "user-a", 1, PlaceRequest{
			Type:  models.ParlayTypeFlex,
			Stake: 40,
			Picks: []PickRequest{
				{PropID: 1, Choice: "exactly"},
				{PropID: 2, Choice: models.ChoiceOver},
				{PropID: 3, Choice: models.ChoiceUnder},
			},
		})
		if err == nil {
			t.Error("want error for invalid choice")
		}
	})

	t.Run("too few picks rejected", func(t *testing.T) {
		_, err := e.Place(context.Background(), "user-a", 1, PlaceRequest{
			Type:  models.ParlayTypeFlex,
			Stake: 40,
			Picks: []PickRequest{
				{PropID: 1, Choice: models.ChoiceOver},
				{PropID: 2, Choice: models.ChoiceUnder},
			},
		})
		if err == nil {
			t.Error("want error for a 2-pick flex")
		}
	})
}
