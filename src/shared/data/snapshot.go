package data

import (
	"gorm.io/gorm"

	"github.com/lowball-game/lowball/src/lowball/types"
	"github.com/lowball-game/lowball/src/shared/game"
)

// Snapshot reads every vote and every constraint in insertion order and maps
// them into the shapes the game rules work on. The result is a plain copy;
// callers may hand it to any number of goroutines.
func Snapshot(db *gorm.DB) ([]game.Vote, []game.Constraint, error) {
	var rows []types.Vote
	if err := db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	var cons []types.TimeConstraint
	if err := db.Order("id asc").Find(&cons).Error; err != nil {
		return nil, nil, err
	}

	votes := make([]game.Vote, 0, len(rows))
	for _, r := range rows {
		votes = append(votes, game.Vote{ID: r.ID, Value: r.Value, CreatedAt: r.CreatedAt})
	}
	constraints := make([]game.Constraint, 0, len(cons))
	for _, c := range cons {
		constraints = append(constraints, game.Constraint{
			ID:      c.ID,
			StartAt: c.StartAt,
			EndAt:   c.EndAt,
			Kind:    c.Kind,
			Enabled: c.Enabled,
		})
	}
	return votes, constraints, nil
}
