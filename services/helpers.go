package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/fairwaycup/matchplay/engine"
	"github.com/fairwaycup/matchplay/models"
)

// runInTx executes fn inside a transaction, rolling back on error or
// panic and committing otherwise.
func runInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
		} else {
			if cErr := tx.Commit(); cErr != nil {
				err = fmt.Errorf("failed to commit transaction: %w", cErr)
			}
		}
	}()
	return fn(tx)
}

// groupPods folds a flat roster into named pods, ordered by pod number.
func groupPods(players []*models.Player) []models.Pod {
	byPod := make(map[string][]models.Player)
	for _, p := range players {
		byPod[p.Pod] = append(byPod[p.Pod], *p)
	}
	names := make([]string, 0, len(byPod))
	for name := range byPod {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return engine.PodLess(names[i], names[j]) })

	pods := make([]models.Pod, 0, len(names))
	for _, name := range names {
		members := byPod[name]
		sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
		pods = append(pods, models.Pod{Name: name, Players: members})
	}
	return pods
}
