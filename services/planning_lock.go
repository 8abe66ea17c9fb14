package services

import (
	"fmt"
	"log"
)

// lockWaitSeconds bounds how long a save/finalize waits for a concurrent
// writer before reporting a conflict.
const lockWaitSeconds = 5

// acquireProjectLock serializes plan writers per project with a MySQL
// advisory lock, so computed totals always reflect the last committed
// allocation set. The returned release must run on the same connection pool
// before the request ends.
func (s *PlanningService) acquireProjectLock(projectID int) (func(), error) {
	lockName := fmt.Sprintf("project_plan_%d", projectID)

	var ok int
	if err := s.db.Raw("SELECT GET_LOCK(?, ?)", lockName, lockWaitSeconds).Scan(&ok).Error; err != nil {
		return nil, fmt.Errorf("failed to acquire plan lock for project %d: %w", projectID, err)
	}
	if ok != 1 {
		return nil, ErrPlanLocked
	}

	return func() {
		var released int
		if err := s.db.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&released).Error; err != nil {
			log.Printf("Warning: failed to release plan lock for project %d: %v", projectID, err)
		}
	}, nil
}
