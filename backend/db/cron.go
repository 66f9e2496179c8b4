package db

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"
)

// Advisory locks belong to the connection that took them, so each held lock
// keeps its connection out of the pool until it is released.
var (
	lockConnsMu sync.Mutex
	lockConns   = map[int64]*sql.Conn{}
)

func InitCronTask(task string, lockedUntil, lastRun time.Time) {
	s := `INSERT INTO cron (task_name, locked_until, last_run)
	      VALUES ($1, $2, $3)
	      ON CONFLICT (task_name) DO NOTHING`
	_, _ = db.Exec(s, task, lockedUntil, lastRun)
}

func GetCronLockedUntil(task string) (time.Time, error) {
	var lockedUntil time.Time
	s := `SELECT locked_until FROM cron WHERE task_name = $1`
	err := db.QueryRow(s, task).Scan(&lockedUntil)
	return lockedUntil, err
}

// AcquireCronTaskLock takes an advisory lock so that only one instance runs a
// task at a time.
func AcquireCronTaskLock(lockID int64) (bool, error) {
	ctx := context.Background()
	conn, err := db.Conn(ctx)
	if err != nil {
		return false, err
	}

	var lockAcquired bool
	err = conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", lockID).Scan(&lockAcquired)
	if err != nil || !lockAcquired {
		_ = conn.Close()
		return false, err
	}

	lockConnsMu.Lock()
	lockConns[lockID] = conn
	lockConnsMu.Unlock()
	return true, nil
}

func UpdateCronTaskLockDetails(lockUntil, lastRun time.Time, task string) error {
	s := `UPDATE cron SET locked_until = $1, last_run = $2 WHERE task_name = $3`
	_, err := db.Exec(s, lockUntil, lastRun, task)
	return err
}

func ReleaseCronTaskLock(lockID int64) error {
	lockConnsMu.Lock()
	conn, ok := lockConns[lockID]
	delete(lockConns, lockID)
	lockConnsMu.Unlock()

	if !ok {
		return errors.New("advisory lock is not held")
	}

	defer conn.Close()
	_, err := conn.ExecContext(context.Background(), "SELECT pg_advisory_unlock($1)", lockID)
	return err
}
