package cron

import (
	"context"
	"fmt"
	"github.com/robfig/cron/v3"
	"hash/fnv"
	"satchel/backend/cache"
	"satchel/backend/config"
	"satchel/backend/db"
	"satchel/backend/library"
	"satchel/backend/logging"
	"satchel/backend/storage"
	"time"
)

const (
	MetadataTask = "metadata-refresh"
	LimiterTask  = "limiter"
	CacheGCTask  = "cache-gc"
	EvictionTask = "library-eviction"
	B2AuthTask   = "b2-auth-task"
)

// maxRefreshUsers caps how many users a single metadata pass works through
const maxRefreshUsers = 25

type CronTask struct {
	Name           string
	Interval       time.Duration
	IntervalAmount int
	Enabled        bool
	// Local tasks touch only this instance's memory and skip the shared
	// database lock.
	Local  bool
	TaskFn func()
}

// Deps are the services the background tasks operate on
type Deps struct {
	Library   *library.Service
	Cache     *cache.Cache
	Storage   storage.Backend
	LimiterFn func()
}

// buildTasks defines all background tasks:
// - a metadata task that runs pending artifacts through the pipeline
// - a limiter task that forgets idle rate limiter visitors
// - a cache task that compacts the gateway response cache
// - an eviction task that drops idle libraries from memory
// - a B2 task that refreshes the storage authorization token
func buildTasks(deps Deps) []CronTask {
	metadataConfig := config.SatchelConfig.Metadata
	return []CronTask{
		{
			Name:           MetadataTask,
			Interval:       time.Second,
			IntervalAmount: metadataConfig.RefreshInterval,
			Enabled:        metadataConfig.RefreshInterval > 0,
			TaskFn:         refreshPendingMetadata(deps.Library, metadataConfig.RefreshLimit),
		},
		{
			Name:           LimiterTask,
			Interval:       time.Second,
			IntervalAmount: 30,
			Enabled:        deps.LimiterFn != nil,
			Local:          true,
			TaskFn:         deps.LimiterFn,
		},
		{
			Name:           CacheGCTask,
			Interval:       time.Minute,
			IntervalAmount: 30,
			Enabled:        deps.Cache != nil,
			Local:          true,
			TaskFn:         deps.Cache.RunGC,
		},
		{
			Name:           EvictionTask,
			Interval:       time.Minute,
			IntervalAmount: 1,
			Enabled:        true,
			Local:          true,
			TaskFn:         evictIdleLibraries(deps.Library, config.SatchelConfig.LibraryIdleTime),
		},
		{
			Name:           B2AuthTask,
			Interval:       time.Hour,
			IntervalAmount: 3,
			Enabled:        config.SatchelConfig.StorageType == config.B2Storage && deps.Storage != nil,
			Local:          true,
			TaskFn: func() {
				deps.Storage.Reauthorize()
			},
		},
	}
}

func refreshPendingMetadata(lib *library.Service, limit int) func() {
	return func() {
		users, err := db.GetUsersWithPendingMetadata(maxRefreshUsers)
		if err != nil {
			logging.Log.Errorf("Error fetching users with pending metadata: %v", err)
			return
		}

		for _, userID := range users {
			ids, err := db.GetPendingArtifactIDs(userID, limit)
			if err != nil {
				logging.Log.Errorf("Error fetching pending artifacts for %s: %v", userID, err)
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			resp, err := lib.RefreshMetadata(ctx, userID, ids, false)
			cancel()

			if err != nil {
				logging.Log.Errorf("Error refreshing metadata for %s: %v", userID, err)
				continue
			}

			logging.Log.Infof("Refreshed metadata for %s: %d ok, %d failed, %d skipped",
				userID, len(resp.Succeeded), len(resp.Failed), len(resp.Skipped))
		}
	}
}

func evictIdleLibraries(lib *library.Service, maxIdle time.Duration) func() {
	return func() {
		if evicted := lib.EvictIdle(maxIdle); evicted > 0 {
			logging.Log.Debugf("Evicted %d idle libraries (%d still loaded)",
				evicted, lib.Loaded())
		}
	}
}

// getAdvisoryLockID returns a unique int64 value for the given cron task name
func (task CronTask) getAdvisoryLockID() int64 {
	hasher := fnv.New64a()
	_, _ = hasher.Write([]byte(task.Name))
	return int64(hasher.Sum64())
}

func (task CronTask) getCronString() (string, error) {
	var intervalChar rune
	switch task.Interval {
	case time.Second:
		intervalChar = 's'
	case time.Minute:
		intervalChar = 'm'
	case time.Hour:
		intervalChar = 'h'
	default:
		return "", fmt.Errorf("unsupported cron interval type: %s", task.Interval)
	}

	return fmt.Sprintf("@every %d%c", task.IntervalAmount, intervalChar), nil
}

func (task CronTask) isLocked() bool {
	lockedUntil, err := db.GetCronLockedUntil(task.Name)
	if err != nil {
		logging.Log.Errorf("Error checking locked_until for task '%s': %v", task.Name, err)
		return true
	}

	return lockedUntil.After(time.Now().UTC())
}

func (task CronTask) runCronTask() {
	if task.Local {
		task.TaskFn()
		return
	}

	if task.isLocked() {
		return
	}

	lockID := task.getAdvisoryLockID()
	lockDuration := task.Interval * time.Duration(task.IntervalAmount)
	lockUntil := time.Now().UTC().Add(-time.Second).Add(lockDuration)

	lockAcquired, err := db.AcquireCronTaskLock(lockID)
	if err != nil {
		logging.Log.Errorf("Error acquiring task lock: %v", err)
		return
	}

	if !lockAcquired {
		logging.Log.Debugf("'%s' task lock already acquired, skipping", task.Name)
		return
	}

	logging.Log.Debugf("CRON: Running '%s' task...", task.Name)
	task.TaskFn()

	err = db.UpdateCronTaskLockDetails(lockUntil, time.Now().UTC(), task.Name)
	if err != nil {
		logging.Log.Errorf("Error updating cron table lock time: %v", err)
	}

	if err = db.ReleaseCronTaskLock(lockID); err != nil {
		logging.Log.Errorf("Error releasing advisory lock: %v", err)
	} else {
		logging.Log.Debugf("'%s' task completed at %v", task.Name, time.Now().Format(time.RFC1123))
	}
}

// InitCronTasks schedules every enabled task and returns the running
// scheduler so that it can be stopped on shutdown.
func InitCronTasks(deps Deps) *cron.Cron {
	c := cron.New()

	for _, task := range buildTasks(deps) {
		if !task.Enabled {
			continue
		}

		if !task.Local {
			db.InitCronTask(task.Name, time.Now().UTC(), time.Now().UTC())
		}

		spec, err := task.getCronString()
		if err != nil {
			logging.Log.Errorf("Error adding cron task '%s': %v", task.Name, err)
			continue
		}

		if _, err = c.AddFunc(spec, task.runCronTask); err != nil {
			logging.Log.Errorf("Error adding cron task '%s': %v", task.Name, err)
			continue
		}

		logging.Log.Infof("Added cron task '%s' (%s)", task.Name, spec)
	}

	c.Start()
	return c
}
