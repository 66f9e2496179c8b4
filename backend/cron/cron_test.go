package cron

import (
	"github.com/stretchr/testify/assert"
	"satchel/backend/library"
	"testing"
	"time"
)

func TestCronString(t *testing.T) {
	spec, err := CronTask{Interval: time.Minute, IntervalAmount: 5}.getCronString()
	assert.Nil(t, err)
	assert.Equal(t, "@every 5m", spec)

	_, err = CronTask{Interval: 24 * time.Hour, IntervalAmount: 1}.getCronString()
	assert.NotNil(t, err)
}

func TestAdvisoryLockIDs(t *testing.T) {
	metadata := CronTask{Name: MetadataTask}.getAdvisoryLockID()
	assert.Equal(t, metadata, CronTask{Name: MetadataTask}.getAdvisoryLockID())
	assert.NotEqual(t, metadata, CronTask{Name: EvictionTask}.getAdvisoryLockID())
}

func TestTaskEnablement(t *testing.T) {
	called := false
	tasks := buildTasks(Deps{
		Library:   library.NewService(nil, library.Options{}),
		LimiterFn: func() { called = true },
	})

	enabled := map[string]bool{}
	for _, task := range tasks {
		enabled[task.Name] = task.Enabled

		if _, err := task.getCronString(); err != nil {
			t.Fatalf("Task '%s' has an invalid schedule: %v", task.Name, err)
		}

		if task.Name == LimiterTask {
			task.runCronTask()
		}
	}

	assert.True(t, called)
	assert.True(t, enabled[EvictionTask])
	assert.False(t, enabled[CacheGCTask])
	assert.False(t, enabled[B2AuthTask])
}
