// Package schedule wraps the cron runner behind the one thing the pipeline
// needs: invoke a callback daily at a fixed wall-clock time in a fixed zone.
package schedule

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	appLog "fxnotify/internal/log"
)

// Trigger owns a single recurring daily entry. The underlying cron runner
// fires invocations one at a time, which keeps pipeline runs serialized.
type Trigger struct {
	c *cron.Cron
}

// NewDaily registers fn to run every day at hour:minute in loc. The trigger
// is created stopped; call Start to arm it.
func NewDaily(loc *time.Location, hour, minute int, fn func()) (*Trigger, error) {
	c := cron.New(cron.WithLocation(loc))
	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	if _, err := c.AddFunc(spec, fn); err != nil {
		return nil, err
	}
	appLog.Info("daily trigger registered",
		"at", fmt.Sprintf("%02d:%02d", hour, minute),
		"zone", loc.String(),
	)
	return &Trigger{c: c}, nil
}

// Start arms the trigger.
func (t *Trigger) Start() {
	t.c.Start()
}

// Stop disarms the trigger and waits for a running invocation to finish.
func (t *Trigger) Stop() {
	ctx := t.c.Stop()
	<-ctx.Done()
}
