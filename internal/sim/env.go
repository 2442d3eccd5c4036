package sim

import (
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Garsondee/Cocktail-Quest/internal/content"
	"github.com/Garsondee/Cocktail-Quest/internal/event"
)

// Env is the shared context handed to every simulation: the bus, the delayed
// publish scheduler, time, content, assets and randomness.
type Env struct {
	Bus    *event.Bus
	Sched  *event.Scheduler
	Clock  event.Clock
	DB     *content.Database
	Assets Assets
	Rand   *rand.Rand
	Log    logrus.FieldLogger
}

// withDefaults fills optional members. A missing bus or database is a wiring
// bug and panics.
func (e Env) withDefaults() Env {
	if e.Bus == nil || e.DB == nil {
		panic("sim: env without bus or content database")
	}
	if e.Log == nil {
		e.Log = logrus.StandardLogger()
	}
	if e.Clock == nil {
		e.Clock = event.SystemClock{}
	}
	if e.Sched == nil {
		e.Sched = event.NewScheduler(e.Clock)
	}
	if e.Assets == nil {
		e.Assets = &InstantAssets{}
	}
	if e.Rand == nil {
		e.Rand = rand.New(rand.NewSource(time.Now().UnixNano())) // #nosec G404 -- gameplay rolls
	}
	return e
}
