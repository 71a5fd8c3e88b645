package calculation

import (
	"time"

	"github.com/natzcalc/filing-calculator/pkg/dateutil"
)

// nowFunc returns the current time (override in tests for determinism).
var nowFunc = time.Now

// SetNowFunc overrides the time provider (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }

// Today returns the current calendar day from the time provider.
func Today() dateutil.Date { return dateutil.FromTime(nowFunc()) }
