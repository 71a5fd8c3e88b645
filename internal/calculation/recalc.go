package calculation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/natzcalc/filing-calculator/internal/domain"
	"github.com/natzcalc/filing-calculator/internal/store"
	"github.com/natzcalc/filing-calculator/pkg/dateutil"
	"golang.org/x/sync/errgroup"
)

const defaultRecalcWorkers = 4

// Recalculator re-runs the evaluation for stored records whose persisted
// Today no longer matches the current day, and writes the fresh outcome back.
type Recalculator struct {
	Store   store.RecordStore
	Fields  store.FieldMap
	Engine  *EligibilityEngine
	Workers int
	// Force re-evaluates records even when their stored Today is current.
	Force bool
	// Render produces the message stored alongside the outcome; nil skips it.
	Render func(*domain.EligibilityReport) string
}

// RecalcSummary reports what a run did.
type RecalcSummary struct {
	Today        dateutil.Date
	Total        int
	Recalculated int
	Skipped      int
	// Changed lists keys whose controlling description changed, sorted.
	Changed []string
}

// NewRecalculator wires a recalculator with the default field map and engine.
func NewRecalculator(s store.RecordStore) *Recalculator {
	return &Recalculator{
		Store:   s,
		Fields:  store.DefaultFieldMap(),
		Engine:  NewEligibilityEngine(),
		Workers: defaultRecalcWorkers,
	}
}

// Run processes every record in the store. A zero today uses the clock.
// The first store error cancels the remaining work and is returned.
func (r *Recalculator) Run(ctx context.Context, today dateutil.Date) (*RecalcSummary, error) {
	if today.IsZero() {
		today = Today()
	}
	engine := r.Engine
	if engine == nil {
		engine = NewEligibilityEngine()
	}

	keys, err := r.Store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	workers := r.Workers
	if workers <= 0 {
		workers = defaultRecalcWorkers
	}

	var (
		recalculated atomic.Int64
		skipped      atomic.Int64
		mu           sync.Mutex
		changed      []string
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, key := range keys {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fields, err := r.Store.Get(ctx, key)
			if err != nil {
				return fmt.Errorf("failed to read record %s: %w", key, err)
			}
			if fields == nil {
				fields = store.Fields{}
			}
			if !r.Force && fields.Lookup(r.Fields.Today) == today.String() {
				skipped.Add(1)
				return nil
			}

			previousDesc := fields.Lookup(r.Fields.ControllingDesc)
			report := engine.Evaluate(r.applicantFrom(key, fields), today)
			r.writeOutcome(fields, report)

			if err := r.Store.Put(ctx, key, fields); err != nil {
				return fmt.Errorf("failed to write record %s: %w", key, err)
			}
			recalculated.Add(1)

			if report.Result.ControllingDesc != previousDesc {
				mu.Lock()
				changed = append(changed, key)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(changed)
	summary := &RecalcSummary{
		Today:        today,
		Total:        len(keys),
		Recalculated: int(recalculated.Load()),
		Skipped:      int(skipped.Load()),
		Changed:      changed,
	}
	if engine.Logger != nil {
		engine.Logger.Infof("recalculated %d of %d records for %s (%d skipped, %d changed)",
			summary.Recalculated, summary.Total, today, summary.Skipped, len(changed))
	}
	return summary, nil
}

// applicantFrom reads the source values of a record. Unparseable dates become
// absent, and an unrecognized marital answer is kept as-is.
func (r *Recalculator) applicantFrom(key string, f store.Fields) domain.Applicant {
	raw := f.Lookup(r.Fields.MaritalStatus)
	marital, err := domain.ParseMaritalStatus(raw)
	if err != nil {
		marital = domain.MaritalStatus(raw)
	}
	return domain.Applicant{
		ID:            key,
		MaritalStatus: marital,
		Dates: domain.SourceDates{
			LPRDate:               dateutil.ParseDate(f.Lookup(r.Fields.LPRDate)),
			MarriageDate:          dateutil.ParseDate(f.Lookup(r.Fields.MarriageDate)),
			SpouseCitizenshipDate: dateutil.ParseDate(f.Lookup(r.Fields.SpouseCitizenshipDate)),
		},
	}
}

func (r *Recalculator) writeOutcome(f store.Fields, report *domain.EligibilityReport) {
	f.Set(r.Fields.Today, report.Applicant.Dates.Today.String())
	f.Set(r.Fields.ControllingFactor, string(report.Result.ControllingFactor))
	f.Set(r.Fields.ControllingDate, report.Result.ControllingDate.String())
	f.Set(r.Fields.ControllingDesc, report.Result.ControllingDesc)
	f.Set(r.Fields.Status, string(report.Result.Status))
	f.Set(r.Fields.EarliestFilingDate, report.EarliestFilingDate.String())
	if r.Render != nil {
		f.Set(r.Fields.Message, r.Render(report))
	}
}
