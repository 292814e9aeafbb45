/*
scheduler.go - Automated compliance sweep

PURPOSE:
  Periodically evaluates the whole roster and logs what changed: members
  whose compliance tier moved, and certifications coming up for renewal.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Every sweep is a fresh BatchEvaluate over current store data
  - Holds only the previous sweep's tiers in memory, never progress
    values, so evaluation results are never served stale
  - Logs transitions and upcoming expirations; takes no other action

CONFIGURATION:
  - CheckInterval: How often to sweep (default: 1 hour)
  - Lookahead:     How far ahead to warn about expirations (default: 30 days)
  - Enabled:       Whether the sweeper is active (default: true)

USAGE:
  sweeper := NewComplianceSweeper(store, handler, log)
  sweeper.Start()
  // ... later
  sweeper.Stop()

SEE ALSO:
  - handlers.go: GetRosterSummary (same evaluation, on demand)
  - compliance/summary.go: Tier definitions
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/thegspiro/the-logbook-sub001/compliance"
	"github.com/thegspiro/the-logbook-sub001/logger"
	"github.com/thegspiro/the-logbook-sub001/store/sqlite"
)

// ComplianceSweeper periodically evaluates the roster and logs changes.
type ComplianceSweeper struct {
	Store         *sqlite.Store
	Handler       *Handler
	Log           *logger.Logger
	CheckInterval time.Duration
	Lookahead     int // days
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex

	// Tiers from the previous sweep, keyed by member. This is the only
	// state a sweep leaves behind.
	prevTiers map[compliance.MemberID]compliance.ComplianceTier
}

// NewComplianceSweeper creates a new sweeper.
func NewComplianceSweeper(store *sqlite.Store, handler *Handler, log *logger.Logger) *ComplianceSweeper {
	if log == nil {
		log = logger.NewNop()
	}
	return &ComplianceSweeper{
		Store:         store,
		Handler:       handler,
		Log:           log,
		CheckInterval: 1 * time.Hour,
		Lookahead:     30,
		Enabled:       true,
		stop:          make(chan bool),
		prevTiers:     make(map[compliance.MemberID]compliance.ComplianceTier),
	}
}

// Start begins the sweeper.
func (cs *ComplianceSweeper) Start() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if !cs.Enabled {
		cs.Log.Info("sweeper disabled, not starting")
		return
	}

	cs.ticker = time.NewTicker(cs.CheckInterval)
	cs.wg.Add(1)

	go cs.run()

	cs.Log.Info("sweeper started", "interval", cs.CheckInterval, "lookahead_days", cs.Lookahead)
}

// Stop stops the sweeper.
func (cs *ComplianceSweeper) Stop() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.ticker != nil {
		cs.ticker.Stop()
		close(cs.stop)
		cs.wg.Wait()
		cs.Log.Info("sweeper stopped")
	}
}

func (cs *ComplianceSweeper) run() {
	defer cs.wg.Done()

	// Run immediately on start
	cs.sweep()

	for {
		select {
		case <-cs.ticker.C:
			cs.sweep()
		case <-cs.stop:
			return
		}
	}
}

func (cs *ComplianceSweeper) sweep() {
	ctx := context.Background()
	today := compliance.Today()

	in, _, err := cs.Handler.loadBatchInput(ctx)
	if err != nil {
		cs.Log.Error("sweep failed to load roster data", "error", err)
		return
	}

	evals := compliance.BatchEvaluate(in, today)
	summary := compliance.Summarize(evals, today)

	transitions := 0
	tiers := make(map[compliance.MemberID]compliance.ComplianceTier, len(summary.Members))
	for _, member := range summary.Members {
		tiers[member.MemberID] = member.Tier
		prev, seen := cs.prevTiers[member.MemberID]
		if seen && prev != member.Tier {
			transitions++
			cs.Log.Warn("compliance tier changed",
				"member", member.MemberID,
				"from", prev,
				"to", member.Tier,
				"complete", member.Complete,
				"total", member.Total,
			)
		}
	}
	cs.prevTiers = tiers

	expiring := cs.logUpcomingExpirations(in.Requirements, evals, today)

	cs.Log.Info("sweep completed",
		"members", len(summary.Members),
		"green", summary.Green,
		"yellow", summary.Yellow,
		"red", summary.Red,
		"tier_changes", transitions,
		"expiring_soon", expiring,
	)
}

// logUpcomingExpirations warns about certifications whose renewal date falls
// within the lookahead window. Already-expired cards surface through the red
// tier; this is the early warning for the ones still valid.
func (cs *ComplianceSweeper) logUpcomingExpirations(reqs []compliance.Requirement, evals []compliance.Evaluation, today compliance.Date) int {
	biannual := make(map[compliance.RequirementID]bool, len(reqs))
	for _, req := range reqs {
		if req.Frequency == compliance.FrequencyBiannual {
			biannual[req.ID] = true
		}
	}

	count := 0
	for _, ev := range evals {
		if !biannual[ev.RequirementID] || ev.Progress.CertExpired || ev.Progress.DueDate == nil {
			continue
		}
		days := compliance.DaysBetween(today, *ev.Progress.DueDate)
		if days < 0 || days > cs.Lookahead {
			continue
		}
		count++
		cs.Log.Warn("certification expiring soon",
			"member", ev.MemberID,
			"requirement", ev.RequirementID,
			"expires", ev.Progress.DueDate.String(),
			"days_left", days,
		)
	}
	return count
}

// RunNow triggers an immediate sweep (for testing/admin).
func (cs *ComplianceSweeper) RunNow() {
	cs.sweep()
}

// GetNextRunTime returns when the next scheduled sweep will occur.
func (cs *ComplianceSweeper) GetNextRunTime() time.Time {
	return time.Now().Add(cs.CheckInterval)
}
