package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bnema/spaced/internal/domain/entity"
	"github.com/bnema/spaced/internal/domain/repository"
	"github.com/bnema/spaced/internal/logging"
)

const (
	// defaultHistoryQueueSize is the buffer size for the async history queue.
	// If the queue is full, new records are dropped with a warning.
	defaultHistoryQueueSize = 100

	// defaultHistoryFlushInterval coalesces bursts into fewer persistence writes.
	defaultHistoryFlushInterval = 100 * time.Millisecond

	// defaultHistoryDedupWindow is the window in which commits of the same URL
	// in one tab count as a single visit (redirect chains, reloads).
	defaultHistoryDedupWindow = 2 * time.Second
)

// HistoryOptions tunes the visit recorder.
type HistoryOptions struct {
	StripTrackingParams bool
	DedupWindow         time.Duration
	FlushInterval       time.Duration
	QueueSize           int
}

// DefaultHistoryOptions returns the recorder defaults.
func DefaultHistoryOptions() HistoryOptions {
	return HistoryOptions{
		StripTrackingParams: true,
		DedupWindow:         defaultHistoryDedupWindow,
		FlushInterval:       defaultHistoryFlushInterval,
		QueueSize:           defaultHistoryQueueSize,
	}
}

// visitRecord is one queued history write. visits == 0 means title-only.
type visitRecord struct {
	url    string
	title  string
	visits int
}

type pendingVisit struct {
	visits int
	title  string
}

type tabVisitState struct {
	lastRawURL       string
	lastCanonicalURL string
	lastRecordedAt   time.Time
}

// RecordHistoryUseCase records committed navigations into visit history.
// Record and UpdateTitle never block: they are called from the main loop, and
// persistence happens on a background worker.
type RecordHistoryUseCase struct {
	historyRepo repository.HistoryRepository
	opts        HistoryOptions
	now         func() time.Time

	recentMu     sync.Mutex
	recentVisits map[entity.TabID]tabVisitState

	queue     chan visitRecord
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	ctx       context.Context // base context of the worker, carries the logger
}

// NewRecordHistoryUseCase creates the recorder and starts its worker.
// Close must be called to flush pending records.
func NewRecordHistoryUseCase(ctx context.Context, historyRepo repository.HistoryRepository, opts HistoryOptions) *RecordHistoryUseCase {
	defaults := DefaultHistoryOptions()
	if opts.DedupWindow < 0 {
		opts.DedupWindow = 0
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = defaults.FlushInterval
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaults.QueueSize
	}

	uc := &RecordHistoryUseCase{
		historyRepo:  historyRepo,
		opts:         opts,
		now:          time.Now,
		recentVisits: make(map[entity.TabID]tabVisitState),
		queue:        make(chan visitRecord, opts.QueueSize),
		done:         make(chan struct{}),
		ctx:          context.WithoutCancel(ctx),
	}

	uc.wg.Add(1)
	go uc.worker()

	return uc
}

// Close shuts down the worker after draining and flushing pending records.
// Safe to call more than once.
func (uc *RecordHistoryUseCase) Close() {
	uc.closeOnce.Do(func() {
		close(uc.done)
	})
	uc.wg.Wait()
}

// Record queues a visit for a URL the tab committed.
// Only http and https pages are recorded; in-page fragment changes and
// repeats inside the dedup window are ignored.
func (uc *RecordHistoryUseCase) Record(ctx context.Context, tabID entity.TabID, rawURL string) {
	log := logging.FromContext(ctx)

	rawURL = strings.TrimSpace(rawURL)
	canonicalURL := canonicalizeURLForHistory(rawURL, uc.opts.StripTrackingParams)
	if canonicalURL == "" {
		return
	}

	now := uc.now()

	uc.recentMu.Lock()
	state := uc.recentVisits[tabID]
	skip := isHashOnlyTransition(state.lastRawURL, rawURL) ||
		(state.lastCanonicalURL == canonicalURL && now.Sub(state.lastRecordedAt) < uc.opts.DedupWindow)
	state.lastRawURL = rawURL
	if !skip {
		state.lastCanonicalURL = canonicalURL
		state.lastRecordedAt = now
	}
	uc.recentVisits[tabID] = state
	uc.recentMu.Unlock()

	if skip {
		return
	}

	uc.enqueue(ctx, visitRecord{url: canonicalURL, visits: 1})
	log.Debug().Str("url", canonicalURL).Msg("history visit queued")
}

// UpdateTitle queues a title update for an already recorded URL.
// Titles for URLs that were never recorded are dropped by the worker.
func (uc *RecordHistoryUseCase) UpdateTitle(ctx context.Context, rawURL, title string) {
	title = strings.TrimSpace(title)
	canonicalURL := canonicalizeURLForHistory(rawURL, uc.opts.StripTrackingParams)
	if canonicalURL == "" || title == "" {
		return
	}
	uc.enqueue(ctx, visitRecord{url: canonicalURL, title: title})
}

// Forget drops the dedup state kept for a closed tab.
func (uc *RecordHistoryUseCase) Forget(tabID entity.TabID) {
	uc.recentMu.Lock()
	delete(uc.recentVisits, tabID)
	uc.recentMu.Unlock()
}

func (uc *RecordHistoryUseCase) enqueue(ctx context.Context, record visitRecord) {
	select {
	case <-uc.done:
		return
	default:
	}

	select {
	case uc.queue <- record:
	default:
		logging.FromContext(ctx).Warn().Str("url", record.url).Msg("history queue full, dropping record")
	}
}

// worker drains the queue and persists records without blocking the main loop.
func (uc *RecordHistoryUseCase) worker() {
	defer uc.wg.Done()

	log := logging.FromContext(uc.ctx).With().
		Str("component", "history-worker").
		Logger()

	ticker := time.NewTicker(uc.opts.FlushInterval)
	defer ticker.Stop()

	pending := make(map[string]*pendingVisit)
	var order []string

	add := func(record visitRecord) {
		p, ok := pending[record.url]
		if !ok {
			p = &pendingVisit{}
			pending[record.url] = p
			order = append(order, record.url)
		}
		p.visits += record.visits
		if record.title != "" {
			p.title = record.title
		}
	}

	flush := func() {
		for _, historyURL := range order {
			uc.persist(uc.ctx, historyURL, *pending[historyURL])
		}
		clear(pending)
		order = order[:0]
	}

	for {
		select {
		case record := <-uc.queue:
			add(record)
		case <-ticker.C:
			flush()
		case <-uc.done:
			log.Debug().Int("remaining", len(uc.queue)).Msg("draining history queue")
			for {
				select {
				case record := <-uc.queue:
					add(record)
					continue
				default:
				}
				break
			}
			flush()
			log.Debug().Msg("history worker shutdown complete")
			return
		}
	}
}

// persist writes one coalesced record. Failures are logged and dropped.
func (uc *RecordHistoryUseCase) persist(ctx context.Context, historyURL string, visit pendingVisit) {
	log := logging.FromContext(ctx)

	if err := uc.apply(ctx, historyURL, visit); err != nil {
		log.Warn().Err(err).Str("url", historyURL).Msg("failed to persist history")
	}
}

func (uc *RecordHistoryUseCase) apply(ctx context.Context, historyURL string, visit pendingVisit) error {
	existing, err := uc.historyRepo.FindByURL(ctx, historyURL)
	if err != nil {
		return fmt.Errorf("find history entry: %w", err)
	}

	if existing == nil {
		if visit.visits == 0 {
			return nil
		}
		entry := entity.NewHistoryEntry(historyURL, visit.title)
		entry.VisitCount = int64(visit.visits)
		if err := uc.historyRepo.Save(ctx, entry); err != nil {
			return fmt.Errorf("save history entry: %w", err)
		}
		return nil
	}

	for i := 0; i < visit.visits; i++ {
		if err := uc.historyRepo.IncrementVisitCount(ctx, historyURL); err != nil {
			return fmt.Errorf("increment visit count: %w", err)
		}
	}

	if visit.title != "" && visit.title != existing.Title {
		existing.Title = visit.title
		if visit.visits > 0 {
			existing.VisitCount += int64(visit.visits)
			existing.LastVisited = uc.now()
		}
		if err := uc.historyRepo.Save(ctx, existing); err != nil {
			return fmt.Errorf("update history title: %w", err)
		}
	}
	return nil
}

func canonicalizeURLForHistory(raw string, stripTracking bool) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	parsed.Host = strings.ToLower(parsed.Host)
	if parsed.Host == "" {
		return ""
	}
	parsed.Fragment = ""
	parsed.RawFragment = ""
	parsed.Path = normalizePathForHistory(parsed.Path)
	parsed.RawPath = ""

	query := parsed.Query()
	if stripTracking {
		for key := range query {
			if isTrackingQueryParam(key) {
				query.Del(key)
			}
		}
	}
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

func normalizePathForHistory(path string) string {
	if path == "/" {
		return ""
	}
	return strings.TrimSuffix(path, "/")
}

func isTrackingQueryParam(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return false
	}
	if strings.HasPrefix(key, "utm_") {
		return true
	}
	switch key {
	case "fbclid", "gclid", "msclkid", "dclid", "yclid", "mc_cid", "mc_eid", "igshid":
		return true
	}
	return false
}

// isHashOnlyTransition reports whether current differs from previous only by fragment.
func isHashOnlyTransition(previous, current string) bool {
	if previous == "" || current == "" || previous == current {
		return false
	}

	prev, prevErr := url.Parse(previous)
	curr, currErr := url.Parse(current)
	if prevErr != nil || currErr != nil {
		return false
	}

	return strings.EqualFold(prev.Scheme, curr.Scheme) &&
		strings.EqualFold(prev.Host, curr.Host) &&
		normalizePathForHistory(prev.Path) == normalizePathForHistory(curr.Path) &&
		prev.RawQuery == curr.RawQuery &&
		prev.Fragment != curr.Fragment
}
