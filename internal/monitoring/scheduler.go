package monitoring

import (
	"fmt"
	"strings"

	"github.com/abhinav-rajesh/BOOKSHELF/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// DigestScheduler records the global top-rated books as a catalog.digest
// event on a cron schedule. It is read-only; the ranking reuses the
// recommendation store's query surface.
type DigestScheduler struct {
	store    services.RecommendationStore
	eventSvc services.EventServiceProvider
	cronSpec string
	cron     *cron.Cron
}

// NewDigestScheduler creates a new scheduler instance.
func NewDigestScheduler(store services.RecommendationStore, eventSvc services.EventServiceProvider, cronSpec string) *DigestScheduler {
	return &DigestScheduler{
		store:    store,
		eventSvc: eventSvc,
		cronSpec: cronSpec,
	}
}

// Run registers the digest job and starts the cron loop.
func (s *DigestScheduler) Run() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.cronSpec, s.runDigest); err != nil {
		return fmt.Errorf("invalid digest cron expression %q: %w", s.cronSpec, err)
	}
	log.Info().Str("cron", s.cronSpec).Msg("Starting catalog digest scheduler...")
	s.cron.Start()
	return nil
}

// Stop halts the scheduler. Already-running jobs finish.
func (s *DigestScheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	log.Info().Msg("Catalog digest scheduler stopped.")
}

// runDigest snapshots the global ranking and records it as an event.
func (s *DigestScheduler) runDigest() {
	top, err := s.store.RankedBooks(services.RankedBooksQuery{Limit: 5})
	if err != nil {
		log.Error().Err(err).Msg("DigestScheduler: Failed to rank catalog")
		s.eventSvc.CreateEvent("catalog.digest", "error", "Catalog digest failed: "+err.Error(), nil)
		return
	}

	var b strings.Builder
	b.WriteString("Top rated books: ")
	for i, book := range top {
		if i > 0 {
			b.WriteString("; ")
		}
		if book.AvgRating != nil {
			fmt.Fprintf(&b, "%d. %s (%.2f)", i+1, book.Title, *book.AvgRating)
		} else {
			fmt.Fprintf(&b, "%d. %s (unrated)", i+1, book.Title)
		}
	}
	if len(top) == 0 {
		b.WriteString("catalog is empty")
	}

	if err := s.eventSvc.CreateEvent("catalog.digest", "info", b.String(), nil); err != nil {
		log.Error().Err(err).Msg("DigestScheduler: Failed to record digest event")
		return
	}
	log.Info().Int("books", len(top)).Msg("Catalog digest recorded")
}
