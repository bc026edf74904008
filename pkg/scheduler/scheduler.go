package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/bloomscroll/bloomscroll/pkg/curation"
	"github.com/bloomscroll/bloomscroll/pkg/db"
	"github.com/bloomscroll/bloomscroll/pkg/domain"
	"github.com/bloomscroll/bloomscroll/pkg/ingest"
	"github.com/bloomscroll/bloomscroll/pkg/llm"
)

// Scheduler runs periodic source ingestion plus embedding and summary backfill
type Scheduler struct {
	db         Database
	connectors []ingest.Connector
	embedder   Embedder
	annotator  Annotator

	updateInterval time.Duration
	embedInterval  time.Duration
	maxWorkers     int
	batchSize      int
	llmBatchSize   int

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// Database interface for scheduler operations
type Database interface {
	CreateCard(ctx context.Context, card *domain.Card) error
	GetCardsNeedingEmbedding(ctx context.Context, limit int) ([]*domain.Card, error)
	UpdateCardEmbedding(ctx context.Context, cardID int64, embedding []float32) error
	GetCardsNeedingSummary(ctx context.Context, limit int) ([]*domain.Card, error)
	UpdateCardAnnotation(ctx context.Context, cardID int64, ann db.CardAnnotation) error
}

// Embedder turns card text into vectors
type Embedder interface {
	EnsureReady(ctx context.Context) error
	EmbedBatch(ctx context.Context, texts []string) [][]float32
}

// Annotator produces summaries and content scores via LLM
type Annotator interface {
	Annotate(ctx context.Context, cards []domain.Card) ([]llm.Annotation, error)
}

// Config holds scheduler configuration
type Config struct {
	UpdateInterval time.Duration
	EmbedInterval  time.Duration
	MaxWorkers     int
	BatchSize      int
	LLMBatchSize   int
}

// NewScheduler creates a scheduler. The annotator is optional, without it the
// summary worker never starts and feed descriptions serve as summaries.
func NewScheduler(database Database, connectors []ingest.Connector, embedder Embedder, annotator Annotator, cfg Config) *Scheduler {
	if cfg.UpdateInterval == 0 {
		cfg.UpdateInterval = time.Hour
	}
	if cfg.EmbedInterval == 0 {
		cfg.EmbedInterval = 5 * time.Minute
	}
	if cfg.MaxWorkers == 0 {
		cfg.MaxWorkers = 5
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 32
	}
	if cfg.LLMBatchSize == 0 {
		cfg.LLMBatchSize = 5
	}

	return &Scheduler{
		db:             database,
		connectors:     connectors,
		embedder:       embedder,
		annotator:      annotator,
		updateInterval: cfg.UpdateInterval,
		embedInterval:  cfg.EmbedInterval,
		maxWorkers:     cfg.MaxWorkers,
		batchSize:      cfg.BatchSize,
		llmBatchSize:   cfg.LLMBatchSize,
	}
}

// Start begins the scheduler workers
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.ingestWorker(ctx)

	s.wg.Add(1)
	go s.embeddingWorker(ctx)

	if s.annotator != nil {
		s.wg.Add(1)
		go s.summaryWorker(ctx)
	}

	lgr.Printf("[INFO] scheduler started with update interval %v, embed interval %v",
		s.updateInterval, s.embedInterval)
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// ingestWorker periodically refreshes all sources
func (s *Scheduler) ingestWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()

	// run immediately on start
	s.refreshAllSources(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshAllSources(ctx)
		}
	}
}

// refreshAllSources fetches every connector concurrently, bounded by maxWorkers
func (s *Scheduler) refreshAllSources(ctx context.Context) {
	lgr.Printf("[INFO] refreshing %d sources", len(s.connectors))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxWorkers)

	for _, connector := range s.connectors {
		g.Go(func() error {
			s.refreshSource(gctx, connector)
			return nil // a broken source never stops the others
		})
	}

	_ = g.Wait()
	lgr.Printf("[INFO] source refresh completed")
}

// refreshSource fetches one connector and stores its cards
func (s *Scheduler) refreshSource(ctx context.Context, connector ingest.Connector) {
	lgr.Printf("[DEBUG] refreshing source: %s", connector.Name())

	cards, err := connector.Fetch(ctx)
	if err != nil {
		lgr.Printf("[ERROR] source %s failed: %v", connector.Name(), err)
		return
	}

	newCount := 0
	for i := range cards {
		if err := s.db.CreateCard(ctx, &cards[i]); err != nil {
			lgr.Printf("[ERROR] failed to store card %s: %v", cards[i].GUID, err)
			continue
		}
		if cards[i].ID != 0 { // duplicates leave ID unset
			newCount++
		}
	}

	if newCount > 0 {
		lgr.Printf("[INFO] added %d new cards from source: %s", newCount, connector.Name())
	}
}

// embeddingWorker periodically embeds cards that lack a vector
func (s *Scheduler) embeddingWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.embedInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.embedPending(ctx)
		}
	}
}

// embedPending embeds one batch of cards without vectors. Zero vectors from a
// degraded provider are not stored, the cards stay pending for the next run.
func (s *Scheduler) embedPending(ctx context.Context) {
	if err := s.embedder.EnsureReady(ctx); err != nil {
		lgr.Printf("[WARN] embedding provider not ready, skipping backfill: %v", err)
		return
	}

	cards, err := s.db.GetCardsNeedingEmbedding(ctx, s.batchSize)
	if err != nil {
		lgr.Printf("[ERROR] failed to get cards needing embedding: %v", err)
		return
	}
	if len(cards) == 0 {
		return
	}

	texts := make([]string, len(cards))
	for i, card := range cards {
		texts[i] = card.EmbeddingText()
	}

	vectors := s.embedder.EmbedBatch(ctx, texts)

	embedded := 0
	for i, card := range cards {
		if curation.IsZeroVector(vectors[i]) {
			continue
		}
		if err := s.db.UpdateCardEmbedding(ctx, card.ID, vectors[i]); err != nil {
			lgr.Printf("[ERROR] failed to store embedding for card %d: %v", card.ID, err)
			continue
		}
		embedded++
	}

	lgr.Printf("[INFO] embedded %d of %d cards", embedded, len(cards))
}

// summaryWorker periodically annotates cards that lack an LLM summary
func (s *Scheduler) summaryWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.embedInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.annotatePending(ctx)
		}
	}
}

// annotatePending runs one round of LLM annotation in llmBatchSize chunks
func (s *Scheduler) annotatePending(ctx context.Context) {
	cards, err := s.db.GetCardsNeedingSummary(ctx, s.batchSize)
	if err != nil {
		lgr.Printf("[ERROR] failed to get cards needing summary: %v", err)
		return
	}
	if len(cards) == 0 {
		return
	}

	lgr.Printf("[INFO] annotating %d cards", len(cards))

	for i := 0; i < len(cards); i += s.llmBatchSize {
		end := i + s.llmBatchSize
		if end > len(cards) {
			end = len(cards)
		}
		s.annotateBatch(ctx, cards[i:end])
	}
}

// annotateBatch pushes one chunk through the LLM and stores the results
func (s *Scheduler) annotateBatch(ctx context.Context, cards []*domain.Card) {
	batch := make([]domain.Card, len(cards))
	idsByGUID := make(map[string]int64, len(cards))
	for i, card := range cards {
		batch[i] = *card
		idsByGUID[card.GUID] = card.ID
	}

	annotations, err := s.annotator.Annotate(ctx, batch)
	if err != nil {
		lgr.Printf("[ERROR] failed to annotate batch: %v", err)
		return
	}

	for _, ann := range annotations {
		cardID, ok := idsByGUID[ann.GUID]
		if !ok {
			continue
		}
		update := db.CardAnnotation{
			Summary:               ann.Summary,
			BiasScore:             ann.BiasScore,
			ConstructivenessScore: ann.ConstructivenessScore,
			BlindspotTags:         ann.BlindspotTags,
		}
		if err := s.db.UpdateCardAnnotation(ctx, cardID, update); err != nil {
			lgr.Printf("[ERROR] failed to store annotation for card %d: %v", cardID, err)
		}
	}

	lgr.Printf("[DEBUG] annotated %d cards", len(annotations))
}

// IngestNow triggers immediate ingestion for one source, or all when name is empty
func (s *Scheduler) IngestNow(ctx context.Context, name string) error {
	if name == "" {
		s.refreshAllSources(ctx)
		return nil
	}

	for _, connector := range s.connectors {
		if connector.Name() == name {
			s.refreshSource(ctx, connector)
			return nil
		}
	}
	return fmt.Errorf("unknown source %q", name)
}

// EmbedNow triggers an immediate embedding backfill round
func (s *Scheduler) EmbedNow(ctx context.Context) error {
	lgr.Printf("[INFO] triggered immediate embedding backfill")
	s.embedPending(ctx)
	return nil
}
