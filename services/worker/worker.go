package worker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"sjsage522/classifiedcrawler/internal/crawler"
	"sjsage522/classifiedcrawler/logger"
)

// Runner executes one crawl-and-export run
type Runner interface {
	Run(ctx context.Context, req crawler.Request) (*crawler.Result, error)
}

// Outcome is delivered once per submitted request
type Outcome struct {
	Result *crawler.Result
	Err    error
}

// Worker runs crawls off the caller's goroutine so the host stays responsive
type Worker struct {
	ctx         context.Context
	runner      Runner
	logger      *logger.Logger
	environment string
	wg          sync.WaitGroup
}

// NewWorker creates a new worker
func NewWorker(
	ctx context.Context,
	runner Runner,
	log *logger.Logger,
	environment string,
) *Worker {
	if log == nil {
		log = logger.Nop()
	}
	return &Worker{
		ctx:         ctx,
		runner:      runner,
		logger:      log.ForComponent("worker"),
		environment: environment,
	}
}

// Submit starts the run in its own goroutine. The returned channel receives
// exactly one Outcome and is then closed.
func (w *Worker) Submit(req crawler.Request) <-chan Outcome {
	out := make(chan Outcome, 1)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer close(out)
		out <- w.run(req)
	}()
	return out
}

// Wait blocks until every submitted run has finished
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(req crawler.Request) Outcome {
	start := time.Now()
	res, err := w.runner.Run(w.ctx, req)
	elapsed := time.Since(start)

	if err != nil {
		w.logger.Error().Err(err).Dur("elapsed", elapsed).Msg("Crawl failed")
		return Outcome{Result: res, Err: err}
	}

	w.logger.Info().
		Dur("elapsed", elapsed).
		Int("pages", res.Pages).
		Int("records", len(res.Records)).
		Str("output", req.OutputPath).
		Msg("Crawl finished")
	w.logSample(res.Records)

	return Outcome{Result: res}
}

// logSample logs the first record outside production at debug level
func (w *Worker) logSample(records []crawler.ListingRecord) {
	if w.environment == "production" || len(records) == 0 || !w.logger.IsDebugEnabled() {
		return
	}
	data, err := json.Marshal(records[0])
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to marshal sample record")
		return
	}
	w.logger.Debug().RawJSON("record", data).Msg("First record")
}
