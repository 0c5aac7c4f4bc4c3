package crawler

// ProgressReporter is told about every completed page. It runs on the crawl
// goroutine; a returned error aborts the crawl.
type ProgressReporter interface {
	PageCompleted(page int) error
}

// ProgressFunc adapts a function to ProgressReporter
type ProgressFunc func(page int) error

// PageCompleted implements ProgressReporter
func (f ProgressFunc) PageCompleted(page int) error {
	return f(page)
}
