package internal

import (
	"sjsage522/classifiedcrawler/services/cache"
	"sjsage522/classifiedcrawler/services/publisher"
)

// Dependencies holds the optional backing services of a run.
// A nil field means the service is not configured.
type Dependencies struct {
	Cache     cache.CacheService
	Publisher publisher.Publisher
}

// Cleanup closes the services that hold connections
func (d *Dependencies) Cleanup() error {
	if d.Publisher != nil {
		return d.Publisher.Close()
	}
	return nil
}
