package metadata

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/Terence890/Nebula-Stream/models"
)

// Warm fetches the first page of every home shelf so the first browse after
// start is served from cache. It returns how many shelves failed.
func (s *Service) Warm(ctx context.Context) int {
	start := time.Now()
	var failed atomic.Int32

	var wg conc.WaitGroup
	wg.Go(func() {
		if _, err := s.Trending(ctx, models.MediaTypeAll, 1); err != nil {
			log.Printf("[metadata] warm trending: %v", err)
			failed.Add(1)
		}
	})
	for _, mediaType := range []string{models.MediaTypeMovie, models.MediaTypeTV} {
		mediaType := mediaType
		wg.Go(func() {
			if _, err := s.Popular(ctx, mediaType, 1); err != nil {
				log.Printf("[metadata] warm popular %s: %v", mediaType, err)
				failed.Add(1)
			}
		})
	}
	if r := wg.WaitAndRecover(); r != nil {
		log.Printf("[metadata] warm panicked: %v", r.Value)
		failed.Add(1)
	}

	n := int(failed.Load())
	log.Printf("[metadata] cache warm-up finished in %s (%d failed)", time.Since(start).Round(time.Millisecond), n)
	return n
}
