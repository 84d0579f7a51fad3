package pipeline

import (
	"sync"
	"time"

	"lulofoto/internal/model"
)

// Debounce holds back each path's events until it has been quiet for delay,
// so a burst of writes to one file triggers a single sync.
func Debounce(inCh <-chan model.FileEvent, delay time.Duration) <-chan model.FileEvent {
	outCh := make(chan model.FileEvent, cap(inCh))

	go func() {
		defer close(outCh)

		var mu sync.Mutex
		var wg sync.WaitGroup
		timers := make(map[string]*time.Timer)
		pending := make(map[string]model.FileEvent)

		for event := range inCh {
			mu.Lock()
			path := event.Path

			if t, ok := timers[path]; ok {
				t.Stop()
			} else {
				wg.Add(1)
			}
			pending[path] = event

			timers[path] = time.AfterFunc(delay, func() {
				defer wg.Done()

				mu.Lock()
				ev, ok := pending[path]
				delete(timers, path)
				delete(pending, path)
				mu.Unlock()

				if ok {
					outCh <- ev
				}
			})
			mu.Unlock()
		}

		// Input closed: flush whatever has not fired yet.
		mu.Lock()
		var flush []model.FileEvent
		for path, t := range timers {
			if t.Stop() {
				flush = append(flush, pending[path])
				delete(pending, path)
				wg.Done()
			}
			delete(timers, path)
		}
		mu.Unlock()

		for _, ev := range flush {
			outCh <- ev
		}
		wg.Wait()
	}()

	return outCh
}
