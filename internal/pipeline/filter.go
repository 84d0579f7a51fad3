package pipeline

import (
	"lulofoto/internal/model"
)

// Filter passes through only the events whose path satisfies keep.
func Filter(inCh <-chan model.FileEvent, keep func(path string) bool) <-chan model.FileEvent {
	outCh := make(chan model.FileEvent, cap(inCh))

	go func() {
		defer close(outCh)

		for event := range inCh {
			if !keep(event.Path) {
				continue
			}
			outCh <- event
		}
	}()

	return outCh
}
