package closer

import (
	"log"
	"sync"
)

var (
	closers []func() error
	mu      sync.Mutex
)

func Add(closer func() error) {
	mu.Lock()
	defer mu.Unlock()
	closers = append(closers, closer)
}

// CloseAll закрывает зарегистрированные ресурсы в обратном порядке.
// Ошибки логируются, но не прерывают остальные закрытия.
func CloseAll() {
	mu.Lock()
	defer mu.Unlock()

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			log.Printf("Failed to close resource: %v", err)
		}
	}
	closers = nil
}
