// Package spinner shows progress on stderr while AWS calls run.
package spinner

import (
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
)

var (
	mu     sync.Mutex
	loader *spinner.Spinner
)

// StartSpinner starts the CLI loading spinner with the given message.
func StartSpinner(message string) {
	mu.Lock()
	defer mu.Unlock()

	if loader != nil {
		loader.Stop()
	}
	loader = spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	loader.Color("yellow") //nolint:errcheck
	loader.Suffix = " " + message
	loader.Start()
}

// UpdateSpinner changes the message of a running spinner.
func UpdateSpinner(message string) {
	mu.Lock()
	defer mu.Unlock()

	if loader != nil {
		loader.Lock()
		loader.Suffix = " " + message
		loader.Unlock()
	}
}

// StopSpinner stops the CLI loading spinner.
func StopSpinner() {
	mu.Lock()
	defer mu.Unlock()

	if loader != nil {
		loader.Stop()
		loader = nil
	}
}
