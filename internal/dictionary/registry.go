package dictionary

import (
	"fmt"
	"sync"

	"github.com/cyberpython/klvprint/internal/klv"
)

var (
	regMu    sync.RWMutex
	registry = map[klv.UniversalKey]*Dictionary{}
)

// Register stores a dictionary under its universal key. Standards register
// themselves from init so lookups never race registration.
func Register(key klv.UniversalKey, dict *Dictionary) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[key] = dict
}

// Lookup returns the dictionary for a universal key.
func Lookup(key klv.UniversalKey) (*Dictionary, error) {
	regMu.RLock()
	defer regMu.RUnlock()
	if dict, ok := registry[key]; ok {
		return dict, nil
	}
	return nil, fmt.Errorf("no dictionary registered for universal key %s", key)
}
