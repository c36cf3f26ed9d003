package checkout

import (
	"context"
	"sync"
)

// CachedLoader decorates a ScriptLoader so the underlying script is
// injected at most once per document. Remounts reuse the cached SDK
// handle, the equivalent of checking for an existing script tag before
// appending a new one. Failures are not cached; the next mount retries.
type CachedLoader struct {
	mu    sync.Mutex
	inner ScriptLoader
	sdk   SDK
}

func NewCachedLoader(inner ScriptLoader) *CachedLoader {
	return &CachedLoader{inner: inner}
}

func (l *CachedLoader) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sdk != nil
}

func (l *CachedLoader) Load(ctx context.Context, clientToken string) (SDK, error) {
	l.mu.Lock()
	if l.sdk != nil {
		sdk := l.sdk
		l.mu.Unlock()
		return sdk, nil
	}
	l.mu.Unlock()

	sdk, err := l.inner.Load(ctx, clientToken)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	if l.sdk == nil {
		l.sdk = sdk
	}
	sdk = l.sdk
	l.mu.Unlock()
	return sdk, nil
}
