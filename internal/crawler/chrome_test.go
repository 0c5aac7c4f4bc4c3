package crawler

import (
	"context"
	"errors"
	"testing"
	"time"

	"sjsage522/classifiedcrawler/logger"
	crawlerrors "sjsage522/classifiedcrawler/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChromeFetcherDefaults(t *testing.T) {
	var f *ChromeFetcher
	require.NotPanics(t, func() {
		f = NewChromeFetcher(ChromeOptions{}, nil)
	})
	assert.Equal(t, "body", f.opts.ReadySelector)
	assert.Equal(t, 10*time.Second, f.opts.Timeout)
}

func TestChromeFetcherUnreachableRemote(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	f := NewChromeFetcher(ChromeOptions{
		RemoteURL: "ws://127.0.0.1:1/devtools/browser/none",
		Timeout:   time.Second,
	}, logger.Nop())

	session, err := f.Open(ctx)
	assert.Nil(t, session)
	assert.True(t, errors.Is(err, crawlerrors.ErrNavigation))
}

func TestChromeSessionLoadError(t *testing.T) {
	var cancels int
	// A tab context without a browser behind it fails every action.
	s := &chromeSession{
		tabCtx: context.Background(),
		cancel: func() { cancels++ },
		opts:   ChromeOptions{ReadySelector: "body", Timeout: time.Second},
		log:    logger.Nop(),
	}

	doc, err := s.Load(context.Background(), "https://classifieds.test/search/")
	assert.Nil(t, doc)
	assert.True(t, errors.Is(err, crawlerrors.ErrNavigation))
	assert.Contains(t, err.Error(), "cannot load https://classifieds.test/search/")

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
	assert.Equal(t, 1, cancels)
}
