package stabilize_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/mock"
	"github.com/fwojciec/distill/stabilize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStabilizer(opts ...stabilize.Option) *stabilize.Stabilizer {
	base := []stabilize.Option{
		stabilize.WithSettleDelay(0),
		stabilize.WithRetryDelay(0),
		stabilize.WithDismissDelays(2, 0),
		stabilize.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	return stabilize.New(append(base, opts...)...)
}

func TestStabilizerSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("captures settled title and html", func(t *testing.T) {
		t.Parallel()

		var navigated, readied bool
		page := &mock.Page{
			NavigateFn: func(_ context.Context, url string, wait distill.WaitCondition, _ time.Duration) error {
				navigated = true
				assert.Equal(t, "https://example.com", url)
				assert.Equal(t, distill.WaitLoad, wait)
				return nil
			},
			WaitReadyStateFn: func(context.Context, time.Duration) error {
				readied = true
				return nil
			},
			TitleFn: func(context.Context) (string, error) { return "Example", nil },
			HTMLFn:  func(context.Context) (string, error) { return "<html><body>hi</body></html>", nil },
		}

		snap, err := newStabilizer().Snapshot(context.Background(), page, "https://example.com", distill.DefaultFetchOptions())

		require.NoError(t, err)
		assert.True(t, navigated)
		assert.True(t, readied)
		assert.Equal(t, "https://example.com", snap.URL)
		assert.Equal(t, "Example", snap.Title)
		assert.Equal(t, "<html><body>hi</body></html>", snap.HTML)
	})

	t.Run("navigation timeout recovers partial DOM", func(t *testing.T) {
		t.Parallel()

		page := &mock.Page{
			NavigateFn: func(context.Context, string, distill.WaitCondition, time.Duration) error {
				return distill.Errorf(distill.ETIMEOUT, "navigation timed out")
			},
			TitleFn: func(context.Context) (string, error) { return "Partial", nil },
			HTMLFn:  func(context.Context) (string, error) { return "<html><body>partial</body></html>", nil },
		}

		snap, err := newStabilizer().Snapshot(context.Background(), page, "https://slow.example", distill.DefaultFetchOptions())

		require.NoError(t, err)
		assert.Equal(t, "Partial", snap.Title)
		assert.Equal(t, "<html><body>partial</body></html>", snap.HTML)
	})

	t.Run("navigation timeout with empty DOM propagates the timeout", func(t *testing.T) {
		t.Parallel()

		page := &mock.Page{
			NavigateFn: func(context.Context, string, distill.WaitCondition, time.Duration) error {
				return distill.Errorf(distill.ETIMEOUT, "navigation timed out")
			},
			HTMLFn: func(context.Context) (string, error) { return "   ", nil },
		}

		_, err := newStabilizer().Snapshot(context.Background(), page, "https://slow.example", distill.DefaultFetchOptions())

		require.Error(t, err)
		assert.Equal(t, distill.ETIMEOUT, distill.ErrorCode(err))
	})

	t.Run("non-timeout navigation error aborts", func(t *testing.T) {
		t.Parallel()

		page := &mock.Page{
			NavigateFn: func(context.Context, string, distill.WaitCondition, time.Duration) error {
				return distill.Errorf(distill.EINTERNAL, "net::ERR_NAME_NOT_RESOLVED")
			},
			HTMLFn: func(context.Context) (string, error) {
				t.Fatal("capture must not run after a hard navigation failure")
				return "", nil
			},
		}

		_, err := newStabilizer().Snapshot(context.Background(), page, "https://bad.example", distill.DefaultFetchOptions())

		require.Error(t, err)
		assert.Equal(t, distill.EINTERNAL, distill.ErrorCode(err))
	})

	t.Run("retries capture when execution context was invalidated", func(t *testing.T) {
		t.Parallel()

		var calls int
		page := &mock.Page{
			HTMLFn: func(context.Context) (string, error) {
				calls++
				if calls < 3 {
					return "", distill.Errorf(distill.ECONTEXTLOST, "execution context was destroyed")
				}
				return "<html><body>after redirect</body></html>", nil
			},
		}

		snap, err := newStabilizer().Snapshot(context.Background(), page, "https://redirecting.example", distill.DefaultFetchOptions())

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, "<html><body>after redirect</body></html>", snap.HTML)
	})

	t.Run("exhausted retries return last known snapshot without error", func(t *testing.T) {
		t.Parallel()

		var calls int
		page := &mock.Page{
			HTMLFn: func(context.Context) (string, error) {
				calls++
				return "", distill.Errorf(distill.ECONTEXTLOST, "execution context was destroyed")
			},
		}

		snap, err := newStabilizer(stabilize.WithSnapshotAttempts(2)).
			Snapshot(context.Background(), page, "https://flapping.example", distill.DefaultFetchOptions())

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Empty(t, snap.HTML)
	})

	t.Run("non-retriable capture error aborts", func(t *testing.T) {
		t.Parallel()

		var calls int
		page := &mock.Page{
			TitleFn: func(context.Context) (string, error) {
				calls++
				return "", distill.Errorf(distill.EINTERNAL, "target closed")
			},
		}

		_, err := newStabilizer().Snapshot(context.Background(), page, "https://example.com", distill.DefaultFetchOptions())

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("readiness failure is not fatal", func(t *testing.T) {
		t.Parallel()

		page := &mock.Page{
			WaitReadyStateFn: func(context.Context, time.Duration) error {
				return distill.Errorf(distill.ETIMEOUT, "readyState never complete")
			},
			HTMLFn: func(context.Context) (string, error) { return "<html><body>ok</body></html>", nil },
		}

		snap, err := newStabilizer().Snapshot(context.Background(), page, "https://example.com", distill.DefaultFetchOptions())

		require.NoError(t, err)
		assert.Equal(t, "<html><body>ok</body></html>", snap.HTML)
	})

	t.Run("races a follow-up navigation when requested", func(t *testing.T) {
		t.Parallel()

		var raced bool
		page := &mock.Page{
			RaceNavigationFn: func(_ context.Context, timeout time.Duration) bool {
				raced = true
				assert.Equal(t, 5*time.Second, timeout)
				return true
			},
			HTMLFn: func(context.Context) (string, error) { return "<html></html>", nil },
		}

		opts := distill.DefaultFetchOptions()
		opts.WaitForNavigation = true
		opts.NavigationTimeout = 5 * time.Second

		_, err := newStabilizer().Snapshot(context.Background(), page, "https://example.com", opts)

		require.NoError(t, err)
		assert.True(t, raced)
	})
}

func TestStabilizerRefresh(t *testing.T) {
	t.Parallel()

	t.Run("presses cancel key a bounded number of times", func(t *testing.T) {
		t.Parallel()

		var keys []string
		page := &mock.Page{
			PressKeyFn: func(_ context.Context, key string) error {
				keys = append(keys, key)
				return nil
			},
			HTMLFn: func(context.Context) (string, error) { return "<html><body>unblocked</body></html>", nil },
		}

		html, err := newStabilizer().Refresh(context.Background(), page, "https://example.com", distill.DefaultFetchOptions())

		require.NoError(t, err)
		assert.Equal(t, []string{"Escape", "Escape"}, keys)
		assert.Equal(t, "<html><body>unblocked</body></html>", html)
	})

	t.Run("dismiss key failure stops pressing but still captures", func(t *testing.T) {
		t.Parallel()

		var presses int
		page := &mock.Page{
			PressKeyFn: func(context.Context, string) error {
				presses++
				return distill.Errorf(distill.EINTERNAL, "input not available")
			},
			HTMLFn: func(context.Context) (string, error) { return "<html><body>still here</body></html>", nil },
		}

		html, err := newStabilizer().Refresh(context.Background(), page, "https://example.com", distill.DefaultFetchOptions())

		require.NoError(t, err)
		assert.Equal(t, 1, presses)
		assert.Equal(t, "<html><body>still here</body></html>", html)
	})
}
