package browserfile

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bferrors "github.com/input-output-hk/catalyst-forge-libs/browserfile/errors"
	"github.com/input-output-hk/catalyst-forge-libs/browserfile/filetypes"
	"github.com/input-output-hk/catalyst-forge-libs/browserfile/internal/testutil"
)

// produce writes data to r in chunks of size and closes it with closeErr.
func produce(ctx context.Context, r *Relay, data []byte, size int, closeErr error) error {
	for off := 0; off < len(data); off += size {
		end := min(off+size, len(data))
		if err := r.Write(ctx, data[off:end]); err != nil {
			return err
		}
	}
	return r.CloseWithError(closeErr)
}

func TestNewRelay(t *testing.T) {
	r, err := NewRelay()
	require.NoError(t, err)
	assert.Equal(t, filetypes.DefaultRelayCapacity, cap(r.chunks))

	r, err = NewRelay(WithRelayCapacity(0))
	require.NoError(t, err)
	assert.Zero(t, cap(r.chunks))

	_, err = NewRelay(WithRelayCapacity(-1))
	assert.True(t, bferrors.IsInvalidInput(err))
}

func TestRelay_DeliversChunksInOrder(t *testing.T) {
	gen := testutil.NewTestDataGenerator(20)
	data := gen.Bytes(100_000)

	for _, capacity := range []int{0, 1, 8} {
		r, err := NewRelay(WithRelayCapacity(capacity))
		require.NoError(t, err)
		f, err := New(gen.Metadata("stream.bin", int64(len(data))), r)
		require.NoError(t, err)

		produced := make(chan error, 1)
		go func() {
			produced <- produce(context.Background(), r, data, 4096, nil)
		}()

		got, err := ReadAll(context.Background(), f)
		require.NoError(t, err)
		assert.Equal(t, data, got)
		require.NoError(t, <-produced)
	}
}

func TestRelay_ProducerReusesBuffer(t *testing.T) {
	r, err := NewRelay(WithRelayCapacity(4))
	require.NoError(t, err)

	chunk := []byte("aaaa")
	require.NoError(t, r.Write(context.Background(), chunk))
	copy(chunk, "bbbb")
	require.NoError(t, r.Write(context.Background(), chunk))
	require.NoError(t, r.Close())

	rc, err := r.Open(context.Background())
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "aaaabbbb", string(got))
}

func TestRelay_OneShot(t *testing.T) {
	gen := testutil.NewTestDataGenerator(21)
	r, err := NewRelay()
	require.NoError(t, err)
	require.NoError(t, r.Write(context.Background(), []byte("once")))
	require.NoError(t, r.Close())

	f, err := New(gen.Metadata("once.txt", 4), r)
	require.NoError(t, err)

	got, err := ReadAll(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, "once", string(got))

	_, err = f.OpenReadStream(context.Background())
	require.Error(t, err)
	assert.True(t, bferrors.IsAlreadyConsumed(err))
	assert.True(t, bferrors.IsIO(err))
}

func TestRelay_ConcurrentOpens(t *testing.T) {
	gen := testutil.NewTestDataGenerator(22)
	r, err := NewRelay()
	require.NoError(t, err)
	f, err := New(gen.Metadata("race.txt", 0), r)
	require.NoError(t, err)

	const openers = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		opened   int
		consumed int
	)
	for range openers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rc, err := f.OpenReadStream(context.Background())
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if bferrors.IsAlreadyConsumed(err) {
					consumed++
				}
				return
			}
			opened++
			_ = rc.Close()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, opened)
	assert.Equal(t, openers-1, consumed)
}

func TestRelay_ProducerFailure(t *testing.T) {
	gen := testutil.NewTestDataGenerator(23)
	r, err := NewRelay()
	require.NoError(t, err)
	f, err := New(gen.Metadata("broken.bin", 100), r)
	require.NoError(t, err)

	cause := errors.New("websocket: close 1006 (abnormal closure)")
	go func() {
		_ = produce(context.Background(), r, bytes.Repeat([]byte("x"), 50), 10, cause)
	}()

	rc, err := f.OpenReadStream(context.Background())
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.Error(t, err)
	assert.Len(t, got, 50, "queued chunks are delivered before the failure")
	assert.True(t, bferrors.IsTransport(err))
	assert.ErrorIs(t, err, cause)
}

func TestRelay_Overflow(t *testing.T) {
	gen := testutil.NewTestDataGenerator(24)
	r, err := NewRelay()
	require.NoError(t, err)
	f, err := New(gen.Metadata("small.txt", 1), r)
	require.NoError(t, err)

	produced := make(chan error, 1)
	go func() {
		produced <- produce(context.Background(), r, bytes.Repeat([]byte("y"), 1<<20), 8192, nil)
	}()

	got, err := ReadAll(context.Background(), f, WithMaxAllowedSize(10_000))
	require.Error(t, err)
	assert.True(t, bferrors.IsSizeExceeded(err))
	assert.Nil(t, got)

	select {
	case err := <-produced:
		assert.True(t, bferrors.IsUnavailable(err), "producer learns the consumer is gone")
	case <-time.After(5 * time.Second):
		t.Fatal("producer stayed blocked after the consumer released the stream")
	}
}

func TestRelay_CancelUnblocksConsumer(t *testing.T) {
	gen := testutil.NewTestDataGenerator(25)
	r, err := NewRelay()
	require.NoError(t, err)
	f, err := New(gen.Metadata("idle.txt", 10), r)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	rc, err := f.OpenReadStream(ctx)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := rc.Read(make([]byte, 16))
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		assert.True(t, bferrors.IsCancelled(err))
	case <-time.After(5 * time.Second):
		t.Fatal("consumer stayed blocked after cancellation")
	}

	err = r.Write(context.Background(), []byte("late"))
	assert.True(t, bferrors.IsUnavailable(err))
}

func TestRelay_WriteErrors(t *testing.T) {
	t.Run("write after close", func(t *testing.T) {
		r, err := NewRelay()
		require.NoError(t, err)
		require.NoError(t, r.Close())

		err = r.Write(context.Background(), []byte("x"))
		assert.ErrorIs(t, err, bferrors.ErrStreamClosed)
	})

	t.Run("write cancelled while queue is full", func(t *testing.T) {
		r, err := NewRelay(WithRelayCapacity(0))
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err = r.Write(ctx, []byte("nobody reads"))
		assert.True(t, bferrors.IsCancelled(err))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("empty chunk is ignored", func(t *testing.T) {
		r, err := NewRelay(WithRelayCapacity(0))
		require.NoError(t, err)
		assert.NoError(t, r.Write(context.Background(), nil))
	})

	t.Run("only the first close counts", func(t *testing.T) {
		r, err := NewRelay()
		require.NoError(t, err)
		require.NoError(t, r.Close())
		require.NoError(t, r.CloseWithError(errors.New("ignored")))

		rc, err := r.Open(context.Background())
		require.NoError(t, err)
		got, err := io.ReadAll(rc)
		assert.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestRelay_WriteNilContext(t *testing.T) {
	r, err := NewRelay()
	require.NoError(t, err)

	var ctx context.Context
	err = r.Write(ctx, []byte("x"))
	require.Error(t, err)
	assert.True(t, bferrors.IsInvalidInput(err))
}

func TestRelay_ReleaseMidChunk(t *testing.T) {
	r, err := NewRelay()
	require.NoError(t, err)
	require.NoError(t, r.Write(context.Background(), bytes.Repeat([]byte("c"), 1000)))
	require.NoError(t, r.Write(context.Background(), []byte("queued")))

	rc, err := r.Open(context.Background())
	require.NoError(t, err)
	reader, ok := rc.(*relayReader)
	require.True(t, ok)

	n, err := reader.Read(make([]byte, 10))
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	require.NotNil(t, reader.cur, "chunk is partly drained")

	require.NoError(t, reader.Close())
	assert.Nil(t, reader.cur, "partly drained chunk is returned on close")
	assert.Zero(t, len(r.chunks), "queued chunks are returned on close")

	_, err = reader.Read(make([]byte, 10))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}
