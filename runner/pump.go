package runner

import (
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/victoralfred/cmdrunner/internal/codec"
)

// chunkLogLimit caps per-chunk debug events so a fast producer cannot
// flood the log sink. Process-wide, like the logger it protects.
var chunkLogLimit = rate.NewLimiter(rate.Every(50*time.Millisecond), 20)

// pump reads one pipe in bounded chunks, decodes, and fans out to the
// stream's sinks until EOF. It owns nothing it writes to: sinks are
// closed by the supervisor, in order, after both pumps settle.
type pump struct {
	name    string
	r       io.ReadCloser
	set     *sinkSet
	codec   *codec.Codec // nil when decoding is disabled
	bufSize int
	log     zerolog.Logger
	done    chan struct{}
}

func newPump(name string, r io.ReadCloser, set *sinkSet, c *codec.Codec, o *Options, log zerolog.Logger) *pump {
	return &pump{
		name:    name,
		r:       r,
		set:     set,
		codec:   c,
		bufSize: o.BufSize,
		log:     log,
		done:    make(chan struct{}),
	}
}

func (p *pump) start() {
	go p.run()
}

func (p *pump) run() {
	defer close(p.done)
	// The pump runs on its own goroutine, outside the engine's panic
	// boundary; a panicking caller sink must not take the process
	// down.
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Str("stream", p.name).Msg("output consumer panicked, stream dropped")
			go p.drain()
		}
	}()

	buf := make([]byte, p.bufSize)
	delivering := true
	for {
		n, err := p.r.Read(buf)
		if n > 0 {
			chunk := p.decode(buf[:n])
			if chunkLogLimit.Allow() {
				p.log.Debug().Str("stream", p.name).Int("bytes", n).Msg("read chunk")
			}
			if delivering {
				if aerr := p.set.Accept(chunk); aerr != nil {
					if errors.Is(aerr, errSinkAbandoned) {
						return
					}
					// Keep draining the pipe so the child does not
					// block on backpressure from a broken sink.
					p.log.Error().Err(aerr).Str("stream", p.name).Msg("sink failed, output dropped")
					delivering = false
				}
			}
		}
		if err != nil {
			return
		}
	}
}

// drain keeps consuming the pipe after the stream was dropped so the
// child never blocks on a full pipe. Ends when the descriptor closes.
func (p *pump) drain() {
	buf := make([]byte, p.bufSize)
	for {
		if _, err := p.r.Read(buf); err != nil {
			return
		}
	}
}

// decode transcodes a chunk, or copies it verbatim in raw mode. The
// read buffer is reused, so the chunk handed to sinks is always a
// fresh allocation.
func (p *pump) decode(b []byte) []byte {
	if p.codec != nil {
		return p.codec.Decode(b)
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// wait blocks until the pump finishes, bounded by deadline when
// non-zero. Returns false when the pump had to be abandoned.
func (p *pump) wait(deadline time.Duration) bool {
	if deadline <= 0 {
		<-p.done
		return true
	}
	select {
	case <-p.done:
		return true
	case <-time.After(deadline):
		return false
	}
}
