// framebench measures round-trip throughput and latency of the framing
// layer over in-memory pipes: each worker writes a frame, an echo loop on
// the other end decodes and re-frames it, and the worker reads it back.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"runtime"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/crazyfrankie/gwire/mem"
	"github.com/crazyfrankie/gwire/protocol"
	"github.com/crazyfrankie/gwire/transport"
)

var (
	concurrency = flag.Int("concurrency", runtime.NumCPU(), "number of parallel streams")
	total       = flag.Int("total", 100000, "total round trips across all streams")
	payloadSize = flag.Int("size", 512, "payload bytes per frame")
	warmupCount = flag.Int("warmup", 1000, "round trips before measurement starts")
	reqTimeout  = flag.Duration("req_timeout", 5*time.Second, "per round-trip timeout")
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	flag.Parse()

	n := *concurrency
	m := *total / n
	if m == 0 {
		m = 1
	}

	logger.Info("starting framebench",
		zap.Int("concurrency", n),
		zap.Int("round_trips_per_stream", m),
		zap.Int("payload_size", *payloadSize),
		zap.Int("warmup", *warmupCount),
		zap.Int("cpu_cores", runtime.NumCPU()))

	payload := make([]byte, *payloadSize)
	for i := range payload {
		payload[i] = byte(i)
	}

	pool := mem.DefaultBufferPool()
	latencies := make([][]float64, n)

	logger.Info("warming up")
	warmup := newStream(pool)
	for i := 0; i < *warmupCount; i++ {
		if err := warmup.roundTrip(payload); err != nil {
			logger.Fatal("warmup round trip failed", zap.Error(err))
		}
	}
	warmup.close()
	logger.Info("warm-up complete")

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(n)
	for w := 0; w < n; w++ {
		go func(w int) {
			defer wg.Done()
			st := newStream(pool)
			defer st.close()

			samples := make([]float64, 0, m)
			for i := 0; i < m; i++ {
				t := time.Now()
				if err := st.roundTrip(payload); err != nil {
					logger.Error("round trip failed", zap.Int("stream", w), zap.Error(err))
					return
				}
				samples = append(samples, float64(time.Since(t)))
			}
			latencies[w] = samples
		}(w)
	}
	wg.Wait()
	took := time.Since(start)

	var all []float64
	for _, s := range latencies {
		all = append(all, s...)
	}
	if len(all) == 0 {
		logger.Fatal("no successful round trips")
	}

	mean, _ := stats.Mean(all)
	median, _ := stats.Median(all)
	max, _ := stats.Max(all)
	min, _ := stats.Min(all)
	p99, _ := stats.Percentile(all, 99)
	tps := int(float64(len(all)) / took.Seconds())

	logger.Info(fmt.Sprintf("took %d ms for %d round trips", took.Milliseconds(), len(all)))
	logger.Info(fmt.Sprintf("throughput  (TPS)    : %d", tps))
	logger.Info(fmt.Sprintf("mean: %d ns, median: %d ns, max: %d ns, min: %d ns, p99: %d ns",
		int64(mean), int64(median), int64(max), int64(min), int64(p99)))
}

// stream is one client<->echo pair over a net.Pipe.
type stream struct {
	cliConn net.Conn
	sink    *transport.StreamSink
	src     *transport.StreamSource
	reader  *protocol.Reader
	echoErr chan error
}

func newStream(pool mem.BufferPool) *stream {
	cli, srv := net.Pipe()
	s := &stream{
		cliConn: cli,
		sink:    transport.NewSink(cli, pool),
		src:     transport.NewSource(cli, pool),
		echoErr: make(chan error, 1),
	}
	s.reader = protocol.NewReader(s.src)
	go func() {
		s.echoErr <- echo(srv, pool)
	}()
	return s
}

func (s *stream) roundTrip(payload []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), *reqTimeout)
	defer cancel()

	if err := protocol.WriteFrame(ctx, s.sink, payload, true); err != nil {
		return err
	}
	got, err := s.reader.ReadFrame(ctx, true)
	if err != nil {
		return err
	}
	if len(got) != len(payload) {
		return fmt.Errorf("echoed %d bytes, want %d", len(got), len(payload))
	}
	return nil
}

func (s *stream) close() {
	s.cliConn.Close()
	s.src.Close()
	<-s.echoErr
}

// echo decodes frames from conn and writes each payload straight back.
func echo(conn net.Conn, pool mem.BufferPool) error {
	src := transport.NewSource(conn, pool)
	defer src.Close()
	sink := transport.NewSink(conn, pool)
	reader := protocol.NewReader(src)
	ctx := context.Background()

	for {
		payload, err := reader.ReadFrame(ctx, true)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				return nil
			}
			return err
		}
		if err := protocol.WriteFrame(ctx, sink, payload, true); err != nil {
			return err
		}
	}
}
