// Copyright (c) 2015 Mute Communications Ltd.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ecmengine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/ecm-go/lenstra/bigint"
	"github.com/ecm-go/lenstra/curve"
	"github.com/ecm-go/lenstra/log"
	"github.com/jpillora/backoff"
)

// defaultLanes is the number of cooperative goroutines ("threads" in
// spec.md §4.6) each worker rank runs per pass when the caller does not
// pin a value.
const defaultLanes = 4

// ParallelDriver maps spec.md §4.6's master/worker design onto Go's
// concurrency primitives: every MPI "process" becomes a goroutine, and
// the OpenMP thread pool inside a pass becomes a handful of goroutines
// sharing a mutex-guarded counter. The curve generator — which spec.md
// §9 insists must not be parallelized, since it alone owns SeenCurves —
// runs as its own goroutine ("the generator") that every worker rank
// talks to through a request/reply channel shaped exactly like the
// NEW_ECC message of spec.md §6; termination is the STOP broadcast,
// rendered here as closing a channel, which is the idiomatic Go way to
// notify an unbounded set of receivers without a per-receiver send.
type ParallelDriver struct {
	rc      RunContext
	workers int
	lanes   int
}

// NewParallelDriver returns a driver bound to rc. workers <= 0 defaults
// to runtime.GOMAXPROCS(0); lanes <= 0 defaults to defaultLanes.
func NewParallelDriver(rc RunContext, workers, lanes int) *ParallelDriver {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if lanes <= 0 {
		lanes = defaultLanes
	}
	return &ParallelDriver{rc: rc, workers: workers, lanes: lanes}
}

// ParallelResult is the outcome of a completed parallel run.
type ParallelResult struct {
	Factor          bigint.Int
	Rank            int
	CurvesGenerated int
}

// ErrNoResult is returned if every rank exits before any of them found
// a factor while ctx is still live (e.g. the generator could not produce
// a curve). A cancelled ctx is reported as ctx.Err() instead.
var ErrNoResult = errors.New("ecmengine: parallel driver stopped without a result")

// Run launches d.workers rank goroutines and one curve-generator
// goroutine, and blocks until a rank finds a factor or ctx is
// cancelled. newModel must return a fresh curve.Model of the configured
// family each time it is called — one call per rank plus one for the
// generator, each owning its own instance (and, for the generator, the
// only live SeenCurves set).
func (d *ParallelDriver) Run(ctx context.Context, newModel func() curve.Model) (ParallelResult, error) {
	if f, ok := trialDivideIfDegenerate(d.rc); ok {
		return ParallelResult{Factor: f, Rank: 0, CurvesGenerated: 0}, nil
	}

	gen := newGenerator(newModel())
	term := &termination{}

	var wg sync.WaitGroup
	for rank := 0; rank < d.workers; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			d.runRank(ctx, rank, newModel(), gen, term)
		}(rank)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		gen.stop()
		<-done
	}

	generated := gen.generatedCount()
	gen.stop() // idempotent; makes sure the generator goroutine has exited

	if !term.isEnded() {
		if err := ctx.Err(); err != nil {
			return ParallelResult{}, err
		}
		return ParallelResult{}, ErrNoResult
	}
	factor, rank := term.snapshot()
	return ParallelResult{Factor: factor, Rank: rank, CurvesGenerated: generated}, nil
}

// runRank is the per-process pass loop of spec.md §4.6.3: request a
// curve, run one pass of d.lanes cooperating goroutines over it,
// combine their terminal points, probe, and move on.
func (d *ParallelDriver) runRank(ctx context.Context, rank int, model curve.Model, gen *generator, term *termination) {
	rc := d.rc
	rs := &rankState{counter: bigint.One}
	bo := &backoff.Backoff{Min: time.Millisecond, Max: 50 * time.Millisecond, Factor: 2, Jitter: true}

	for {
		if term.isEnded() || ctx.Err() != nil {
			return
		}

		grant, ok := gen.request(ctx)
		if !ok {
			return
		}
		startPoint, err := installGrant(model, grant.payload)
		if err != nil {
			log.Errorf("ecmengine: rank %d: bad curve grant: %s", rank, err)
			return
		}

		rs.mainMu.Lock()
		rs.k = bigint.Two
		rs.mainMu.Unlock()

		var points []curve.Point
		var addPointMu sync.Mutex
		var laneWG sync.WaitGroup
		for lane := 0; lane < d.lanes; lane++ {
			laneWG.Add(1)
			go func() {
				defer laneWG.Done()
				terminal := d.runLane(ctx, rank, model, startPoint, rs, term, rc)
				addPointMu.Lock()
				points = append(points, terminal)
				addPointMu.Unlock()
			}()
		}
		laneWG.Wait()

		if term.isEnded() || ctx.Err() != nil {
			return
		}

		// Combine step: the rank goroutine itself is the "designated
		// thread" of spec.md §4.6.3, since it only reaches this point
		// after every lane has joined (the barrier). combined restarts
		// from the neutral element each pass rather than carrying an
		// accumulator across passes — each pass also requests a fresh
		// curve, so there is no running point left to add onto.
		combined := model.Neutral()
		for _, pt := range points {
			combined = model.Add(combined, pt)
		}
		if !model.IsNeutral(combined) {
			if f, ok := factorFound(model.TryGetFactor(combined), rc.N); ok {
				if term.tryPublish(rank, f) {
					gen.stop()
				}
				return
			}
		}

		time.Sleep(bo.Duration())
	}
}

// runLane is one cooperating goroutine's share of a pass: repeatedly
// claim the next k from the rank's shared counter and scalar-multiply
// the curve's fixed starting point by it.
//
// Note (spec.md §9, open question): this multiplies the fixed starting
// point by each fetched k, not a running point chained across k — that
// computes k*P for scattered k, not the k!-smooth product the
// sequential driver accumulates. This is preserved intentionally; it
// changes the smoothness coverage relative to SequentialDriver but is
// not a bug to fix here.
func (d *ParallelDriver) runLane(ctx context.Context, rank int, model curve.Model, start curve.Point, rs *rankState, term *termination, rc RunContext) curve.Point {
	point := start
	tested := false
	for {
		if term.isEnded() || ctx.Err() != nil {
			return point
		}

		rs.mainMu.Lock()
		if rs.k.Cmp(rc.Bound) >= 0 {
			rs.mainMu.Unlock()
			return point
		}
		k := rs.k
		rs.k = rs.k.Add(bigint.One)
		rs.counter = rs.counter.Add(bigint.One)
		counter := rs.counter
		rs.mainMu.Unlock()

		point = model.ScalarMultiply(k, start)
		if model.IsNeutral(point) {
			return point
		}

		if !tested && counter.Cmp(rc.TestAfter) >= 0 {
			tested = true
			if f, ok := factorFound(model.TryGetFactor(point), rc.N); ok {
				term.tryPublish(rank, f)
				return point
			}
		}
	}
}

// rankState is the per-worker mutable state of spec.md §3's
// WorkerState: a shared counter guarded by a single "main" critical
// section, matching the reference design's choice to fetch-and-increment
// k and counter together rather than with two separate locks.
type rankState struct {
	mainMu  sync.Mutex
	k       bigint.Int
	counter bigint.Int
}

// termination implements spec.md §5's "ending" critical region: the
// write-once end flag plus whichever rank's result won the race to set
// it.
type termination struct {
	endingMu sync.Mutex
	ended    bool
	factor   bigint.Int
	rank     int
}

// tryPublish records factor as the winning result if no other rank has
// already done so. It reports whether this call was the one that ended
// the run.
func (t *termination) tryPublish(rank int, factor bigint.Int) bool {
	t.endingMu.Lock()
	defer t.endingMu.Unlock()
	if t.ended {
		return false
	}
	t.ended = true
	t.factor = factor
	t.rank = rank
	return true
}

func (t *termination) isEnded() bool {
	t.endingMu.Lock()
	defer t.endingMu.Unlock()
	return t.ended
}

func (t *termination) snapshot() (bigint.Int, int) {
	t.endingMu.Lock()
	defer t.endingMu.Unlock()
	return t.factor, t.rank
}

// generator is the master of spec.md §4.6.1: it alone owns a
// curve.Model (and therefore the only SeenCurves set in the run) and
// serves NEW_ECC requests from every rank, including rank 0, over an
// unbuffered channel. Closing stopCh is this driver's STOP broadcast.
type generator struct {
	model    curve.Model
	requests chan curveRequest
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	genMu     sync.Mutex
	generated int
}

type curveRequest struct {
	reply chan curveGrant
}

type curveGrant struct {
	payload string
	stop    bool
}

func newGenerator(model curve.Model) *generator {
	g := &generator{
		model:    model,
		requests: make(chan curveRequest),
		stopCh:   make(chan struct{}),
	}
	g.wg.Add(1)
	go g.serve()
	return g
}

func (g *generator) serve() {
	defer g.wg.Done()
	for {
		select {
		case <-g.stopCh:
			return
		case req := <-g.requests:
			select {
			case <-g.stopCh:
				req.reply <- curveGrant{stop: true}
				continue
			default:
			}
			point, err := g.model.GenerateCurve()
			if err != nil {
				log.Errorf("ecmengine: generator: %s", err)
				req.reply <- curveGrant{stop: true}
				continue
			}
			g.genMu.Lock()
			g.generated++
			g.genMu.Unlock()
			req.reply <- curveGrant{payload: encodeGrant(g.model, point)}
		}
	}
}

// request asks the generator for a curve and blocks for the reply. ok
// is false if the run is stopping (STOP received, or ctx cancelled).
func (g *generator) request(ctx context.Context) (curveGrant, bool) {
	reply := make(chan curveGrant, 1)
	select {
	case g.requests <- curveRequest{reply: reply}:
	case <-g.stopCh:
		return curveGrant{}, false
	case <-ctx.Done():
		return curveGrant{}, false
	}
	grant := <-reply
	if grant.stop {
		return curveGrant{}, false
	}
	return grant, true
}

func (g *generator) stop() {
	g.stopOnce.Do(func() { close(g.stopCh) })
	g.wg.Wait()
}

func (g *generator) generatedCount() int {
	g.genMu.Lock()
	defer g.genMu.Unlock()
	return g.generated
}

// encodeGrant and installGrant move a (curve, point) pair across the
// generator/rank boundary using the exact textual wire format of
// spec.md §6, even though both ends live in the same process: it keeps
// the serialization genuinely exercised, and it means a future swap to
// real OS processes only touches this boundary.
func encodeGrant(model curve.Model, point curve.Point) string {
	switch m := model.(type) {
	case *curve.WeierstrassModel:
		return EncodeWeierstrass(m.Curve(), point)
	case *curve.EdwardsModel:
		return EncodeEdwards(m.Curve(), point)
	default:
		panic(fmt.Sprintf("ecmengine: unknown model type %T", model))
	}
}

func installGrant(model curve.Model, payload string) (curve.Point, error) {
	switch m := model.(type) {
	case *curve.WeierstrassModel:
		c, p, err := DecodeWeierstrass(payload)
		if err != nil {
			return curve.Point{}, err
		}
		m.SetCurve(c)
		return p, nil
	case *curve.EdwardsModel:
		c, p, err := DecodeEdwards(payload)
		if err != nil {
			return curve.Point{}, err
		}
		m.SetCurve(c)
		return p, nil
	default:
		return curve.Point{}, fmt.Errorf("ecmengine: unknown model type %T", model)
	}
}
