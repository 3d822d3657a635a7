package tiler

import (
	"context"
	"sync"
)

// ValveState is the lifecycle state of a Valve.
type ValveState int

const (
	ValveDisconnected ValveState = iota
	ValveActive
	ValvePaused
	ValveTerminated
)

type valveSignal int

const (
	signalOn valveSignal = iota
	signalOff
	signalTerminate
)

// valve wraps a single query's fetcher subscription. It holds one inbound
// control channel and one outbound event stream: the outbound stream does
// not begin pulling upstream until a subscriber has attached, so a signal
// arriving before the merged downstream subscribes is never dropped.
//
// State machine: Disconnected --attach--> Active --Off--> Paused --On-->
// Active --Terminate--> Terminated (terminal; Paused --Terminate-->
// Terminated too).
type valve[Q comparable, I any] struct {
	query   Q
	fetcher func(context.Context, Q) Stream[Result[[]I]]

	mu           sync.Mutex
	state        ValveState
	lastSignal   valveSignal
	haveSignal   bool
	signalCh     chan valveSignal
	subscribedCh chan struct{}
	subscribeOne sync.Once
}

func newValve[Q comparable, I any](query Q, fetcher func(context.Context, Q) Stream[Result[[]I]]) *valve[Q, I] {
	return &valve[Q, I]{
		query:        query,
		fetcher:      fetcher,
		state:        ValveDisconnected,
		signalCh:     make(chan valveSignal, 1),
		subscribedCh: make(chan struct{}),
	}
}

// State returns the valve's current lifecycle state.
func (v *valve[Q, I]) State() ValveState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// send delivers a control signal, suppressing it if it is identical to the
// most recently delivered signal (distinct-until-changed on control
// signals).
func (v *valve[Q, I]) send(sig valveSignal) {
	v.mu.Lock()
	if v.haveSignal && v.lastSignal == sig {
		v.mu.Unlock()
		return
	}
	v.haveSignal = true
	v.lastSignal = sig
	state := v.state
	v.mu.Unlock()

	if state == ValveTerminated {
		return
	}

	select {
	case v.signalCh <- sig:
	default:
		// A signal is already queued; drain and replace so only the
		// latest decides behavior.
		select {
		case <-v.signalCh:
		default:
		}
		v.signalCh <- sig
	}
}

// On begins or resumes fetching. Idempotent while already Active.
func (v *valve[Q, I]) On() { v.send(signalOn) }

// Off stops collecting but keeps the valve resumable.
func (v *valve[Q, I]) Off() { v.send(signalOff) }

// Terminate cancels the current subscription and closes the outbound
// stream. The valve is single-use afterward.
func (v *valve[Q, I]) Terminate() { v.send(signalTerminate) }

// outbound returns the valve's event stream. Pulling from it is what
// triggers the subscription handshake: only once a consumer begins
// ranging over the returned stream does the valve start honoring queued
// control signals.
func (v *valve[Q, I]) outbound(ctx context.Context) Stream[Output[Q, I]] {
	return Stream[Output[Q, I]]{
		seq: func(yield func(Output[Q, I]) bool) {
			v.subscribeOne.Do(func() { close(v.subscribedCh) })

			var (
				cancel context.CancelFunc
				dataCh chan Output[Q, I]
			)

			stopFetch := func() {
				if cancel != nil {
					cancel()
					cancel = nil
				}
			}
			defer stopFetch()

			startFetch := func() {
				stopFetch()
				fetchCtx, c := context.WithCancel(ctx)
				cancel = c
				ch := make(chan Output[Q, I], 1)
				dataCh = ch
				go func() {
					defer close(ch)
					for result := range v.fetcher(fetchCtx, v.query).seq {
						var out Output[Q, I]
						if result.IsErr() {
							out = failedOutput[Q, I](v.query, result.Error())
						} else {
							out = dataOutput[Q, I](v.query, result.Value())
						}
						select {
						case <-fetchCtx.Done():
							return
						case ch <- out:
						}
						if result.IsErr() {
							return
						}
					}
				}()
			}

			v.mu.Lock()
			v.state = ValveActive
			v.mu.Unlock()
			startFetch()

			for {
				select {
				case <-ctx.Done():
					return
				case sig := <-v.signalCh:
					switch sig {
					case signalOn:
						v.mu.Lock()
						wasPaused := v.state == ValvePaused
						v.state = ValveActive
						v.mu.Unlock()
						if wasPaused {
							startFetch()
						}
					case signalOff:
						v.mu.Lock()
						v.state = ValvePaused
						v.mu.Unlock()
						stopFetch()
						dataCh = nil
					case signalTerminate:
						v.mu.Lock()
						v.state = ValveTerminated
						v.mu.Unlock()
						stopFetch()
						return
					}
				case out, ok := <-dataCh:
					if !ok {
						dataCh = nil
						continue
					}
					if out.tag == outputFailed {
						v.mu.Lock()
						v.state = ValveTerminated
						v.mu.Unlock()
						yield(out)
						return
					}
					if !yield(out) {
						return
					}
				}
			}
		},
	}
}
