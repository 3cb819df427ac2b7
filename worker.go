package envtools

import "errors"

var errOneActionPerReplica = errors.New("step: need exactly one action per replica")

// workerVecEnv runs each replica in its own worker
// goroutine, communicating over request/reply channels.
//
// Each worker owns its environment exclusively and builds
// it lazily on the first request, so construction happens
// inside the worker rather than the caller.
type workerVecEnv struct {
	workers []*envWorker
}

func newWorkerVecEnv(thunks []func() (Env, error)) *workerVecEnv {
	res := &workerVecEnv{}
	for _, thunk := range thunks {
		w := &envWorker{
			reqs: make(chan workerReq, 1),
			done: make(chan struct{}),
		}
		go w.run(thunk)
		res.workers = append(res.workers, w)
	}
	return res
}

func (v *workerVecEnv) NumEnvs() int {
	return len(v.workers)
}

func (v *workerVecEnv) Reset() ([][]float64, error) {
	resps := v.fanOut(func(i int) workerReq {
		return workerReq{reset: true}
	})
	obs := make([][]float64, len(resps))
	for i, resp := range resps {
		if resp.err != nil {
			return nil, resp.err
		}
		obs[i] = resp.obs
	}
	return obs, nil
}

func (v *workerVecEnv) Step(actions [][]float64) ([][]float64, []float64,
	[]bool, error) {
	if len(actions) != len(v.workers) {
		return nil, nil, nil, errOneActionPerReplica
	}
	resps := v.fanOut(func(i int) workerReq {
		return workerReq{action: actions[i]}
	})
	obs := make([][]float64, len(resps))
	rewards := make([]float64, len(resps))
	dones := make([]bool, len(resps))
	for i, resp := range resps {
		if resp.err != nil {
			return nil, nil, nil, resp.err
		}
		obs[i] = resp.obs
		rewards[i] = resp.rew
		dones[i] = resp.done
	}
	return obs, rewards, dones, nil
}

// Close terminates every worker and blocks until all of
// them have shut down their environments.
func (v *workerVecEnv) Close() error {
	for _, w := range v.workers {
		close(w.reqs)
	}
	var err error
	for _, w := range v.workers {
		<-w.done
		if w.closeErr != nil && err == nil {
			err = w.closeErr
		}
	}
	return err
}

// fanOut sends one request to every worker and collects
// the replies in replica order.
//
// Every worker always replies, so a failing replica never
// leaves the others blocked.
func (v *workerVecEnv) fanOut(req func(i int) workerReq) []workerResp {
	resps := make([]chan workerResp, len(v.workers))
	for i, w := range v.workers {
		r := req(i)
		r.resp = make(chan workerResp, 1)
		resps[i] = r.resp
		w.reqs <- r
	}
	res := make([]workerResp, len(v.workers))
	for i, ch := range resps {
		res[i] = <-ch
	}
	return res
}

type workerReq struct {
	reset  bool
	action []float64
	resp   chan workerResp
}

type workerResp struct {
	obs  []float64
	rew  float64
	done bool
	err  error
}

type envWorker struct {
	reqs chan workerReq
	done chan struct{}

	closeErr error
}

func (w *envWorker) run(thunk func() (Env, error)) {
	defer close(w.done)
	var env Env
	var envErr error
	for req := range w.reqs {
		if env == nil && envErr == nil {
			env, envErr = thunk()
		}
		if envErr != nil {
			req.resp <- workerResp{err: envErr}
			continue
		}
		if req.reset {
			obs, err := env.Reset()
			req.resp <- workerResp{obs: obs, err: err}
			continue
		}
		obs, rew, done, err := env.Step(req.action)
		if done && err == nil {
			// Auto-reset so the batch keeps moving.
			obs, err = env.Reset()
		}
		req.resp <- workerResp{obs: obs, rew: rew, done: done, err: err}
	}
	if env != nil {
		w.closeErr = env.Close()
	}
}
