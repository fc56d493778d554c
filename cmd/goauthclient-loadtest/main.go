package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http/httptest"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	goAuthClient "github.com/MrEthical07/goAuthClient"
)

type stage struct {
	vus      int
	duration time.Duration
}

type scenario struct {
	name   string
	stages []stage
	// Latency and error-rate budgets checked against the aggregate results.
	p50Budget time.Duration
	p95Budget time.Duration
	p99Budget time.Duration
	errBudget float64
}

func scenarios(scale float64) map[string]scenario {
	d := func(base time.Duration) time.Duration {
		return time.Duration(float64(base) * scale)
	}
	return map[string]scenario{
		"smoke": {
			name:      "smoke",
			stages:    []stage{{vus: 2, duration: d(15 * time.Second)}},
			p50Budget: 100 * time.Millisecond,
			p95Budget: 200 * time.Millisecond,
			p99Budget: 500 * time.Millisecond,
			errBudget: 0.01,
		},
		"load": {
			name: "load",
			stages: []stage{
				{vus: 10, duration: d(20 * time.Second)},
				{vus: 50, duration: d(60 * time.Second)},
				{vus: 10, duration: d(20 * time.Second)},
			},
			p50Budget: 100 * time.Millisecond,
			p95Budget: 200 * time.Millisecond,
			p99Budget: 500 * time.Millisecond,
			errBudget: 0.01,
		},
		"stress": {
			name: "stress",
			stages: []stage{
				{vus: 50, duration: d(30 * time.Second)},
				{vus: 100, duration: d(30 * time.Second)},
				{vus: 200, duration: d(30 * time.Second)},
			},
			p95Budget: time.Second,
			p99Budget: 2 * time.Second,
			errBudget: 0.05,
		},
		"spike": {
			name: "spike",
			stages: []stage{
				{vus: 10, duration: d(10 * time.Second)},
				{vus: 300, duration: d(20 * time.Second)},
				{vus: 10, duration: d(10 * time.Second)},
			},
			p95Budget: 2 * time.Second,
			errBudget: 0.05,
		},
		"soak": {
			name: "soak",
			stages: []stage{
				{vus: 30, duration: d(1 * time.Minute)},
				{vus: 30, duration: d(30 * time.Minute)},
				{vus: 30, duration: d(1 * time.Minute)},
			},
			p50Budget: 100 * time.Millisecond,
			p95Budget: 200 * time.Millisecond,
			p99Budget: 500 * time.Millisecond,
			errBudget: 0.01,
		},
	}
}

// journey weights follow the observed traffic mix: most users hold a session
// and browse, a quarter just log in and leave, the rest churn renewals.
const (
	weightFullSession  = 60
	weightQuickLogin   = 25
	weightTokenRefresh = 15
)

func main() {
	var (
		baseURL      = flag.String("base-url", "", "target account service; if empty an in-process stub is used")
		scenarioName = flag.String("scenario", "smoke", "smoke, load, stress, spike, or soak")
		scale        = flag.Float64("time-scale", 1.0, "multiplier applied to every stage duration")
		redisAddr    = flag.String("redis-addr", "", "redis for the credential cache; \"embedded\" starts miniredis, empty disables the cache")
		accessTTL    = flag.Duration("stub-access-ttl", 5*time.Second, "access credential lifetime of the embedded stub; short values force renewals")
	)
	flag.Parse()

	if *scale <= 0 {
		fmt.Fprintln(os.Stderr, "time-scale must be > 0")
		os.Exit(2)
	}
	sc, ok := scenarios(*scale)[*scenarioName]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown scenario %q\n", *scenarioName)
		os.Exit(2)
	}

	target := *baseURL
	if target == "" {
		stub := newStubService(*accessTTL)
		srv := httptest.NewServer(stub.handler())
		defer srv.Close()
		target = srv.URL
		fmt.Printf("using embedded stub service at %s (access ttl %s)\n", target, *accessTTL)
	} else {
		fmt.Printf("targeting %s\n", target)
	}

	var redisClient redis.UniversalClient
	switch *redisAddr {
	case "":
	case "embedded":
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		defer mr.Close()
		redisClient = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{mr.Addr()}})
		defer redisClient.Close()
		fmt.Printf("credential cache on embedded miniredis at %s\n", mr.Addr())
	default:
		redisClient = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{*redisAddr}})
		defer redisClient.Close()
		fmt.Printf("credential cache on redis at %s\n", *redisAddr)
	}

	rec := newRecorder()
	fmt.Printf("scenario %s: %d stages\n", sc.name, len(sc.stages))

	for i, st := range sc.stages {
		fmt.Printf("stage %d/%d: %d VUs for %s\n", i+1, len(sc.stages), st.vus, st.duration.Round(time.Second))
		runStage(target, redisClient, st, rec)
	}

	results := rec.results()
	fmt.Println("---- results ----")
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		printStats(name, results[name])
	}

	agg := rec.aggregate()
	printStats("aggregate", agg)

	if breached := checkBudgets(sc, agg); breached {
		fmt.Println("RESULT: FAIL (budget breached)")
		os.Exit(1)
	}
	fmt.Println("RESULT: PASS")
}

func runStage(target string, redisClient redis.UniversalClient, st stage, rec *recorder) {
	deadline := time.Now().Add(st.duration)
	var wg sync.WaitGroup
	for vu := 0; vu < st.vus; vu++ {
		wg.Add(1)
		go func(vu int) {
			defer wg.Done()
			runVU(vu, target, redisClient, deadline, rec)
		}(vu)
	}
	wg.Wait()
}

func runVU(vu int, target string, redisClient redis.UniversalClient, deadline time.Time, rec *recorder) {
	cfg := defaultedConfig(target)
	cfg.Cache.Profile = fmt.Sprintf("vu-%d", vu)
	b := goAuthClient.New().
		WithConfig(cfg).
		WithWarnFunc(func(string, ...any) {})
	if redisClient != nil {
		b = b.WithRedis(redisClient)
	}
	client, err := b.Build()
	if err != nil {
		rec.fail("build", 0)
		return
	}
	defer client.Close()

	r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(vu)*7919))
	email := fmt.Sprintf("vu-%d@loadtest.local", vu)

	for time.Now().Before(deadline) {
		switch pick(r) {
		case "full_session":
			journeyFullSession(client, email, rec, r)
		case "quick_login":
			journeyQuickLogin(client, email, rec)
		case "token_refresh":
			journeyTokenRefresh(client, email, rec)
		}
	}
}

func defaultedConfig(target string) goAuthClient.Config {
	cfg := goAuthClient.Config{}
	cfg.API.BaseURL = target
	cfg.API.Timeout = 10 * time.Second
	cfg.Claims.Leeway = 30 * time.Second
	cfg.Claims.DefaultRole = "ROLE_USER"
	cfg.Cache.RedisPrefix = "gac-loadtest"
	cfg.Events.Enabled = false
	cfg.Metrics.Enabled = true
	return cfg
}

func pick(r *rand.Rand) string {
	n := r.Intn(weightFullSession + weightQuickLogin + weightTokenRefresh)
	switch {
	case n < weightFullSession:
		return "full_session"
	case n < weightFullSession+weightQuickLogin:
		return "quick_login"
	default:
		return "token_refresh"
	}
}

func journeyFullSession(client *goAuthClient.Client, email string, rec *recorder, r *rand.Rand) {
	ctx := context.Background()
	if !timed(rec, "login", func() error {
		_, err := client.Login(ctx, email, stubPassword)
		return err
	}) {
		return
	}
	reads := 3 + r.Intn(5)
	for i := 0; i < reads; i++ {
		timed(rec, "get_user", func() error {
			_, err := client.GetUser(ctx, 1)
			return err
		})
		time.Sleep(time.Duration(10+r.Intn(40)) * time.Millisecond)
	}
	client.Logout()
}

func journeyQuickLogin(client *goAuthClient.Client, email string, rec *recorder) {
	ctx := context.Background()
	if !timed(rec, "login", func() error {
		_, err := client.Login(ctx, email, stubPassword)
		return err
	}) {
		return
	}
	timed(rec, "get_user", func() error {
		_, err := client.GetUser(ctx, 1)
		return err
	})
	client.Logout()
}

func journeyTokenRefresh(client *goAuthClient.Client, email string, rec *recorder) {
	ctx := context.Background()
	if !timed(rec, "login", func() error {
		_, err := client.Login(ctx, email, stubPassword)
		return err
	}) {
		return
	}
	timed(rec, "refresh", func() error {
		return client.Renew(ctx)
	})
	timed(rec, "get_user", func() error {
		_, err := client.GetUser(ctx, 1)
		return err
	})
	client.Logout()
}

func timed(rec *recorder, endpoint string, op func() error) bool {
	t0 := time.Now()
	err := op()
	d := time.Since(t0)
	if err != nil {
		rec.fail(endpoint, d)
		return false
	}
	rec.ok(endpoint, d)
	return true
}

/*
====================================
RESULT RECORDING
====================================
*/

type recorder struct {
	mu        sync.Mutex
	latencies map[string][]time.Duration
	failures  map[string]*int64
}

func newRecorder() *recorder {
	return &recorder{
		latencies: map[string][]time.Duration{},
		failures:  map[string]*int64{},
	}
}

func (r *recorder) ok(endpoint string, d time.Duration) {
	r.mu.Lock()
	r.latencies[endpoint] = append(r.latencies[endpoint], d)
	r.mu.Unlock()
}

func (r *recorder) fail(endpoint string, _ time.Duration) {
	r.mu.Lock()
	if r.failures[endpoint] == nil {
		r.failures[endpoint] = new(int64)
	}
	counter := r.failures[endpoint]
	r.mu.Unlock()
	atomic.AddInt64(counter, 1)
}

type endpointStats struct {
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
}

func (r *recorder) results() map[string]endpointStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]endpointStats, len(r.latencies))
	for endpoint, samples := range r.latencies {
		out[endpoint] = computeStats(samples, r.failureCountLocked(endpoint))
	}
	for endpoint := range r.failures {
		if _, seen := out[endpoint]; !seen {
			out[endpoint] = endpointStats{failures: r.failureCountLocked(endpoint)}
		}
	}
	return out
}

func (r *recorder) aggregate() endpointStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []time.Duration
	var failures int64
	for _, samples := range r.latencies {
		all = append(all, samples...)
	}
	for endpoint := range r.failures {
		failures += r.failureCountLocked(endpoint)
	}
	return computeStats(all, failures)
}

func (r *recorder) failureCountLocked(endpoint string) int64 {
	if counter := r.failures[endpoint]; counter != nil {
		return atomic.LoadInt64(counter)
	}
	return 0
}

func computeStats(samples []time.Duration, failures int64) endpointStats {
	if len(samples) == 0 {
		return endpointStats{failures: failures}
	}
	sorted := make([]time.Duration, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return endpointStats{
		ops:      len(sorted),
		failures: failures,
		p50:      percentile(sorted, 50),
		p95:      percentile(sorted, 95),
		p99:      percentile(sorted, 99),
	}
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	idx := (len(sorted) - 1) * p / 100
	return sorted[idx]
}

func printStats(name string, s endpointStats) {
	total := int64(s.ops) + s.failures
	var errRate float64
	if total > 0 {
		errRate = float64(s.failures) / float64(total)
	}
	fmt.Printf("%s: ops=%d failures=%d err=%.2f%% p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		errRate*100,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

func checkBudgets(sc scenario, agg endpointStats) bool {
	breached := false
	check := func(name string, got, budget time.Duration) {
		if budget > 0 && got > budget {
			fmt.Printf("budget breach: %s=%s exceeds %s\n", name, got.Round(time.Microsecond), budget)
			breached = true
		}
	}
	check("p50", agg.p50, sc.p50Budget)
	check("p95", agg.p95, sc.p95Budget)
	check("p99", agg.p99, sc.p99Budget)

	total := int64(agg.ops) + agg.failures
	if sc.errBudget > 0 && total > 0 {
		rate := float64(agg.failures) / float64(total)
		if rate > sc.errBudget {
			fmt.Printf("budget breach: error rate %.2f%% exceeds %.2f%%\n", rate*100, sc.errBudget*100)
			breached = true
		}
	}
	return breached
}
