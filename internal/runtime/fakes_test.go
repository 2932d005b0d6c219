package runtime_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/walkthrough/internal/runtime"
	"github.com/aretw0/walkthrough/pkg/adapters/memory"
	"github.com/aretw0/walkthrough/pkg/analysis"
	"github.com/aretw0/walkthrough/pkg/catalog"
	"github.com/aretw0/walkthrough/pkg/domain"
	"github.com/aretw0/walkthrough/pkg/ports"
)

// fakeCapturer hands out streams whose failures can be scripted per call.
type fakeCapturer struct {
	mu         sync.Mutex
	acquireErr error
	frameErrs  []error // consumed one per Frame call; nil entries succeed
	acquired   int
	released   int
	frames     int
}

func (c *fakeCapturer) Acquire(ctx context.Context, sessionID string) (ports.Stream, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.acquireErr != nil {
		return nil, c.acquireErr
	}
	c.acquired++
	return &fakeStream{owner: c}, nil
}

func (c *fakeCapturer) failNextFrames(errs ...error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frameErrs = append(c.frameErrs, errs...)
}

// live returns the number of streams acquired and not yet released.
func (c *fakeCapturer) live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.acquired - c.released
}

type fakeStream struct {
	owner    *fakeCapturer
	released bool
}

func (s *fakeStream) Frame(ctx context.Context) (domain.Artifact, error) {
	c := s.owner
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.frameErrs) > 0 {
		err := c.frameErrs[0]
		c.frameErrs = c.frameErrs[1:]
		if err != nil {
			return domain.Artifact{}, err
		}
	}
	c.frames++
	return domain.Artifact{MediaType: "image/png", Data: []byte(fmt.Sprintf("frame-%d", c.frames))}, nil
}

func (s *fakeStream) Release() error {
	c := s.owner
	c.mu.Lock()
	defer c.mu.Unlock()
	if !s.released {
		s.released = true
		c.released++
	}
	return nil
}

// analyzerFunc adapts a function to ports.Analyzer.
type analyzerFunc func(ctx context.Context, req domain.AnalysisRequest) (string, error)

func (f analyzerFunc) Analyze(ctx context.Context, req domain.AnalysisRequest) (string, error) {
	return f(ctx, req)
}

type fixture struct {
	engine    *runtime.Engine
	capturer  *fakeCapturer
	artifacts *memory.ArtifactStore
	catalog   *catalog.Catalog
}

func newFixture(opts ...runtime.EngineOption) *fixture {
	return newFixtureWith(catalog.Default(), analysis.NewStub(), opts...)
}

func newFixtureWith(cat *catalog.Catalog, analyzer ports.Analyzer, opts ...runtime.EngineOption) *fixture {
	f := &fixture{
		capturer:  &fakeCapturer{},
		artifacts: memory.NewArtifactStore(),
		catalog:   cat,
	}
	seq := 0
	base := []runtime.EngineOption{
		runtime.WithClock(func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC) }),
		runtime.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%03d", seq)
		}),
	}
	f.engine = runtime.NewEngine(cat, analyzer, f.capturer, f.artifacts, append(base, opts...)...)
	return f
}

func stepIndex(cat *catalog.Catalog, id string) int {
	for i, s := range cat.Steps() {
		if s.ID == id {
			return i
		}
	}
	return -1
}
