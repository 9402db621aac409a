package service

import (
	"context"
	"errors"
	"sync"

	"descontamina/internal/model"
)

type fakeGenerator struct {
	text    string
	err     error
	block   bool
	prompts []string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return g.text, g.err
}

type fakeSearcher struct {
	results []SearchResult
	err     error
	queries []string
}

func (s *fakeSearcher) Search(_ context.Context, query string) ([]SearchResult, error) {
	s.queries = append(s.queries, query)
	return s.results, s.err
}

type fakeCRM struct {
	mu    sync.Mutex
	calls []*model.Submission
	err   error
}

func (c *fakeCRM) UpsertDeal(_ context.Context, s *model.Submission) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, s)
	return c.err == nil, c.err
}

func (c *fakeCRM) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

var errBoom = errors.New("boom")

type failingRepo struct{}

func (failingRepo) Get(context.Context, string) (*model.Submission, error) { return nil, errBoom }
func (failingRepo) Upsert(context.Context, string, *model.Submission) error {
	return errBoom
}
func (failingRepo) Close(context.Context) error { return nil }
