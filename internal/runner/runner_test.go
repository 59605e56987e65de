package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/sadopc/restman/internal/core/environment"
	"github.com/sadopc/restman/internal/core/history"
	"github.com/sadopc/restman/internal/core/model"
	"github.com/sadopc/restman/internal/persist"
	httpclient "github.com/sadopc/restman/internal/protocol/http"
)

type fakeExecutor struct {
	lastReq *model.Request
	resp    *model.Response
	err     error
}

func (f *fakeExecutor) Execute(_ context.Context, req *model.Request) (*model.Response, error) {
	f.lastReq = req
	return f.resp, f.err
}

func newTestRunner(t *testing.T, exec Executor) (*Runner, *environment.Store, *history.Store) {
	t.Helper()
	port := persist.NewMemStore()
	logger := log.New(io.Discard, "", 0)
	envs := environment.NewStore(port, logger)
	hist := history.NewStore(port, logger)
	return New(envs, hist, exec, logger), envs, hist
}

func TestSendResolvesVariablesButRecordsOriginal(t *testing.T) {
	exec := &fakeExecutor{resp: &model.Response{StatusCode: 200}}
	r, envs, hist := newTestRunner(t, exec)

	envs.Create(&model.Environment{
		Name: "dev",
		Variables: []model.Variable{
			{KVPair: model.KVPair{Key: "host", Value: "api.example.com", Enabled: true}},
		},
	})

	req := model.NewRequest("r", model.MethodGet, "https://{{host}}/users")
	resp, err := r.Send(context.Background(), req)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status = %d", resp.StatusCode)
	}

	if exec.lastReq.URL != "https://api.example.com/users" {
		t.Errorf("executor saw %q, want resolved url", exec.lastReq.URL)
	}

	items, _ := hist.List()
	if len(items) != 1 {
		t.Fatalf("history entries = %d, want 1", len(items))
	}
	if items[0].Request.URL != "https://{{host}}/users" {
		t.Errorf("history url = %q, want the unresolved original", items[0].Request.URL)
	}
	if items[0].Response.StatusCode != 200 {
		t.Errorf("history response status = %d", items[0].Response.StatusCode)
	}
}

func TestSendInvalidRequestIsNotAnError(t *testing.T) {
	buildErr := fmt.Errorf("%w: url is required", httpclient.ErrInvalidRequest)
	exec := &fakeExecutor{err: buildErr}
	r, _, hist := newTestRunner(t, exec)

	req := model.NewRequest("r", model.MethodGet, "")
	resp, err := r.Send(context.Background(), req)
	if err != nil {
		t.Fatalf("invalid request should not surface an error, got %v", err)
	}
	if resp.ErrorMessage == "" {
		t.Error("ErrorMessage empty for failed build")
	}
	if resp.StatusCode != 0 {
		t.Errorf("status = %d", resp.StatusCode)
	}

	items, _ := hist.List()
	if len(items) != 1 {
		t.Fatalf("history entries = %d, want the failed attempt recorded", len(items))
	}
	if items[0].Response.ErrorMessage == "" {
		t.Error("history entry lost the error message")
	}
}

func TestSendTransportFailure(t *testing.T) {
	exec := &fakeExecutor{err: errors.New("dial tcp: connection refused")}
	r, _, hist := newTestRunner(t, exec)

	req := model.NewRequest("r", model.MethodGet, "https://down.example.com")
	resp, err := r.Send(context.Background(), req)
	if err == nil {
		t.Fatal("transport failure should surface an error")
	}
	if resp == nil || resp.ErrorMessage == "" {
		t.Error("response should carry the failure message")
	}

	items, _ := hist.List()
	if len(items) != 1 {
		t.Fatalf("history entries = %d", len(items))
	}
}

func TestSendWithoutEnvironment(t *testing.T) {
	exec := &fakeExecutor{resp: &model.Response{StatusCode: 200}}
	r, _, _ := newTestRunner(t, exec)

	req := model.NewRequest("r", model.MethodGet, "https://{{host}}/users")
	if _, err := r.Send(context.Background(), req); err != nil {
		t.Fatalf("send: %v", err)
	}
	// No environment: placeholders pass through untouched.
	if exec.lastReq.URL != "https://{{host}}/users" {
		t.Errorf("executor saw %q", exec.lastReq.URL)
	}
}

func TestSendSeesExternalEnvironmentSwitch(t *testing.T) {
	exec := &fakeExecutor{resp: &model.Response{StatusCode: 200}}
	port := persist.NewMemStore()
	logger := log.New(io.Discard, "", 0)
	envs := environment.NewStore(port, logger)
	r := New(envs, history.NewStore(port, logger), exec, logger)

	envs.Create(&model.Environment{
		Name: "dev",
		Variables: []model.Variable{
			{KVPair: model.KVPair{Key: "host", Value: "dev.example.com", Enabled: true}},
		},
	})

	req := model.NewRequest("r", model.MethodGet, "https://{{host}}/users")
	r.Send(context.Background(), req)
	if exec.lastReq.URL != "https://dev.example.com/users" {
		t.Fatalf("executor saw %q", exec.lastReq.URL)
	}

	// Another store over the same backing data switches the active
	// environment; the runner's store has a stale cache.
	other := environment.NewStore(port, logger)
	other.Create(&model.Environment{
		Name:     "prod",
		IsActive: true,
		Variables: []model.Variable{
			{KVPair: model.KVPair{Key: "host", Value: "prod.example.com", Enabled: true}},
		},
	})

	r.Send(context.Background(), req)
	if exec.lastReq.URL != "https://prod.example.com/users" {
		t.Errorf("executor saw %q, want the freshly activated environment", exec.lastReq.URL)
	}
}

func TestSendRepeatKeepsSingleHistoryEntry(t *testing.T) {
	exec := &fakeExecutor{resp: &model.Response{StatusCode: 200}}
	r, _, hist := newTestRunner(t, exec)

	req := model.NewRequest("r", model.MethodGet, "https://example.com/users")
	r.Send(context.Background(), req)
	r.Send(context.Background(), req)
	r.Send(context.Background(), req)

	items, _ := hist.List()
	if len(items) != 1 {
		t.Errorf("history entries = %d, want repeats deduplicated", len(items))
	}
}
