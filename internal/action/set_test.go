package action

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"semaphore/portal/internal/api"
	"semaphore/portal/internal/auth"
	"semaphore/portal/internal/cache"
)

type observed struct {
	resource  string
	operation string
	success   bool
}

func newTestActions(t *testing.T, handler http.HandlerFunc) (*Actions, *api.Services, *[]observed) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	var seen []observed
	svc := api.NewServices(api.New(srv.URL, api.WithCache(cache.NewMemoryStore(), 0)))
	acts := New(svc, WithObserver(func(_ context.Context, resource, operation string, res Result[json.RawMessage]) {
		seen = append(seen, observed{resource, operation, res.Success})
	}))
	return acts, svc, &seen
}

func ctxWithToken() context.Context {
	return auth.WithSession(context.Background(), &auth.Session{AccessToken: "tok"})
}

func TestDeleteDefaultMessage(t *testing.T) {
	acts, _, seen := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/batches/7" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"success":true}`)
	})

	res := acts.Batches.Delete(ctxWithToken(), "7")
	if !res.Success || res.Message != "Batch deleted successfully" {
		t.Fatalf("expected default delete message, got %s", res)
	}
	want := []observed{{"batches", "delete", true}}
	if diff := cmp.Diff(want, *seen, cmp.AllowUnexported(observed{})); diff != "" {
		t.Fatalf("observer mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteWithoutSessionIsNormalised(t *testing.T) {
	var calls int32
	acts, _, _ := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	res := acts.Faqs.Delete(context.Background(), "1")
	if res.Success || res.Code != 500 || res.Message != api.ErrNoSession.Error() {
		t.Fatalf("expected no-session failure, got %s", res)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("expected no backend call, got %d", calls)
	}
}

func TestCreateValidatesBeforeSending(t *testing.T) {
	var calls int32
	acts, _, seen := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	res := acts.Students.Create(ctxWithToken(), api.StudentInput{Email: "not-an-email"})
	if res.Success || res.Code != 422 || res.Message != "Validation failed" {
		t.Fatalf("expected validation failure, got %s", res)
	}
	want := api.FieldErrors{
		"name":  {"The name field is required."},
		"email": {"The email must be a valid email address."},
	}
	if diff := cmp.Diff(want, res.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("expected no backend call, got %d", calls)
	}
	if len(*seen) != 1 || (*seen)[0].success {
		t.Fatalf("expected one failed observation, got %+v", *seen)
	}
}

func TestCreateInvalidatesReads(t *testing.T) {
	var gets int32
	acts, svc, _ := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			atomic.AddInt32(&gets, 1)
			_, _ = io.WriteString(w, `{"success":true,"data":{"data":[],"pagination":{"current_page":1,"last_page":1,"per_page":15,"total":0,"from":null,"to":null,"has_more_pages":false}}}`)
			return
		}
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["name"] != "Alpha" {
			t.Errorf("expected payload name Alpha, got %v", body["name"])
		}
		_, _ = io.WriteString(w, `{"success":true,"message":"Created","data":{"id":3,"name":"Alpha"}}`)
	})
	ctx := ctxWithToken()

	for i := 0; i < 2; i++ {
		if _, err := svc.Divisions.List(ctx, nil); err != nil {
			t.Fatalf("list error: %v", err)
		}
	}
	if atomic.LoadInt32(&gets) != 1 {
		t.Fatalf("expected cached list, got %d gets", gets)
	}

	res := acts.Divisions.Create(ctx, api.DivisionInput{Name: "Alpha"})
	if !res.Success || res.Message != "Created" || res.Data == nil || res.Data.ID != 3 {
		t.Fatalf("unexpected create result %s data=%+v", res, res.Data)
	}

	if _, err := svc.Divisions.List(ctx, nil); err != nil {
		t.Fatalf("list error: %v", err)
	}
	if atomic.LoadInt32(&gets) != 2 {
		t.Fatalf("expected list to be refetched after create, got %d gets", gets)
	}
}

func TestUpdateBackendError(t *testing.T) {
	acts, _, _ := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"success":false,"message":"Chapter not found"}`)
	})

	res := acts.Chapters.Update(ctxWithToken(), "4", api.ChapterInput{CourseID: 1, Title: "Intro"})
	if res.Success || res.Code != 500 || res.Message != "Chapter not found" {
		t.Fatalf("expected downgraded backend error, got %s", res)
	}
}

func TestEndpointDecodesJSON(t *testing.T) {
	acts, _, _ := newTestActions(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":{"id":1,"name":"G"}}`)
	})

	endpoint, ok := acts.Endpoint("groups")
	if !ok {
		t.Fatalf("expected groups endpoint")
	}
	res, ok := endpoint.CreateJSON(ctxWithToken(), []byte(`{"name":"G"}`)).(Result[api.Group])
	if !ok || !res.Success || res.Message != "Group created successfully" {
		t.Fatalf("unexpected result %#v", res)
	}

	res, _ = endpoint.UpdateJSON(ctxWithToken(), "1", []byte(`{`)).(Result[api.Group])
	if res.Success || res.Code != 400 {
		t.Fatalf("expected bad payload, got %s", res)
	}

	if _, ok := acts.Endpoint("users"); ok {
		t.Fatalf("expected no users endpoint")
	}
}

func TestObserverReceivesCallerSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"success":false,"message":"Group is full"}`)
	}))
	defer srv.Close()

	var users []string
	svc := api.NewServices(api.New(srv.URL))
	acts := New(svc, WithObserver(func(ctx context.Context, resource, operation string, res Result[json.RawMessage]) {
		if s := auth.SessionFrom(ctx); s != nil {
			users = append(users, s.UserID)
		}
	}))

	ctx := auth.WithSession(context.Background(), &auth.Session{UserID: "u42", AccessToken: "tok"})
	res := acts.Groups.Delete(ctx, "3")
	if res.Success || res.Message != "Group is full" {
		t.Fatalf("expected backend failure, got %s", res)
	}
	if diff := cmp.Diff([]string{"u42"}, users); diff != "" {
		t.Fatalf("observer session mismatch (-want +got):\n%s", diff)
	}
}
