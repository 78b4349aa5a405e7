package gateway

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/func/flexconf/resource"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"
)

// fakeGateway serves a login and the given handlers for authenticated
// requests.
func fakeGateway(t *testing.T, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "secret" {
			respond(t, w, map[string]interface{}{"message": "Unauthorized", "httpStatusCode": 401}, http.StatusUnauthorized)
			return
		}
		respond(t, w, "token123", http.StatusOK)
	})
	for pattern, h := range routes {
		h := h
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			if _, pass, _ := r.BasicAuth(); pass != "token123" {
				t.Errorf("Request %s %s without token", r.Method, r.URL.Path)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			h(w, r)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func respond(t *testing.T, w http.ResponseWriter, v interface{}, status int) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

func newClient(t *testing.T, srv *httptest.Server) *Client {
	return &Client{
		Endpoint: srv.URL,
		Username: "admin",
		Password: "secret",
		Logger:   zaptest.NewLogger(t),
	}
}

func TestClient_List(t *testing.T) {
	srv := fakeGateway(t, map[string]http.HandlerFunc{
		"/api/types/FaultSet/instances": func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				t.Errorf("Method = %s, want GET", r.Method)
			}
			respond(t, w, []map[string]interface{}{
				{"id": "fs1", "name": "a", "protectionDomainId": "pd1"},
				{"id": "fs2", "name": "b", "protectionDomainId": "pd1"},
			}, http.StatusOK)
		},
	})
	cli := newClient(t, srv)

	got, err := cli.List(context.Background(), "FaultSet")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []resource.Snapshot{
		{"id": "fs1", "name": "a", "protectionDomainId": "pd1"},
		{"id": "fs2", "name": "b", "protectionDomainId": "pd1"},
	}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("List() (-got, +want)\n%s", diff)
	}
}

func TestClient_Get(t *testing.T) {
	srv := fakeGateway(t, map[string]http.HandlerFunc{
		"/api/instances/Sdc::s1": func(w http.ResponseWriter, r *http.Request) {
			respond(t, w, map[string]interface{}{"id": "s1", "name": "host", "perfProfile": "HighPerformance"}, http.StatusOK)
		},
		"/api/instances/Sdc::gone": func(w http.ResponseWriter, r *http.Request) {
			respond(t, w, map[string]interface{}{"message": "Could not find the SDC", "httpStatusCode": 500, "errorCode": 3}, http.StatusInternalServerError)
		},
		"/api/instances/Sdc::missing": func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		},
		"/api/instances/Sdc::broken": func(w http.ResponseWriter, r *http.Request) {
			respond(t, w, map[string]interface{}{"message": "Internal error", "httpStatusCode": 500}, http.StatusInternalServerError)
		},
	})
	cli := newClient(t, srv)
	ctx := context.Background()

	snap, ok, err := cli.Get(ctx, "Sdc", "s1")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if diff := cmp.Diff(snap, resource.Snapshot{"id": "s1", "name": "host", "perfProfile": "HighPerformance"}); diff != "" {
		t.Errorf("Get() (-got, +want)\n%s", diff)
	}

	for _, id := range []string{"gone", "missing"} {
		_, ok, err = cli.Get(ctx, "Sdc", id)
		if err != nil || ok {
			t.Errorf("Get(%s) = %v, %v; want not found", id, ok, err)
		}
	}

	_, _, err = cli.Get(ctx, "Sdc", "broken")
	gerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("Get() error = %v, want *Error", err)
	}
	if diff := cmp.Diff(gerr, &Error{StatusCode: 500, Message: "Internal error"}); diff != "" {
		t.Errorf("Error (-got, +want)\n%s", diff)
	}
}

func TestClient_Create(t *testing.T) {
	srv := fakeGateway(t, map[string]http.HandlerFunc{
		"/api/types/FaultSet/instances": func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("Method = %s, want POST", r.Method)
			}
			var body map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			want := map[string]interface{}{"name": "fs-A", "protectionDomainId": "pd1"}
			if diff := cmp.Diff(body, want); diff != "" {
				t.Errorf("Body (-got, +want)\n%s", diff)
			}
			respond(t, w, map[string]string{"id": "fs9"}, http.StatusOK)
		},
	})
	cli := newClient(t, srv)

	id, err := cli.Create(context.Background(), "FaultSet", map[string]interface{}{"name": "fs-A", "protectionDomainId": "pd1"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id != "fs9" {
		t.Errorf("id = %q, want fs9", id)
	}
}

func TestClient_Action(t *testing.T) {
	var gotBody string
	srv := fakeGateway(t, map[string]http.HandlerFunc{
		"/api/instances/Sdc::s1/action/removeSdc": func(w http.ResponseWriter, r *http.Request) {
			b, _ := ioutil.ReadAll(r.Body)
			gotBody = string(b)
			w.WriteHeader(http.StatusOK)
		},
		"/api/instances/Sdc::s1/action/setSdcName": func(w http.ResponseWriter, r *http.Request) {
			respond(t, w, map[string]interface{}{"message": "name already in use", "httpStatusCode": 409, "errorCode": 7}, http.StatusConflict)
		},
	})
	cli := newClient(t, srv)
	ctx := context.Background()

	if err := cli.Action(ctx, "Sdc", "s1", "removeSdc", nil); err != nil {
		t.Fatalf("Action() error = %v", err)
	}
	if gotBody != "{}\n" {
		t.Errorf("Body = %q, want empty object", gotBody)
	}

	err := cli.Action(ctx, "Sdc", "s1", "setSdcName", map[string]interface{}{"sdcName": "x"})
	if err == nil {
		t.Fatal("Action() want error")
	}
	if got, want := err.Error(), "name already in use (409)"; got != want {
		t.Errorf("Error = %q, want %q", got, want)
	}
}

func TestClient_Version(t *testing.T) {
	srv := fakeGateway(t, map[string]http.HandlerFunc{
		"/api/version": func(w http.ResponseWriter, r *http.Request) {
			respond(t, w, "3.6", http.StatusOK)
		},
	})
	cli := newClient(t, srv)

	v, err := cli.Version(context.Background())
	if err != nil {
		t.Fatalf("Version() error = %v", err)
	}
	if v != "3.6" {
		t.Errorf("Version() = %q, want 3.6", v)
	}
}

func TestClient_Login(t *testing.T) {
	logins := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		logins++
		respond(t, w, "token123", http.StatusOK)
	})
	mux.HandleFunc("/api/version", func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, "4.0", http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cli := newClient(t, srv)
	for i := 0; i < 3; i++ {
		if _, err := cli.Version(context.Background()); err != nil {
			t.Fatalf("Version() error = %v", err)
		}
	}
	if logins != 1 {
		t.Errorf("Logged in %d times, want 1", logins)
	}
}

func TestClient_Login_denied(t *testing.T) {
	srv := fakeGateway(t, nil)
	cli := newClient(t, srv)
	cli.Password = "wrong"

	_, err := cli.List(context.Background(), "Sdc")
	if err == nil {
		t.Fatal("List() want error")
	}
	if IsNotFound(err) {
		t.Error("Login failure reported as not found")
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Nil", nil, false},
		{"404", &Error{StatusCode: 404}, true},
		{"500NotFound", &Error{StatusCode: 500, Message: "Could not find the volume"}, true},
		{"500Other", &Error{StatusCode: 500, Message: "Internal error"}, false},
		{"400", &Error{StatusCode: 400, Message: "not found"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound() = %t, want %t", got, tt.want)
			}
		})
	}
}
