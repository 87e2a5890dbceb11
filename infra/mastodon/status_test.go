package mastodon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/bcgodev/tootdeck/app"
	"github.com/bcgodev/tootdeck/domain"
)

type staticToken struct{}

func (staticToken) AccessToken() (string, error) { return "test-token", nil }

func recordingServer(t *testing.T, status int, body string) (*httptest.Server, *http.Request, *url.Values) {
	t.Helper()
	var captured http.Request
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing form: %v", err)
		}
		form = r.PostForm
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &captured, &form
}

const statusJSON = `{
	"id": "42",
	"content": "<p>hello <span>world</span></p>",
	"visibility": "unlisted",
	"created_at": "2023-05-01T10:00:00Z",
	"account": {"id": "me", "acct": "self", "display_name": "Me"}
}`

func TestCreate_EncodesFullPayload(t *testing.T) {
	srv, req, form := recordingServer(t, 200, statusJSON)
	svc := NewStatusService(NewClient(srv.URL, staticToken{}), "me")

	_, err := svc.Create(context.Background(), app.StatusRequest{
		Text:        "hello :blobcat:",
		SpoilerText: "cw",
		Visibility:  domain.VisibilityUnlisted,
		Sensitive:   true,
		InReplyToID: "7",
		MediaIDs:    []string{"m1", "m2"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if req.Method != http.MethodPost || req.URL.Path != "/api/v1/statuses" {
		t.Fatalf("unexpected request: %s %s", req.Method, req.URL.Path)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer test-token" {
		t.Fatalf("missing bearer token: %q", got)
	}

	if form.Get("status") != "hello :blobcat:" {
		t.Fatalf("status text not encoded: %q", form.Get("status"))
	}
	if form.Get("spoiler_text") != "cw" || form.Get("visibility") != "unlisted" {
		t.Fatalf("unexpected form: %v", *form)
	}
	if form.Get("sensitive") != "true" || form.Get("in_reply_to_id") != "7" {
		t.Fatalf("unexpected form: %v", *form)
	}
	if ids := (*form)["media_ids[]"]; len(ids) != 2 || ids[0] != "m1" || ids[1] != "m2" {
		t.Fatalf("media ids not encoded: %v", ids)
	}
}

func TestCreate_EncodesPoll(t *testing.T) {
	srv, _, form := recordingServer(t, 200, statusJSON)
	svc := NewStatusService(NewClient(srv.URL, staticToken{}), "me")

	_, err := svc.Create(context.Background(), app.StatusRequest{
		Text:       "vote",
		Visibility: domain.VisibilityPublic,
		Poll: &app.PollRequest{
			Options:   []string{"tea", "coffee"},
			ExpiresIn: 86400,
			Multiple:  true,
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if opts := (*form)["poll[options][]"]; len(opts) != 2 || opts[0] != "tea" {
		t.Fatalf("poll options not encoded: %v", opts)
	}
	if form.Get("poll[expires_in]") != "86400" || form.Get("poll[multiple]") != "true" {
		t.Fatalf("poll flags not encoded: %v", *form)
	}
}

func TestUpdate_UsesPutOnStatusPath(t *testing.T) {
	srv, req, form := recordingServer(t, 200, statusJSON)
	svc := NewStatusService(NewClient(srv.URL, staticToken{}), "me")

	got, err := svc.Update(context.Background(), "42", app.StatusRequest{
		Text:       "edited",
		Visibility: domain.VisibilityPublic,
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if req.Method != http.MethodPut || req.URL.Path != "/api/v1/statuses/42" {
		t.Fatalf("unexpected request: %s %s", req.Method, req.URL.Path)
	}
	if form.Get("in_reply_to_id") != "" {
		t.Fatalf("update must not carry in_reply_to_id")
	}
	if got.ID != "42" || !got.IsOwn || got.Visibility != domain.VisibilityUnlisted {
		t.Fatalf("unexpected mapped status: %#v", got)
	}
}

func TestCreate_SurfacesAPIError(t *testing.T) {
	srv, _, _ := recordingServer(t, 422, `{"error":"Validation failed"}`)
	svc := NewStatusService(NewClient(srv.URL, staticToken{}), "me")

	_, err := svc.Create(context.Background(), app.StatusRequest{
		Text:       "x",
		Visibility: domain.VisibilityPublic,
	})
	if err == nil {
		t.Fatalf("expected error for 422 response")
	}
}
