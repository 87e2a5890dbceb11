package mastodon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempMedia(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cat.png")
	if err := os.WriteFile(path, []byte("not-really-a-png"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUpload_ImmediatelyReady(t *testing.T) {
	var gotPath, gotContentType string
	var gotFilename string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		if _, header, err := r.FormFile("file"); err == nil {
			gotFilename = header.Filename
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id": "m9"}`))
	}))
	t.Cleanup(srv.Close)

	svc := NewMediaService(NewClient(srv.URL, staticToken{}))
	id, ready, err := svc.Upload(context.Background(), writeTempMedia(t))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if id != "m9" || !ready {
		t.Fatalf("got id=%q ready=%v, want m9/true", id, ready)
	}
	if gotPath != "/api/v2/media" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if !strings.HasPrefix(gotContentType, "multipart/form-data") {
		t.Fatalf("unexpected content type %q", gotContentType)
	}
	if gotFilename != "cat.png" {
		t.Fatalf("unexpected filename %q", gotFilename)
	}
}

func TestUpload_AcceptedMeansStillProcessing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"id": "m10"}`))
	}))
	t.Cleanup(srv.Close)

	svc := NewMediaService(NewClient(srv.URL, staticToken{}))
	id, ready, err := svc.Upload(context.Background(), writeTempMedia(t))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if id != "m10" || ready {
		t.Fatalf("got id=%q ready=%v, want m10/false", id, ready)
	}
}

func TestReady_TracksProcessingStatusCodes(t *testing.T) {
	code := http.StatusPartialContent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
		w.Write([]byte(`{"id": "m10", "url": "https://files/m10.png"}`))
	}))
	t.Cleanup(srv.Close)

	svc := NewMediaService(NewClient(srv.URL, staticToken{}))

	ready, err := svc.Ready(context.Background(), "m10")
	if err != nil || ready {
		t.Fatalf("206 should mean not ready, got ready=%v err=%v", ready, err)
	}

	code = http.StatusOK
	ready, err = svc.Ready(context.Background(), "m10")
	if err != nil || !ready {
		t.Fatalf("200 should mean ready, got ready=%v err=%v", ready, err)
	}
}

func TestUpload_MissingFileFailsBeforeNetwork(t *testing.T) {
	svc := NewMediaService(NewClient("http://unused.invalid", staticToken{}))
	if _, _, err := svc.Upload(context.Background(), "/nope/missing.png"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
