package fetch

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestResolveDriveLink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		expect  string
		wantErr error
	}{
		{
			name:   "file view link",
			input:  "https://drive.google.com/file/d/1AbC_d-9/view?usp=sharing",
			expect: "https://drive.google.com/uc?export=download&id=1AbC_d-9",
		},
		{
			name:   "open id link",
			input:  "https://drive.google.com/open?id=XyZ_123",
			expect: "https://drive.google.com/uc?export=download&id=XyZ_123",
		},
		{
			name:    "folder link without id",
			input:   "https://drive.google.com/drive/folders",
			wantErr: ErrUnresolvableReference,
		},
		{
			name:   "other host untouched",
			input:  "https://example.com/file/d/abc",
			expect: "https://example.com/file/d/abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ResolveDriveLink(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestFetchURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Errorf("expected user agent header")
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 body"))
	}))
	defer server.Close()

	client := New(zap.NewNop(), Options{})
	doc, err := client.Fetch(context.Background(), server.URL+"/download")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(doc.Data) != "%PDF-1.4 body" {
		t.Fatalf("unexpected body: %q", doc.Data)
	}

	if doc.DeclaredExt != ".pdf" {
		t.Fatalf("expected declared extension from content type, got %q", doc.DeclaredExt)
	}

	if doc.DeclaredMediaType != "application/pdf" {
		t.Fatalf("unexpected media type: %q", doc.DeclaredMediaType)
	}
}

func TestFetchURLGzip(t *testing.T) {
	var compressed bytes.Buffer
	zw := gzip.NewWriter(&compressed)
	_, _ = zw.Write([]byte("plain resume text"))
	_ = zw.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write(compressed.Bytes())
	}))
	defer server.Close()

	doc, err := New(nil, Options{}).Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(doc.Data) != "plain resume text" {
		t.Fatalf("unexpected body: %q", doc.Data)
	}
}

func TestFetchURLFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/slow":
			time.Sleep(200 * time.Millisecond)
		case "/large":
			_, _ = w.Write(bytes.Repeat([]byte("a"), 64))
		}
	}))
	defer server.Close()

	client := New(zap.NewNop(), Options{Timeout: 50 * time.Millisecond, MaxBytes: 32})

	for _, path := range []string{"/missing", "/slow", "/large"} {
		_, err := client.Fetch(context.Background(), server.URL+path)
		if !errors.Is(err, ErrFetchFailure) {
			t.Fatalf("%s: expected fetch failure, got %v", path, err)
		}
	}
}

func TestFetchRejectsOtherSchemes(t *testing.T) {
	_, err := New(nil, Options{}).Fetch(context.Background(), "ftp://example.com/cv.pdf")
	if !errors.Is(err, ErrFetchFailure) {
		t.Fatalf("expected fetch failure, got %v", err)
	}

	_, err = New(nil, Options{}).Fetch(context.Background(), "https://drive.google.com/drive/my-drive")
	if !errors.Is(err, ErrUnresolvableReference) {
		t.Fatalf("expected unresolvable reference, got %v", err)
	}
}

func TestFetchLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Resume.TXT")
	if err := os.WriteFile(path, []byte("Name: Jane"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := New(nil, Options{}).Fetch(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if string(doc.Data) != "Name: Jane" {
		t.Fatalf("unexpected data: %q", doc.Data)
	}

	if doc.DeclaredExt != ".txt" {
		t.Fatalf("expected .txt, got %q", doc.DeclaredExt)
	}

	if _, err := New(nil, Options{}).Fetch(context.Background(), filepath.Join(dir, "absent.pdf")); !errors.Is(err, ErrFetchFailure) {
		t.Fatalf("expected fetch failure for missing file, got %v", err)
	}
}
