package services

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"rentexpress/internal/config"
)

func TestPassthroughImages(t *testing.T) {
	got, err := PassthroughImages{}.ResolveImage(context.Background(), "cars/rio.jpg")
	if err != nil || got != "cars/rio.jpg" {
		t.Fatalf("ResolveImage = %q, %v", got, err)
	}
}

func TestIsDirectURL(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"https://example.com/a.png", true},
		{"http://example.com/a.png", true},
		{"data:image/png;base64,AAAA", true},
		{"./img/a.png", true},
		{"../img/a.png", true},
		{"cars/a.png", false},
		{"/cars/a.png", false},
	}
	for _, tt := range tests {
		if got := isDirectURL(tt.ref); got != tt.want {
			t.Errorf("isDirectURL(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestS3Images_ResolveImage(t *testing.T) {
	images, err := NewS3Images(context.Background(), config.ImageConfig{
		Bucket:          "fleet",
		Endpoint:        "https://account.r2.example.com",
		Region:          "auto",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
	})
	if err != nil {
		t.Fatalf("NewS3Images: %v", err)
	}

	direct := "https://example.com/car.png"
	got, err := images.ResolveImage(context.Background(), direct)
	if err != nil || got != direct {
		t.Fatalf("direct url changed: %q %v", got, err)
	}

	got, err = images.ResolveImage(context.Background(), "/cars/rio.jpg")
	if err != nil {
		t.Fatalf("ResolveImage: %v", err)
	}
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("presigned url: %v", err)
	}
	if u.Host != "account.r2.example.com" || !strings.HasSuffix(u.Path, "/fleet/cars/rio.jpg") {
		t.Fatalf("unexpected presigned url %s", got)
	}
	if u.Query().Get("X-Amz-Signature") == "" || u.Query().Get("X-Amz-Expires") != "900" {
		t.Fatalf("url not presigned: %s", got)
	}
}

func TestNewS3Images_RequiresBucket(t *testing.T) {
	if _, err := NewS3Images(context.Background(), config.ImageConfig{}); err == nil {
		t.Fatalf("expected error without bucket")
	}
}
