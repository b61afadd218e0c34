package playerjs

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/fsclient/fsclient-go/internal/network"
)

// A packed script whose unpacked form contains a file: stream entry.
const packedPage = `<html><script>eval(function(p,a,c,k,e,d){e=function(c){return c.toString(36)};if(!''.replace(/^/,String)){while(c--){d[c.toString(a)]=k[c]||c.toString(a)}k=[function(e){return d[e]}];e=function(){return'\\w+'};c=1};while(c--){if(k[c]){p=p.replace(new RegExp('\\b'+e(c)+'\\b','g'),k[c])}}return p}('1:"0"',2,2,'https://cdn.example.org/v/720.mp4|file'.split('|'),0,{}))</script></html>`

func TestUnpack(t *testing.T) {
	packed := `(function(p,a,c,k,e,d){e=function(c){return c.toString(36)};if(!''.replace(/^/,String)){while(c--){d[c.toString(a)]=k[c]||c.toString(a)}k=[function(e){return d[e]}];e=function(){return'\\w+'};c=1};while(c--){if(k[c]){p=p.replace(new RegExp('\\b'+e(c)+'\\b','g'),k[c])}}return p}('1:"0"',2,2,'https://cdn.example.org/v/720.mp4|file'.split('|'),0,{}))`
	out, err := Unpack(packed)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "https://cdn.example.org/v/720.mp4") {
		t.Fatalf("unpacked source missing stream URL: %q", out)
	}
}

func TestExtractStreams_Plain(t *testing.T) {
	page := `var player = {file:"https://cdn.example.org/streams/1080.m3u8"};`
	frame, _ := url.Parse("https://video.example.org/frame/1")

	videos := ExtractStreams(page, frame)
	if len(videos) != 1 {
		t.Fatalf("expected 1 stream, got %d", len(videos))
	}
	if videos[0].Quality != "1080p" {
		t.Errorf("quality = %q, want 1080p", videos[0].Quality)
	}
	if videos[0].Headers["Referer"] != frame.String() {
		t.Errorf("missing Referer header")
	}
}

func TestExtractStreams_PackedAndDeduped(t *testing.T) {
	videos := ExtractStreams(packedPage, nil)
	if len(videos) != 1 {
		t.Fatalf("expected 1 stream from the packed block, got %d", len(videos))
	}
	if videos[0].URL != "https://cdn.example.org/v/720.mp4" {
		t.Errorf("URL = %q", videos[0].URL)
	}

	// The same URL in plain and packed form must not duplicate.
	combined := packedPage + `<script>var s = {src:"https://cdn.example.org/v/720.mp4"};</script>`
	videos = ExtractStreams(combined, nil)
	if len(videos) != 1 {
		t.Fatalf("expected deduplicated streams, got %d", len(videos))
	}
}

func TestResolver_CanOpen(t *testing.T) {
	r := NewResolver(nil, "video.example.org", "www.other.example")
	if !r.CanOpen("video.example.org") {
		t.Error("expected allowed host to open")
	}
	if !r.CanOpen("WWW.Video.Example.Org") {
		t.Error("host matching must ignore case and www prefix")
	}
	if !r.CanOpen("other.example") {
		t.Error("allow-set entries with www must match the bare host")
	}
	if r.CanOpen("evil.example.org") {
		t.Error("unknown host must not open")
	}
}

func TestResolver_Resolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"file":"https://cdn.example.org/ep1/480.mp4"}`))
	}))
	defer server.Close()

	frame, _ := url.Parse(server.URL + "/frame/9")
	client := network.New(5 * time.Second)
	r := NewResolver(client, frame.Hostname())

	videos, err := r.Resolve(t.Context(), frame)
	if err != nil {
		t.Fatal(err)
	}
	if len(videos) != 1 || videos[0].URL != "https://cdn.example.org/ep1/480.mp4" {
		t.Fatalf("unexpected videos: %v", videos)
	}
}

func TestResolver_ResolveUnknownHost(t *testing.T) {
	r := NewResolver(network.New(time.Second), "allowed.example")
	frame, _ := url.Parse("https://stranger.example/frame")

	videos, err := r.Resolve(t.Context(), frame)
	if err != nil || videos != nil {
		t.Fatalf("an unopenable frame must resolve to nothing, got %v, %v", videos, err)
	}
}
