package logfields

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

// TestHelperKeyNames verifies string helper keys stay stable.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, "b1", BuildID("b1")},
		{"Stage", KeyStage, "classify", Stage("classify")},
		{"Path", KeyPath, "posts/a.md", Path("posts/a.md")},
		{"Slug", KeySlug, "hello", Slug("hello")},
		{"Link", KeyLink, "posts/hello/", Link("posts/hello/")},
		{"Kind", KeyKind, "post", Kind("post")},
		{"Reason", KeyReason, "content_changed", Reason("content_changed")},
		{"Template", KeyTemplate, "post.html", Template("post.html")},
		{"Tag", KeyTag, "go", Tag("go")},
		{"Dependency", KeyDependency, "static/style.css", Dependency("static/style.css")},
		{"Output", KeyOutput, "_site", Output("_site")},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if v := Count(3); v.Key != KeyCount || v.Value.Int64() != 3 {
		t.Fatalf("Count mismatch: %v", v)
	}
	if v := DurationMS(12.5); v.Key != KeyDurationMS {
		t.Fatalf("DurationMS key mismatch: %s", v.Key)
	}
	if v := Elapsed(time.Now().Add(-time.Second)); v.Value.Float64() < 1000 {
		t.Fatalf("Elapsed should be at least 1000ms, got %v", v.Value)
	}
}

func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	if attr.Key != KeyError || attr.Value.String() != "" {
		t.Fatalf("unexpected nil error attr: %v", attr)
	}
	attr = Error(errors.New("err-test"))
	if attr.Value.String() != "err-test" {
		t.Fatalf("expected 'err-test', got %s", attr.Value.String())
	}
}
