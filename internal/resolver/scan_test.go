package resolver

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestFindTag(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		tag       string
		wantAttrs string
		wantInner string
		wantNil   bool
	}{
		{
			name:      "simple tag",
			text:      `before <PlatformWrapper allowed="[ios]">body</PlatformWrapper> after`,
			tag:       "PlatformWrapper",
			wantAttrs: `allowed="[ios]"`,
			wantInner: "body",
		},
		{
			name:      "nested same-name tags resolve to outer close",
			text:      "<W a=\"1\">x<W a=\"2\">y</W>z</W>tail",
			tag:       "W",
			wantAttrs: `a="1"`,
			wantInner: "x<W a=\"2\">y</W>z",
		},
		{
			name:      "self-closing occurrences do not affect depth",
			text:      `<W>one <W k="v" /> two</W>`,
			tag:       "W",
			wantAttrs: "",
			wantInner: `one <W k="v" /> two`,
		},
		{
			name:      "different tag nested inside",
			text:      `<ProductWrapper allowed="[voice]"><PlatformWrapper allowed="[ios]">x</PlatformWrapper></ProductWrapper>`,
			tag:       "ProductWrapper",
			wantAttrs: `allowed="[voice]"`,
			wantInner: `<PlatformWrapper allowed="[ios]">x</PlatformWrapper>`,
		},
		{
			name:    "no opening tag",
			text:    "plain markdown text",
			tag:     "W",
			wantNil: true,
		},
		{
			name:    "longer tag name is not a match",
			text:    "<Wide>body</Wide>",
			tag:     "W",
			wantNil: true,
		},
		{
			name:    "orphaned close ignored",
			text:    "</W> and nothing else",
			tag:     "W",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			span, err := FindTag(tt.text, tt.tag)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantNil {
				if span != nil {
					t.Fatalf("expected no span, got %+v", span)
				}
				return
			}
			if span == nil {
				t.Fatal("expected a span, got nil")
			}
			if span.Attrs != tt.wantAttrs {
				t.Errorf("attrs = %q, want %q", span.Attrs, tt.wantAttrs)
			}
			if span.Inner != tt.wantInner {
				t.Errorf("inner = %q, want %q", span.Inner, tt.wantInner)
			}
			if got := tt.text[span.Start:span.End]; !strings.HasPrefix(got, "<"+tt.tag) || !strings.HasSuffix(got, ">") {
				t.Errorf("span offsets select %q", got)
			}
		})
	}
}

func TestFindTagUnterminated(t *testing.T) {
	_, err := FindTag("<W a=\"1\">never closed", "W")
	var tagErr *MalformedTagError
	if !errors.As(err, &tagErr) {
		t.Fatalf("expected MalformedTagError, got %v", err)
	}
	if tagErr.Tag != "W" {
		t.Errorf("tag = %q, want W", tagErr.Tag)
	}
}

func TestParseAttrs(t *testing.T) {
	tests := []struct {
		raw  string
		want map[string]string
	}{
		{`allowed="[ios, android]"`, map[string]string{"allowed": "[ios, android]"}},
		{`k='KEY' extra="v"`, map[string]string{"k": "KEY", "extra": "v"}},
		{`allowed={["web", "ios"]}`, map[string]string{"allowed": `["web", "ios"]`}},
		{`notAllowed = "flutter"`, map[string]string{"notAllowed": "flutter"}},
	}
	for _, tt := range tests {
		if got := ParseAttrs(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseAttrs(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		value string
		want  []string
	}{
		{`[ios, android]`, []string{"ios", "android"}},
		{`["ios", 'android']`, []string{"ios", "android"}},
		{`{[ "web" ]}`, []string{"web"}},
		{`flutter`, []string{"flutter"}},
		{`  ios ,  android `, []string{"ios", "android"}},
		{``, nil},
	}
	for _, tt := range tests {
		if got := ParseList(tt.value); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseList(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
