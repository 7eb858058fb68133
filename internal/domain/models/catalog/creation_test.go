package catalog

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestCreationJSONVariants(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantOrigin Origin
		wantType   CreationType
	}{
		{
			name:       "manual record",
			input:      `{"id":"c1","title":"Mountain Landscape","type":"Image","dateCreated":"2023-04-15","folderId":"f4","tags":["nature"]}`,
			wantOrigin: ManualOrigin{},
			wantType:   TypeImage,
		},
		{
			name:  "imported record",
			input: `{"id":"yt-abc","title":"Launch","type":"video","source":"YouTube","sourceUrl":"https://youtu.be/abc","thumbnailUrl":"https://i.ytimg.com/abc.jpg"}`,
			wantOrigin: ImportedOrigin{
				Source:       "YouTube",
				SourceURL:    "https://youtu.be/abc",
				ThumbnailURL: "https://i.ytimg.com/abc.jpg",
			},
			wantType: TypeVideo,
		},
		{
			name:       "unknown type kept verbatim",
			input:      `{"id":"c9","title":"Bust","type":"Sculpture"}`,
			wantOrigin: ManualOrigin{},
			wantType:   CreationType("Sculpture"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Creation
			if err := json.Unmarshal([]byte(tt.input), &c); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !reflect.DeepEqual(c.Origin, tt.wantOrigin) {
				t.Errorf("Origin = %#v, want %#v", c.Origin, tt.wantOrigin)
			}
			if c.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", c.Type, tt.wantType)
			}
			if c.Tags == nil {
				t.Error("Tags decoded as nil")
			}

			out, err := json.Marshal(c)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var back Creation
			if err := json.Unmarshal(out, &back); err != nil {
				t.Fatalf("Unmarshal round trip: %v", err)
			}
			if !reflect.DeepEqual(back, c) {
				t.Errorf("round trip = %#v, want %#v", back, c)
			}
		})
	}
}

func TestManualCreationOmitsImportFields(t *testing.T) {
	out, err := json.Marshal(Creation{ID: "c1", Title: "Poem", Type: TypeText, Origin: ManualOrigin{}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(out)
	for _, field := range []string{"source", "sourceUrl", "thumbnailUrl"} {
		if strings.Contains(s, `"`+field+`"`) {
			t.Errorf("manual creation JSON contains %q: %s", field, s)
		}
	}
	if !strings.Contains(s, `"tags":[]`) {
		t.Errorf("nil tags not encoded as []: %s", s)
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" nature ", "", "Nature", "nature", "  "})
	want := []string{"nature", "Nature"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeTags = %v, want %v", got, want)
	}
}

func TestParseTab(t *testing.T) {
	tests := []struct {
		in     string
		want   Tab
		wantOK bool
	}{
		{"", TabAll, true},
		{"MUSIC", TabMusic, true},
		{"software", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseTab(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseTab(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
	if !TabImage.Matches(TypeImage) || TabImage.Matches(TypeText) || !TabAll.Matches(TypeOther) {
		t.Error("Tab.Matches mismatch")
	}
}
