package database

import "testing"

func TestNewRecord(t *testing.T) {
	record, err := NewRecord("https://bucket.s3.eu-central-1.amazonaws.com/a.png", "a.png", "2024-01-01T00:00:00.000000Z")
	if err != nil {
		t.Fatalf("NewRecord error: %v", err)
	}
	if record.ID == "" {
		t.Fatal("expected generated id")
	}
	if record.ID == record.ObjectKey {
		t.Fatal("expected record id to differ from object key")
	}
}

func TestRecord_Key(t *testing.T) {
	tests := []struct {
		name     string
		record   Record
		expected string
	}{
		{"Stored key wins", Record{ObjectKey: "k.png", ImageURL: "https://b.s3.r.amazonaws.com/other.png"}, "k.png"},
		{"Derived from S3 URL", Record{ImageURL: "https://b.s3.r.amazonaws.com/abc.jpg"}, "abc.jpg"},
		{"Derived from path style URL", Record{ImageURL: "http://localhost:9000/bucket/def.png"}, "def.png"},
		{"Derived from file URL", Record{ImageURL: "file:///var/data/ghi"}, "ghi"},
		{"Nothing stored", Record{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.Key(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
