package vo

import "testing"

func TestNewFileSize(t *testing.T) {
	if _, err := NewFileSize(-1); err != ErrNegativeSize {
		t.Errorf("NewFileSize(-1) error = %v, want %v", err, ErrNegativeSize)
	}

	fs, err := NewFileSize(0)
	if err != nil {
		t.Fatalf("NewFileSize(0) unexpected error: %v", err)
	}
	if !fs.IsZero() {
		t.Error("IsZero() = false for zero size")
	}
}

func TestFileSize_String(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0.00 MB"},
		{MB, "1.00 MB"},
		{2 * MB, "2.00 MB"},
		{MB + MB/2, "1.50 MB"},
		{3 * GB, "3.00 GB"},
	}

	for _, tt := range tests {
		fs, _ := NewFileSize(tt.bytes)
		if got := fs.String(); got != tt.want {
			t.Errorf("FileSize(%d).String() = %q, want %q", tt.bytes, got, tt.want)
		}
		if fs.Bytes() != tt.bytes {
			t.Errorf("Bytes() = %d, want %d", fs.Bytes(), tt.bytes)
		}
	}
}
