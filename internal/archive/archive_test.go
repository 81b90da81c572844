package archive

import "testing"

func TestKey(t *testing.T) {
	tests := []struct {
		docID, filename, want string
	}{
		{"doc-1", "report.md", "doc-1/report.md"},
		{"doc-1", "../../etc/passwd", "doc-1/passwd"},
		{"doc-2", "dir/statement.csv", "doc-2/statement.csv"},
	}
	for _, tc := range tests {
		if got := Key(tc.docID, tc.filename); got != tc.want {
			t.Errorf("Key(%q, %q) = %q, want %q", tc.docID, tc.filename, got, tc.want)
		}
	}
}
