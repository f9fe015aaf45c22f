package main

import "testing"

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "single entry",
			in:   "users",
			want: []string{"users"},
		},
		{
			name: "multiple entries",
			in:   "users,posts,comments",
			want: []string{"users", "posts", "comments"},
		},
		{
			name: "entries with spaces",
			in:   "users, posts, comments",
			want: []string{"users", "posts", "comments"},
		},
		{
			name: "empty segments dropped",
			in:   "users,,posts,",
			want: []string{"users", "posts"},
		},
		{
			name: "empty string",
			in:   "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitList(tt.in)

			if len(got) != len(tt.want) {
				t.Errorf("splitList() returned %d entries, want %d", len(got), len(tt.want))
				return
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("splitList() entry[%d] = %s, want %s", i, v, tt.want[i])
				}
			}
		})
	}
}

func TestFirstNonEmpty(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{
			name:   "first wins",
			values: []string{"flag", "file"},
			want:   "flag",
		},
		{
			name:   "falls back to second",
			values: []string{"", "file"},
			want:   "file",
		},
		{
			name:   "all empty",
			values: []string{"", ""},
			want:   "",
		},
		{
			name:   "no values",
			values: nil,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstNonEmpty(tt.values...); got != tt.want {
				t.Errorf("firstNonEmpty() = %q, want %q", got, tt.want)
			}
		})
	}
}
