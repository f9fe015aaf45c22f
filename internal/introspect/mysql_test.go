package introspect

import "testing"

func TestParseDatabaseName(t *testing.T) {
	tests := []struct {
		conn    string
		want    string
		wantErr bool
	}{
		{"root:pw@tcp(localhost:3306)/testdb", "testdb", false},
		{"root:pw@tcp(localhost:3306)/testdb?parseTime=true", "testdb", false},
		{"user@unix(/tmp/mysql.sock)/appdb", "appdb", false},
		{"root:pw@tcp(localhost:3306)/", "", true},
		{"no-slash-here", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDatabaseName(tt.conn)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDatabaseName(%q) expected error", tt.conn)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDatabaseName(%q) failed: %v", tt.conn, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDatabaseName(%q) = %q, want %q", tt.conn, got, tt.want)
		}
	}
}
