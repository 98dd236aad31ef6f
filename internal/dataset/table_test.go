package dataset

import (
	"testing"
	"time"
)

func TestTable_MissingColumns(t *testing.T) {
	tbl := New("campaign_name", "channel", "cost")

	missing := tbl.MissingColumns([]string{"campaign_name", "revenue", "date"})
	if len(missing) != 2 || missing[0] != "revenue" || missing[1] != "date" {
		t.Errorf("MissingColumns() = %v, want [revenue date]", missing)
	}

	if got := tbl.MissingColumns([]string{"cost"}); len(got) != 0 {
		t.Errorf("MissingColumns() = %v, want none", got)
	}
}

func TestTable_Clone(t *testing.T) {
	tbl := New("name", "cost")
	tbl.Append(Row{"name": "A", "cost": 10.0})

	clone := tbl.Clone()
	clone.Rows[0]["cost"] = 99.0
	clone.Append(Row{"name": "B", "cost": 20.0})

	if tbl.Len() != 1 {
		t.Errorf("original table length changed to %d", tbl.Len())
	}
	if tbl.Rows[0]["cost"] != 10.0 {
		t.Errorf("original row mutated: cost = %v", tbl.Rows[0]["cost"])
	}
}

func TestMissing(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want bool
	}{
		{name: "nil", v: nil, want: true},
		{name: "empty string", v: "", want: true},
		{name: "whitespace string", v: "   ", want: true},
		{name: "empty bytes", v: []byte(""), want: true},
		{name: "zero number", v: 0.0, want: false},
		{name: "text", v: "Email", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Missing(tt.v); got != tt.want {
				t.Errorf("Missing(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestFloat(t *testing.T) {
	tests := []struct {
		name    string
		v       any
		want    float64
		wantErr bool
	}{
		{name: "float64", v: 12.5, want: 12.5},
		{name: "int64", v: int64(7), want: 7},
		{name: "decimal bytes", v: []byte("1500.25"), want: 1500.25},
		{name: "string", v: " 99.9 ", want: 99.9},
		{name: "negative string", v: "-3.5", want: -3.5},
		{name: "text", v: "abc", wantErr: true},
		{name: "nil", v: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Float(tt.v)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Float(%v) = %v, want error", tt.v, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Float(%v) error: %v", tt.v, err)
			}
			if got != tt.want {
				t.Errorf("Float(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		name    string
		v       any
		want    int64
		wantErr bool
	}{
		{name: "int64", v: int64(42), want: 42},
		{name: "integral float", v: 42.0, want: 42},
		{name: "fractional float", v: 42.5, wantErr: true},
		{name: "integer bytes", v: []byte("1000"), want: 1000},
		{name: "integral float string", v: "1000.0", want: 1000},
		{name: "fractional string", v: "10.5", wantErr: true},
		{name: "text", v: "many", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Int(tt.v)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Int(%v) = %v, want error", tt.v, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Int(%v) error: %v", tt.v, err)
			}
			if got != tt.want {
				t.Errorf("Int(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestDate(t *testing.T) {
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		v       any
		want    time.Time
		wantErr bool
	}{
		{name: "time value", v: want, want: want},
		{name: "date string", v: "2024-01-15", want: want},
		{name: "date bytes", v: []byte("2024-01-15"), want: want},
		{name: "datetime string", v: "2024-01-15 00:00:00", want: want},
		{name: "garbage", v: "yesterday", wantErr: true},
		{name: "number", v: int64(20240115), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Date(tt.v)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Date(%v) = %v, want error", tt.v, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Date(%v) error: %v", tt.v, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Date(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}
