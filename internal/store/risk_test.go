package store

import "testing"

func TestRiskMetricSortColumn(t *testing.T) {
	tests := []struct {
		field  string
		want   string
		wantOK bool
	}{
		{"tvl", "tvl ASC NULLS LAST", true},
		{"-tvl", "tvl DESC NULLS LAST", true},
		{"protocol", "protocol ASC NULLS LAST", true},
		{"-volatility_30d", "volatility_30d DESC NULLS LAST", true},
		{"updated_at", "updated_at ASC NULLS LAST", true},
		{"not_a_real_field", "", false},
		{"-not_a_real_field", "", false},
		{"", "", false},
		{"-", "", false},
		{"tvl; DROP TABLE risk_metrics", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := RiskMetricSortColumn(tt.field)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("fragment = %q, want %q", got, tt.want)
			}
		})
	}
}
