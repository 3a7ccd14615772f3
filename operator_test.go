package gokeyset

import "testing"

func Test_Operator_Valid_And_ForDirection(t *testing.T) {
	tests := []struct {
		name      string
		in        Operator
		valid     bool
		direction Direction
		panicExp  bool
	}{
		{"GT valid maps to ASC", OperatorGT, true, DirectionASC, false},
		{"LT valid maps to DESC", OperatorLT, true, DirectionDESC, false},
		{"GTE is not a boundary operator", Operator(">="), false, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Valid(); got != tt.valid {
				t.Errorf("%s: Valid=%v want %v", tt.name, got, tt.valid)
			}
			if !tt.panicExp {
				if got := tt.in.ForDirection(); got != tt.direction {
					t.Errorf("%s: ForDirection=%v want %v", tt.name, got, tt.direction)
				}
			}
		})
	}
}
